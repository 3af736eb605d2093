// Package common contains wire-level constants shared by the HTTP client
// and the services built on it.
package common

const (
	// AuthorizationHeaderName carries the bearer access token.
	AuthorizationHeaderName = "Authorization"
	BearerPrefix            = "Bearer "

	// RequestIDHeaderName tags one logical request, replays included.
	RequestIDHeaderName = "X-Request-ID"

	ContentTypeHeaderName = "Content-Type"
	ContentTypeJSON       = "application/json"
)

// Keys of the durable session store.
const (
	AccessTokenKey          = "accessToken"
	RefreshTokenKey         = "refreshToken"
	CurrentApplicationIDKey = "currentApplicationId"
)
