// Package client is the authenticated HTTP core of the cargodesk client.
//
// # Overview
//
// Every backend call goes through Client.Do. It:
//  1. Attaches "Authorization: Bearer <access token>" when the session
//     holds a token.
//  2. Defaults Content-Type to application/json, or to multipart/form-data
//     with its boundary for form requests. A Content-Type the caller set
//     explicitly is left alone.
//  3. Tags the request with an X-Request-ID that stays the same across a
//     replay.
//  4. On 401 asks the Refresher for a new access token once and replays
//     the request with it. A second 401 is returned to the caller as is.
//
// # Error Handling
//
// Non-2xx responses come back as *StatusError, which matches
// ErrUnauthorized (401, 403), ErrValidation (400) and ErrNotFound (404)
// with errors.Is. Transport failures wrap ErrUnavailable.
//
// # Concurrency
//
// A Client is safe for concurrent use. Concurrent 401s each run their own
// refresh unless WithSingleFlightRefresh is given.
package client
