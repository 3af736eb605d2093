package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/cargodesk/internal/client/client"
	"github.com/dmitrijs2005/cargodesk/internal/client/session"
	"github.com/dmitrijs2005/cargodesk/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// AuthService owns the token pair lifecycle.
//
// Contract:
//   - Login: exchange credentials for a token pair and store it.
//   - Refresh: exchange the stored refresh token for a new access token.
//     It never returns an error; on any failure the session is torn down
//     and the user is sent to the login screen.
//   - Logout: clear tokens and the application handoff id. Idempotent.
//   - ForceLogout: clear tokens and redirect to the login screen.
//   - IsAuthenticated: an access token is stored. Presence only.
//   - AccessTokenExpiry: the exp claim of the stored token, unverified.
type AuthService interface {
	Login(ctx context.Context, username, password string) error
	Refresh(ctx context.Context) (string, bool)
	Logout(ctx context.Context) error
	ForceLogout(ctx context.Context)
	IsAuthenticated(ctx context.Context) bool
	AccessTokenExpiry(ctx context.Context) (time.Time, bool)
}

type authService struct {
	api       API
	session   *session.Session
	nav       Navigator
	loginPath string
	log       logging.Logger
}

func NewAuthService(api API, sess *session.Session, nav Navigator, loginPath string, log logging.Logger) AuthService {
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}
	if log == nil {
		log = logging.Nop{}
	}
	return &authService{api: api, session: sess, nav: nav, loginPath: loginPath, log: log}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func (a *authService) Login(ctx context.Context, username, password string) error {
	resp, err := a.api.DoAnonymous(ctx, client.NewJSONRequest(http.MethodPost, "/token/", loginRequest{
		Username: username,
		Password: password,
	}))
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	var tp tokenPair
	if err := resp.Decode(&tp); err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	if tp.Access == "" {
		return fmt.Errorf("login error: %w", client.ErrUnauthorized)
	}

	if err := a.session.SetTokens(ctx, tp.Access, tp.Refresh); err != nil {
		return fmt.Errorf("token saving error: %w", err)
	}
	a.log.Info(ctx, "logged in", "username", username)
	return nil
}

func (a *authService) Refresh(ctx context.Context) (string, bool) {
	refresh, err := a.session.RefreshToken(ctx)
	if err != nil {
		a.log.Error(ctx, "read refresh token", "error", err)
		a.ForceLogout(ctx)
		return "", false
	}
	if refresh == "" {
		return "", false
	}

	token, err := a.exchange(ctx, refresh)
	if err != nil {
		a.log.Warn(ctx, "token refresh failed", "error", err)
		a.ForceLogout(ctx)
		return "", false
	}
	return token, true
}

func (a *authService) exchange(ctx context.Context, refresh string) (string, error) {
	resp, err := a.api.DoAnonymous(ctx, client.NewJSONRequest(http.MethodPost, "/token/refresh/", refreshRequest{Refresh: refresh}))
	if err != nil {
		return "", err
	}

	var tp tokenPair
	if err := resp.Decode(&tp); err != nil {
		return "", err
	}
	if tp.Access == "" {
		return "", errors.New("refresh response has no access token")
	}

	// rotating backends hand out a new refresh token too
	if tp.Refresh != "" {
		err = a.session.SetTokens(ctx, tp.Access, tp.Refresh)
	} else {
		err = a.session.SetAccessToken(ctx, tp.Access)
	}
	if err != nil {
		return "", fmt.Errorf("token saving error: %w", err)
	}
	return tp.Access, nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.session.ClearTokens(ctx); err != nil {
		return err
	}
	return a.session.ClearCurrentApplicationID(ctx)
}

func (a *authService) ForceLogout(ctx context.Context) {
	if err := a.session.ClearTokens(ctx); err != nil {
		a.log.Error(ctx, "clear tokens", "error", err)
	}
	if a.nav != nil {
		a.nav.Navigate(ctx, a.loginPath)
	}
}

func (a *authService) IsAuthenticated(ctx context.Context) bool {
	tok, err := a.session.AccessToken(ctx)
	return err == nil && tok != ""
}

func (a *authService) AccessTokenExpiry(ctx context.Context) (time.Time, bool) {
	tok, err := a.session.AccessToken(ctx)
	if err != nil || tok == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
