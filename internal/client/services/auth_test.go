package services

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/cargodesk/internal/client/client"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_LoginStoresTokens(t *testing.T) {
	var got loginRequest
	e := newEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/token/", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"access":"a1","refresh":"r1"}`))
	}))
	ctx := context.Background()

	require.NoError(t, e.auth.Login(ctx, "clerk", "secret"))
	assert.Equal(t, loginRequest{Username: "clerk", Password: "secret"}, got)

	access, _ := e.sess.AccessToken(ctx)
	refresh, _ := e.sess.RefreshToken(ctx)
	assert.Equal(t, "a1", access)
	assert.Equal(t, "r1", refresh)
	assert.True(t, e.auth.IsAuthenticated(ctx))
}

func TestAuth_LoginRejected(t *testing.T) {
	e := newEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	ctx := context.Background()

	err := e.auth.Login(ctx, "clerk", "wrong")
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.False(t, e.auth.IsAuthenticated(ctx))
	assert.Empty(t, e.nav.Paths())
}

func TestAuth_RefreshWithoutRefreshTokenSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	e := newEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))

	token, ok := e.auth.Refresh(context.Background())
	assert.False(t, ok)
	assert.Empty(t, token)
	assert.Zero(t, hits.Load())
	assert.Empty(t, e.nav.Paths())
}

func TestAuth_RefreshPersistsAccessToken(t *testing.T) {
	var got refreshRequest
	e := newEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/token/refresh/", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"access":"a2"}`))
	}))
	ctx := context.Background()
	require.NoError(t, e.sess.SetTokens(ctx, "a1", "r1"))

	token, ok := e.auth.Refresh(ctx)
	require.True(t, ok)
	assert.Equal(t, "a2", token)
	assert.Equal(t, "r1", got.Refresh)

	access, _ := e.sess.AccessToken(ctx)
	refresh, _ := e.sess.RefreshToken(ctx)
	assert.Equal(t, "a2", access)
	assert.Equal(t, "r1", refresh)
}

func TestAuth_RefreshRotatesRefreshToken(t *testing.T) {
	e := newEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access":"a2","refresh":"r2"}`))
	}))
	ctx := context.Background()
	require.NoError(t, e.sess.SetTokens(ctx, "a1", "r1"))

	_, ok := e.auth.Refresh(ctx)
	require.True(t, ok)
	refresh, _ := e.sess.RefreshToken(ctx)
	assert.Equal(t, "r2", refresh)
}

func TestAuth_RefreshFailureLogsOutAndRedirects(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"rejected", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusUnauthorized) }},
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{"no access in body", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{}`)) }},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`<html>`)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, tt.handler)
			ctx := context.Background()
			require.NoError(t, e.sess.SetTokens(ctx, "a1", "r1"))

			token, ok := e.auth.Refresh(ctx)
			assert.False(t, ok)
			assert.Empty(t, token)

			access, _ := e.sess.AccessToken(ctx)
			refresh, _ := e.sess.RefreshToken(ctx)
			assert.Empty(t, access)
			assert.Empty(t, refresh)
			assert.Equal(t, []string{"/login"}, e.nav.Paths())
		})
	}
}

func TestAuth_LogoutIsIdempotent(t *testing.T) {
	e := newEnv(t, http.NotFoundHandler())
	ctx := context.Background()
	require.NoError(t, e.sess.SetTokens(ctx, "a", "r"))
	require.NoError(t, e.sess.SetCurrentApplicationID(ctx, 9))

	require.NoError(t, e.auth.Logout(ctx))
	require.NoError(t, e.auth.Logout(ctx))

	assert.False(t, e.auth.IsAuthenticated(ctx))
	id, err := e.sess.CurrentApplicationID(ctx)
	require.NoError(t, err)
	assert.Zero(t, id)
	assert.Empty(t, e.nav.Paths())
}

func TestAuth_IsAuthenticatedIsPresenceOnly(t *testing.T) {
	e := newEnv(t, http.NotFoundHandler())
	ctx := context.Background()

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	require.NoError(t, e.sess.SetAccessToken(ctx, expired))

	assert.True(t, e.auth.IsAuthenticated(ctx))
}

func TestAuth_AccessTokenExpiry(t *testing.T) {
	e := newEnv(t, http.NotFoundHandler())
	ctx := context.Background()

	_, ok := e.auth.AccessTokenExpiry(ctx)
	assert.False(t, ok)

	exp := time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("unknown-to-client"))
	require.NoError(t, err)
	require.NoError(t, e.sess.SetAccessToken(ctx, tok))

	got, ok := e.auth.AccessTokenExpiry(ctx)
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	require.NoError(t, e.sess.SetAccessToken(ctx, "not-a-jwt"))
	_, ok = e.auth.AccessTokenExpiry(ctx)
	assert.False(t, ok)
}

func TestAuth_ExpiredAccessIsRefreshedAndReplayed(t *testing.T) {
	var refreshes atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		_, _ = w.Write([]byte(`{"access":"fresh"}`))
	})
	mux.HandleFunc("/firms/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[{"id":1,"name":"Acme"}]`))
	})
	e := newEnv(t, mux)
	ctx := context.Background()
	require.NoError(t, e.sess.SetTokens(ctx, "stale", "r1"))

	list, err := NewCatalogService(e.api).SearchFirms(ctx, "ac")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Acme", list[0].Name)
	assert.Equal(t, int32(1), refreshes.Load())

	access, _ := e.sess.AccessToken(ctx)
	assert.Equal(t, "fresh", access)
}

func TestAuth_RefreshFailureDuringRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/firms/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	e := newEnv(t, mux)
	ctx := context.Background()
	require.NoError(t, e.sess.SetTokens(ctx, "stale", "r1"))

	_, err := NewCatalogService(e.api).SearchFirms(ctx, "ac")
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.False(t, e.auth.IsAuthenticated(ctx))
	assert.Equal(t, []string{"/login"}, e.nav.Paths())
}
