// Package session holds the durable authentication state of the client:
// the token pair and the id of the application handed off to the next
// screen. Values live in a metadata.Repository so they survive restarts.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/cargodesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/cargodesk/internal/common"
	"github.com/dmitrijs2005/cargodesk/internal/dbx"
)

type Session struct {
	repo metadata.Repository
	// db is set when repo is SQLite backed; token pair writes then share
	// one transaction.
	db *sql.DB
}

type Option func(*Session)

// WithTx makes SetTokens and ClearTokens atomic on a SQLite backed store.
func WithTx(db *sql.DB) Option {
	return func(s *Session) { s.db = db }
}

func New(repo metadata.Repository, opts ...Option) *Session {
	s := &Session{repo: repo}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Session) get(ctx context.Context, key string) (string, error) {
	v, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *Session) AccessToken(ctx context.Context) (string, error) {
	return s.get(ctx, common.AccessTokenKey)
}

func (s *Session) RefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, common.RefreshTokenKey)
}

func (s *Session) SetAccessToken(ctx context.Context, token string) error {
	return s.repo.Set(ctx, common.AccessTokenKey, []byte(token))
}

// SetTokens stores both tokens. An empty refresh token deletes the stored one.
func (s *Session) SetTokens(ctx context.Context, access, refresh string) error {
	return s.withRepo(ctx, func(ctx context.Context, repo metadata.Repository) error {
		if err := repo.Set(ctx, common.AccessTokenKey, []byte(access)); err != nil {
			return err
		}
		if refresh == "" {
			return repo.Delete(ctx, common.RefreshTokenKey)
		}
		return repo.Set(ctx, common.RefreshTokenKey, []byte(refresh))
	})
}

func (s *Session) ClearTokens(ctx context.Context) error {
	return s.withRepo(ctx, func(ctx context.Context, repo metadata.Repository) error {
		if err := repo.Delete(ctx, common.AccessTokenKey); err != nil {
			return err
		}
		return repo.Delete(ctx, common.RefreshTokenKey)
	})
}

// CurrentApplicationID returns 0 when nothing was handed off.
func (s *Session) CurrentApplicationID(ctx context.Context) (int64, error) {
	v, err := s.get(ctx, common.CurrentApplicationIDKey)
	if err != nil || v == "" {
		return 0, err
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", common.CurrentApplicationIDKey, v, err)
	}
	return id, nil
}

func (s *Session) SetCurrentApplicationID(ctx context.Context, id int64) error {
	return s.repo.Set(ctx, common.CurrentApplicationIDKey, []byte(strconv.FormatInt(id, 10)))
}

func (s *Session) ClearCurrentApplicationID(ctx context.Context) error {
	return s.repo.Delete(ctx, common.CurrentApplicationIDKey)
}

func (s *Session) withRepo(ctx context.Context, fn func(context.Context, metadata.Repository) error) error {
	if s.db == nil {
		return fn(ctx, s.repo)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, metadata.NewSQLiteRepository(tx))
	})
}
