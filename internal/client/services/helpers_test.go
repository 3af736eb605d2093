package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/cargodesk/internal/client/client"
	"github.com/dmitrijs2005/cargodesk/internal/client/draft"
	"github.com/dmitrijs2005/cargodesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/cargodesk/internal/client/session"
	"github.com/shopspring/decimal"
)

type recordingNav struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNav) Navigate(_ context.Context, path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNav) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

type env struct {
	srv  *httptest.Server
	api  *client.Client
	sess *session.Session
	nav  *recordingNav
	auth AuthService
	apps ApplicationService
}

func newEnv(t *testing.T, h http.Handler) *env {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	sess := session.New(metadata.NewMemoryRepository())
	api := client.New(srv.URL, sess)
	nav := &recordingNav{}
	auth := NewAuthService(api, sess, nav, "", nil)
	api.SetRefresher(auth)

	return &env{
		srv:  srv,
		api:  api,
		sess: sess,
		nav:  nav,
		auth: auth,
		apps: NewApplicationService(api, sess, auth, nav, ApplicationConfig{}, nil),
	}
}

var today = time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)

func weight(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

// completeCreateDraft passes validation in the create flow.
func completeCreateDraft() draft.Draft {
	return draft.New(func() time.Time { return today }).
		ReplaceField(draft.FirmID(3)).
		ReplaceField(draft.Brutto(weight("120.5"))).
		ReplaceField(draft.Netto(weight("100"))).
		ReplaceField(draft.DeclarationNumber("D-77"))
}
