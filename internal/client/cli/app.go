package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/cargodesk/internal/client/client"
	"github.com/dmitrijs2005/cargodesk/internal/client/config"
	"github.com/dmitrijs2005/cargodesk/internal/client/draft"
	"github.com/dmitrijs2005/cargodesk/internal/client/flow"
	"github.com/dmitrijs2005/cargodesk/internal/client/models"
	"github.com/dmitrijs2005/cargodesk/internal/client/repositories"
	"github.com/dmitrijs2005/cargodesk/internal/client/services"
	"github.com/dmitrijs2005/cargodesk/internal/client/session"
	"github.com/dmitrijs2005/cargodesk/internal/filex"
	"github.com/dmitrijs2005/cargodesk/internal/logging"
)

var (
	errNotLoggedIn = errors.New("not logged in, use login first")
	errNoDraft     = errors.New("no application open, use new or edit first")
)

type App struct {
	config   *config.Config
	log      logging.Logger
	repos    *repositories.Repositories
	session  *session.Session
	api      *client.Client
	auth     services.AuthService
	apps     services.ApplicationService
	catalogs services.CatalogService
	reader   *bufio.Reader
	now      func() time.Time

	outMu sync.Mutex
	out   io.Writer

	mu       sync.Mutex
	location string

	draft   *draft.Draft
	flow    *flow.Controller
	partial *services.Outcome
	cache   *models.Catalogs
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}
	repos, err := repositories.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}
	return newApp(c, log, repos, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, log logging.Logger, repos *repositories.Repositories, in io.Reader, out io.Writer) *App {
	if log == nil {
		log = logging.Nop{}
	}

	var sessOpts []session.Option
	if repos.DB != nil {
		sessOpts = append(sessOpts, session.WithTx(repos.DB))
	}
	sess := session.New(repos.Metadata, sessOpts...)

	clientOpts := []client.Option{client.WithTimeout(c.RequestTimeout), client.WithLogger(log)}
	if c.SingleFlightRefresh {
		clientOpts = append(clientOpts, client.WithSingleFlightRefresh())
	}

	a := &App{
		config:  c,
		log:     log,
		repos:   repos,
		session: sess,
		api:     client.New(c.APIBaseURL, sess, clientOpts...),
		reader:  bufio.NewReader(in),
		now:     time.Now,
		out:     out,
	}

	a.auth = services.NewAuthService(a.api, sess, a, c.LoginPath, log)
	a.api.SetRefresher(a.auth)
	a.apps = services.NewApplicationService(a.api, sess, a.auth, a, services.ApplicationConfig{
		SuccessPath:         c.SuccessPath,
		FallbackMessage:     c.FallbackMessage,
		SuppressedErrorKeys: c.SuppressedErrorKeys,
	}, log)
	a.catalogs = services.NewCatalogService(a.api)
	return a
}

// Navigate records the screen the services sent the user to.
func (a *App) Navigate(_ context.Context, path string) {
	a.mu.Lock()
	a.location = path
	a.mu.Unlock()
	a.printf("-> %s\n", path)
}

func (a *App) Location() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.location
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.mu.Lock()
	if a.auth.IsAuthenticated(ctx) {
		a.location = a.config.SuccessPath
	} else {
		a.location = a.config.LoginPath
	}
	a.mu.Unlock()

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) Close() {
	if err := a.repos.Close(); err != nil {
		a.log.Error(context.Background(), "close database", "error", err)
	}
}

func (a *App) status() string {
	s := a.Location()
	if a.draft != nil {
		s += fmt.Sprintf(" | %s %s %d/%d", a.draft.Mode, a.flow.Current(), a.flow.Index()+1, len(a.flow.Steps()))
	}
	return s
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.auth.IsAuthenticated(ctx)
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) requireLogin(ctx context.Context) error {
	if !a.isLoggedIn(ctx) {
		return errNotLoggedIn
	}
	return nil
}

func (a *App) requireDraft() error {
	if a.draft == nil {
		return errNoDraft
	}
	return nil
}

func (a *App) apply(act draft.Action) {
	d := draft.Reduce(*a.draft, act)
	a.draft = &d
}

// open replaces the current draft and starts its flow on the first tab.
func (a *App) open(d draft.Draft) {
	a.draft = &d
	a.flow = flow.New(d.Mode)
	a.partial = nil
}
