package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gophtracker/internal/buildinfo"
	"github.com/dmitrijs2005/gophtracker/internal/client/client"
	"github.com/dmitrijs2005/gophtracker/internal/client/config"
	"github.com/dmitrijs2005/gophtracker/internal/client/models"
	"github.com/dmitrijs2005/gophtracker/internal/client/session"
	"github.com/dmitrijs2005/gophtracker/internal/client/views"
	"github.com/dmitrijs2005/gophtracker/internal/logging"
)

// sessionStore is the part of session.Store the CLI uses.
type sessionStore interface {
	views.Authenticator
	Logout(ctx context.Context) error
	IsAuthenticated() bool
	Current() models.Session
	Refresh(ctx context.Context) (models.User, error)
	ExpiresAt() (time.Time, bool)
	Subscribe(fn session.Listener) (unsubscribe func())
}

// App is the interactive tracker client. Commands act on view controllers;
// every navigation they trigger is rendered before the next prompt.
type App struct {
	config *config.Config
	db     *sql.DB
	store  sessionStore
	api    views.IssueAPI
	router *views.Router
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer

	authed      bool
	unsubscribe func()
	pending     []views.Route

	list   *views.ListController
	detail *views.DetailController
}

// NewApp opens the local session database, builds the API client and
// restores the persisted session.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewLogger(c.LogLevel, os.Stderr)

	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err, "path", c.DBPath)
		return nil, err
	}

	// the store is created after the client; requests read its token lazily
	var store *session.Store
	tokens := client.TokenSourceFunc(func() string {
		if store == nil {
			return ""
		}
		return store.Token()
	})

	api, err := client.NewHTTPClient(c.ServerBaseURL, tokens,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(logger.With("component", "api")),
		client.WithUserAgent("gophtracker-cli/"+buildinfo.Version()),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store = session.Open(ctx, db, api, logger)

	a := newApp(c, store, api, logger, bufio.NewReader(os.Stdin), os.Stdout)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, store sessionStore, api views.IssueAPI, logger logging.Logger, reader *bufio.Reader, out io.Writer) *App {
	if logger == nil {
		logger = logging.Discard()
	}
	a := &App{
		config: c,
		store:  store,
		api:    api,
		logger: logger,
		reader: reader,
		out:    out,
		authed: store.IsAuthenticated(),
	}
	a.router = views.NewRouter(store.IsAuthenticated)
	a.router.OnChange(func(r views.Route) { a.pending = append(a.pending, r) })
	a.unsubscribe = store.Subscribe(a.onSession)
	return a
}

// Run checks the restored session, shows the first view and starts the
// REPL. It blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to GophTracker CLI (type 'help' for commands)")

	if a.isLoggedIn() {
		if _, err := a.store.Refresh(ctx); err != nil {
			switch {
			case errors.Is(err, session.ErrAuth):
				printlnFn("Your session has expired, please log in again.")
			case errors.Is(err, client.ErrUnavailable):
				printlnFn("Server unavailable, showing cached session.")
			default:
				a.logger.Warn(ctx, "cannot refresh session", "error", err)
			}
		}
	}

	a.navigate(ctx, views.PathIssues)
	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close releases the views, the session subscription and the database.
func (a *App) Close() {
	a.closeViews()
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn(context.Background(), "cannot close database", "error", err)
		}
		a.db = nil
	}
}

func (a *App) isLoggedIn() bool {
	return a.store.IsAuthenticated()
}

func (a *App) getStatus() string {
	sess := a.store.Current()
	if !sess.Authenticated() {
		return "(guest)"
	}
	return fmt.Sprintf("(%s)", sess.Username())
}

// onSession reports login and logout transitions. Views of the previous
// user are dropped on logout.
func (a *App) onSession(s models.Session) {
	now := s.Authenticated()
	if now == a.authed {
		return
	}
	a.authed = now
	if now {
		printlnFn(fmt.Sprintf("Logged in as %s.", s.User.DisplayName()))
		return
	}
	a.closeViews()
	printlnFn("Logged out.")
}

// Confirm implements views.Confirmer.
func (a *App) Confirm(prompt string) bool {
	return getConfirmation(a.reader, prompt, a.out)
}

func (a *App) navigate(ctx context.Context, path string) {
	a.router.Navigate(path)
	a.settle(ctx)
}

// settle renders the latest pending route. Entering a route can navigate
// again (a saved form opens the issue), so it loops until nothing is left.
func (a *App) settle(ctx context.Context) {
	for len(a.pending) > 0 {
		route := a.pending[len(a.pending)-1]
		a.pending = nil
		a.enter(ctx, route)
	}
}

func (a *App) enter(ctx context.Context, route views.Route) {
	a.logger.Debug(ctx, "enter view", "route", route.Name, "path", route.Path)

	switch route.Name {
	case views.RouteLogin:
		a.closeViews()
		printlnFn("Please log in: type 'login', or 'register' to create an account.")
	case views.RouteRegister:
		printlnFn("Type 'register' to create an account.")
	case views.RouteIssues:
		a.showList(ctx)
	case views.RouteIssue:
		a.showDetail(ctx, route.ID())
	case views.RouteIssueNew:
		a.runForm(ctx, views.NewCreateForm(a.api, a.router, a.logger))
	case views.RouteIssueEdit:
		a.runForm(ctx, views.NewEditForm(a.api, a.router, a.logger, route.ID()))
	}
}

func (a *App) listView() *views.ListController {
	if a.list == nil {
		pageSize := views.DefaultPageSize
		if a.config != nil {
			pageSize = a.config.PageSize
		}
		a.list = views.NewListController(a.api, a.router, a, a.logger, pageSize)
	}
	return a.list
}

func (a *App) closeViews() {
	if a.list != nil {
		a.list.Close()
		a.list = nil
	}
	if a.detail != nil {
		a.detail.Close()
		a.detail = nil
	}
}
