package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/config"
	"github.com/dmitrijs2005/libadmin/internal/client/models"
	"github.com/dmitrijs2005/libadmin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/libadmin/internal/client/services"
	"github.com/dmitrijs2005/libadmin/internal/logging"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	db       *sql.DB
	session  *services.SessionService
	store    *services.Store
	circ     *services.Circulation
	exporter services.Exporter
	reader   *bufio.Reader
	out      io.Writer
	now      func() time.Time
	page     models.Page
}

// NewApp opens the local store and wires the gateway and services from c.
// Logs go to stderr so they never interleave with console tables.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(os.Stderr, c.LogLevel, c.LogFormat)

	repo, db, err := metadata.Open(ctx, c.StorePath)
	if err != nil {
		log.Error(ctx, "error opening local store", "path", c.StorePath, "error", err)
		return nil, err
	}

	session := services.NewSessionService(repo, log)
	api := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout,
		client.WithTokenSource(session),
		client.WithUnauthorizedHandler(session.Expire),
		client.WithLogger(log),
		client.WithRetries(c.Retries),
		client.WithRateLimit(c.MaxRPS, int(c.MaxRPS)+1),
	)

	var exporter services.Exporter
	if c.ArchiveToS3() {
		exporter = services.NewS3Exporter(services.S3Settings{
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
		}, log)
	} else {
		exporter = services.NewFileExporter(c.ReportDir, log)
	}

	a := newApp(c, log, session, api, exporter, os.Stdin, os.Stdout)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, log logging.Logger, session *services.SessionService, api client.Client,
	exporter services.Exporter, in io.Reader, out io.Writer) *App {
	session.Attach(api)
	store := services.NewStore(api, session, log)
	return &App{
		config:   c,
		log:      log,
		session:  session,
		store:    store,
		circ:     services.NewCirculation(api, store, log),
		exporter: exporter,
		reader:   bufio.NewReader(in),
		out:      out,
		now:      time.Now,
		page:     models.PageDashboard,
	}
}

// Run restores the previous session (or asks for a login) and blocks in the
// REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	fmt.Fprintln(a.out, "School library console (type 'help' for commands)")

	st, err := a.session.Init(ctx)
	if err != nil {
		return err
	}
	if st.LoggedIn {
		a.notice("Welcome back, %s (%s)", st.Username, st.Role)
		a.load(ctx)
	} else {
		_ = a.Login(ctx)
	}

	runREPL(ctx, a, a.reader)
	return nil
}

// Close releases the local store.
func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
}

// load fills the store after a login or restart.
func (a *App) load(ctx context.Context) {
	if err := a.store.LoadAll(ctx); err != nil {
		_ = a.fail(ctx, "load library data", err)
		return
	}
	snap := a.store.Snapshot()
	a.notice("Loaded %d books, %d readers, %d loans", len(snap.Books), len(snap.Readers), len(snap.Borrows))
}

func (a *App) isLoggedIn() bool {
	return a.session.LoggedIn()
}

// sessionExpired reports a pending forced return to the login screen and
// drops the cached collections when there is one.
func (a *App) sessionExpired() bool {
	if !a.session.TakeRedirect() {
		return false
	}
	a.store.Reset()
	a.page = models.PageDashboard
	return true
}

func (a *App) status() string {
	st := a.session.Current()
	if !st.LoggedIn {
		return "(guest)"
	}
	return fmt.Sprintf("%s (%s) %s", st.Username, st.Role, a.page)
}

// notice prints a success message.
func (a *App) notice(format string, args ...any) {
	fmt.Fprintf(a.out, "ok: "+format+"\n", args...)
}

// fail prints a failure message for action and returns err unchanged.
func (a *App) fail(ctx context.Context, action string, err error) error {
	fmt.Fprintf(a.out, "error: %s: %s\n", action, client.Message(err))
	a.log.Debug(ctx, "command failed", "action", action, "error", err)
	return err
}
