package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/lingokeeper/internal/client/client"
	"github.com/dmitrijs2005/lingokeeper/internal/client/config"
	"github.com/dmitrijs2005/lingokeeper/internal/client/credential"
	"github.com/dmitrijs2005/lingokeeper/internal/client/services"
	"github.com/dmitrijs2005/lingokeeper/internal/logging"
)

// Route is the REPL screen the user is on.
type Route string

const (
	RouteLogin Route = "login"
	RouteHome  Route = "home"
)

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB

	authService     services.AuthService
	dialogueService services.DialogueService
	wordService     services.WordService
	quizService     services.QuizService
	recordsService  services.RecordsService

	mu    sync.Mutex
	route Route

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the credential database and wires the HTTP pipeline and the
// services on top of it.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	a := newApp(c, log, os.Stdin, os.Stdout)
	a.db = db

	creds := credential.NewStore(db)
	hc := client.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout, creds,
		client.WithNotifier(newStyledNotifier(a.out)),
		client.WithUnauthenticatedHandler(a.onUnauthenticated),
		client.WithLogger(log),
	)
	a.wire(hc, creds)
	return a, nil
}

func newApp(c *config.Config, log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		log:    log,
		route:  RouteLogin,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (a *App) wire(c client.Client, creds services.CredentialStore) {
	a.authService = services.NewAuthService(c, creds, a.log)
	a.dialogueService = services.NewDialogueService(c, a.config.TargetLang, a.log)
	a.wordService = services.NewWordService(c, a.log)
	a.quizService = services.NewQuizService(c, a.log)
	a.recordsService = services.NewRecordsService(c, a.config.DefaultPageSize, a.log)
}

// Run starts the REPL on the home route when a credential is already stored
// and on the login route otherwise. It blocks until the user exits or ctx
// is cancelled.
func (a *App) Run(ctx context.Context) {
	if a.db != nil {
		defer a.db.Close()
	}

	fmt.Fprintln(a.out, "Welcome to LingoKeeper CLI (type 'help' for commands)")

	if a.authService.IsAuthenticated(ctx) {
		a.setRoute(RouteHome)
		a.refresh(ctx)
	}

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) Route() Route {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.route
}

func (a *App) setRoute(r Route) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.route != r {
		a.log.Debug(context.Background(), "route changed", "from", a.route, "to", r)
		a.route = r
	}
}

func (a *App) isLoggedIn() bool {
	return a.Route() == RouteHome
}

// onUnauthenticated runs after the pipeline has cleared the credential. It
// drops every piece of per-user state and sends the user back to login.
func (a *App) onUnauthenticated(ctx context.Context) {
	a.dialogueService.ClearAll()
	a.wordService.ClearAll()
	a.quizService.ClearAll()
	a.recordsService.ClearAll()
	a.authService.ClearUser()
	a.setRoute(RouteLogin)
}

// refresh loads scenarios, word and quiz history and statistics
// concurrently. A failure of one does not cancel the others.
func (a *App) refresh(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		_, err := a.dialogueService.FetchScenarios(ctx)
		return err
	})
	g.Go(func() error {
		a.wordService.FetchHistory(ctx)
		return nil
	})
	g.Go(func() error {
		a.quizService.FetchHistory(ctx)
		return nil
	})
	g.Go(func() error {
		a.recordsService.FetchStatistics(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		a.log.Warn(ctx, "refresh incomplete", "error", err)
	}
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return string(RouteLogin)
	}
	s := a.authService.Username(context.Background())
	if a.dialogueService.HasActiveSession() {
		s += fmt.Sprintf(" dialogue#%d", a.dialogueService.Session().ID)
	}
	if a.quizService.HasActiveQuiz() && !a.quizService.IsCompleted() {
		s += fmt.Sprintf(" quiz %d/%d", a.quizService.AnsweredCount(), a.quizService.QuestionCount())
	}
	return s
}
