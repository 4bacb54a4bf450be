package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"job-tracker-backend/config"
	"job-tracker-backend/internal/client"
	"job-tracker-backend/internal/domain"
	"job-tracker-backend/internal/tracker"
	"job-tracker-backend/pkg/logger"

	"golang.org/x/term"
)

// remote is the API surface jobctl needs: the record store plus auth.
type remote interface {
	tracker.Store
	Login(ctx context.Context, email, password string) (*domain.AuthSession, error)
	SignOut(ctx context.Context, session domain.Session) error
	Me(ctx context.Context, session domain.Session) (*domain.User, error)
}

// sessionStore persists the session between runs.
type sessionStore interface {
	Load() (domain.Session, error)
	Save(domain.Session) error
	Clear() error
}

type App struct {
	api      remote
	sessions sessionStore
	timeout  time.Duration
	reader   *bufio.Reader
	out      io.Writer
	now      func() time.Time
	// ttyInput is set when reader is an interactive terminal, so passwords
	// can be read without echo.
	ttyInput bool

	session domain.Session
	dash    *tracker.Dashboard
}

func NewApp(cfg *config.ClientConfig) *App {
	a := newApp(
		client.NewAPIClient(cfg.APIURL, cfg.Timeout),
		client.NewSessionFile(cfg.SessionFile),
		cfg.Timeout,
		os.Stdin,
		os.Stdout,
	)
	a.ttyInput = term.IsTerminal(int(os.Stdin.Fd()))
	return a
}

func newApp(api remote, sessions sessionStore, timeout time.Duration, in io.Reader, out io.Writer) *App {
	return &App{
		api:      api,
		sessions: sessions,
		timeout:  timeout,
		reader:   bufio.NewReader(in),
		out:      out,
		now:      time.Now,
	}
}

// Run restores a stored session, if any, and starts the REPL on the app's input.
func (a *App) Run(ctx context.Context) {
	if s, err := a.sessions.Load(); err != nil {
		fmt.Fprintln(a.out, "Ignoring stored session:", err)
	} else if !s.IsZero() && !s.Expired(a.now()) {
		a.setSession(s)
		fmt.Fprintf(a.out, "Signed in as %s\n", s.Email)
		report(a.List(ctx))
	}

	runREPL(ctx, a, a.status, bufio.NewScanner(&lineReader{r: a.reader}))
}

func (a *App) isLoggedIn() bool {
	return a.dash != nil && !a.session.Expired(a.now())
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return "(signed out)"
	}
	form := a.dash.Form()
	status := fmt.Sprintf("%s [%s", a.session.Email, a.dash.Projector().Filter())
	if form.Mode() == tracker.ModeEdit {
		status += " | editing " + shortID(form.EditingID())
	}
	return status + "]"
}

func (a *App) setSession(s domain.Session) {
	a.session = s
	a.dash = tracker.NewDashboard(a.api, s)
}

func (a *App) clearSession() {
	a.session = domain.Session{}
	a.dash = nil
	if err := a.sessions.Clear(); err != nil {
		fmt.Fprintln(a.out, "Could not remove session file:", err)
	}
}

// callCtx bounds a single remote call by the configured timeout.
func (a *App) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

// checkAuth signs the user out locally when the server rejected the token.
func (a *App) checkAuth(err error) error {
	if re, ok := domain.IsRemoteError(err); ok && re.Unauthorized() {
		logger.Log.Info("Session rejected by server", "op", re.Op, "email", a.session.Email)
		a.clearSession()
		return errors.New("session expired, please login again")
	}
	return err
}

// lineReader hands the scanner one line per Read so prompts issued by
// commands keep reading from the shared bufio.Reader.
type lineReader struct {
	r       *bufio.Reader
	pending []byte
}

func (l *lineReader) Read(p []byte) (int, error) {
	if len(l.pending) == 0 {
		line, err := l.r.ReadBytes('\n')
		if len(line) == 0 {
			return 0, err
		}
		l.pending = line
	}
	n := copy(p, l.pending)
	l.pending = l.pending[n:]
	return n, nil
}
