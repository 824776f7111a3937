// Package cli is the terminal front end: the pages of the web client
// rendered as commands. Each command performs one fetch-render-mutate cycle
// against the shared API client, and protected commands consult the route
// guards before running.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bibliotek/bibliotek/pkg/api"
	"github.com/bibliotek/bibliotek/pkg/config"
	"github.com/bibliotek/bibliotek/pkg/guard"
	"github.com/bibliotek/bibliotek/pkg/logger"
	"github.com/bibliotek/bibliotek/pkg/session"
)

// errAccessDenied aborts a guarded command after the navigator has already
// told the user where to go.
var errAccessDenied = errors.New("access denied")

// cliConfig resolves CLI-specific settings from the environment.
type cliConfig struct {
	SessionFile string `env:"BIBLIOTEK_SESSION_FILE"`
	ProfilePath string `env:"BIBLIOTEK_CONFIG"`
}

// App owns the command tree and the wiring built during initialization.
type App struct {
	root *cobra.Command

	out  io.Writer
	errW io.Writer
	in   io.Reader

	// single buffered reader over in; per-prompt readers would buffer
	// ahead and drop input between consecutive prompts
	stdin *bufio.Reader

	// test seams: when set, initialization keeps them instead of
	// building from the environment
	storeOverride session.Store
	baseURL       string

	store        session.Store
	manager      *session.Manager
	client       *api.Client
	nav          *termNavigator
	log          *slog.Logger
	readPassword func(prompt string) (string, error)
}

// Option configures the App.
type Option func(*App)

// WithOutput redirects normal command output.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// WithErrOutput redirects diagnostics and navigator messages.
func WithErrOutput(w io.Writer) Option {
	return func(a *App) { a.errW = w }
}

// WithInput replaces stdin for prompts.
func WithInput(r io.Reader) Option {
	return func(a *App) { a.in = r }
}

// WithStore injects a session store, bypassing the on-disk default.
func WithStore(store session.Store) Option {
	return func(a *App) { a.storeOverride = store }
}

// WithBaseURL pins the service root, bypassing profile and environment.
func WithBaseURL(url string) Option {
	return func(a *App) { a.baseURL = url }
}

// WithPasswordReader replaces the terminal password prompt.
func WithPasswordReader(f func(prompt string) (string, error)) Option {
	return func(a *App) { a.readPassword = f }
}

// New builds the command tree. Wiring that depends on environment and
// profile is deferred to the root PersistentPreRunE so help and completion
// stay cheap.
func New(opts ...Option) *App {
	a := &App{
		out:          os.Stdout,
		errW:         os.Stderr,
		in:           os.Stdin,
		readPassword: terminalPassword,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.stdin = bufio.NewReader(a.in)

	a.root = &cobra.Command{
		Use:               "bibliotek",
		Short:             "Library catalog, borrowing and administration from the terminal",
		SilenceUsage:      true,
		PersistentPreRunE: a.initialize,
	}
	a.root.SetOut(a.out)
	a.root.SetErr(a.errW)

	a.root.AddCommand(
		a.loginCmd(),
		a.registerCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.booksCmd(),
		a.borrowCmd(),
		a.returnCmd(),
		a.borrowingsCmd(),
		a.adminCmd(),
		a.statsCmd(),
	)
	return a
}

// Run executes the CLI with the given arguments.
func (a *App) Run(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.root.ExecuteContext(ctx)
}

// Execute is the entry point used by main.
func Execute() int {
	if err := New().Run(context.Background(), os.Args[1:]); err != nil {
		return 1
	}
	return 0
}

func (a *App) initialize(cmd *cobra.Command, _ []string) error {
	if a.client != nil {
		return nil
	}

	var cliCfg cliConfig
	if err := config.Load(&cliCfg); err != nil {
		return err
	}

	profile, err := loadProfile(profilePath(cliCfg))
	if err != nil {
		return err
	}

	var apiCfg api.Config
	if err := config.Load(&apiCfg); err != nil {
		return err
	}
	// Precedence: explicit option, then environment, then profile, then
	// the built-in default already applied by the env loader.
	switch {
	case a.baseURL != "":
		apiCfg.BaseURL = a.baseURL
	case os.Getenv("API_BASE_URL") == "" && profile.BaseURL != "":
		apiCfg.BaseURL = profile.BaseURL
	}

	var logCfg logger.Config
	if err := config.Load(&logCfg); err != nil {
		return err
	}
	a.log = logger.NewFromConfig(logCfg, logger.WithOutput(a.errW))

	a.store = a.storeOverride
	if a.store == nil {
		path := sessionPath(cliCfg, profile)
		fileStore, err := session.NewFileStore(path)
		if err != nil {
			return err
		}
		a.store = fileStore
	}

	a.nav = &termNavigator{out: a.errW}
	a.manager = session.NewManager(a.store, a.nav)

	a.client, err = api.New(apiCfg, a.store,
		api.WithNavigator(a.nav),
		api.WithLogger(a.log),
	)
	return err
}

func profilePath(cfg cliConfig) string {
	if cfg.ProfilePath != "" {
		return cfg.ProfilePath
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "bibliotek", "config.yaml")
}

func sessionPath(cfg cliConfig, p Profile) string {
	if cfg.SessionFile != "" {
		return cfg.SessionFile
	}
	if p.SessionFile != "" {
		return p.SessionFile
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "bibliotek", "session.json")
}

// requireAuth gates a command on a signed-in session.
func (a *App) requireAuth(*cobra.Command, []string) error {
	if guard.Apply(guard.Authenticated(a.manager), a.nav) {
		return nil
	}
	return errAccessDenied
}

// requireAdmin gates a command on the administrator role.
func (a *App) requireAdmin(*cobra.Command, []string) error {
	if guard.Apply(guard.Admin(a.manager), a.nav) {
		return nil
	}
	return errAccessDenied
}

// describe turns a client failure into the message shown to the user,
// preferring the server-provided text the way the web client's toasts did.
func describe(err error) string {
	switch {
	case errors.Is(err, api.ErrSessionExpired):
		return "your session has expired"
	case errors.Is(err, api.ErrNetwork):
		return "could not reach the library service"
	}
	if apiErr, ok := api.AsError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func (a *App) promptLine(label string) (string, error) {
	fmt.Fprint(a.errW, label)
	line, err := a.stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// terminalPassword reads a password without echoing it.
func terminalPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// termNavigator renders the web client's hard redirects as terminal
// instructions. There is no page to unload; the redirect becomes a pointer
// at the command to run next.
type termNavigator struct {
	out io.Writer
}

func (n *termNavigator) RedirectToAuth() {
	fmt.Fprintln(n.out, "You are signed out. Run `bibliotek login` to sign in.")
}

func (n *termNavigator) RedirectToHome() {
	fmt.Fprintln(n.out, "Administrator access required. Back to the catalog: `bibliotek books`.")
}
