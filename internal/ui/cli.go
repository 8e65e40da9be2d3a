package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/config"
	"github.com/javiermolinar/courtside/internal/db"
	"github.com/javiermolinar/courtside/internal/logging"
	"github.com/javiermolinar/courtside/internal/restclient"
	"github.com/javiermolinar/courtside/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	store   booking.Store
	config  *config.Config
	root    *cobra.Command
	logger  zerolog.Logger
	closers []io.Closer
	now     func() time.Time

	debug   bool // Log to courtside-debug.log
	noColor bool
	verbose bool
}

// NewApp creates a new CLI application. A nil store is opened from the
// config on first use.
func NewApp(store booking.Store, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{store: store, config: cfg, logger: zerolog.Nop(), now: time.Now}

	a.root = &cobra.Command{
		Use:   "courtside",
		Short: "A terminal scheduler for court bookings",
		Long: `Courtside shows court bookings on a half-hour grid.

Run without a command to open the calendar: day, week and month views,
filters, and drag-and-drop moves between courts and times.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.noColor {
				DisableColor()
			}
			return a.setupLogging(cmd)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			return tui.Run(a.store, a.config, a.logger)
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to "+logging.DebugLogPath+")")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")
	a.root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log progress to stderr")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.dayCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.freeCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.cancelCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.askCmd())
	a.root.AddCommand(a.serveCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "courtside %s (commit: %s)\n", Version, Commit)
		},
	}
}

// setupLogging picks the logger for the command being run. The calendar
// never logs to the terminal it draws on.
func (a *App) setupLogging(cmd *cobra.Command) error {
	opts := logging.Options{}
	switch {
	case a.debug:
		opts = logging.Options{Level: "debug", File: logging.DebugLogPath}
	case a.verbose && cmd != a.root:
		opts = logging.Options{Level: "debug", Console: cmd.ErrOrStderr()}
	case cmd.Name() == "serve":
		opts = logging.Options{Level: "info", Console: cmd.ErrOrStderr()}
	}
	logger, closer, err := logging.New(opts)
	if err != nil {
		return err
	}
	a.logger = logger
	a.closers = append(a.closers, closer)
	return nil
}

// ensureStore opens the booking store: the remote server when configured,
// the local database otherwise.
func (a *App) ensureStore() error {
	if a.store != nil {
		return nil
	}
	if url := a.config.Storage.RemoteURL; url != "" {
		client, err := restclient.New(url)
		if err != nil {
			return fmt.Errorf("connecting to %s: %w", url, err)
		}
		a.logger.Debug().Str("url", url).Msg("using remote store")
		a.store = client
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(a.config.Storage.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	store, err := db.New(a.config.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.logger.Debug().Str("path", a.config.Storage.DBPath).Msg("using local store")
	a.store = store
	return nil
}

// location returns the club's time zone.
func (a *App) location() (*time.Location, error) {
	return a.config.Location()
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// SetArgs overrides the command line, for tests.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// SetOutput redirects command output, for tests.
func (a *App) SetOutput(w io.Writer) {
	a.root.SetOut(w)
	a.root.SetErr(w)
}

// Close releases the store and any log file.
func (a *App) Close() error {
	var firstErr error
	if a.store != nil {
		firstErr = a.store.Close()
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
