// Package app provides the application context and dependency management
// for the rostersync CLI: configuration, logging, and the lazily connected
// directory client shared by every command.
package app

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/rostersync/internal/appcontext"
	"github.com/agentstation/rostersync/internal/campuscafe"
	"github.com/agentstation/rostersync/internal/metrics"
	"github.com/agentstation/rostersync/internal/openpath"
	"github.com/agentstation/rostersync/pkg/directory"
	"github.com/agentstation/rostersync/pkg/directory/memory"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/identity"
	"github.com/agentstation/rostersync/pkg/roster"
	rsync "github.com/agentstation/rostersync/pkg/sync"
)

// App represents the rostersync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config  *Config
	logger  *zerolog.Logger
	metrics *metrics.Metrics
	out     io.Writer

	// Directory client (lazy-initialized, singleton)
	mu        sync.Mutex
	directory directory.Client
	provider  roster.Provider
}

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)

// New creates a new App. Configuration is loaded from the default locations
// unless WithConfig is given.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		metrics: metrics.New(),
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.config == nil {
		config, err := LoadConfig("")
		if err != nil {
			return nil, err
		}
		app.config = config
	}
	if app.logger == nil {
		logger := NewLogger(app.config)
		app.logger = &logger
	}
	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the --format value.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// NoColor reports whether --no-color or NO_COLOR is set.
func (a *App) NoColor() bool {
	return a.config.NoColor || os.Getenv("NO_COLOR") != ""
}

// Groups returns the configured groups.
func (a *App) Groups() identity.Groups {
	return a.config.Groups
}

// Metrics returns the run metrics.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}

// MetricsFile returns the textfile path from configuration.
func (a *App) MetricsFile() string {
	return a.config.MetricsFile
}

// SyncOptions returns the run options from configuration.
func (a *App) SyncOptions() []rsync.Option {
	return []rsync.Option{
		rsync.WithConcurrency(a.config.Concurrency),
		rsync.WithGroupConcurrency(a.config.GroupConcurrency),
		rsync.WithTimeout(a.config.Timeout),
		rsync.WithObserver(a.metrics),
	}
}

// RosterProvider returns a provider that reads http(s) sources from Campus
// Cafe and plain paths from disk.
func (a *App) RosterProvider() roster.Provider {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.provider == nil {
		cc := campuscafe.New(a.config.CampusCafe)
		a.provider = roster.Router{
			"https": cc,
			"http":  cc,
			"file":  roster.NewFileProvider(a.config.CampusCafe.Columns.WithDefaults()),
		}
	}
	return a.provider
}

// Directory returns the directory client, logging in on first use.
// Concurrent callers share one login.
func (a *App) Directory(ctx context.Context) (directory.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.directory != nil {
		return a.directory, nil
	}

	if err := a.config.Validate(); err != nil {
		return nil, err
	}

	if path := a.config.DirectoryFixture; path != "" {
		a.logger.Warn().Str("fixture", path).Msg("Using in-memory directory; changes are not persisted")
		dir, err := memory.New(memory.WithFixtureFile(path))
		if err != nil {
			return nil, errors.NewConfigError("directory_fixture", "loading "+path, err)
		}
		a.directory = dir
		return dir, nil
	}

	client, err := openpath.Connect(ctx, a.config.Openpath)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("org", a.config.Openpath.OrgID).Msg("Logged in to Openpath")
	a.directory = client
	return client, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithConfigFile loads configuration from path.
func WithConfigFile(path string) Option {
	return func(a *App) error {
		config, err := LoadConfig(path)
		if err != nil {
			return err
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithOutput redirects command output (useful for testing).
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.out = w
		return nil
	}
}

// WithDirectory sets the directory client (useful for testing).
func WithDirectory(dir directory.Client) Option {
	return func(a *App) error {
		a.directory = dir
		return nil
	}
}
