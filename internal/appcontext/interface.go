// Package appcontext provides the shared application context interface
// used by all commands. Commands accept this interface rather than the
// concrete App so they can be tested against an in-memory directory.
package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/rostersync/internal/metrics"
	"github.com/agentstation/rostersync/pkg/directory"
	"github.com/agentstation/rostersync/pkg/identity"
	"github.com/agentstation/rostersync/pkg/roster"
	"github.com/agentstation/rostersync/pkg/sync"
)

// Interface defines the application context that commands need.
type Interface interface {
	// Directory returns the directory client, connecting on first use.
	// It is safe to call repeatedly; the client is created once.
	Directory(ctx context.Context) (directory.Client, error)

	// RosterProvider returns the provider that fetches roster and holds reports.
	RosterProvider() roster.Provider

	// Groups returns the configured synchronization targets.
	Groups() identity.Groups

	// SyncOptions returns the run options derived from configuration.
	// Command flags are appended after these and win.
	SyncOptions() []sync.Option

	// Metrics returns the run metrics.
	Metrics() *metrics.Metrics

	// MetricsFile returns the configured textfile path, empty when disabled.
	MetricsFile() string

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table).
	OutputFormat() string

	// NoColor reports whether terminal colors are disabled.
	NoColor() bool

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
