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

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding field.
// If a field is nil, the method returns a default/zero value.
type Mock struct {
	DirectoryFunc   func(context.Context) (directory.Client, error)
	Provider        roster.Provider
	GroupsConfig    identity.Groups
	Options         []sync.Option
	MetricsInstance *metrics.Metrics
	MetricsPath     string
	LoggerFunc      func() *zerolog.Logger
	Format          string
	Colorless       bool
	VersionFunc     func() string
}

// Compile-time interface check.
var _ Interface = (*Mock)(nil)

// Directory returns a client using the mock function or nil.
func (m *Mock) Directory(ctx context.Context) (directory.Client, error) {
	if m.DirectoryFunc != nil {
		return m.DirectoryFunc(ctx)
	}
	return nil, nil
}

// RosterProvider returns the configured provider or an empty static one.
func (m *Mock) RosterProvider() roster.Provider {
	if m.Provider != nil {
		return m.Provider
	}
	return roster.Static{}
}

// Groups returns the configured groups.
func (m *Mock) Groups() identity.Groups {
	return m.GroupsConfig
}

// SyncOptions returns the configured options.
func (m *Mock) SyncOptions() []sync.Option {
	return m.Options
}

// Metrics returns the configured metrics, creating them on first use.
func (m *Mock) Metrics() *metrics.Metrics {
	if m.MetricsInstance == nil {
		m.MetricsInstance = metrics.New()
	}
	return m.MetricsInstance
}

// MetricsFile returns the configured path.
func (m *Mock) MetricsFile() string {
	return m.MetricsPath
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the configured format or "table".
func (m *Mock) OutputFormat() string {
	if m.Format != "" {
		return m.Format
	}
	return "table"
}

// NoColor returns the configured value.
func (m *Mock) NoColor() bool {
	return m.Colorless
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns "unknown".
func (m *Mock) Commit() string {
	return "unknown"
}

// Date returns "unknown".
func (m *Mock) Date() string {
	return "unknown"
}

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string {
	return "test"
}
