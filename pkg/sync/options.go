// Package sync runs the per-group reconciliation procedure: load snapshots,
// plan, provision, demote, then the backfill and holds passes. Groups are
// independent; a fatal failure in one never stops the others.
package sync

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
)

// Options controls a sync run.
type Options struct {
	DryRun           bool          // Record mutations without sending them
	Groups           []string      // Which groups to sync (empty means all)
	Concurrency      int           // Concurrent per-user directory calls within a group
	GroupConcurrency int           // Groups synchronized at once
	Timeout          time.Duration // Timeout for the entire run (0 means none)

	Observer Observer     // Receives metrics events (nil means none)
	Tracer   trace.Tracer // Span source (nil means the global tracer)
}

// Option is a function that configures sync Options.
type Option func(*Options)

// Defaults returns the default sync options.
func Defaults() *Options {
	return &Options{
		DryRun:           false,
		Groups:           nil,
		Concurrency:      constants.DefaultConcurrency,
		GroupConcurrency: constants.DefaultGroupConcurrency,
		Timeout:          0,
	}
}

// Apply applies the given options to the sync options.
func (s *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks if the sync options are valid.
func (s *Options) Validate() error {
	if s.Timeout < 0 {
		return &errors.ValidationError{
			Field:   "Timeout",
			Value:   s.Timeout,
			Message: "timeout must be non-negative",
		}
	}
	if s.Concurrency < 1 || s.Concurrency > constants.MaxConcurrency {
		return &errors.ValidationError{
			Field:   "Concurrency",
			Value:   s.Concurrency,
			Message: "concurrency must be between 1 and 32",
		}
	}
	if s.GroupConcurrency < 1 {
		return &errors.ValidationError{
			Field:   "GroupConcurrency",
			Value:   s.GroupConcurrency,
			Message: "group concurrency must be at least 1",
		}
	}
	return nil
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(opts *Options) {
		opts.DryRun = dryRun
	}
}

// WithGroups limits the run to the named groups.
func WithGroups(names ...string) Option {
	return func(opts *Options) {
		opts.Groups = names
	}
}

// WithConcurrency configures per-user concurrency.
func WithConcurrency(n int) Option {
	return func(opts *Options) {
		opts.Concurrency = n
	}
}

// WithGroupConcurrency configures how many groups run at once.
func WithGroupConcurrency(n int) Option {
	return func(opts *Options) {
		opts.GroupConcurrency = n
	}
}

// WithTimeout configures the run timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

// WithObserver configures the metrics observer.
func WithObserver(o Observer) Option {
	return func(opts *Options) {
		opts.Observer = o
	}
}

// WithTracer configures the span source.
func WithTracer(t trace.Tracer) Option {
	return func(opts *Options) {
		opts.Tracer = t
	}
}
