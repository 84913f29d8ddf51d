// Package roster reads authoritative roster and holds reports.
//
// A report is a CSV table with a header row. Columns are located by name,
// case-insensitively, and a UTF-8 or UTF-16 byte order mark is honoured.
// Providers fetch a report from a source location and parse it; the Campus
// Cafe HTTP provider lives in internal/campuscafe.
package roster

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/identity"
	"github.com/agentstation/rostersync/pkg/logging"
)

// Provider fetches the records of one report. Transport or authentication
// failures are reported as SourceError.
type Provider interface {
	Fetch(ctx context.Context, source string) ([]identity.RosterRecord, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, source string) ([]identity.RosterRecord, error)

// Fetch implements Provider.
func (f ProviderFunc) Fetch(ctx context.Context, source string) ([]identity.RosterRecord, error) {
	return f(ctx, source)
}

// Static serves fixed records keyed by source. Unknown sources are unavailable.
type Static map[string][]identity.RosterRecord

// Fetch implements Provider.
func (s Static) Fetch(_ context.Context, source string) ([]identity.RosterRecord, error) {
	records, ok := s[source]
	if !ok {
		return nil, errors.NewSourceError(source, errors.NewNotFoundError("report", source))
	}
	out := make([]identity.RosterRecord, len(records))
	copy(out, records)
	return out, nil
}

// Router dispatches on the source URL scheme. Plain paths use the "file" entry.
type Router map[string]Provider

// Fetch implements Provider.
func (r Router) Fetch(ctx context.Context, source string) ([]identity.RosterRecord, error) {
	scheme := "file"
	if u, err := url.Parse(source); err == nil && len(u.Scheme) > 1 {
		scheme = strings.ToLower(u.Scheme)
	}
	p, ok := r[scheme]
	if !ok {
		return nil, errors.NewSourceError(source, errors.NewValidationError("source", source, "unsupported scheme "+scheme))
	}
	return p.Fetch(ctx, source)
}

// FileProvider reads reports from the local filesystem.
type FileProvider struct {
	Columns Columns
}

// NewFileProvider creates a provider for local report files.
func NewFileProvider(cols Columns) *FileProvider {
	return &FileProvider{Columns: cols}
}

// Fetch implements Provider. Source may be a path or a file:// URL.
func (p *FileProvider) Fetch(ctx context.Context, source string) ([]identity.RosterRecord, error) {
	path := strings.TrimPrefix(source, "file://")
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, errors.NewSourceError(source, errors.NewIOError("open", path, err))
	}
	defer func() { _ = f.Close() }()

	result, err := Parse(f, p.Columns)
	if err != nil {
		return nil, errors.WrapSource(source, err)
	}
	result.Log(logging.FromContext(ctx), source)
	return result.Records, nil
}
