// Package campuscafe fetches roster and holds reports from Campus Cafe
// Reporting Services. Reports are CSV exports behind HTTP basic auth.
package campuscafe

import (
	"bytes"
	"context"

	"github.com/agentstation/rostersync/internal/transport"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/identity"
	"github.com/agentstation/rostersync/pkg/logging"
	"github.com/agentstation/rostersync/pkg/roster"
)

const service = "campuscafe"

// Config holds Campus Cafe credentials and report column names.
type Config struct {
	Username string         `json:"username" yaml:"username" mapstructure:"username"`
	Password string         `json:"-" yaml:"-" mapstructure:"password"`
	URL      string         `json:"url,omitempty" yaml:"url,omitempty" mapstructure:"url"`
	Columns  roster.Columns `json:"columns" yaml:"columns" mapstructure:"columns"`
}

// Validate checks the credentials. Both may be empty for public reports, but
// a password without a username is a mistake.
func (c Config) Validate() error {
	if c.Username == "" && c.Password != "" {
		return errors.NewConfigError(service, "password set without username", nil)
	}
	return c.Columns.WithDefaults().Validate()
}

// Compile-time interface check.
var _ roster.Provider = (*Provider)(nil)

// Provider is a roster.Provider for Campus Cafe report URLs.
type Provider struct {
	client  *transport.Client
	columns roster.Columns
}

// New creates a Campus Cafe report provider.
func New(cfg Config, opts ...transport.Option) *Provider {
	return &Provider{
		client:  transport.New(service, &transport.BasicAuth{Username: cfg.Username, Password: cfg.Password}, opts...),
		columns: cfg.Columns.WithDefaults(),
	}
}

// Fetch downloads and parses the report at source. Every failure, including a
// malformed report, is a SourceError so the group is aborted rather than
// synchronized against a partial roster.
func (p *Provider) Fetch(ctx context.Context, source string) ([]identity.RosterRecord, error) {
	logger := logging.FromContext(ctx)
	logger.Debug().Str("source", source).Msg("Getting report")

	resp, err := p.client.Get(ctx, source)
	if err != nil {
		return nil, errors.WrapSource(source, err)
	}
	body, err := p.client.ReadBody(resp)
	if err != nil {
		return nil, errors.WrapSource(source, err)
	}

	result, err := roster.Parse(bytes.NewReader(body), p.columns)
	if err != nil {
		return nil, errors.WrapSource(source, err)
	}
	result.Log(logger, source)
	return result.Records, nil
}
