package identity

import (
	"sort"

	"github.com/agentstation/rostersync/pkg/errors"
)

// GroupConfig is one synchronization target.
type GroupConfig struct {
	// Name is the directory group name, also used to filter the group listing.
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// ID is the directory-assigned group id. When empty it is resolved by Name.
	ID string `json:"id,omitempty" yaml:"id,omitempty" mapstructure:"id"`

	// Source is the location of the roster report.
	Source string `json:"source" yaml:"source" mapstructure:"source"`

	// Holds is the location of the holds report. Empty disables holds handling.
	Holds string `json:"holds,omitempty" yaml:"holds,omitempty" mapstructure:"holds"`
}

// HasHolds reports whether a holds source is configured.
func (g GroupConfig) HasHolds() bool {
	return g.Holds != ""
}

// Validate checks the fields required to sync the group.
func (g GroupConfig) Validate() error {
	if g.Name == "" {
		return errors.NewValidationError("name", g.Name, "group name is required")
	}
	if g.Source == "" {
		return errors.NewValidationError("source", g.Source, "roster source is required for group "+g.Name)
	}
	return nil
}

// Groups is the configured set of groups keyed by name.
type Groups map[string]GroupConfig

// Sorted returns the groups ordered by name, filling Name from the map key when
// the entry omits it.
func (g Groups) Sorted() []GroupConfig {
	out := make([]GroupConfig, 0, len(g))
	for name, cfg := range g {
		if cfg.Name == "" {
			cfg.Name = name
		}
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
