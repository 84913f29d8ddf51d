// Package differ computes the difference between an authoritative roster and
// the current membership of a directory group.
package differ

import (
	"fmt"
	"strings"

	"github.com/agentstation/rostersync/pkg/identity"
)

// Changeset is the classified difference for one group.
// Both slices are sorted ascending.
type Changeset struct {
	// Missing holds roster keys with no active group member, minus holds.
	Missing []identity.Key `json:"missing" yaml:"missing"`

	// Extra holds active group members that are no longer on the roster.
	Extra []identity.Key `json:"extra" yaml:"extra"`

	// Held holds roster keys kept out of Missing because they are on hold.
	Held []identity.Key `json:"held,omitempty" yaml:"held,omitempty"`
}

// HasChanges returns true if the changeset contains any changes.
func (c *Changeset) HasChanges() bool {
	return len(c.Missing) > 0 || len(c.Extra) > 0
}

// MissingSet returns Missing as a set.
func (c *Changeset) MissingSet() identity.KeySet {
	return identity.NewKeySet(c.Missing...)
}

// ExtraSet returns Extra as a set.
func (c *Changeset) ExtraSet() identity.KeySet {
	return identity.NewKeySet(c.Extra...)
}

// String returns a one-line summary.
func (c *Changeset) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%d missing", len(c.Missing)))
	parts = append(parts, fmt.Sprintf("%d extra", len(c.Extra)))
	if len(c.Held) > 0 {
		parts = append(parts, fmt.Sprintf("%d held", len(c.Held)))
	}
	return strings.Join(parts, ", ")
}
