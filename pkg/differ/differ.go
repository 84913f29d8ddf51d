package differ

import (
	"github.com/agentstation/rostersync/pkg/identity"
)

// Differ compares a roster snapshot with a directory group snapshot.
// Implementations are pure: no I/O, no mutation of their inputs, and the same
// inputs always produce the same Changeset.
type Differ interface {
	Diff(roster identity.Roster, members identity.Members, holds identity.Holds) *Changeset
}

// differ is the default implementation of Differ.
type differ struct {
	holdsFiltering bool
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{
		holdsFiltering: true,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Diff computes Missing and Extra.
func (d *differ) Diff(roster identity.Roster, members identity.Members, holds identity.Holds) *Changeset {
	changeset := &Changeset{
		Missing: []identity.Key{},
		Extra:   []identity.Key{},
	}

	filterHolds := d.holdsFiltering && holds.Enabled()

	for key := range roster {
		if _, exists := members[key]; exists {
			continue
		}
		if filterHolds && holds.Has(key) {
			changeset.Held = append(changeset.Held, key)
			continue
		}
		changeset.Missing = append(changeset.Missing, key)
	}

	for key := range members {
		if _, exists := roster[key]; !exists {
			changeset.Extra = append(changeset.Extra, key)
		}
	}

	// Sort for consistent output
	identity.SortKeys(changeset.Missing)
	identity.SortKeys(changeset.Extra)
	identity.SortKeys(changeset.Held)

	return changeset
}

// Diff runs the default Differ.
func Diff(roster identity.Roster, members identity.Members, holds identity.Holds) *Changeset {
	return New().Diff(roster, members, holds)
}
