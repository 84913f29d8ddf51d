package reconciler

import (
	"fmt"
	"strings"

	"github.com/agentstation/rostersync/pkg/differ"
	"github.com/agentstation/rostersync/pkg/identity"
)

// Plan is the full list of mutations for the resolve, provision and demote
// steps of one group, computed before any of them is applied.
type Plan struct {
	GroupName string `json:"group" yaml:"group"`
	GroupID   string `json:"group_id" yaml:"group_id"`

	// Changeset is the raw diff before resolution.
	Changeset *differ.Changeset `json:"changeset" yaml:"changeset"`

	// Found holds one action per resolved key, ordered by key.
	Found []Action `json:"found" yaml:"found"`

	// Provision holds the keys no directory identity matched, ordered by key.
	Provision []Action `json:"provision" yaml:"provision"`

	// Demote holds the extra members after the found-identity correction.
	Demote []Action `json:"demote" yaml:"demote"`

	// Kept holds extra members left in the group because they are on hold.
	Kept []identity.Key `json:"kept,omitempty" yaml:"kept,omitempty"`
}

// Actions returns every action in application order.
func (p *Plan) Actions() []Action {
	out := make([]Action, 0, len(p.Found)+len(p.Provision)+len(p.Demote))
	out = append(out, p.Found...)
	out = append(out, p.Provision...)
	out = append(out, p.Demote...)
	return out
}

// IsEmpty reports whether the plan has nothing to do.
func (p *Plan) IsEmpty() bool {
	return len(p.Found) == 0 && len(p.Provision) == 0 && len(p.Demote) == 0
}

// Counts returns the number of actions per kind.
func (p *Plan) Counts() map[ActionKind]int {
	counts := make(map[ActionKind]int)
	for _, a := range p.Actions() {
		counts[a.Kind]++
	}
	return counts
}

// FoundKeys returns the roster keys of found actions.
func (p *Plan) FoundKeys() identity.KeySet {
	s := identity.NewKeySet()
	for _, a := range p.Found {
		s.Add(a.Key)
	}
	return s
}

// DemoteKeys returns the member keys of demote actions.
func (p *Plan) DemoteKeys() identity.KeySet {
	s := identity.NewKeySet()
	for _, a := range p.Demote {
		s.Add(a.Key)
	}
	return s
}

// String returns a one-line summary.
func (p *Plan) String() string {
	counts := p.Counts()
	var parts []string
	for _, k := range Kinds {
		if n := counts[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, k))
		}
	}
	if len(parts) == 0 {
		return p.GroupName + ": no changes"
	}
	return p.GroupName + ": " + strings.Join(parts, ", ")
}
