package identity

import "sort"

// GroupIDs is the set of directory group ids an identity belongs to.
type GroupIDs map[string]struct{}

// NewGroupIDs builds a set from ids, ignoring empty strings.
func NewGroupIDs(ids ...string) GroupIDs {
	g := make(GroupIDs, len(ids))
	for _, id := range ids {
		if id != "" {
			g[id] = struct{}{}
		}
	}
	return g
}

// Has reports membership.
func (g GroupIDs) Has(id string) bool {
	_, ok := g[id]
	return ok
}

// Add inserts id and reports whether the set changed.
func (g GroupIDs) Add(id string) bool {
	if g.Has(id) {
		return false
	}
	g[id] = struct{}{}
	return true
}

// Remove deletes id and reports whether the set changed.
func (g GroupIDs) Remove(id string) bool {
	if !g.Has(id) {
		return false
	}
	delete(g, id)
	return true
}

// Clone returns an independent copy.
func (g GroupIDs) Clone() GroupIDs {
	c := make(GroupIDs, len(g))
	for id := range g {
		c[id] = struct{}{}
	}
	return c
}

// Sorted returns the ids in ascending order.
func (g GroupIDs) Sorted() []string {
	ids := make([]string, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Identity is a user record in the access-control directory.
type Identity struct {
	ID          string   `json:"id" yaml:"id"`
	PrimaryKey  string   `json:"primary_key" yaml:"primary_key"`
	SecondaryID string   `json:"secondary_id,omitempty" yaml:"secondary_id,omitempty"`
	FirstName   string   `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName    string   `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	Status      Status   `json:"status" yaml:"status"`
	GroupIDs    GroupIDs `json:"-" yaml:"-"`
}

// Key returns the normalized primary key.
func (i Identity) Key() Key {
	return NormalizeKey(i.PrimaryKey)
}

// IsActive reports whether the identity can authenticate.
func (i Identity) IsActive() bool {
	return i.Status == StatusActive
}

// InGroup reports whether the identity belongs to groupID.
func (i Identity) InGroup(groupID string) bool {
	return i.GroupIDs.Has(groupID)
}

// Members is a directory group snapshot keyed by normalized primary key.
type Members map[Key]Identity

// NewMembers indexes identities by normalized primary key.
func NewMembers(ids []Identity) Members {
	m := make(Members, len(ids))
	for _, id := range ids {
		m[id.Key()] = id
	}
	return m
}

// Keys returns member keys in ascending order.
func (m Members) Keys() []Key {
	return SortKeys(keysOf(m))
}
