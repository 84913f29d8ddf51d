package identity

// RosterRecord is one authoritative member as reported by the record system.
type RosterRecord struct {
	Key         Key    `json:"key" yaml:"key"`
	SecondaryID string `json:"secondary_id,omitempty" yaml:"secondary_id,omitempty"`
	FirstName   string `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty" yaml:"last_name,omitempty"`
}

// Roster is a roster snapshot keyed by normalized key.
type Roster map[Key]RosterRecord

// NewRoster builds a roster from records, normalizing keys on insert.
// Records with an empty key are dropped. When two records share a key the later
// one wins; the returned slice lists every key that collided.
func NewRoster(records []RosterRecord) (Roster, []Key) {
	roster := make(Roster, len(records))
	var dupes []Key
	for _, r := range records {
		r.Key = NormalizeKey(string(r.Key))
		if r.Key == "" {
			continue
		}
		if _, exists := roster[r.Key]; exists {
			dupes = append(dupes, r.Key)
		}
		roster[r.Key] = r
	}
	return roster, dupes
}

// Keys returns the roster keys in ascending order.
func (r Roster) Keys() []Key {
	return SortKeys(keysOf(r))
}

// Get returns the record for a raw or normalized key.
func (r Roster) Get(raw string) (RosterRecord, bool) {
	rec, ok := r[NormalizeKey(raw)]
	return rec, ok
}

// Holds is the set of roster keys on an exclusion list. A nil Holds means holds
// are not configured for the group, which is different from an empty list.
type Holds KeySet

// NewHolds builds a hold set from the keys of the given records.
func NewHolds(records []RosterRecord) Holds {
	h := make(Holds, len(records))
	for _, r := range records {
		if k := NormalizeKey(string(r.Key)); k != "" {
			h[k] = struct{}{}
		}
	}
	return h
}

// Has reports whether k is held.
func (h Holds) Has(k Key) bool {
	return KeySet(h).Has(k)
}

// Enabled reports whether holds filtering applies.
func (h Holds) Enabled() bool {
	return h != nil
}

// Keys returns the held keys in ascending order.
func (h Holds) Keys() []Key {
	return KeySet(h).Sorted()
}
