package reconciler

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/identity"
	"github.com/agentstation/rostersync/pkg/logging"
)

// Searcher is the directory-wide lookup the resolver needs.
type Searcher interface {
	SearchByPrimaryKey(ctx context.Context, key string) ([]identity.Identity, error)
	SearchBySecondaryID(ctx context.Context, id string) ([]identity.Identity, error)
}

// Resolution partitions the missing keys. Found and Missing are disjoint and
// together hold every key passed to Resolve.
type Resolution struct {
	Found   map[identity.Key]identity.Identity
	Missing []identity.Key
}

// FoundKeys returns the found roster keys in ascending order.
func (r *Resolution) FoundKeys() []identity.Key {
	keys := make([]identity.Key, 0, len(r.Found))
	for k := range r.Found {
		keys = append(keys, k)
	}
	return identity.SortKeys(keys)
}

// Resolver looks up missing roster keys across the whole directory.
type Resolver struct {
	searcher    Searcher
	concurrency int
}

// NewResolver creates a resolver issuing at most concurrency lookups at once.
func NewResolver(searcher Searcher, concurrency int) *Resolver {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Resolver{searcher: searcher, concurrency: concurrency}
}

type lookup struct {
	matches []identity.Identity
	err     error
}

// Resolve searches by primary key and secondary id for every key in missing
// and partitions the result. Nothing is mutated.
//
// A key matching more than one identity, or two keys matching the same
// identity, fails with an AmbiguousIdentityError. When several keys fail the
// error for the smallest key is returned, so the outcome does not depend on
// lookup scheduling.
func (r *Resolver) Resolve(ctx context.Context, roster identity.Roster, missing []identity.Key) (*Resolution, error) {
	keys := identity.SortKeys(append([]identity.Key(nil), missing...))
	results := make([]lookup, len(keys))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			matches, err := r.lookup(ctx, roster[key])
			results[i] = lookup{matches: matches, err: err}
			return nil
		})
	}
	_ = g.Wait()

	res := &Resolution{Found: make(map[identity.Key]identity.Identity)}
	claimedBy := make(map[string]identity.Key)
	for i, key := range keys {
		if err := results[i].err; err != nil {
			return nil, err
		}
		matches := results[i].matches
		switch len(matches) {
		case 0:
			res.Missing = append(res.Missing, key)
		case 1:
			found := matches[0]
			if other, taken := claimedBy[found.ID]; taken {
				return nil, &errors.AmbiguousIdentityError{
					Key:         key.String(),
					SecondaryID: roster[key].SecondaryID,
					IDs:         []string{found.ID + " (also matched " + other.String() + ")"},
				}
			}
			claimedBy[found.ID] = key
			res.Found[key] = found
		default:
			return nil, &errors.AmbiguousIdentityError{
				Key:         key.String(),
				SecondaryID: roster[key].SecondaryID,
				IDs:         idsOf(matches),
			}
		}
	}

	logging.FromContext(ctx).Debug().
		Int("found", len(res.Found)).
		Int("missing", len(res.Missing)).
		Msg("Resolved missing roster keys")

	return res, nil
}

// lookup unions both searches, de-duplicated by directory id.
func (r *Resolver) lookup(ctx context.Context, rec identity.RosterRecord) ([]identity.Identity, error) {
	byID := make(map[string]identity.Identity)

	primary, err := r.searcher.SearchByPrimaryKey(ctx, rec.Key.String())
	if err != nil {
		return nil, err
	}
	for _, id := range primary {
		byID[id.ID] = id
	}

	if rec.SecondaryID != "" {
		secondary, err := r.searcher.SearchBySecondaryID(ctx, rec.SecondaryID)
		if err != nil {
			return nil, err
		}
		for _, id := range secondary {
			byID[id.ID] = id
		}
	}

	out := make([]identity.Identity, 0, len(byID))
	for _, id := range byID {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func idsOf(ids []identity.Identity) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.ID
	}
	return out
}
