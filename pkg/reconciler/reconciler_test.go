package reconciler_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostersync/pkg/directory/memory"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/identity"
	"github.com/agentstation/rostersync/pkg/reconciler"
)

const groupID = "g1"

func newRoster(records ...identity.RosterRecord) identity.Roster {
	r, _ := identity.NewRoster(records)
	return r
}

func rec(key, secondary string) identity.RosterRecord {
	return identity.RosterRecord{Key: identity.Key(key), SecondaryID: secondary}
}

func newDirectory(t *testing.T, ids ...identity.Identity) *memory.Directory {
	t.Helper()
	n := 0
	d, err := memory.New(memory.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("u%d", n)
	}))
	require.NoError(t, err)
	d.AddGroup(groupID, "Faculty")
	for _, id := range ids {
		d.Put(id)
	}
	return d
}

func plan(t *testing.T, d *memory.Directory, roster identity.Roster, holds identity.Holds) *reconciler.Plan {
	t.Helper()
	ctx := context.Background()
	members, err := d.ListGroupMembers(ctx, "Faculty")
	require.NoError(t, err)

	r, err := reconciler.New(d, reconciler.WithConcurrency(3))
	require.NoError(t, err)
	p, err := r.Plan(ctx, reconciler.Input{
		GroupName: "Faculty",
		GroupID:   groupID,
		Roster:    roster,
		Members:   members,
		Holds:     holds,
	})
	require.NoError(t, err)
	return p
}

func TestDecidePriority(t *testing.T) {
	r := rec("alice@x", "1001")
	tests := []struct {
		name  string
		found identity.Identity
		want  reconciler.ActionKind
	}{
		{
			name:  "stale key and suspended picks update",
			found: identity.Identity{ID: "u1", PrimaryKey: "alice.old@x", Status: identity.StatusSuspended},
			want:  reconciler.ActionUpdatePrimaryKey,
		},
		{
			name:  "stale key and active picks update",
			found: identity.Identity{ID: "u1", PrimaryKey: "alice.old@x", Status: identity.StatusActive},
			want:  reconciler.ActionUpdatePrimaryKey,
		},
		{
			name:  "case-only difference is not stale",
			found: identity.Identity{ID: "u1", PrimaryKey: "ALICE@x", Status: identity.StatusInactive},
			want:  reconciler.ActionActivate,
		},
		{
			name:  "suspended picks activate",
			found: identity.Identity{ID: "u1", PrimaryKey: "alice@x", Status: identity.StatusSuspended},
			want:  reconciler.ActionActivate,
		},
		{
			name:  "active picks membership",
			found: identity.Identity{ID: "u1", PrimaryKey: "alice@x", Status: identity.StatusActive},
			want:  reconciler.ActionEnsureMembership,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 5; i++ {
				a := reconciler.Decide(r, tt.found, groupID)
				assert.Equal(t, tt.want, a.Kind)
				assert.Equal(t, tt.found.ID, a.Identity.ID)
				assert.Equal(t, groupID, a.GroupID)
			}
		})
	}
}

func TestPlanProvisionsUnknownUser(t *testing.T) {
	d := newDirectory(t)
	p := plan(t, d, newRoster(identity.RosterRecord{Key: "alice", SecondaryID: "1001", FirstName: "Alice", LastName: "A"}), nil)

	assert.Empty(t, p.Found)
	require.Len(t, p.Provision, 1)
	assert.Equal(t, identity.Key("alice"), p.Provision[0].Key)
	assert.Equal(t, "Alice", p.Provision[0].Record.FirstName)
	assert.Empty(t, p.Demote)
	assert.Empty(t, d.Calls(), "planning never mutates")
}

func TestPlanUpdatesStalePrimaryKey(t *testing.T) {
	d := newDirectory(t, identity.Identity{
		ID: "old", PrimaryKey: "alice.old@x", SecondaryID: "1001", Status: identity.StatusSuspended,
	})
	p := plan(t, d, newRoster(rec("alice", "1001")), nil)

	require.Len(t, p.Found, 1)
	assert.Equal(t, reconciler.ActionUpdatePrimaryKey, p.Found[0].Kind)
	assert.Equal(t, "old", p.Found[0].Identity.ID)
	assert.Empty(t, p.Provision)
}

func TestPlanRemovesFoundIdentityFromExtra(t *testing.T) {
	// The member is in the group under an old key and matches the roster by
	// secondary id, so it must be reconciled rather than demoted.
	d := newDirectory(t,
		identity.Identity{ID: "old", PrimaryKey: "alice.old@x", SecondaryID: "1001", GroupIDs: identity.NewGroupIDs(groupID)},
		identity.Identity{ID: "gone", PrimaryKey: "bob@x", GroupIDs: identity.NewGroupIDs(groupID)},
	)
	p := plan(t, d, newRoster(rec("alice@x", "1001")), nil)

	assert.ElementsMatch(t, []identity.Key{"alice.old@x", "bob@x"}, p.Changeset.Extra)
	require.Len(t, p.Found, 1)
	assert.Equal(t, reconciler.ActionUpdatePrimaryKey, p.Found[0].Kind)
	require.Len(t, p.Demote, 1)
	assert.Equal(t, identity.Key("bob@x"), p.Demote[0].Key)
	assert.Equal(t, "gone", p.Demote[0].Identity.ID)
}

func TestPlanPartitionAndNoDoubleClassification(t *testing.T) {
	d := newDirectory(t,
		identity.Identity{ID: "a", PrimaryKey: "a@x", Status: identity.StatusInactive},
		identity.Identity{ID: "b", PrimaryKey: "b.old@x", SecondaryID: "2", GroupIDs: identity.NewGroupIDs(groupID)},
		identity.Identity{ID: "c", PrimaryKey: "c@x"},
		identity.Identity{ID: "x", PrimaryKey: "x@x", GroupIDs: identity.NewGroupIDs(groupID)},
		identity.Identity{ID: "m", PrimaryKey: "m@x", GroupIDs: identity.NewGroupIDs(groupID)},
	)
	roster := newRoster(rec("a@x", "1"), rec("b@x", "2"), rec("c@x", "3"), rec("d@x", "4"), rec("e@x", ""), rec("m@x", "9"))

	p := plan(t, d, roster, nil)

	missing := p.Changeset.MissingSet()
	found := p.FoundKeys()
	provisioned := identity.NewKeySet()
	for _, a := range p.Provision {
		provisioned.Add(a.Key)
	}

	// found and still-missing partition missing
	assert.Len(t, missing, len(found)+len(provisioned))
	for k := range found {
		assert.True(t, missing.Has(k))
		assert.False(t, provisioned.Has(k))
	}
	for k := range provisioned {
		assert.True(t, missing.Has(k))
	}

	// no key in both found and demote, and no found identity demoted
	demoted := p.DemoteKeys()
	for _, a := range p.Found {
		assert.False(t, demoted.Has(a.Key))
		assert.False(t, demoted.Has(a.Identity.Key()))
	}

	assert.Equal(t, []identity.Key{"d@x", "e@x"}, provisioned.Sorted())
	assert.Equal(t, []identity.Key{"x@x"}, demoted.Sorted())
	assert.Equal(t, map[reconciler.ActionKind]int{
		reconciler.ActionActivate:         1,
		reconciler.ActionUpdatePrimaryKey: 1,
		reconciler.ActionEnsureMembership: 1,
		reconciler.ActionProvision:        2,
		reconciler.ActionDemote:           1,
	}, p.Counts())
}

func TestPlanHeldKeysAreNotResolved(t *testing.T) {
	d := newDirectory(t)
	holds := identity.NewHolds([]identity.RosterRecord{{Key: "alice@x"}})
	p := plan(t, d, newRoster(rec("alice@x", "1001")), holds)

	assert.True(t, p.IsEmpty())
	assert.Equal(t, []identity.Key{"alice@x"}, p.Changeset.Held)
}

func TestPlanAmbiguousIdentity(t *testing.T) {
	d := newDirectory(t,
		identity.Identity{ID: "one", PrimaryKey: "alice@x"},
		identity.Identity{ID: "two", PrimaryKey: "someone@x", SecondaryID: "1001"},
	)
	members, err := d.ListGroupMembers(context.Background(), "Faculty")
	require.NoError(t, err)

	r, err := reconciler.New(d)
	require.NoError(t, err)
	_, err = r.Plan(context.Background(), reconciler.Input{
		GroupName: "Faculty", GroupID: groupID, Roster: newRoster(rec("alice@x", "1001")), Members: members,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAmbiguousIdentity)
	var amb *errors.AmbiguousIdentityError
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, []string{"one", "two"}, amb.IDs)
}

func TestPlanSameIdentityClaimedTwice(t *testing.T) {
	d := newDirectory(t, identity.Identity{ID: "one", PrimaryKey: "alice@x", SecondaryID: "1001"})
	r, err := reconciler.New(d)
	require.NoError(t, err)

	_, err = r.Plan(context.Background(), reconciler.Input{
		GroupName: "Faculty",
		GroupID:   groupID,
		Roster:    newRoster(rec("alice@x", ""), rec("other@x", "1001")),
		Members:   identity.Members{},
	})
	assert.ErrorIs(t, err, errors.ErrAmbiguousIdentity)
}

func TestWithConcurrencyValidation(t *testing.T) {
	_, err := reconciler.New(nil, reconciler.WithConcurrency(0))
	assert.True(t, errors.IsValidationError(err))
	_, err = reconciler.New(nil, reconciler.WithDiffer(nil))
	assert.True(t, errors.IsValidationError(err))
}

func TestPlanBackfill(t *testing.T) {
	roster := newRoster(rec("a@x", "1"), rec("b@x", "2"), rec("c@x", ""))
	members := identity.NewMembers([]identity.Identity{
		{ID: "a", PrimaryKey: "a@x", Status: identity.StatusActive},
		{ID: "b", PrimaryKey: "b@x", SecondaryID: "2", Status: identity.StatusActive},
		{ID: "c", PrimaryKey: "c@x", Status: identity.StatusActive},
		{ID: "z", PrimaryKey: "z@x", Status: identity.StatusActive},
	})

	actions := reconciler.PlanBackfill(roster, members, groupID)
	require.Len(t, actions, 1)
	assert.Equal(t, reconciler.ActionBackfillSecondaryID, actions[0].Kind)
	assert.Equal(t, "a", actions[0].Identity.ID)
	assert.Equal(t, "1", actions[0].Record.SecondaryID)
}

func TestPlanSuspensions(t *testing.T) {
	roster := newRoster(rec("a@x", "1"))
	members := identity.NewMembers([]identity.Identity{
		{ID: "a", PrimaryKey: "a@x", Status: identity.StatusActive},
		{ID: "b", PrimaryKey: "b@x", Status: identity.StatusActive},
		{ID: "c", PrimaryKey: "c@x", Status: identity.StatusActive},
	})
	holds := identity.NewHolds([]identity.RosterRecord{{Key: "a@x"}, {Key: "b@x"}, {Key: "q@x"}})

	actions := reconciler.PlanSuspensions(holds, roster, members, groupID)
	require.Len(t, actions, 2)
	assert.Equal(t, identity.Key("a@x"), actions[0].Key)
	assert.Equal(t, identity.Key("b@x"), actions[1].Key)
	for _, a := range actions {
		assert.Equal(t, reconciler.ActionSuspend, a.Kind)
	}

	assert.Nil(t, reconciler.PlanSuspensions(nil, roster, members, groupID))
}

func TestPlanString(t *testing.T) {
	d := newDirectory(t)
	p := plan(t, d, newRoster(rec("alice@x", "")), nil)
	assert.Equal(t, "Faculty: 1 provision", p.String())

	empty := plan(t, d, newRoster(), nil)
	assert.Equal(t, "Faculty: no changes", empty.String())
}

func TestPlanKeepsHeldExtraMember(t *testing.T) {
	d := newDirectory(t,
		identity.Identity{ID: "a", PrimaryKey: "alice@x", Status: identity.StatusActive, GroupIDs: identity.NewGroupIDs(groupID)},
		identity.Identity{ID: "b", PrimaryKey: "bob@x", Status: identity.StatusActive, GroupIDs: identity.NewGroupIDs(groupID)},
		identity.Identity{ID: "c", PrimaryKey: "carol@x", Status: identity.StatusActive, GroupIDs: identity.NewGroupIDs(groupID)},
	)
	holds := identity.NewHolds([]identity.RosterRecord{{Key: "BOB@x"}})
	p := plan(t, d, newRoster(rec("alice@x", "")), holds)

	assert.Equal(t, []identity.Key{"bob@x", "carol@x"}, p.Changeset.Extra)
	require.Len(t, p.Demote, 1)
	assert.Equal(t, identity.Key("carol@x"), p.Demote[0].Key)
	assert.Equal(t, []identity.Key{"bob@x"}, p.Kept)
}
