package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostersync/pkg/directory"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/identity"
)

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	})
}

func newDirectory(t *testing.T, opts ...Option) *Directory {
	t.Helper()
	d, err := New(append([]Option{sequentialIDs()}, opts...)...)
	require.NoError(t, err)
	return d
}

func TestGroupMutationIsIdempotent(t *testing.T) {
	ctx := context.Background()
	d := newDirectory(t)
	gid := d.AddGroup("g1", "Faculty")
	u := d.Put(identity.Identity{PrimaryKey: "alice@x"})

	require.NoError(t, d.AddToGroup(ctx, u.ID, gid))
	require.NoError(t, d.AddToGroup(ctx, u.ID, gid))
	got, _ := d.Get(u.ID)
	assert.Equal(t, []string{"g1"}, got.GroupIDs.Sorted())

	require.NoError(t, d.RemoveFromGroup(ctx, u.ID, gid))
	require.NoError(t, d.RemoveFromGroup(ctx, u.ID, gid))
	got, _ = d.Get(u.ID)
	assert.Empty(t, got.GroupIDs.Sorted())
}

func TestMutationsOnUnknownTargets(t *testing.T) {
	ctx := context.Background()
	d := newDirectory(t)
	u := d.Put(identity.Identity{PrimaryKey: "alice@x"})

	err := d.AddToGroup(ctx, u.ID, "nope")
	assert.True(t, errors.IsRemoteOperationFailed(err))

	err = d.SetStatus(ctx, "missing", identity.StatusActive)
	assert.True(t, errors.IsRemoteOperationFailed(err))
	assert.True(t, errors.IsNotFound(err))
}

func TestValidationBeforeMutation(t *testing.T) {
	ctx := context.Background()
	d := newDirectory(t)
	u := d.Put(identity.Identity{PrimaryKey: "alice@x"})

	err := d.UpdateIdentity(ctx, u.ID, directory.IdentityUpdate{})
	assert.True(t, errors.IsValidationError(err))

	err = d.SetStatus(ctx, u.ID, identity.Status("deleted"))
	assert.True(t, errors.IsValidationError(err))

	assert.Empty(t, d.Calls(), "validation failures never reach the directory")
}

func TestListGroupMembersReturnsActiveOnly(t *testing.T) {
	ctx := context.Background()
	d := newDirectory(t)
	gid := d.AddGroup("", "Faculty")
	other := d.AddGroup("", "Staff")

	d.Put(identity.Identity{PrimaryKey: "Alice@X", GroupIDs: identity.NewGroupIDs(gid)})
	d.Put(identity.Identity{PrimaryKey: "bob@x", Status: identity.StatusSuspended, GroupIDs: identity.NewGroupIDs(gid)})
	d.Put(identity.Identity{PrimaryKey: "carol@x", GroupIDs: identity.NewGroupIDs(other)})

	members, err := d.ListGroupMembers(ctx, "Faculty")
	require.NoError(t, err)
	assert.Equal(t, []identity.Key{"alice@x"}, members.Keys())
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	d := newDirectory(t)
	d.Put(identity.Identity{PrimaryKey: "Alice@X", SecondaryID: "1001", Status: identity.StatusInactive})
	d.Put(identity.Identity{PrimaryKey: "bob@x"})

	got, err := d.SearchByPrimaryKey(ctx, "alice@x")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alice@X", got[0].PrimaryKey)

	got, err = d.SearchBySecondaryID(ctx, "1001")
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = d.SearchBySecondaryID(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolveGroupID(t *testing.T) {
	ctx := context.Background()
	d := newDirectory(t)
	d.AddGroup("g1", "Faculty")
	d.AddGroup("g2", "Staff")
	d.AddGroup("g3", "Staff")

	id, err := d.ResolveGroupID(ctx, "Faculty")
	require.NoError(t, err)
	assert.Equal(t, "g1", id)

	_, err = d.ResolveGroupID(ctx, "Staff")
	assert.ErrorIs(t, err, errors.ErrAmbiguousGroup)
	var amb *errors.AmbiguousGroupError
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, []string{"g2", "g3"}, amb.IDs)

	_, err = d.ResolveGroupID(ctx, "Nobody")
	assert.True(t, errors.IsNotFound(err))
}

func TestCreateIdentityRejectsDuplicateKey(t *testing.T) {
	ctx := context.Background()
	d := newDirectory(t)

	created, err := d.CreateIdentity(ctx, directory.NewIdentity{PrimaryKey: "alice@x", SecondaryID: "1001"})
	require.NoError(t, err)
	assert.Equal(t, identity.StatusActive, created.Status)
	assert.Equal(t, "id-001", created.ID)

	_, err = d.CreateIdentity(ctx, directory.NewIdentity{PrimaryKey: "ALICE@x"})
	assert.True(t, errors.IsRemoteOperationFailed(err))
}

func TestFailOn(t *testing.T) {
	ctx := context.Background()
	d := newDirectory(t)
	u := d.Put(identity.Identity{PrimaryKey: "alice@x"})
	boom := errors.NewAPIError(service, 500, "boom")
	d.FailOn(directory.MethodSetStatus, u.ID, boom)

	err := d.SetStatus(ctx, u.ID, identity.StatusSuspended)
	assert.ErrorIs(t, err, boom)
	got, _ := d.Get(u.ID)
	assert.Equal(t, identity.StatusActive, got.Status)
}

func TestReturnedIdentitiesAreCopies(t *testing.T) {
	d := newDirectory(t)
	u := d.Put(identity.Identity{PrimaryKey: "alice@x", GroupIDs: identity.NewGroupIDs("g1")})
	u.GroupIDs.Add("g2")

	got, _ := d.Get(u.ID)
	assert.Equal(t, []string{"g1"}, got.GroupIDs.Sorted())
}

func TestWithPreload(t *testing.T) {
	fixture := []byte(`
groups:
  - id: g1
    name: Faculty
identities:
  - id: u1
    primary_key: alice.old@x
    secondary_id: "1001"
    status: suspended
  - id: u2
    primary_key: bob@x
    groups: [g1]
`)
	d := newDirectory(t, WithPreload(fixture))

	u1, ok := d.Get("u1")
	require.True(t, ok)
	assert.Equal(t, identity.StatusSuspended, u1.Status)
	assert.Equal(t, "1001", u1.SecondaryID)

	members, err := d.ListGroupMembers(context.Background(), "Faculty")
	require.NoError(t, err)
	assert.Equal(t, []identity.Key{"bob@x"}, members.Keys())
}

func TestWithPreloadRejectsBadStatus(t *testing.T) {
	_, err := New(WithPreload([]byte("identities:\n  - primary_key: a@x\n    status: gone\n")))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}
