package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/agentstation/rostersync/internal/utils/ptr"
	"github.com/agentstation/rostersync/pkg/identity"
)

// DryRunIDPrefix marks identity ids fabricated by a ReadOnly directory.
const DryRunIDPrefix = "dry-run:"

// NewReadOnly wraps a client so reads pass through and writes are recorded
// instead of sent. Writes are still validated, so a dry run surfaces the same
// validation errors a real run would.
//
// Example:
//
//	ro := directory.NewReadOnly(client)
//	_ = ro.SetStatus(ctx, "42", identity.StatusSuspended) // recorded, not sent
//	fmt.Println(ro.Calls())
func NewReadOnly(source Client) *ReadOnly {
	return &ReadOnly{source: source}
}

// Compile-time interface check.
var _ Client = (*ReadOnly)(nil)

// ReadOnly is a dry-run Client.
type ReadOnly struct {
	source Client

	mu    sync.Mutex
	calls []Call
}

// Calls returns a copy of the recorded mutations in call order.
func (r *ReadOnly) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *ReadOnly) record(method Method, target, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Method: method, Target: target, Detail: detail})
}

// ListGroupMembers implements Client.
func (r *ReadOnly) ListGroupMembers(ctx context.Context, groupName string) (identity.Members, error) {
	return r.source.ListGroupMembers(ctx, groupName)
}

// SearchByPrimaryKey implements Client.
func (r *ReadOnly) SearchByPrimaryKey(ctx context.Context, key string) ([]identity.Identity, error) {
	return r.source.SearchByPrimaryKey(ctx, key)
}

// SearchBySecondaryID implements Client.
func (r *ReadOnly) SearchBySecondaryID(ctx context.Context, id string) ([]identity.Identity, error) {
	return r.source.SearchBySecondaryID(ctx, id)
}

// ResolveGroupID implements Client.
func (r *ReadOnly) ResolveGroupID(ctx context.Context, groupName string) (string, error) {
	return r.source.ResolveGroupID(ctx, groupName)
}

// CreateIdentity implements Client. The returned identity carries a
// placeholder id so later recorded calls can refer to it.
func (r *ReadOnly) CreateIdentity(_ context.Context, req NewIdentity) (identity.Identity, error) {
	if err := req.Validate(); err != nil {
		return identity.Identity{}, err
	}
	r.record(MethodCreateIdentity, req.PrimaryKey, req.SecondaryID)
	return identity.Identity{
		ID:          DryRunIDPrefix + identity.NormalizeKey(req.PrimaryKey).String(),
		PrimaryKey:  req.PrimaryKey,
		SecondaryID: req.SecondaryID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Status:      identity.StatusActive,
		GroupIDs:    identity.NewGroupIDs(),
	}, nil
}

// UpdateIdentity implements Client.
func (r *ReadOnly) UpdateIdentity(_ context.Context, id string, update IdentityUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	r.record(MethodUpdateIdentity, id, describeUpdate(update))
	return nil
}

// SetStatus implements Client.
func (r *ReadOnly) SetStatus(_ context.Context, id string, status identity.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	r.record(MethodSetStatus, id, status.String())
	return nil
}

// AddToGroup implements Client.
func (r *ReadOnly) AddToGroup(_ context.Context, id, groupID string) error {
	r.record(MethodAddToGroup, id, groupID)
	return nil
}

// RemoveFromGroup implements Client.
func (r *ReadOnly) RemoveFromGroup(_ context.Context, id, groupID string) error {
	r.record(MethodRemoveFromGroup, id, groupID)
	return nil
}

func describeUpdate(u IdentityUpdate) string {
	var s string
	add := func(name string, v *string) {
		if v == nil {
			return
		}
		if s != "" {
			s += " "
		}
		s += fmt.Sprintf("%s=%s", name, ptr.Value(v))
	}
	add("primary_key", u.PrimaryKey)
	add("secondary_id", u.SecondaryID)
	add("first_name", u.FirstName)
	add("last_name", u.LastName)
	return s
}
