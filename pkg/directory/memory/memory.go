// Package memory provides an in-process directory. It honours the same
// contract as the Openpath client (case-insensitive search, idempotent group
// mutation, Active-only group listing) and is used by tests, examples and
// offline dry runs against a fixture file.
package memory

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/agentstation/rostersync/pkg/directory"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/identity"
)

const service = "memory"

// Compile-time interface check.
var _ directory.Client = (*Directory)(nil)

// Directory is a thread-safe in-memory directory.
type Directory struct {
	mu         sync.RWMutex
	identities map[string]*identity.Identity
	groups     map[string]string // id -> name
	calls      []directory.Call
	failures   map[failureKey]error
	newID      func() string
}

type failureKey struct {
	method directory.Method
	target string
}

// New creates an empty directory.
func New(opts ...Option) (*Directory, error) {
	d := &Directory{
		identities: make(map[string]*identity.Identity),
		groups:     make(map[string]string),
		failures:   make(map[failureKey]error),
		newID:      func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, fmt.Errorf("applying memory option: %w", err)
		}
	}
	return d, nil
}

// AddGroup registers a group and returns its id. An empty id is generated.
func (d *Directory) AddGroup(id, name string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if id == "" {
		id = d.newID()
	}
	d.groups[id] = name
	return id
}

// Put inserts or replaces an identity as-is. An empty ID is generated.
func (d *Directory) Put(id identity.Identity) identity.Identity {
	d.mu.Lock()
	defer d.mu.Unlock()
	if id.ID == "" {
		id.ID = d.newID()
	}
	if id.Status == "" {
		id.Status = identity.StatusActive
	}
	id.GroupIDs = id.GroupIDs.Clone()
	d.identities[id.ID] = &id
	return clone(&id)
}

// Get returns the identity with the given directory id.
func (d *Directory) Get(id string) (identity.Identity, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rec, ok := d.identities[id]
	if !ok {
		return identity.Identity{}, false
	}
	return clone(rec), true
}

// Identities returns every identity ordered by id.
func (d *Directory) Identities() []identity.Identity {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]identity.Identity, 0, len(d.identities))
	for _, rec := range d.identities {
		out = append(out, clone(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Calls returns the mutations applied so far, including no-op ones.
func (d *Directory) Calls() []directory.Call {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]directory.Call, len(d.calls))
	copy(out, d.calls)
	return out
}

// ResetCalls clears the call log.
func (d *Directory) ResetCalls() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = nil
}

// FailOn makes method fail with err whenever it targets target. For
// CreateIdentity the target is the primary key; otherwise the identity id.
func (d *Directory) FailOn(method directory.Method, target string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures[failureKey{method: method, target: target}] = err
}

// ListGroupMembers implements directory.Client.
func (d *Directory) ListGroupMembers(_ context.Context, groupName string) (identity.Members, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := d.groupIDsByName(groupName)
	var active []identity.Identity
	for _, rec := range d.identities {
		if !rec.IsActive() {
			continue
		}
		for _, gid := range ids {
			if rec.InGroup(gid) {
				active = append(active, clone(rec))
				break
			}
		}
	}
	return identity.NewMembers(active), nil
}

// SearchByPrimaryKey implements directory.Client.
func (d *Directory) SearchByPrimaryKey(_ context.Context, key string) ([]identity.Identity, error) {
	want := identity.NormalizeKey(key)
	if want == "" {
		return nil, nil
	}
	return d.search(func(rec *identity.Identity) bool { return rec.Key() == want }), nil
}

// SearchBySecondaryID implements directory.Client.
func (d *Directory) SearchBySecondaryID(_ context.Context, id string) ([]identity.Identity, error) {
	if id == "" {
		return nil, nil
	}
	return d.search(func(rec *identity.Identity) bool { return rec.SecondaryID == id }), nil
}

// ResolveGroupID implements directory.Client.
func (d *Directory) ResolveGroupID(_ context.Context, groupName string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := d.groupIDsByName(groupName)
	switch len(ids) {
	case 0:
		return "", errors.NewNotFoundError("group", groupName)
	case 1:
		return ids[0], nil
	default:
		return "", &errors.AmbiguousGroupError{Name: groupName, IDs: ids}
	}
}

// CreateIdentity implements directory.Client. A primary key already in use is
// rejected the way the remote directory rejects it.
func (d *Directory) CreateIdentity(_ context.Context, req directory.NewIdentity) (identity.Identity, error) {
	if err := req.Validate(); err != nil {
		return identity.Identity{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls = append(d.calls, directory.Call{Method: directory.MethodCreateIdentity, Target: req.PrimaryKey, Detail: req.SecondaryID})
	if err := d.failure(directory.MethodCreateIdentity, req.PrimaryKey); err != nil {
		return identity.Identity{}, err
	}

	key := identity.NormalizeKey(req.PrimaryKey)
	for _, rec := range d.identities {
		if rec.Key() == key {
			return identity.Identity{}, errors.NewAPIError(service, http.StatusConflict, "primary key already in use: "+req.PrimaryKey)
		}
	}

	rec := &identity.Identity{
		ID:          d.newID(),
		PrimaryKey:  req.PrimaryKey,
		SecondaryID: req.SecondaryID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Status:      identity.StatusActive,
		GroupIDs:    identity.NewGroupIDs(),
	}
	d.identities[rec.ID] = rec
	return clone(rec), nil
}

// UpdateIdentity implements directory.Client.
func (d *Directory) UpdateIdentity(_ context.Context, id string, update directory.IdentityUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	return d.mutate(directory.MethodUpdateIdentity, id, "", func(rec *identity.Identity) {
		update.Apply(rec)
	})
}

// SetStatus implements directory.Client.
func (d *Directory) SetStatus(_ context.Context, id string, status identity.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	return d.mutate(directory.MethodSetStatus, id, status.String(), func(rec *identity.Identity) {
		rec.Status = status
	})
}

// AddToGroup implements directory.Client.
func (d *Directory) AddToGroup(_ context.Context, id, groupID string) error {
	return d.mutate(directory.MethodAddToGroup, id, groupID, func(rec *identity.Identity) {
		rec.GroupIDs.Add(groupID)
	})
}

// RemoveFromGroup implements directory.Client.
func (d *Directory) RemoveFromGroup(_ context.Context, id, groupID string) error {
	return d.mutate(directory.MethodRemoveFromGroup, id, groupID, func(rec *identity.Identity) {
		rec.GroupIDs.Remove(groupID)
	})
}

func (d *Directory) mutate(method directory.Method, id, detail string, apply func(*identity.Identity)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls = append(d.calls, directory.Call{Method: method, Target: id, Detail: detail})
	if err := d.failure(method, id); err != nil {
		return err
	}

	rec, ok := d.identities[id]
	if !ok {
		return errors.NewAPIError(service, http.StatusNotFound, "user "+id+" not found")
	}
	if method == directory.MethodAddToGroup || method == directory.MethodRemoveFromGroup {
		if _, known := d.groups[detail]; !known {
			return errors.NewAPIError(service, http.StatusNotFound, "group "+detail+" not found")
		}
	}
	if rec.GroupIDs == nil {
		rec.GroupIDs = identity.NewGroupIDs()
	}
	apply(rec)
	return nil
}

func (d *Directory) failure(method directory.Method, target string) error {
	return d.failures[failureKey{method: method, target: target}]
}

func (d *Directory) search(match func(*identity.Identity) bool) []identity.Identity {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []identity.Identity
	for _, rec := range d.identities {
		if match(rec) {
			out = append(out, clone(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// groupIDsByName must be called with the lock held.
func (d *Directory) groupIDsByName(name string) []string {
	var ids []string
	for id, n := range d.groups {
		if n == name {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func clone(rec *identity.Identity) identity.Identity {
	c := *rec
	c.GroupIDs = rec.GroupIDs.Clone()
	return c
}
