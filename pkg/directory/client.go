// Package directory defines the access-control directory operations the sync
// engine depends on, together with the request types and validation shared by
// every implementation.
//
// Implementations:
//   - internal/openpath: the Openpath HTTP API
//   - pkg/directory/memory: an in-process directory for tests and demos
//   - ReadOnly: a dry-run wrapper that records mutations instead of sending them
package directory

//go:generate mockgen -destination=mocks/client_mock.go -package=mocks github.com/agentstation/rostersync/pkg/directory Client

import (
	"context"

	"github.com/agentstation/rostersync/pkg/identity"
)

// Reader is the read side of a directory.
type Reader interface {
	// ListGroupMembers returns the Active members of the named group.
	ListGroupMembers(ctx context.Context, groupName string) (identity.Members, error)

	// SearchByPrimaryKey searches the whole directory, case-insensitively.
	SearchByPrimaryKey(ctx context.Context, key string) ([]identity.Identity, error)

	// SearchBySecondaryID searches the whole directory by external id.
	SearchBySecondaryID(ctx context.Context, id string) ([]identity.Identity, error)

	// ResolveGroupID maps a group name to its directory id. More than one
	// match fails with an AmbiguousGroupError.
	ResolveGroupID(ctx context.Context, groupName string) (string, error)
}

// Writer is the mutating side of a directory. Every method is idempotent with
// respect to its target state.
type Writer interface {
	CreateIdentity(ctx context.Context, req NewIdentity) (identity.Identity, error)
	UpdateIdentity(ctx context.Context, id string, update IdentityUpdate) error
	SetStatus(ctx context.Context, id string, status identity.Status) error
	AddToGroup(ctx context.Context, id, groupID string) error
	RemoveFromGroup(ctx context.Context, id, groupID string) error
}

// Client is a full directory client.
type Client interface {
	Reader
	Writer
}
