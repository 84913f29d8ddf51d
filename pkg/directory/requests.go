package directory

import (
	"strings"

	"github.com/agentstation/rostersync/internal/utils/ptr"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/identity"
)

// NewIdentity is the payload for CreateIdentity.
type NewIdentity struct {
	PrimaryKey  string `json:"primary_key"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	SecondaryID string `json:"secondary_id,omitempty"`
}

// NewIdentityFromRecord builds a creation request from a roster record.
func NewIdentityFromRecord(rec identity.RosterRecord) NewIdentity {
	return NewIdentity{
		PrimaryKey:  rec.Key.String(),
		FirstName:   rec.FirstName,
		LastName:    rec.LastName,
		SecondaryID: rec.SecondaryID,
	}
}

// Validate checks the request before it reaches the network.
func (n NewIdentity) Validate() error {
	if strings.TrimSpace(n.PrimaryKey) == "" {
		return errors.NewValidationError("primary_key", n.PrimaryKey, "primary key is required")
	}
	return nil
}

// IdentityUpdate is a partial update. Nil fields are left unchanged.
type IdentityUpdate struct {
	PrimaryKey  *string `json:"primary_key,omitempty"`
	SecondaryID *string `json:"secondary_id,omitempty"`
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
}

// IsEmpty reports whether the update sets no fields.
func (u IdentityUpdate) IsEmpty() bool {
	return u.PrimaryKey == nil && u.SecondaryID == nil && u.FirstName == nil && u.LastName == nil
}

// Validate rejects an update with no fields or a blank primary key.
func (u IdentityUpdate) Validate() error {
	if u.IsEmpty() {
		return errors.NewValidationError("update", nil, "update has no fields")
	}
	if u.PrimaryKey != nil && strings.TrimSpace(*u.PrimaryKey) == "" {
		return errors.NewValidationError("primary_key", *u.PrimaryKey, "primary key cannot be blank")
	}
	return nil
}

// Apply copies the set fields onto id.
func (u IdentityUpdate) Apply(id *identity.Identity) {
	if u.PrimaryKey != nil {
		id.PrimaryKey = *u.PrimaryKey
	}
	if u.SecondaryID != nil {
		id.SecondaryID = *u.SecondaryID
	}
	if u.FirstName != nil {
		id.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		id.LastName = *u.LastName
	}
}

// SetPrimaryKey returns an update that changes only the primary key.
func SetPrimaryKey(key string) IdentityUpdate {
	return IdentityUpdate{PrimaryKey: ptr.To(key)}
}

// SetSecondaryID returns an update that changes only the secondary id.
func SetSecondaryID(id string) IdentityUpdate {
	return IdentityUpdate{SecondaryID: ptr.To(id)}
}
