package reconciler

import (
	"fmt"

	"github.com/agentstation/rostersync/pkg/identity"
)

// ActionKind names one corrective directory operation.
type ActionKind string

// Action kinds, in the order the orchestrator applies them.
const (
	// ActionUpdatePrimaryKey rewrites a found identity's primary key to the roster key.
	ActionUpdatePrimaryKey ActionKind = "update_primary_key"
	// ActionActivate sets a found identity's status to Active.
	ActionActivate ActionKind = "activate"
	// ActionEnsureMembership adds a found identity to the group.
	ActionEnsureMembership ActionKind = "ensure_membership"
	// ActionProvision creates a new identity and adds it to the group.
	ActionProvision ActionKind = "provision"
	// ActionDemote removes a member that left the roster from the group.
	ActionDemote ActionKind = "demote"
	// ActionBackfillSecondaryID copies the roster secondary id onto a member lacking one.
	ActionBackfillSecondaryID ActionKind = "backfill_secondary_id"
	// ActionSuspend suspends an Active member on hold.
	ActionSuspend ActionKind = "suspend"
)

// Kinds lists every action kind in application order.
var Kinds = []ActionKind{
	ActionUpdatePrimaryKey,
	ActionActivate,
	ActionEnsureMembership,
	ActionProvision,
	ActionDemote,
	ActionBackfillSecondaryID,
	ActionSuspend,
}

// String returns the kind name.
func (k ActionKind) String() string {
	return string(k)
}

// Action is a single planned directory mutation for one roster key.
type Action struct {
	Kind ActionKind `json:"kind" yaml:"kind"`

	// Key is the roster key for found, provision, backfill and suspend
	// actions, and the member key for demote actions.
	Key identity.Key `json:"key" yaml:"key"`

	// Identity is the directory identity acted on. Zero for provisioning.
	Identity identity.Identity `json:"identity,omitempty" yaml:"identity,omitempty"`

	// Record is the roster record driving the action. Zero for demotion and
	// for suspension of a held key absent from the roster.
	Record identity.RosterRecord `json:"record,omitempty" yaml:"record,omitempty"`

	// GroupID is the target group.
	GroupID string `json:"group_id" yaml:"group_id"`
}

// String returns a one-line description used in logs and dry-run output.
func (a Action) String() string {
	switch a.Kind {
	case ActionUpdatePrimaryKey:
		return fmt.Sprintf("%s: %s -> %s", a.Kind, a.Identity.PrimaryKey, a.Key)
	case ActionActivate:
		return fmt.Sprintf("%s: %s (%s)", a.Kind, a.Key, a.Identity.Status)
	case ActionProvision:
		return fmt.Sprintf("%s: %s", a.Kind, a.Key)
	case ActionBackfillSecondaryID:
		return fmt.Sprintf("%s: %s = %s", a.Kind, a.Key, a.Record.SecondaryID)
	default:
		return fmt.Sprintf("%s: %s", a.Kind, a.Key)
	}
}

// Decide returns the single corrective action for a roster record that
// resolved to exactly one directory identity. The first matching rule wins:
//
//  1. primary key differs from the roster key: UpdatePrimaryKey
//  2. status is not Active: Activate
//  3. otherwise: EnsureMembership
func Decide(rec identity.RosterRecord, found identity.Identity, groupID string) Action {
	action := Action{
		Key:      rec.Key,
		Identity: found,
		Record:   rec,
		GroupID:  groupID,
	}
	switch {
	case found.Key() != rec.Key:
		action.Kind = ActionUpdatePrimaryKey
	case !found.IsActive():
		action.Kind = ActionActivate
	default:
		action.Kind = ActionEnsureMembership
	}
	return action
}
