// Package reconciler turns a roster snapshot and a directory snapshot into the
// ordered set of corrective actions for one group. It resolves missing roster
// keys against the whole directory, applies the found-user decision rules and
// corrects the extra set, all without mutating anything.
package reconciler

import (
	"context"

	"github.com/agentstation/rostersync/pkg/identity"
	"github.com/agentstation/rostersync/pkg/logging"
)

// Reconciler builds plans.
type Reconciler interface {
	// Plan computes the actions for the resolve, provision and demote steps.
	Plan(ctx context.Context, in Input) (*Plan, error)
}

// Input is the snapshot set for one group.
type Input struct {
	GroupName string
	GroupID   string
	Roster    identity.Roster
	Members   identity.Members
	// Holds is nil when holds are not configured for the group.
	Holds identity.Holds
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	opts     *options
	resolver *Resolver
}

// New creates a Reconciler that looks up identities through searcher.
func New(searcher Searcher, opts ...Option) (Reconciler, error) {
	options, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{
		opts:     options,
		resolver: NewResolver(searcher, options.concurrency),
	}, nil
}

// Plan runs diff, resolve, decide and the extra-set correction.
func (r *reconciler) Plan(ctx context.Context, in Input) (*Plan, error) {
	logger := logging.FromContext(ctx)

	// Step 1: Diff
	changeset := r.opts.differ.Diff(in.Roster, in.Members, in.Holds)
	logger.Info().
		Int("roster", len(in.Roster)).
		Int("members", len(in.Members)).
		Int("missing", len(changeset.Missing)).
		Int("extra", len(changeset.Extra)).
		Int("held", len(changeset.Held)).
		Msg("Diff computed")

	// Step 2: Resolve
	resolution, err := r.resolver.Resolve(ctx, in.Roster, changeset.Missing)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		GroupName: in.GroupName,
		GroupID:   in.GroupID,
		Changeset: changeset,
		Found:     []Action{},
		Provision: []Action{},
		Demote:    []Action{},
	}

	// Step 3: Decide for found users and correct extra
	extra := changeset.ExtraSet()
	for _, key := range resolution.FoundKeys() {
		found := resolution.Found[key]
		action := Decide(in.Roster[key], found, in.GroupID)
		plan.Found = append(plan.Found, action)
		extra.Delete(found.Key())

		if action.Kind != ActionEnsureMembership {
			logger.Debug().
				Str("user", key.String()).
				Str("action", action.Kind.String()).
				Msg("Group membership deferred to a later run")
		}
	}

	for _, key := range resolution.Missing {
		plan.Provision = append(plan.Provision, Action{
			Kind:    ActionProvision,
			Key:     key,
			Record:  in.Roster[key],
			GroupID: in.GroupID,
		})
	}

	for _, key := range extra.Sorted() {
		// A held member stays in the group; the holds pass suspends it.
		if in.Holds.Has(key) {
			plan.Kept = append(plan.Kept, key)
			continue
		}
		plan.Demote = append(plan.Demote, Action{
			Kind:     ActionDemote,
			Key:      key,
			Identity: in.Members[key],
			GroupID:  in.GroupID,
		})
	}

	logger.Info().Str("plan", plan.String()).Msg("Plan built")
	return plan, nil
}

// PlanBackfill returns a backfill action for every Active member present in
// the roster whose secondary id is empty while the roster has one.
func PlanBackfill(roster identity.Roster, members identity.Members, groupID string) []Action {
	var actions []Action
	for _, key := range members.Keys() {
		member := members[key]
		rec, ok := roster[key]
		if !ok || !member.IsActive() || member.SecondaryID != "" || rec.SecondaryID == "" {
			continue
		}
		actions = append(actions, Action{
			Kind:     ActionBackfillSecondaryID,
			Key:      key,
			Identity: member,
			Record:   rec,
			GroupID:  groupID,
		})
	}
	return actions
}

// PlanSuspensions returns a suspend action for every held key that is an
// Active group member, whether or not it is on the roster.
func PlanSuspensions(holds identity.Holds, roster identity.Roster, members identity.Members, groupID string) []Action {
	if !holds.Enabled() {
		return nil
	}
	var actions []Action
	for _, key := range holds.Keys() {
		member, ok := members[key]
		if !ok || !member.IsActive() {
			continue
		}
		actions = append(actions, Action{
			Kind:     ActionSuspend,
			Key:      key,
			Identity: member,
			Record:   roster[key],
			GroupID:  groupID,
		})
	}
	return actions
}
