package sync

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	"github.com/agentstation/rostersync/pkg/directory"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/identity"
	"github.com/agentstation/rostersync/pkg/logging"
	"github.com/agentstation/rostersync/pkg/reconciler"
)

type outcome struct {
	action reconciler.Action
	err    error
}

// apply runs actions on a bounded pool. A failed action is recorded against
// its user and never stops the others; the returned error is always nil.
func (r *groupRun) apply(ctx context.Context, actions []reconciler.Action) error {
	if len(actions) == 0 {
		return nil
	}

	p := pool.NewWithResults[outcome]().WithMaxGoroutines(r.o.opts.Concurrency)
	for _, action := range actions {
		action := action
		p.Go(func() outcome {
			return outcome{action: action, err: r.applyOne(ctx, action)}
		})
	}
	outcomes := p.Wait()

	logger := logging.FromContext(ctx)
	applied := 0
	for _, oc := range outcomes {
		kind := oc.action.Kind
		r.o.observer.RecordAction(r.cfg.Name, kind.String(), oc.err)
		if oc.err != nil {
			r.result.Failures = append(r.result.Failures, Failure{Key: oc.action.Key, Action: kind, Err: oc.err})
			logger.Warn().
				Err(oc.err).
				Str("user", oc.action.Key.String()).
				Str("action", kind.String()).
				Msg("Action failed, skipping user")
			continue
		}
		r.result.Applied[kind]++
		applied++
	}

	logger.Info().
		Int("planned", len(actions)).
		Int("applied", applied).
		Int("failed", len(actions)-applied).
		Msg("Step complete")
	return nil
}

// applyOne performs the directory calls for one action.
func (r *groupRun) applyOne(ctx context.Context, a reconciler.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx = logging.WithUser(ctx, a.Key.String())
	logging.FromContext(ctx).Debug().Str("action", a.String()).Msg("Applying")

	switch a.Kind {
	case reconciler.ActionUpdatePrimaryKey:
		return r.client.UpdateIdentity(ctx, a.Identity.ID, directory.SetPrimaryKey(a.Key.String()))

	case reconciler.ActionActivate:
		// Membership follows on the next run, once the identity is Active.
		return r.client.SetStatus(ctx, a.Identity.ID, identity.StatusActive)

	case reconciler.ActionEnsureMembership:
		return r.client.AddToGroup(ctx, a.Identity.ID, a.GroupID)

	case reconciler.ActionProvision:
		created, err := r.client.CreateIdentity(ctx, directory.NewIdentityFromRecord(a.Record))
		if err != nil {
			return err
		}
		return r.client.AddToGroup(ctx, created.ID, a.GroupID)

	case reconciler.ActionDemote:
		return r.client.RemoveFromGroup(ctx, a.Identity.ID, a.GroupID)

	case reconciler.ActionBackfillSecondaryID:
		return r.client.UpdateIdentity(ctx, a.Identity.ID, directory.SetSecondaryID(a.Record.SecondaryID))

	case reconciler.ActionSuspend:
		return r.client.SetStatus(ctx, a.Identity.ID, identity.StatusSuspended)
	}
	return errors.NewValidationError("kind", a.Kind, "unknown action kind")
}
