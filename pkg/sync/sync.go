package sync

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/rostersync/pkg/directory"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/identity"
	"github.com/agentstation/rostersync/pkg/logging"
	"github.com/agentstation/rostersync/pkg/reconciler"
	"github.com/agentstation/rostersync/pkg/roster"
)

const tracerName = "github.com/agentstation/rostersync/pkg/sync"

// Orchestrator synchronizes a set of groups against one directory.
type Orchestrator struct {
	directory directory.Client
	provider  roster.Provider
	groups    []identity.GroupConfig
	opts      *Options
	observer  Observer
	tracer    trace.Tracer
}

// New creates an Orchestrator. The group filter in opts is checked against
// groups here so that a typo fails before any directory call.
func New(dir directory.Client, provider roster.Provider, groups identity.Groups, opts ...Option) (*Orchestrator, error) {
	options := Defaults().Apply(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}
	if dir == nil {
		return nil, errors.NewValidationError("directory", nil, "directory client is required")
	}
	if provider == nil {
		return nil, errors.NewValidationError("provider", nil, "roster provider is required")
	}

	selected, err := selectGroups(groups, options.Groups)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		directory: dir,
		provider:  provider,
		groups:    selected,
		opts:      options,
		observer:  options.Observer,
		tracer:    options.Tracer,
	}
	if o.observer == nil {
		o.observer = nopObserver{}
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	return o, nil
}

// selectGroups validates the configured groups and applies the name filter.
func selectGroups(groups identity.Groups, filter []string) ([]identity.GroupConfig, error) {
	all := groups.Sorted()
	if len(all) == 0 {
		return nil, errors.NewValidationError("groups", nil, "no groups configured")
	}
	for _, g := range all {
		if err := g.Validate(); err != nil {
			return nil, err
		}
	}
	if len(filter) == 0 {
		return all, nil
	}

	byName := make(map[string]identity.GroupConfig, len(all))
	for _, g := range all {
		byName[g.Name] = g
	}
	seen := make(map[string]bool, len(filter))
	var out []identity.GroupConfig
	for _, name := range filter {
		g, ok := byName[name]
		if !ok {
			return nil, errors.NewNotFoundError("group", name)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Groups returns the groups this orchestrator will sync, ordered by name.
func (o *Orchestrator) Groups() []identity.GroupConfig {
	out := make([]identity.GroupConfig, len(o.groups))
	copy(out, o.groups)
	return out
}

// Run syncs every selected group. Groups run independently: a group that
// aborts is reported in the result and the rest continue. Use Result.Err to
// find out whether any group aborted.
func (o *Orchestrator) Run(ctx context.Context) *Result {
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.FromContext(ctx)

	if o.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.Timeout)
		defer cancel()
	}

	ctx, span := o.tracer.Start(ctx, "sync.run", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.Int("groups", len(o.groups)),
		attribute.Bool("dry_run", o.opts.DryRun),
	))
	defer span.End()

	result := &Result{
		RunID:     runID,
		DryRun:    o.opts.DryRun,
		Groups:    make([]*GroupResult, len(o.groups)),
		StartTime: time.Now(),
	}

	logger.Info().
		Int("groups", len(o.groups)).
		Bool("dry_run", o.opts.DryRun).
		Msg("Starting sync run")

	// Groups never cancel each other, so the group goroutines always return nil.
	var g errgroup.Group
	g.SetLimit(o.opts.GroupConcurrency)
	for i, cfg := range o.groups {
		i, cfg := i, cfg
		g.Go(func() error {
			result.Groups[i] = o.SyncGroup(ctx, cfg)
			return nil
		})
	}
	_ = g.Wait()

	result.Duration = time.Since(result.StartTime)
	err := result.Err()
	o.observer.RecordRun(time.Now(), err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "one or more groups aborted")
	}

	logger.Info().
		Dur("duration", result.Duration).
		Int("failed_users", result.FailureCount()).
		Bool("success", err == nil).
		Msg(result.Summary())
	return result
}

// SyncGroup runs the full procedure for one group.
func (o *Orchestrator) SyncGroup(ctx context.Context, cfg identity.GroupConfig) *GroupResult {
	ctx = logging.WithGroup(ctx, cfg.Name)
	ctx, span := o.tracer.Start(ctx, "sync.group", trace.WithAttributes(
		attribute.String("group", cfg.Name),
	))
	defer span.End()

	run := &groupRun{
		o:      o,
		cfg:    cfg,
		client: o.directory,
		result: newGroupResult(cfg, o.opts.DryRun),
	}
	var recorder *directory.ReadOnly
	if o.opts.DryRun {
		recorder = directory.NewReadOnly(o.directory)
		run.client = recorder
	}

	if err := run.execute(ctx); err != nil {
		run.result.Err = err
		run.result.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, run.result.Step)
		logging.FromContext(ctx).Error().
			Err(err).
			Str("step", run.result.Step).
			Msg("Group sync aborted")
	}
	if recorder != nil {
		run.result.Calls = directory.SortCalls(recorder.Calls())
	}
	sortFailures(run.result.Failures)
	run.result.Duration = time.Since(run.result.StartTime)

	o.observer.RecordGroup(cfg.Name, run.result.Duration, run.result.Err)
	logging.FromContext(ctx).Info().
		Dur("duration", run.result.Duration).
		Int("failed_users", len(run.result.Failures)).
		Msg(run.result.Summary())
	return run.result
}

// groupRun carries the state of one group's sync between steps.
type groupRun struct {
	o      *Orchestrator
	cfg    identity.GroupConfig
	client directory.Client
	result *GroupResult

	groupID string
	roster  identity.Roster
	holds   identity.Holds
	members identity.Members
	plan    *reconciler.Plan
}

// execute runs the steps strictly in order and returns the GroupSyncError
// of the first step that failed fatally.
func (r *groupRun) execute(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{StepLoad, r.load},
		{StepPlan, r.buildPlan},
		{StepResolve, func(ctx context.Context) error { return r.apply(ctx, r.plan.Found) }},
		{StepProvision, func(ctx context.Context) error { return r.apply(ctx, r.plan.Provision) }},
		{StepDemote, func(ctx context.Context) error { return r.apply(ctx, r.plan.Demote) }},
		{StepBackfill, r.backfill},
		{StepHolds, r.suspendHolds},
	}
	for _, step := range steps {
		if err := r.runStep(ctx, step.name, step.fn); err != nil {
			r.result.Step = step.name
			return errors.NewGroupSyncError(r.cfg.Name, step.name, err)
		}
	}
	return nil
}

func (r *groupRun) runStep(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx = logging.WithStep(ctx, name)
	ctx, span := r.o.tracer.Start(ctx, "sync.step."+name)
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// load fetches the roster, the holds report, the group id and the members.
func (r *groupRun) load(ctx context.Context) error {
	logger := logging.FromContext(ctx)

	records, err := r.o.provider.Fetch(ctx, r.cfg.Source)
	if err != nil {
		return err
	}
	var dupes []identity.Key
	r.roster, dupes = identity.NewRoster(records)
	for _, k := range dupes {
		logger.Warn().Str("user", k.String()).Msg("Duplicate roster key, keeping the last record")
	}

	if r.cfg.HasHolds() {
		held, err := r.o.provider.Fetch(ctx, r.cfg.Holds)
		if err != nil {
			return err
		}
		r.holds = identity.NewHolds(held)
	}

	r.groupID = r.cfg.ID
	if r.groupID == "" {
		r.groupID, err = r.client.ResolveGroupID(ctx, r.cfg.Name)
		if err != nil {
			return err
		}
	}
	r.result.GroupID = r.groupID

	r.members, err = r.client.ListGroupMembers(ctx, r.cfg.Name)
	if err != nil {
		return err
	}

	r.result.RosterCount = len(r.roster)
	r.result.MembersCount = len(r.members)
	r.o.observer.RecordSnapshot(r.cfg.Name, len(r.roster), len(r.members))

	logger.Debug().
		Str("group_id", r.groupID).
		Int("roster", len(r.roster)).
		Int("members", len(r.members)).
		Bool("holds", r.holds.Enabled()).
		Msg("Snapshots loaded")
	return nil
}

// buildPlan diffs the snapshots and resolves the missing keys. Nothing is
// mutated until the whole plan exists.
func (r *groupRun) buildPlan(ctx context.Context) error {
	rec, err := reconciler.New(r.client, reconciler.WithConcurrency(r.o.opts.Concurrency))
	if err != nil {
		return err
	}
	r.plan, err = rec.Plan(ctx, reconciler.Input{
		GroupName: r.cfg.Name,
		GroupID:   r.groupID,
		Roster:    r.roster,
		Members:   r.members,
		Holds:     r.holds,
	})
	if err != nil {
		return err
	}
	r.result.Plan = r.plan
	r.result.HeldCount = len(r.plan.Changeset.Held)
	return nil
}

// backfill reloads the members and fills in missing secondary ids. A dry run
// never changed the directory, so it projects the reload from the plan instead.
func (r *groupRun) backfill(ctx context.Context) error {
	if r.o.opts.DryRun {
		r.members = r.projectMembers()
		logging.FromContext(ctx).Debug().
			Int("members", len(r.members)).
			Msg("Projected members after plan")
	} else {
		members, err := r.client.ListGroupMembers(ctx, r.cfg.Name)
		if err != nil {
			return err
		}
		r.members = members
	}
	return r.apply(ctx, reconciler.PlanBackfill(r.roster, r.members, r.groupID))
}

// projectMembers returns the group members as they would be after the
// resolve, provision and demote steps succeeded. Failed actions leave the
// snapshot unchanged. Provisioned identities are left out: they are created
// with the roster's secondary id and are never held.
func (r *groupRun) projectMembers() identity.Members {
	type attempt struct {
		key  identity.Key
		kind reconciler.ActionKind
	}
	failed := make(map[attempt]bool, len(r.result.Failures))
	for _, f := range r.result.Failures {
		failed[attempt{f.Key, f.Action}] = true
	}

	members := make(identity.Members, len(r.members))
	for k, m := range r.members {
		members[k] = m
	}
	for _, a := range r.plan.Demote {
		if !failed[attempt{a.Key, a.Kind}] {
			delete(members, a.Key)
		}
	}
	for _, a := range r.plan.Found {
		if a.Kind != reconciler.ActionEnsureMembership || failed[attempt{a.Key, a.Kind}] {
			continue
		}
		joined := a.Identity
		joined.GroupIDs = joined.GroupIDs.Clone()
		joined.GroupIDs.Add(r.groupID)
		members[joined.Key()] = joined
	}
	return members
}

// suspendHolds suspends every Active member on hold.
func (r *groupRun) suspendHolds(ctx context.Context) error {
	if !r.holds.Enabled() {
		return nil
	}
	return r.apply(ctx, reconciler.PlanSuspensions(r.holds, r.roster, r.members, r.groupID))
}
