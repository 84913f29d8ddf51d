package sync

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agentstation/rostersync/pkg/directory"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/identity"
	"github.com/agentstation/rostersync/pkg/reconciler"
)

// Step names, in execution order. The plan step diffs the snapshots and
// resolves missing keys; resolve applies the actions for found identities.
const (
	StepLoad      = "load"
	StepPlan      = "plan"
	StepResolve   = "resolve"
	StepProvision = "provision"
	StepDemote    = "demote"
	StepBackfill  = "backfill"
	StepHolds     = "holds"
)

// Failure is a per-user action that failed and was skipped.
type Failure struct {
	Key    identity.Key          `json:"key" yaml:"key"`
	Action reconciler.ActionKind `json:"action" yaml:"action"`
	Err    error                 `json:"-" yaml:"-"`
}

// Error implements the error interface.
func (f Failure) Error() string {
	return (&errors.UserError{Key: f.Key.String(), Action: f.Action.String(), Err: f.Err}).Error()
}

type failureView struct {
	Key    identity.Key          `json:"key" yaml:"key"`
	Action reconciler.ActionKind `json:"action" yaml:"action"`
	Error  string                `json:"error" yaml:"error"`
}

func (f Failure) view() failureView {
	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return failureView{Key: f.Key, Action: f.Action, Error: msg}
}

// MarshalJSON renders the error as a string.
func (f Failure) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.view())
}

// MarshalYAML renders the error as a string.
func (f Failure) MarshalYAML() (any, error) {
	return f.view(), nil
}

// GroupResult is the outcome of one group's sync.
type GroupResult struct {
	Group   string `json:"group" yaml:"group"`
	GroupID string `json:"group_id,omitempty" yaml:"group_id,omitempty"`
	DryRun  bool   `json:"dry_run" yaml:"dry_run"`

	// Snapshot sizes
	RosterCount  int `json:"roster" yaml:"roster"`
	MembersCount int `json:"members" yaml:"members"`
	HeldCount    int `json:"held" yaml:"held"`

	Plan     *reconciler.Plan              `json:"plan,omitempty" yaml:"plan,omitempty"`
	Applied  map[reconciler.ActionKind]int `json:"applied" yaml:"applied"`
	Failures []Failure                     `json:"failures,omitempty" yaml:"failures,omitempty"`

	// Calls holds the recorded mutations of a dry run.
	Calls []directory.Call `json:"calls,omitempty" yaml:"calls,omitempty"`

	// Err is the fatal error that aborted the group, nil on completion.
	Err   error  `json:"-" yaml:"-"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	Step  string `json:"aborted_at,omitempty" yaml:"aborted_at,omitempty"`

	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

func newGroupResult(cfg identity.GroupConfig, dryRun bool) *GroupResult {
	return &GroupResult{
		Group:     cfg.Name,
		GroupID:   cfg.ID,
		DryRun:    dryRun,
		Applied:   make(map[reconciler.ActionKind]int),
		StartTime: time.Now(),
	}
}

// Aborted reports whether a fatal error stopped the group.
func (g *GroupResult) Aborted() bool {
	return g.Err != nil
}

// TotalApplied returns the number of successful actions.
func (g *GroupResult) TotalApplied() int {
	n := 0
	for _, c := range g.Applied {
		n += c
	}
	return n
}

// Summary returns a one-line summary.
func (g *GroupResult) Summary() string {
	if g.Aborted() {
		return fmt.Sprintf("%s: aborted during %s: %v", g.Group, g.Step, errors.Unwrap(g.Err))
	}
	var parts []string
	for _, k := range reconciler.Kinds {
		if n := g.Applied[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, k))
		}
	}
	if len(g.Failures) > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", len(g.Failures)))
	}
	if len(parts) == 0 {
		return g.Group + ": no changes"
	}
	prefix := g.Group + ": "
	if g.DryRun {
		prefix = g.Group + " (dry run): "
	}
	return prefix + strings.Join(parts, ", ")
}

// Result is the outcome of a run across all groups.
type Result struct {
	RunID     string         `json:"run_id" yaml:"run_id"`
	DryRun    bool           `json:"dry_run" yaml:"dry_run"`
	Groups    []*GroupResult `json:"groups" yaml:"groups"`
	StartTime time.Time      `json:"start_time" yaml:"start_time"`
	Duration  time.Duration  `json:"duration" yaml:"duration"`
}

// Group returns the result for the named group.
func (r *Result) Group(name string) (*GroupResult, bool) {
	for _, g := range r.Groups {
		if g.Group == name {
			return g, true
		}
	}
	return nil, false
}

// Err joins the fatal errors of every aborted group. Per-user failures are
// not included; they are retried by the next run.
func (r *Result) Err() error {
	var errs []error
	for _, g := range r.Groups {
		if g.Err != nil {
			errs = append(errs, g.Err)
		}
	}
	return errors.Join(errs...)
}

// FailureCount returns the number of per-user failures across groups.
func (r *Result) FailureCount() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Failures)
	}
	return n
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	aborted := 0
	applied := 0
	for _, g := range r.Groups {
		if g.Aborted() {
			aborted++
		}
		applied += g.TotalApplied()
	}
	s := fmt.Sprintf("%d groups, %d actions, %d failed users, %d aborted groups",
		len(r.Groups), applied, r.FailureCount(), aborted)
	if r.DryRun {
		s += " (dry run)"
	}
	return s
}

func sortFailures(f []Failure) {
	order := make(map[reconciler.ActionKind]int, len(reconciler.Kinds))
	for i, k := range reconciler.Kinds {
		order[k] = i
	}
	sort.Slice(f, func(i, j int) bool {
		if f[i].Action != f[j].Action {
			return order[f[i].Action] < order[f[j].Action]
		}
		return f[i].Key < f[j].Key
	})
}
