package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/rostersync/pkg/directory"
	"github.com/agentstation/rostersync/pkg/identity"
	"github.com/agentstation/rostersync/pkg/reconciler"
	"github.com/agentstation/rostersync/pkg/sync"
)

func testResult() *sync.Result {
	return &sync.Result{Groups: []*sync.GroupResult{
		{
			Group:        "Faculty",
			GroupID:      "10",
			RosterCount:  3,
			MembersCount: 2,
			Applied:      map[reconciler.ActionKind]int{reconciler.ActionProvision: 1},
			Failures: []sync.Failure{
				{Key: "bob@x", Action: reconciler.ActionDemote, Err: errors.New("503")},
			},
		},
		{
			Group:   "Staff",
			Applied: map[reconciler.ActionKind]int{},
			Step:    sync.StepLoad,
			Err:     errors.New("down"),
		},
	}}
}

func TestResultToTableData(t *testing.T) {
	d := ResultToTableData(testResult(), false)
	assert.Equal(t, []string{"Group", "ID", "Roster", "Members", "Applied", "Failed", "Status"}, d.Headers)
	assert.Equal(t, [][]string{
		{"Faculty", "10", "3", "2", "1", "1", "partial"},
		{"Staff", "-", "0", "0", "0", "0", "aborted (load)"},
	}, d.Rows)
	assert.Len(t, d.ColumnAlignment, len(d.Headers))
}

func TestResultToTableDataWide(t *testing.T) {
	d := ResultToTableData(testResult(), true)
	assert.Contains(t, d.Headers, "Update Primary Key")
	assert.Contains(t, d.Headers, "Backfill Secondary Id")
	assert.Equal(t, "Duration", d.Headers[len(d.Headers)-1])
	for _, row := range d.Rows {
		assert.Len(t, row, len(d.Headers))
	}
}

func TestFailuresToTableData(t *testing.T) {
	d := FailuresToTableData(testResult())
	assert.Equal(t, [][]string{{"Faculty", "bob@x", "demote", "503"}}, d.Rows)
}

func TestCallsToTableData(t *testing.T) {
	r := &sync.Result{Groups: []*sync.GroupResult{{
		Group: "Faculty",
		Calls: []directory.Call{
			{Method: directory.MethodCreateIdentity, Target: "alice@x"},
			{Method: directory.MethodAddToGroup, Target: "dry-run:alice@x", Detail: "10"},
		},
	}}}
	d := CallsToTableData(r)
	assert.Equal(t, [][]string{
		{"Faculty", "CreateIdentity", "alice@x", "-"},
		{"Faculty", "AddToGroup", "dry-run:alice@x", "10"},
	}, d.Rows)
}

func TestRosterToTableData(t *testing.T) {
	d := RosterToTableData([]identity.RosterRecord{
		{Key: "alice@x", SecondaryID: "1001", FirstName: "Alice"},
	})
	assert.Equal(t, [][]string{{"alice@x", "1001", "Alice", "-"}}, d.Rows)
}
