// Package table converts sync results, groups and rosters into table rows.
package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/rostersync/pkg/identity"
	"github.com/agentstation/rostersync/pkg/reconciler"
	"github.com/agentstation/rostersync/pkg/sync"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data is a rendered table: headers, rows and optional per-column alignment.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align
}

// GroupStatus is one row of the groups command.
type GroupStatus struct {
	Name    string `json:"name" yaml:"name"`
	ID      string `json:"id" yaml:"id"`
	Members int    `json:"members" yaml:"members"`
	Source  string `json:"source" yaml:"source"`
	Holds   string `json:"holds,omitempty" yaml:"holds,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ResultToTableData renders one row per group. Wide output adds a column per
// action kind.
func ResultToTableData(r *sync.Result, wide bool) Data {
	headers := []string{"Group", "ID", "Roster", "Members", "Applied", "Failed", "Status"}
	align := []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft}
	if wide {
		for _, k := range reconciler.Kinds {
			headers = append(headers, columnName(k))
			align = append(align, AlignRight)
		}
		headers = append(headers, "Duration")
		align = append(align, AlignRight)
	}

	rows := make([][]string, 0, len(r.Groups))
	for _, g := range r.Groups {
		row := []string{
			g.Group,
			orDash(g.GroupID),
			strconv.Itoa(g.RosterCount),
			strconv.Itoa(g.MembersCount),
			strconv.Itoa(g.TotalApplied()),
			strconv.Itoa(len(g.Failures)),
			status(g),
		}
		if wide {
			for _, k := range reconciler.Kinds {
				row = append(row, strconv.Itoa(g.Applied[k]))
			}
			row = append(row, g.Duration.Round(time.Millisecond).String())
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// FailuresToTableData lists every per-user failure of a run.
func FailuresToTableData(r *sync.Result) Data {
	var rows [][]string
	for _, g := range r.Groups {
		for _, f := range g.Failures {
			rows = append(rows, []string{g.Group, f.Key.String(), f.Action.String(), f.Err.Error()})
		}
	}
	return Data{Headers: []string{"Group", "User", "Action", "Error"}, Rows: rows}
}

// CallsToTableData lists the mutations a dry run would have sent.
func CallsToTableData(r *sync.Result) Data {
	var rows [][]string
	for _, g := range r.Groups {
		for _, c := range g.Calls {
			rows = append(rows, []string{g.Group, string(c.Method), c.Target, orDash(c.Detail)})
		}
	}
	return Data{Headers: []string{"Group", "Call", "Target", "Detail"}, Rows: rows}
}

// RosterToTableData lists roster records.
func RosterToTableData(records []identity.RosterRecord) Data {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Key.String(), orDash(r.SecondaryID), orDash(r.FirstName), orDash(r.LastName)})
	}
	return Data{Headers: []string{"Key", "Secondary ID", "First Name", "Last Name"}, Rows: rows}
}

func status(g *sync.GroupResult) string {
	switch {
	case g.Aborted():
		return fmt.Sprintf("aborted (%s)", g.Step)
	case len(g.Failures) > 0:
		return "partial"
	case g.DryRun:
		return "dry run"
	default:
		return "ok"
	}
}

func columnName(k reconciler.ActionKind) string {
	return cases.Title(language.English).String(strings.ReplaceAll(k.String(), "_", " "))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
