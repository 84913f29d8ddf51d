package alerts

import (
	"fmt"

	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/sync"
)

// FromResult builds the alerts for a finished run, groups first and the
// run summary last.
func FromResult(r *sync.Result) []*Alert {
	var out []*Alert
	aborted := false
	for _, g := range r.Groups {
		switch {
		case g.Aborted():
			aborted = true
			out = append(out, NewError(fmt.Sprintf("%s aborted during %s", g.Group, g.Step)).
				WithError(errors.Unwrap(g.Err)))
		case len(g.Failures) > 0:
			a := NewWarning(fmt.Sprintf("%s: %d users failed", g.Group, len(g.Failures)))
			for _, f := range g.Failures {
				a.WithDetails(f.Error())
			}
			out = append(out, a)
		}
	}

	level := LevelSuccess
	switch {
	case aborted:
		level = LevelError
	case r.FailureCount() > 0:
		level = LevelWarning
	case r.DryRun:
		level = LevelInfo
	}
	return append(out, New(level, r.Summary()))
}
