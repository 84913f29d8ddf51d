package sync

import "time"

// Observer receives run events. internal/metrics implements it.
type Observer interface {
	RecordAction(group, kind string, err error)
	RecordSnapshot(group string, roster, members int)
	RecordGroup(group string, d time.Duration, err error)
	RecordRun(at time.Time, ok bool)
}

type nopObserver struct{}

func (nopObserver) RecordAction(string, string, error) {}
func (nopObserver) RecordSnapshot(string, int, int) {}
func (nopObserver) RecordGroup(string, time.Duration, error) {}
func (nopObserver) RecordRun(time.Time, bool) {}
