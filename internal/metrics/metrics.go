// Package metrics provides Prometheus metrics for sync runs. A scheduled run
// exits after one pass, so metrics are written to a node_exporter textfile
// rather than served.
package metrics

import (
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
)

// Metrics contains all sync metrics.
type Metrics struct {
	registry *prometheus.Registry

	ActionsTotal     *prometheus.CounterVec   // Applied actions by group, kind and outcome
	GroupRunsTotal   *prometheus.CounterVec   // Group syncs by outcome (ok, aborted)
	GroupDuration    *prometheus.HistogramVec // Group sync duration by group
	RosterSize       *prometheus.GaugeVec     // Roster records by group
	MembersSize      *prometheus.GaugeVec     // Active directory members by group before sync
	LastRunTimestamp prometheus.Gauge         // Unix time of the last completed run
	LastRunSuccess   prometheus.Gauge         // 1 when no group aborted
}

// New creates a Metrics instance on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		ActionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rostersync_actions_total",
			Help: "Directory actions by group, kind and outcome",
		}, []string{"group", "kind", "outcome"}),

		GroupRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rostersync_group_runs_total",
			Help: "Group synchronizations by outcome",
		}, []string{"group", "outcome"}),

		GroupDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rostersync_group_duration_seconds",
			Help:    "Duration of one group synchronization",
			Buckets: []float64{0.5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"group"}),

		RosterSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rostersync_roster_records",
			Help: "Number of roster records loaded for a group",
		}, []string{"group"}),

		MembersSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rostersync_directory_members",
			Help: "Number of active directory group members before sync",
		}, []string{"group"}),

		LastRunTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rostersync_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),

		LastRunSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rostersync_last_run_success",
			Help: "1 if the last run finished without aborting any group",
		}),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordAction counts one applied action.
func (m *Metrics) RecordAction(group, kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	m.ActionsTotal.WithLabelValues(group, kind, outcome).Inc()
}

// RecordSnapshot records the sizes of the loaded snapshots.
func (m *Metrics) RecordSnapshot(group string, roster, members int) {
	m.RosterSize.WithLabelValues(group).Set(float64(roster))
	m.MembersSize.WithLabelValues(group).Set(float64(members))
}

// RecordGroup records the end of one group's sync.
func (m *Metrics) RecordGroup(group string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "aborted"
	}
	m.GroupRunsTotal.WithLabelValues(group, outcome).Inc()
	m.GroupDuration.WithLabelValues(group).Observe(d.Seconds())
}

// RecordRun records the end of a run.
func (m *Metrics) RecordRun(at time.Time, ok bool) {
	m.LastRunTimestamp.Set(float64(at.Unix()))
	if ok {
		m.LastRunSuccess.Set(1)
	} else {
		m.LastRunSuccess.Set(0)
	}
}

// WriteTextfile writes every metric in the Prometheus text format. The file
// is written atomically so a collector never reads a partial file.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.NewIOError("create", filepath.Dir(path), err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.NewIOError("write", path, err)
	}
	return nil
}
