// Package metrics provides Prometheus metrics for synchronization runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	mdsync "github.com/vrerv/md-to-notion/pkg/sync"
)

// Recorder collects the metrics of one process on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	remoteCallsTotal   *prometheus.CounterVec
	remoteCallDuration *prometheus.HistogramVec
	syncChangesTotal   *prometheus.CounterVec
	syncDuration       prometheus.Gauge
	lastSyncTimestamp  prometheus.Gauge
	lastSyncSuccess    prometheus.Gauge
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		remoteCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "md_to_notion_remote_calls_total",
				Help: "Total number of Notion API calls",
			},
			[]string{"op", "outcome"},
		),

		remoteCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "md_to_notion_remote_call_duration_seconds",
				Help:    "Notion API call duration in seconds, retries included",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),

		syncChangesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "md_to_notion_sync_changes_total",
				Help: "Changes made by synchronization runs",
			},
			[]string{"kind"},
		),

		syncDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "md_to_notion_last_sync_duration_seconds",
				Help: "Duration of the last synchronization run",
			},
		),

		lastSyncTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "md_to_notion_last_sync_timestamp_seconds",
				Help: "Unix time the last synchronization run finished",
			},
		),

		lastSyncSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "md_to_notion_last_sync_success",
				Help: "Whether the last synchronization run succeeded",
			},
		),
	}

	r.registry.MustRegister(
		r.remoteCallsTotal,
		r.remoteCallDuration,
		r.syncChangesTotal,
		r.syncDuration,
		r.lastSyncTimestamp,
		r.lastSyncSuccess,
	)
	return r
}

// Registry returns the registry holding the metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveCall records a Notion API call.
func (r *Recorder) ObserveCall(op string, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	r.remoteCallsTotal.WithLabelValues(op, outcome).Inc()
	r.remoteCallDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// RecordSync records the outcome of a synchronization run.
func (r *Recorder) RecordSync(res mdsync.Result, elapsed time.Duration, err error) {
	r.syncChangesTotal.WithLabelValues("pages_created").Add(float64(res.PagesCreated))
	r.syncChangesTotal.WithLabelValues("blocks_appended").Add(float64(res.BlocksAppended))
	r.syncChangesTotal.WithLabelValues("blocks_deleted").Add(float64(res.BlocksDeleted))
	r.syncChangesTotal.WithLabelValues("pages_archived").Add(float64(res.PagesArchived))
	r.syncChangesTotal.WithLabelValues("first_blocks_relocated").Add(float64(res.FirstBlocksRelocated))

	r.syncDuration.Set(elapsed.Seconds())
	r.lastSyncTimestamp.SetToCurrentTime()
	if err != nil {
		r.lastSyncSuccess.Set(0)
	} else {
		r.lastSyncSuccess.Set(1)
	}
}

// WriteTextfile writes the metrics in the text exposition format, for the
// node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
