// Package metrics defines and registers all custom Prometheus metrics for
// the winery system. It is the single source of truth for metric names,
// labels, and help strings; metrics register with the default registry on
// import via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "winery"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure" (all failure shapes share one label
//     value, mirroring the uniform error response)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts created accounts.
// Label:
//   - role: the role assigned at registration
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// ── Sensor reading metrics ────────────────────────────────────────────────────

// ReadingsProcessedTotal counts sensor readings that completed processing.
// Label:
//   - worker_id: numeric dispatcher worker index
var ReadingsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "readings_processed_total",
		Help:      "Total number of sensor readings successfully processed.",
	},
	[]string{"worker_id"},
)

// ReadingsErrorsTotal counts readings that failed processing.
// Label:
//   - reason: short description of the failure (e.g. "batch_not_found",
//     "batch_inactive", "insert_failed")
var ReadingsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "readings_errors_total",
		Help:      "Total number of sensor readings that failed processing.",
	},
	[]string{"reason"},
)

// ReadingsDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new reading, processed)
var ReadingsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "readings_dedup_total",
		Help:      "Total number of deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ReadingsQueueDepth tracks the number of readings waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ReadingsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readings_queue_depth",
		Help:      "Current number of readings pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ReadingProcessingDuration measures how long one reading takes end-to-end.
var ReadingProcessingDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reading_processing_duration_seconds",
		Help:      "Duration of sensor reading processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)
