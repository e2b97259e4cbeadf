// Package metrics defines and registers all custom Prometheus metrics for the
// identity gateway. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity_gateway"

// ── Registration / login ─────────────────────────────────────────────────────

// RegistrationsTotal counts finished registration attempts.
// Label:
//   - outcome: "success", "invalid", "conflict", "local_failed", "remote_failed"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by outcome.",
	},
	[]string{"outcome"},
)

// LoginsTotal counts login attempts.
// Label:
//   - outcome: "success", "invalid", "rejected"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// ── Identity provider ────────────────────────────────────────────────────────

// ProviderRequestDuration measures outbound identity provider calls.
// Labels:
//   - operation: "password_login", "admin_token", "create_user"
//   - outcome: "ok" or "error"
var ProviderRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_request_duration_seconds",
		Help:      "Duration of identity provider requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation", "outcome"},
)

// ── Provisioning journal ─────────────────────────────────────────────────────

// JournalQueueDepth tracks the number of journal events waiting in each worker channel.
var JournalQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "journal_queue_depth",
		Help:      "Current number of journal events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// JournalDroppedTotal counts journal events discarded because a worker queue was full.
var JournalDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "journal_dropped_total",
		Help:      "Total number of registration journal events dropped on a full queue.",
	},
)

// ── Reconciliation ───────────────────────────────────────────────────────────

// ReconciledUsersTotal counts local records removed by the reconciler.
// Label:
//   - result: "deleted" or "error"
var ReconciledUsersTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconciled_users_total",
		Help:      "Total number of unprovisioned records processed by the reconciler.",
	},
	[]string{"result"},
)
