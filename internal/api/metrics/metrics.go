// Package metrics defines and registers the custom Prometheus metrics of the
// job board API. Metrics are registered with the default registry on import
// via promauto and exposed on /metrics next to the echo request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jobboard"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts credential operations.
// Labels:
//   - operation: "register_employee", "register_company", "login", "logout", "change_password"
//   - result: "success" or a short failure reason (e.g. "invalid_credentials", "duplicate_email")
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of credential operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// GuardRejectionsTotal counts requests turned away by an access guard.
// Labels:
//   - guard: "require_auth" or "require_role"
//   - reason: "no_token", "invalid_token", "not_found", "forbidden"
var GuardRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_rejections_total",
		Help:      "Total number of requests rejected by an access guard.",
	},
	[]string{"guard", "reason"},
)

// PrincipalsResolvedTotal counts successful bearer token resolutions.
// Label:
//   - kind: "employee" or "company"
var PrincipalsResolvedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "principals_resolved_total",
		Help:      "Total number of bearer tokens resolved to an account, by store.",
	},
	[]string{"kind"},
)

// ── Job metrics ───────────────────────────────────────────────────────────────

// JobsCreatedTotal counts new postings.
// Label:
//   - type: "full_time", "part_time", "contract", "freelance", "internship"
var JobsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_created_total",
		Help:      "Total number of job postings created, by contract type.",
	},
	[]string{"type"},
)

// ApplicationsSubmittedTotal counts accepted job applications.
var ApplicationsSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_submitted_total",
		Help:      "Total number of job applications submitted.",
	},
)

// ── View counter metrics ──────────────────────────────────────────────────────

// ViewQueueDepth tracks the number of pending view increments per worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ViewQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "view_queue_depth",
		Help:      "Current number of view increments pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// ViewsDroppedTotal counts view increments discarded because a worker was full.
var ViewsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "views_dropped_total",
		Help:      "Total number of job view increments dropped under back-pressure.",
	},
)

// ViewWriteDuration measures a single view increment against the store.
// Label:
//   - result: "ok" or "error"
var ViewWriteDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "view_write_duration_seconds",
		Help:      "Duration of a job view increment write.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
