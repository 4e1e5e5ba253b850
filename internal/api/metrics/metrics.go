// Package metrics defines and registers all custom Prometheus metrics for the
// health portal API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation; HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Access metrics ────────────────────────────────────────────────────────────

// AccessResolutionsTotal counts resolver outcomes.
// Label:
//   - state: "unauthenticated", "ordinary_user", "admin", "needs_registration" or "error"
var AccessResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_resolutions_total",
		Help:      "Total number of access resolutions, by resulting state.",
	},
	[]string{"state"},
)

// AccessResolutionDuration measures the time spent in store lookups while resolving.
var AccessResolutionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "access_resolution_duration_seconds",
		Help:      "Duration of access resolution including user and admin lookups.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"state"},
)

// ── Role metrics ──────────────────────────────────────────────────────────────

// RoleApplicationsTotal counts role applications accepted as PENDING.
var RoleApplicationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_applications_total",
		Help:      "Total number of role applications, by role kind.",
	},
	[]string{"kind"},
)

// RoleReviewsTotal counts admin decisions.
// Labels:
//   - kind: role kind
//   - status: "APPROVED" or "REJECTED"
var RoleReviewsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_reviews_total",
		Help:      "Total number of role reviews, by role kind and resulting status.",
	},
	[]string{"kind", "status"},
)

// RegistrationsTotal counts successful user registrations.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registered users.",
	},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of access events waiting in each worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of access events pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsDroppedTotal counts events discarded because their shard was full.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of access events dropped because the audit queue was full.",
	},
)

// AuditEventsErrorsTotal counts events that failed to persist.
var AuditEventsErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_errors_total",
		Help:      "Total number of access events that failed to persist.",
	},
)
