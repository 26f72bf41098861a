// Package metrics defines and registers all custom Prometheus metrics for
// the user management API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at init; the
// echoprometheus middleware exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "users"

// UsersRegisteredTotal counts successful registrations.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registered_total",
		Help:      "Total number of successfully registered users.",
	},
)

// RegistrationConflictsTotal counts registrations rejected by a uniqueness
// or soft-delete gate.
// Label:
//   - code: the conflict code (EMAIL_TAKEN, PHONE_TAKEN, DELETED_EMAIL_EXISTS, DELETED_PHONE_EXISTS)
var RegistrationConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registration_conflicts_total",
		Help:      "Total number of registrations rejected as conflicts, by code.",
	},
	[]string{"code"},
)

// UsersDeletedTotal counts soft deletions that actually flipped a record.
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deleted_total",
		Help:      "Total number of users soft-deleted.",
	},
)

// UsersRestoredTotal counts deleted accounts restored to active.
var UsersRestoredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "restored_total",
		Help:      "Total number of soft-deleted users restored.",
	},
)

// RateLimitedTotal counts registration attempts rejected by the rate limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the registration rate limiter.",
	},
)
