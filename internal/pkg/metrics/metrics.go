// Package metrics defines the custom Prometheus metrics of the studyforge
// learning API. It is the single source of truth for metric names, labels and
// help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "studyforge"

// ── Session metrics ───────────────────────────────────────────────────────────

// SignupsTotal counts signup attempts that reached the store.
// Label:
//   - result: "created" or "conflict"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts with well-formed input.
// Label:
//   - result: "success" or "invalid_credentials"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Password reset metrics ────────────────────────────────────────────────────

// PasswordResetsTotal counts reset requests and confirmations.
// Labels:
//   - stage: "request" or "confirm"
//   - result: e.g. "issued", "unknown_email", "throttled", "redeemed", "expired", "invalid"
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password reset operations, by stage and result.",
	},
	[]string{"stage", "result"},
)

// ResetQueueDepth tracks the number of reset notices waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index
var ResetQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "reset_queue_depth",
		Help:      "Current number of reset notices pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ResetDeliveryDuration measures how long the mailer takes to deliver one notice.
// Label:
//   - result: "sent" or "error"
var ResetDeliveryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reset_delivery_duration_seconds",
		Help:      "Duration of reset notice delivery.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// ── Usage metrics ─────────────────────────────────────────────────────────────

// UsageChecksTotal counts usage gate decisions.
// Label:
//   - result: "allowed" or "limit_reached"
var UsageChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ai_usage_checks_total",
		Help:      "Total number of AI usage gate checks, by result.",
	},
	[]string{"result"},
)
