package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SignupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "budget_signups_total",
			Help: "Total number of sign-up attempts.",
		},
		[]string{"result"},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "budget_logins_total",
			Help: "Total number of login attempts.",
		},
		[]string{"result"},
	)

	TokensIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "budget_tokens_issued_total",
			Help: "Total number of access tokens issued.",
		},
		[]string{"result"},
	)

	AuditCallsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_calls_created_total",
			Help: "Total number of audit calls opened for mutating requests.",
		},
		[]string{"method"},
	)

	AuditChangesRecordedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_changes_recorded_total",
			Help: "Total number of attribute changes appended to the change log.",
		},
		[]string{"table", "operation"},
	)

	AuditTrackFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_track_failures_total",
			Help: "Total number of change tracking attempts that aborted the transaction.",
		},
		[]string{"reason"},
	)
)

// MustRegister exposes every collector on the default registry, labelled
// with the service name.
func MustRegister(serviceName string) {
	reg := prometheus.WrapRegistererWith(prometheus.Labels{"service": serviceName}, prometheus.DefaultRegisterer)
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		SignupsTotal,
		LoginsTotal,
		TokensIssuedTotal,
		AuditCallsCreatedTotal,
		AuditChangesRecordedTotal,
		AuditTrackFailuresTotal,
	)
}
