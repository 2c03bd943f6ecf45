package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	loginsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "caisse_logins_total",
		Help: "Total number of successful logins",
	})
	loginFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "caisse_login_failures_total",
		Help: "Total number of rejected login attempts",
	})
	accessDeniedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "caisse_access_denied_total",
		Help: "Total number of requests denied by the access resolver",
	})
	activityRecordsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "caisse_activity_records_total",
		Help: "Total number of activity log records written",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(loginsTotal, loginFailuresTotal, accessDeniedTotal, activityRecordsTotal)
}

// IncLogin increments the successful logins counter.
func IncLogin() { loginsTotal.Inc() }

// IncLoginFailure increments the rejected logins counter.
func IncLoginFailure() { loginFailuresTotal.Inc() }

// IncAccessDenied increments the denied requests counter.
func IncAccessDenied() { accessDeniedTotal.Inc() }

// IncActivityRecord increments the written activity records counter.
func IncActivityRecord() { activityRecordsTotal.Inc() }
