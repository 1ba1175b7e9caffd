package services

import "github.com/prometheus/client_golang/prometheus"

var (
	SweepRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "sweep_runs_total", Help: "Completed sweep runs"},
		[]string{"sweep"},
	)
	SweepAffected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "sweep_rows_affected_total", Help: "Rows affected by sweeps"},
		[]string{"sweep"},
	)
	SweepFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "sweep_item_failures_total", Help: "Items skipped by sweeps"},
		[]string{"sweep"},
	)
	NotificationsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "notifications_emitted_total", Help: "Notification events emitted"},
		[]string{"type"},
	)
)

func MustRegisterMetrics() {
	prometheus.MustRegister(SweepRuns, SweepAffected, SweepFailures, NotificationsEmitted)
}
