package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Reconciliation metrics
	PassesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "maintd_reconciliation_passes_total",
			Help: "Total number of reconciliation passes",
		},
	)

	PassDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "maintd_reconciliation_duration_seconds",
			Help:    "Duration of one reconciliation pass in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	PhaseFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maintd_phase_failures_total",
			Help: "Total number of failed reconciliation phases by phase",
		},
		[]string{"phase"},
	)

	// Action metrics
	ActionsGeneratedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maintd_actions_generated_total",
			Help: "Total number of generated actions by action name",
		},
		[]string{"action"},
	)

	ActionsDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "maintd_actions_dropped_total",
			Help: "Total number of actions dropped because the queue was full",
		},
	)

	// Coordination store metrics
	ReportOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maintd_report_ops_total",
			Help: "Total number of state-report operations by op",
		},
		[]string{"op"},
	)

	AgencyWriteFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "maintd_agency_write_failures_total",
			Help: "Total number of failed coordination-store writes",
		},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(PassesTotal)
	prometheus.MustRegister(PassDuration)
	prometheus.MustRegister(PhaseFailuresTotal)
	prometheus.MustRegister(ActionsGeneratedTotal)
	prometheus.MustRegister(ActionsDroppedTotal)
	prometheus.MustRegister(ReportOpsTotal)
	prometheus.MustRegister(AgencyWriteFailuresTotal)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
