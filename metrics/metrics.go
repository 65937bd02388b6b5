// Package metrics exposes Prometheus counters for the logging endpoint and
// the activity log storage.
package metrics

import (
	"checkout/database"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EndpointRequests counts logging endpoint responses by status code.
	EndpointRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_endpoint_requests_total",
		Help: "Logging endpoint responses by HTTP status code.",
	}, []string{"code"})

	// TransitionsAppended counts successfully logged transitions by action.
	TransitionsAppended = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_transitions_appended_total",
		Help: "Transitions appended to the activity log, by action.",
	}, []string{"action"})

	// TransitionsRejected counts rejected submissions by reason.
	TransitionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_transitions_rejected_total",
		Help: "Rejected transition submissions, by reason.",
	}, []string{"reason"})

	// DataSourceRefreshes counts data source refresh requests.
	DataSourceRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_datasource_refreshes_total",
		Help: "Data source refresh requests handled.",
	})
)

func init() {
	promauto.NewCounterFunc(prometheus.CounterOpts{
		Name: "checkout_sqlite_busy_errors_total",
		Help: "SQLite busy errors observed by the GORM logger.",
	}, func() float64 {
		return float64(database.SQLiteBusyErrorsTotal())
	})

	promauto.NewCounterFunc(prometheus.CounterOpts{
		Name: "checkout_sqlite_locked_errors_total",
		Help: "SQLite locked errors observed by the GORM logger.",
	}, func() float64 {
		return float64(database.SQLiteLockedErrorsTotal())
	})
}
