// Package monitoring exposes Prometheus metrics for program operations.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mythra_operations_total",
			Help: "Total program operations by outcome",
		},
		[]string{"operation", "status"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mythra_operation_duration_seconds",
			Help:    "Program operation duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	escrowBalance = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mythra_escrow_balance_lamports",
			Help: "Last observed escrow balance per escrow address",
		},
		[]string{"escrow"},
	)

	ticketsSold = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mythra_tickets_sold_total",
			Help: "Tickets sold or registered per event",
		},
		[]string{"event"},
	)
)

// ObserveOperation records one finished operation.
func ObserveOperation(operation string, err error, elapsed time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	operationsTotal.WithLabelValues(operation, status).Inc()
	operationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// SetEscrowBalance records the last observed balance of an escrow account.
func SetEscrowBalance(escrow string, balance uint64) {
	escrowBalance.WithLabelValues(escrow).Set(float64(balance))
}

// IncTicketsSold counts one sold or registered ticket.
func IncTicketsSold(event string) {
	ticketsSold.WithLabelValues(event).Inc()
}
