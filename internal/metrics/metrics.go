// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Metrics holds the counters observed by the billing flows.
type Metrics struct {
	InvoiceSaves    *prometheus.CounterVec
	GenerationRuns  *prometheus.CounterVec
	CreditTransfers *prometheus.CounterVec
}

func New() (*Metrics, error) {
	m := &Metrics{
		InvoiceSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rentall_invoice_saves_total",
			Help: "Invoice submissions by resulting action.",
		}, []string{"action"}),
		GenerationRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rentall_ledger_generation_runs_total",
			Help: "Period ledger generation runs by outcome.",
		}, []string{"status"}),
		CreditTransfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rentall_credit_transfers_total",
			Help: "Credit transfer resolutions by outcome.",
		}, []string{"status"}),
	}

	for _, collector := range []prometheus.Collector{
		m.InvoiceSaves, m.GenerationRuns, m.CreditTransfers,
	} {
		if err := prometheus.Register(collector); err != nil {
			return nil, err
		}
	}
	return m, nil
}

var Module = fx.Module("metrics",
	fx.Provide(New),
)
