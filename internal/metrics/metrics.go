// Package metrics exposes prometheus counters for store export and import.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pharmastore"

type Metrics struct {
	exports            prometheus.Counter
	imports            *prometheus.CounterVec
	importedRecords    *prometheus.CounterVec
	validationFailures prometheus.Counter
	skippedSales       prometheus.Counter
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		exports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Store export documents built.",
		}),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Store imports attempted, by result.",
		}, []string{"result"}),
		importedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imported_records_total",
			Help:      "Records written by committed imports, by entity.",
		}, []string{"entity"}),
		validationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Export documents rejected by validation.",
		}),
		skippedSales: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_sales_total",
			Help:      "Sales skipped during import because their medicine was not imported.",
		}),
	}
	reg.MustRegister(m.exports, m.imports, m.importedRecords, m.validationFailures, m.skippedSales)
	return m
}

func (m *Metrics) ExportBuilt() {
	if m == nil {
		return
	}
	m.exports.Inc()
}

// ImportFinished records the outcome of one import attempt.
func (m *Metrics) ImportFinished(success bool) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.imports.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordsImported(entity string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.importedRecords.WithLabelValues(entity).Add(float64(n))
}

func (m *Metrics) ValidationFailed() {
	if m == nil {
		return
	}
	m.validationFailures.Inc()
}

func (m *Metrics) SalesSkipped(n int) {
	if m == nil || n == 0 {
		return
	}
	m.skippedSales.Add(float64(n))
}
