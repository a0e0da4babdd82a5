package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ExportBuilt()
	m.ImportFinished(true)
	m.ImportFinished(false)
	m.ImportFinished(true)
	m.RecordsImported("drugs", 3)
	m.RecordsImported("drugs", 0)
	m.ValidationFailed()
	m.SalesSkipped(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.exports))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.imports.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.imports.WithLabelValues("failure")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.importedRecords.WithLabelValues("drugs")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validationFailures))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.skippedSales))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ExportBuilt()
		m.ImportFinished(true)
		m.RecordsImported("sales", 1)
		m.ValidationFailed()
		m.SalesSkipped(1)
	})
}
