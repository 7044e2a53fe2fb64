package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	var m Noop
	m.ObserveArchive("archived", time.Second)
	m.AddEvictions(3)
}

func TestPromMetrics(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	m := NewProm("backup", reg)

	// Act
	m.ObserveArchive("archived", 200*time.Millisecond)
	m.ObserveArchive("archived", 300*time.Millisecond)
	m.ObserveArchive("failed", time.Second)
	m.AddEvictions(2)
	m.AddEvictions(0)

	// Assert
	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Equal(t, 2.0, counterValue(families, "backup_archives_total", "archived"))
	assert.Equal(t, 1.0, counterValue(families, "backup_archives_total", "failed"))
	assert.Equal(t, 2.0, counterValue(families, "backup_evictions_total", ""))
}

func TestHandler(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	m := NewProm("backup", reg)
	m.ObserveArchive("rejected", time.Millisecond)
	w := httptest.NewRecorder()

	// Act
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `backup_archives_total{result="rejected"} 1`))
}

func counterValue(families []*dto.MetricFamily, name string, result string) float64 {
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if result == "" {
				return metric.GetCounter().GetValue()
			}
			for _, label := range metric.GetLabel() {
				if label.GetName() == "result" && label.GetValue() == result {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return -1
}
