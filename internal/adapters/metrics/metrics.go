package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Noop implements port.ArchiveMetrics without emitting anything.
type Noop struct{}

func (Noop) ObserveArchive(string, time.Duration) {}
func (Noop) AddEvictions(int)                     {}

// Prom implements port.ArchiveMetrics backed by Prometheus collectors.
type Prom struct {
	archives  *prometheus.CounterVec
	evictions prometheus.Counter
	duration  *prometheus.HistogramVec
}

// NewProm registers the archive collectors on reg
func NewProm(namespace string, reg prometheus.Registerer) *Prom {
	p := &Prom{
		archives: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archives_total",
			Help:      "Backup uploads by result",
		}, []string{"result"}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evictions_total",
			Help:      "Old backups removed by the retention policy",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "archive_duration_seconds",
			Help:      "Backup upload duration by result",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"result"}),
	}
	reg.MustRegister(p.archives, p.evictions, p.duration)
	return p
}

func (p *Prom) ObserveArchive(result string, duration time.Duration) {
	p.archives.WithLabelValues(result).Inc()
	p.duration.WithLabelValues(result).Observe(duration.Seconds())
}

func (p *Prom) AddEvictions(n int) {
	if n > 0 {
		p.evictions.Add(float64(n))
	}
}

// Handler returns an HTTP handler for /metrics.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
