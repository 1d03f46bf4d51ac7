package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for grid downloads.
type Metrics struct {
	CacheHits        *prometheus.CounterVec   // labels: file
	Downloads        *prometheus.CounterVec   // labels: file, outcome={success,error}
	DownloadDuration *prometheus.HistogramVec // labels: file
	DownloadBytes    *prometheus.CounterVec   // labels: file
}

func newMetrics() *Metrics {
	return &Metrics{
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "soilgrids",
			Name:      "cache_hits_total",
			Help:      "Requests satisfied by an already-present cache file.",
		}, []string{"file"}),
		Downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "soilgrids",
			Name:      "downloads_total",
			Help:      "Download attempts by outcome.",
		}, []string{"file", "outcome"}),
		DownloadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "soilgrids",
			Name:      "download_duration_seconds",
			Help:      "Wall-clock duration of a download attempt.",
			Buckets:   []float64{1, 5, 15, 60, 300, 900, 1800, 3600, 7200},
		}, []string{"file"}),
		DownloadBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "soilgrids",
			Name:      "download_bytes_total",
			Help:      "Bytes written to partial download files.",
		}, []string{"file"}),
	}
}

// NewMetrics creates download metrics and registers them with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.CacheHits, m.Downloads, m.DownloadDuration, m.DownloadBytes)
	return m
}

// NewMetricsForTesting creates unregistered metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// Default returns process-wide registered metrics, created on first use.
// Library consumers that do not wire their own Metrics share this set.
func Default() *Metrics {
	defaultMetricsOnce.Do(func() {
		defaultMetrics = NewMetrics()
	})
	return defaultMetrics
}
