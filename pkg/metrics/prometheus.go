package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchTotal      *prometheus.CounterVec
	cacheTotal      *prometheus.CounterVec
	conversionTotal *prometheus.CounterVec
	reportPages     prometheus.Histogram
	reportDuration  prometheus.Histogram
	errorsTotal     *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// New creates a recorder registered on the default registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder registered on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		fetchTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketsnap_fetch_total",
				Help: "Instrument fetches by asset class and outcome",
			},
			[]string{"class", "outcome"},
		),
		cacheTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketsnap_cache_requests_total",
				Help: "Aggregation cache lookups by result",
			},
			[]string{"result"},
		),
		conversionTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketsnap_conversions_total",
				Help: "Compliance price conversions by status",
			},
			[]string{"status"},
		),
		reportPages: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "marketsnap_report_pages",
				Help:    "Pages per generated snapshot report",
				Buckets: prometheus.LinearBuckets(5, 3, 8),
			},
		),
		reportDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "marketsnap_report_duration_seconds",
				Help:    "Time spent rendering snapshot reports",
				Buckets: prometheus.DefBuckets,
			},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketsnap_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketsnap_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetch counts one instrument fetch outcome.
func (r *Recorder) RecordFetch(class, outcome string) {
	r.fetchTotal.WithLabelValues(class, outcome).Inc()
}

// RecordCache counts one aggregation cache lookup.
func (r *Recorder) RecordCache(result string) {
	r.cacheTotal.WithLabelValues(result).Inc()
}

// RecordConversion counts one conversion outcome.
func (r *Recorder) RecordConversion(status string) {
	r.conversionTotal.WithLabelValues(status).Inc()
}

// RecordReport observes one rendered report.
func (r *Recorder) RecordReport(pages int, seconds float64) {
	r.reportPages.Observe(float64(pages))
	r.reportDuration.Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop discards all metrics.
type Nop struct{}

func (Nop) RecordFetch(string, string) {}
func (Nop) RecordCache(string) {}
func (Nop) RecordConversion(string) {}
func (Nop) RecordReport(int, float64) {}
func (Nop) RecordError(string) {}
func (Nop) RecordLatency(string, float64) {}
