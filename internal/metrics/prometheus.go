package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "polyfit"

type Prometheus struct {
	Fits     *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Cache    *prometheus.CounterVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Fits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fits_total",
				Help:      "Polynomial fits by method and outcome.",
			}, []string{"method", "outcome"}),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fit_duration_seconds",
				Help:      "Duration of polynomial fits.",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
			}, []string{"method"}),
		Cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_total",
				Help:      "Fit cache lookups by result.",
			}, []string{"result"}),
	}
}

func (p Prometheus) collectors() []prometheus.Collector {
	return []prometheus.Collector{p.Fits, p.Duration, p.Cache}
}
