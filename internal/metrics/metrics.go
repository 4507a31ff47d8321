package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/drakos74/polyfit/internal/math"
)

const (
	OK       = "ok"
	Invalid  = "invalid"
	Singular = "singular"
	Failed   = "error"

	Hit  = "hit"
	Miss = "miss"
)

// Metrics records the fit activity.
type Metrics struct {
	prometheus Prometheus
}

// NewMetrics creates the fit metrics and registers them with the given registerer.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	p := NewPrometheusMetrics()
	for _, c := range p.collectors() {
		if err := registerer.Register(c); err != nil {
			return nil, fmt.Errorf("could not register metrics: %w", err)
		}
	}
	return &Metrics{prometheus: p}, nil
}

// Fit records a fit for the given method.
func (m *Metrics) Fit(method string, duration time.Duration, err error) {
	m.prometheus.Fits.WithLabelValues(method, Outcome(err)).Inc()
	m.prometheus.Duration.WithLabelValues(method).Observe(duration.Seconds())
}

// Cache records a cache lookup.
func (m *Metrics) Cache(hit bool) {
	result := Miss
	if hit {
		result = Hit
	}
	m.prometheus.Cache.WithLabelValues(result).Inc()
}

// Outcome classifies the result of a fit.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, math.SingularSystemErr):
		return Singular
	case errors.Is(err, math.EmptyInputErr),
		errors.Is(err, math.InvalidDegreeErr),
		errors.Is(err, math.NonFiniteErr):
		return Invalid
	default:
		return Failed
	}
}
