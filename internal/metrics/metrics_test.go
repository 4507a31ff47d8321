package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drakos74/polyfit/internal/math"
)

func TestOutcome(t *testing.T) {

	tests := map[string]struct {
		err     error
		outcome string
	}{
		"ok": {
			outcome: OK,
		},
		"singular": {
			err:     fmt.Errorf("pivot: %w", math.SingularSystemErr),
			outcome: Singular,
		},
		"empty": {
			err:     math.EmptyInputErr,
			outcome: Invalid,
		},
		"degree": {
			err:     math.InvalidDegreeErr,
			outcome: Invalid,
		},
		"nan": {
			err:     math.NonFiniteErr,
			outcome: Invalid,
		},
		"other": {
			err:     fmt.Errorf("boom"),
			outcome: Failed,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.outcome, Outcome(tt.err))
		})
	}
}

func TestMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewMetrics(registry)
	require.NoError(t, err)

	m.Fit("gauss", time.Millisecond, nil)
	m.Fit("gauss", time.Millisecond, nil)
	m.Fit("gauss", time.Millisecond, math.SingularSystemErr)
	m.Fit("qr", time.Millisecond, nil)
	m.Cache(true)
	m.Cache(false)
	m.Cache(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.prometheus.Fits.WithLabelValues("gauss", OK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.prometheus.Fits.WithLabelValues("gauss", Singular)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.prometheus.Fits.WithLabelValues("qr", OK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.prometheus.Cache.WithLabelValues(Hit)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.prometheus.Cache.WithLabelValues(Miss)))

	// registering twice on the same registry fails
	_, err = NewMetrics(registry)
	assert.Error(t, err)
}
