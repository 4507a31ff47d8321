package series

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/drakos74/polyfit/internal/math"
)

const (
	// Start is the x coordinate of the first reading.
	Start = 5.1
	// Step is the x distance between consecutive readings.
	Step = 5.1
	// DefaultDegree is used when the degree input cannot be parsed.
	DefaultDegree = 1

	maxDegreeDigits = 2
)

// Values tags the readings with synthetic x coordinates start, start+step, start+2*step ...
func Values(values []float64, start, step float64) []math.Sample {
	samples := make([]math.Sample, len(values))
	x := start
	for i, v := range values {
		samples[i] = math.Sample{X: x, Y: v}
		x += step
	}
	return samples
}

// Limits returns the min and max y of the samples.
func Limits(samples []math.Sample) (min, max float64, ok bool) {
	if len(samples) == 0 {
		return 0, 0, false
	}
	_, yy := math.XY(samples)
	return floats.Min(yy), floats.Max(yy), true
}

// Filter keeps the samples whose y lies within [min, max].
func Filter(samples []math.Sample, min, max float64) []math.Sample {
	filtered := make([]math.Sample, 0, len(samples))
	for _, s := range samples {
		if s.Y >= min && s.Y <= max {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// Curve evaluates the polynomial at the x of every sample.
func Curve(samples []math.Sample, c math.Polynomial) []math.Sample {
	curve := make([]math.Sample, len(samples))
	for i, s := range samples {
		curve[i] = math.Sample{X: s.X, Y: c.Predict(s.X)}
	}
	return curve
}

// ParseDegree parses a user supplied degree.
// Anything but ascii digits is dropped and at most two digits are kept.
func ParseDegree(s string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if len(digits) > maxDegreeDigits {
		digits = digits[:maxDegreeDigits]
	}
	d, err := strconv.Atoi(digits)
	if err != nil {
		return DefaultDegree
	}
	return d
}
