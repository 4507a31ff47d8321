package math

import (
	"errors"
	"fmt"
	"math"
)

var (
	EmptyInputErr        = errors.New("empty input")
	SingularSystemErr    = errors.New("singular system")
	InvalidDegreeErr     = errors.New("invalid degree")
	NonFiniteErr         = errors.New("non-finite value")
	DimensionMismatchErr = errors.New("dimension mismatch")
)

// Sample is a single (x, y) observation.
type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Matrix is a dense row-major matrix.
type Matrix [][]float64

// NewMatrix creates a zero matrix with the given dimensions.
func NewMatrix(rows, cols int) Matrix {
	m := make(Matrix, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

// Rows returns the number of rows.
func (m Matrix) Rows() int {
	return len(m)
}

// Cols returns the length of the first row.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Copy returns a deep copy of the matrix.
func (m Matrix) Copy() Matrix {
	c := make(Matrix, len(m))
	for i, row := range m {
		c[i] = append([]float64(nil), row...)
	}
	return c
}

// XY splits the samples into their coordinates.
func XY(samples []Sample) ([]float64, []float64) {
	xx := make([]float64, len(samples))
	yy := make([]float64, len(samples))
	for i, s := range samples {
		xx[i] = s.X
		yy[i] = s.Y
	}
	return xx, yy
}

// Validate checks that a fit of the given degree can be attempted on the samples.
// It does not check whether the system will be solvable.
func Validate(samples []Sample, degree int) error {
	if degree < 0 {
		return fmt.Errorf("degree %d: %w", degree, InvalidDegreeErr)
	}
	if len(samples) == 0 {
		return fmt.Errorf("no samples for degree %d: %w", degree, EmptyInputErr)
	}
	for i, s := range samples {
		if !finite(s.X) || !finite(s.Y) {
			return fmt.Errorf("sample %d (%v,%v): %w", i, s.X, s.Y, NonFiniteErr)
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
