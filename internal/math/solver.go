package math

import (
	"fmt"
	"math"
	"strings"
)

// DefaultTolerance is the relative pivot magnitude below which a system is treated as singular.
const DefaultTolerance = 1e-12

// Pivoting defines how the pivot row is chosen during forward elimination.
type Pivoting int

const (
	// NoPivoting keeps the rows in their original order.
	NoPivoting Pivoting = iota
	// PartialPivoting swaps the row with the largest candidate in the active column into the pivot slot.
	PartialPivoting
)

func (p Pivoting) String() string {
	switch p {
	case PartialPivoting:
		return "partial"
	default:
		return "none"
	}
}

// ParsePivoting parses the pivoting strategy name.
func ParsePivoting(s string) (Pivoting, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return NoPivoting, nil
	case "partial":
		return PartialPivoting, nil
	}
	return NoPivoting, fmt.Errorf("unknown pivoting strategy '%s'", s)
}

// Solver solves square linear systems by gaussian elimination followed by back substitution.
// A Solver holds only its configuration and can be shared between goroutines.
type Solver struct {
	tolerance float64
	pivoting  Pivoting
}

// NewSolver creates a solver with the default tolerance and no pivoting.
func NewSolver() *Solver {
	return &Solver{
		tolerance: DefaultTolerance,
		pivoting:  NoPivoting,
	}
}

// WithTolerance sets the relative pivot tolerance.
// A pivot is singular if its magnitude is at most tolerance times the original entry of its row in the pivot column.
func (s *Solver) WithTolerance(tolerance float64) *Solver {
	if tolerance >= 0 {
		s.tolerance = tolerance
	}
	return s
}

// WithPivoting sets the pivoting strategy.
func (s *Solver) WithPivoting(pivoting Pivoting) *Solver {
	s.pivoting = pivoting
	return s
}

// Tolerance returns the relative pivot tolerance.
func (s *Solver) Tolerance() float64 {
	return s.tolerance
}

// Pivoting returns the pivoting strategy.
func (s *Solver) Pivoting() Pivoting {
	return s.pivoting
}

// Solve solves m * c = b for c.
// m and b are left untouched, the elimination works on an augmented copy.
func (s *Solver) Solve(m Matrix, b []float64) ([]float64, error) {
	r := m.Rows()
	if r == 0 {
		return nil, fmt.Errorf("no equations: %w", EmptyInputErr)
	}
	if len(b) != r {
		return nil, fmt.Errorf("rhs length %d for %d rows: %w", len(b), r, DimensionMismatchErr)
	}
	for i, row := range m {
		if len(row) != r {
			return nil, fmt.Errorf("row %d has %d columns for %d rows: %w", i, len(row), r, DimensionMismatchErr)
		}
	}

	a, origin := augment(m, b)

	// forward elimination
	for p := 0; p < r-1; p++ {
		if s.pivoting == PartialPivoting {
			swap(a, origin, p)
		}
		if err := s.check(a, origin, p); err != nil {
			return nil, err
		}
		for z := p + 1; z < r; z++ {
			factor := a[z][p] / a[p][p]
			for j := 0; j <= r; j++ {
				a[z][j] -= factor * a[p][j]
			}
		}
	}
	if err := s.check(a, origin, r-1); err != nil {
		return nil, err
	}

	// back substitution
	c := make([]float64, r)
	for k := r - 1; k >= 0; k-- {
		rhs := a[k][r]
		for j := k + 1; j < r; j++ {
			rhs -= a[k][j] * c[j]
		}
		c[k] = rhs / a[k][k]
		if !finite(c[k]) {
			return nil, fmt.Errorf("coefficient %d is %v: %w", k, c[k], SingularSystemErr)
		}
	}
	return c, nil
}

// check verifies that the pivot at index p can be used as a divisor.
// The pivot is measured against the original entry of its row in column p,
// which is the diagonal of m unless the rows have been swapped.
func (s *Solver) check(a, origin Matrix, p int) error {
	pivot := a[p][p]
	scale := math.Abs(origin[p][p])
	if pivot == 0 || !finite(pivot) || math.Abs(pivot) <= s.tolerance*scale {
		return fmt.Errorf("pivot %d is %v (original %v): %w", p, pivot, scale, SingularSystemErr)
	}
	return nil
}

// augment combines m and b into a single matrix with b as the last column.
// It also returns the rows of m in the same order, to be swapped along with a.
func augment(m Matrix, b []float64) (Matrix, Matrix) {
	r := len(b)
	a := NewMatrix(r, r+1)
	origin := make(Matrix, r)
	for i := 0; i < r; i++ {
		copy(a[i], m[i])
		a[i][r] = b[i]
		origin[i] = m[i]
	}
	return a, origin
}

// swap moves the row with the largest magnitude in column p (from row p downwards) into row p.
func swap(a, origin Matrix, p int) {
	max := p
	for z := p + 1; z < len(a); z++ {
		if math.Abs(a[z][p]) > math.Abs(a[max][p]) {
			max = z
		}
	}
	if max != p {
		a[p], a[max] = a[max], a[p]
		origin[p], origin[max] = origin[max], origin[p]
	}
}
