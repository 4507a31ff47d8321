package math

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Polynomial holds the coefficients of a polynomial in ascending power order
// c[0] + c[1]x + c[2]x^2 + c[3]x^3 + ...
type Polynomial []float64

// Degree returns the degree of the polynomial.
func (p Polynomial) Degree() int {
	return len(p) - 1
}

// Predict evaluates the polynomial at x.
func (p Polynomial) Predict(x float64) float64 {
	return Predict(p, x)
}

// Predict evaluates the polynomial with coefficients c at x.
// The terms are summed in ascending power order.
func Predict(c []float64, x float64) float64 {
	y := 0.0
	for i, p := 0, 1.; i < len(c); i, p = i+1, p*x {
		y += c[i] * p
	}
	return y
}

// Fit fits the given samples into a polynomial function of the given degree
// by solving the normal equations without pivoting.
func Fit(samples []Sample, degree int) (Polynomial, error) {
	if err := Validate(samples, degree); err != nil {
		return nil, err
	}
	m, b := NormalEquations(samples, degree)
	c, err := NewSolver().Solve(m, b)
	if err != nil {
		return nil, fmt.Errorf("could not fit degree %d to %d samples: %w", degree, len(samples), err)
	}
	return c, nil
}

// Result is the outcome of a regression.
type Result struct {
	Coefficients Polynomial `json:"coefficients"`
	// Fitted holds the prediction for each sample x, in sample order.
	Fitted    []float64 `json:"fitted"`
	Residuals []float64 `json:"residuals"`
	RSquared  float64   `json:"r_squared"`
}

// Regression is a polynomial least squares regression of a fixed degree.
type Regression struct {
	degree int
	solver *Solver
}

// NewRegression creates a new regression for the given degree with the default solver.
func NewRegression(degree int) *Regression {
	return &Regression{
		degree: degree,
		solver: NewSolver(),
	}
}

// WithSolver sets the solver used for the normal equations.
func (r *Regression) WithSolver(solver *Solver) *Regression {
	if solver != nil {
		r.solver = solver
	}
	return r
}

// Degree returns the degree of the regression.
func (r *Regression) Degree() int {
	return r.degree
}

// Fit fits the samples and evaluates the resulting polynomial on them.
func (r *Regression) Fit(samples []Sample) (Result, error) {
	if err := Validate(samples, r.degree); err != nil {
		return Result{}, err
	}
	m, b := NormalEquations(samples, r.degree)
	c, err := r.solver.Solve(m, b)
	if err != nil {
		return Result{}, fmt.Errorf("could not fit degree %d to %d samples: %w", r.degree, len(samples), err)
	}
	return Evaluate(c, samples), nil
}

// Evaluate applies the polynomial to the samples and collects the goodness of fit.
func Evaluate(c Polynomial, samples []Sample) Result {
	fitted := make([]float64, len(samples))
	residuals := make([]float64, len(samples))
	yy := make([]float64, len(samples))
	for i, s := range samples {
		fitted[i] = Predict(c, s.X)
		residuals[i] = s.Y - fitted[i]
		yy[i] = s.Y
	}
	return Result{
		Coefficients: c,
		Fitted:       fitted,
		Residuals:    residuals,
		RSquared:     rSquared(yy, residuals),
	}
}

// rSquared is the coefficient of determination.
// A constant series is considered perfectly explained.
func rSquared(yy, residuals []float64) float64 {
	if len(yy) == 0 {
		return 0
	}
	mean := stat.Mean(yy, nil)
	total := 0.0
	for _, y := range yy {
		total += (y - mean) * (y - mean)
	}
	if total == 0 {
		return 1
	}
	return 1 - floats.Dot(residuals, residuals)/total
}

// FitQR fits the samples into a polynomial of the given degree
// by a QR factorization of the vandermonde matrix instead of the normal equations.
func FitQR(samples []Sample, degree int) (Polynomial, error) {
	if err := Validate(samples, degree); err != nil {
		return nil, err
	}
	if len(samples) < degree+1 {
		return nil, fmt.Errorf("not enough samples (%d out of %d) for degree %d: %w",
			len(samples),
			degree+1,
			degree,
			SingularSystemErr)
	}

	x, y := XY(samples)
	a := vandermonde(x, degree)
	b := mat.NewDense(len(y), 1, y)
	c := mat.NewDense(degree+1, 1, nil)

	qr := new(mat.QR)
	qr.Factorize(a)

	err := qr.SolveTo(c, false, b)
	if err != nil {
		return nil, fmt.Errorf("could not solve qr for degree %d: %v: %w", degree, err, SingularSystemErr)
	}

	v := c.ColView(0)
	cc := make(Polynomial, v.Len())
	for i := 0; i < v.Len(); i++ {
		cc[i] = v.AtVec(i)
	}
	return cc, nil
}

func vandermonde(a []float64, degree int) *mat.Dense {
	x := mat.NewDense(len(a), degree+1, nil)
	for i := range a {
		for j, p := 0, 1.; j <= degree; j, p = j+1, p*a[i] {
			x.Set(i, j, p)
		}
	}
	return x
}
