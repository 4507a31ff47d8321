package math

// NormalEquations builds the least squares normal equations for a polynomial of the given degree.
// m[i][j] holds the sum of x^(i+j) and b[i] the sum of x^i * y over all samples,
// so that m[0][0] is the number of samples.
// An empty sample set produces an all-zero system.
func NormalEquations(samples []Sample, degree int) (Matrix, []float64) {
	r := degree + 1
	if r < 1 {
		return Matrix{}, []float64{}
	}

	// sums of x^k for k in [0, 2*degree]
	sx := make([]float64, 2*r-1)
	b := make([]float64, r)
	for _, s := range samples {
		for k, p := 0, 1.; k < len(sx); k, p = k+1, p*s.X {
			sx[k] += p
			if k < r {
				b[k] += p * s.Y
			}
		}
	}

	m := NewMatrix(r, r)
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			m[i][j] = sx[i+j]
		}
	}
	return m, b
}
