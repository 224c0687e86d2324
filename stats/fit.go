package stats

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// PolyFit returns the least squares coefficients, constant term first, of a
// degree-order polynomial fitted to vals over the index positions 0..n-1.
func PolyFit(vals []float64, order int) ([]float64, error) {
	if order < 0 {
		return nil, errors.Errorf("polynomial order %d is negative", order)
	}
	n := len(vals)
	if n < order+1 {
		return nil, errors.Errorf("cannot fit a degree %d polynomial to %d observations", order, n)
	}

	vandermonde := mat.NewDense(n, order+1, nil)
	for i := 0; i < n; i++ {
		x := 1.0
		for j := 0; j <= order; j++ {
			vandermonde.Set(i, j, x)
			x *= float64(i)
		}
	}
	rhs := mat.NewVecDense(n, nil)
	for i, v := range vals {
		rhs.SetVec(i, v)
	}

	var solution mat.Dense
	if err := solution.Solve(vandermonde, rhs); err != nil {
		return nil, errors.Wrap(err, "solving polynomial least squares system")
	}

	coefs := make([]float64, order+1)
	for j := range coefs {
		coefs[j] = solution.At(j, 0)
	}
	return coefs, nil
}

// PolyResiduals removes a fitted degree-order polynomial trend from vals and
// returns the residuals. Stretches with no more observations than polynomial
// coefficients are fitted exactly and yield all-zero residuals.
func PolyResiduals(vals []float64, order int) ([]float64, error) {
	residuals := make([]float64, len(vals))
	if len(vals) <= order+1 {
		return residuals, nil
	}

	coefs, err := PolyFit(vals, order)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	for i, v := range vals {
		fitted := 0.0
		x := 1.0
		for _, c := range coefs {
			fitted += c * x
			x *= float64(i)
		}
		residuals[i] = v - fitted
	}
	return residuals, nil
}
