package cst

import (
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gocst/types"
	"github.com/notargets/gocst/utils"
)

/*
Fit finds nCoef CST coefficients whose curve best matches y(x) in the least
squares sense. The trailing edge ramp x*y[last] is removed first, so curves
with an open trailing edge fit as well as closed ones.
*/
func Fit(x, y []float64, nCoef int) (coef Coefficients, err error) {
	var (
		m = len(x)
	)
	switch {
	case nCoef < 1:
		err = types.NewValidationError("cst.Fit", "need at least one coefficient, have %d", nCoef)
		return
	case len(y) != m:
		err = types.NewValidationError("cst.Fit", "x has %d points, y has %d", m, len(y))
		return
	case m < nCoef:
		err = types.NewValidationError("cst.Fit", "%d points cannot determine %d coefficients", m, nCoef)
		return
	case x[0] == x[m-1]:
		err = types.NewNumericDegeneracy("cst.Fit", "x range is empty")
		return
	}
	var (
		n     = nCoef - 1
		binom = bernstein(n)
		tail  = y[m-1]
		A     = mat.NewDense(m, nCoef, nil)
		b     = mat.NewVecDense(m, nil)
		c     mat.VecDense
	)
	for i := 0; i < m; i++ {
		xi := x[i]
		b.SetVec(i, y[i]-xi*tail)
		cf := ClassFunction(xi)
		for k := 0; k <= n; k++ {
			A.Set(i, k, cf*binom[k]*utils.POW(xi, k)*utils.POW(1-xi, n-k))
		}
	}
	if err = c.SolveVec(A, b); err != nil {
		err = types.NewNumericDegeneracy("cst.Fit", "least squares solve failed: %v", err)
		return
	}
	coef = make(Coefficients, nCoef)
	for k := range coef {
		coef[k] = c.AtVec(k)
	}
	return
}

// FitFoil fits both sides of a unit chord section sampled at x
func FitFoil(x, yu, yl []float64, nCoef int) (cu, cl Coefficients, err error) {
	if cu, err = Fit(x, yu, nCoef); err != nil {
		return
	}
	cl, err = Fit(x, yl, nCoef)
	return
}
