package cst

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/notargets/gocst/utils"
)

// Class function exponents, fixed for round nose / sharp tail sections
const (
	N1 = 0.5
	N2 = 1.0
)

// Coefficients weight the Bernstein terms, term i multiplies degree i
type Coefficients []float64

func (c Coefficients) Order() int {
	return len(c) - 1
}

func (c Coefficients) Copy() Coefficients {
	if c == nil {
		return nil
	}
	return append(Coefficients{}, c...)
}

func (c Coefficients) Validate() (ok bool) {
	if len(c) == 0 {
		return false
	}
	for _, v := range c {
		if utils.IsNan(v) {
			return false
		}
	}
	return true
}

func ClassFunction(x float64) float64 {
	return math.Sqrt(x) * (1 - x)
}

// bernstein returns C(n,i) for i in [0,n]
func bernstein(n int) (b []float64) {
	b = make([]float64, n+1)
	for i := range b {
		b[i] = float64(combin.Binomial(n, i))
	}
	return
}

func shape(coef Coefficients, binom []float64, x float64) (s float64) {
	var (
		n  = coef.Order()
		xm = 1 - x
	)
	for i, c := range coef {
		s += c * binom[i] * utils.POW(x, i) * utils.POW(xm, n-i)
	}
	return
}

// ShapeFunction is the Bernstein polynomial of degree len(coef)-1
func ShapeFunction(coef Coefficients, x float64) float64 {
	return shape(coef, bernstein(coef.Order()), x)
}

/*
Evaluate returns y(x) = C(x) * S(x). The class function vanishes at x=0 and
x=1, so both ends close exactly regardless of the coefficients.
*/
func Evaluate(coef Coefficients, x float64) float64 {
	return ClassFunction(x) * ShapeFunction(coef, x)
}

func EvaluateAll(coef Coefficients, xs []float64) (y []float64) {
	var (
		binom = bernstein(coef.Order())
	)
	y = make([]float64, len(xs))
	for i, x := range xs {
		y[i] = ClassFunction(x) * shape(coef, binom, x)
	}
	return
}
