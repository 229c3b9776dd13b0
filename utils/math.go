package utils

import (
	"math"
)

// POW evaluates x^pp, unrolled for the small integer powers used by the
// Bernstein basis
func POW(x float64, pp int) (y float64) {
	var (
		p       = pp
		flipped bool
	)
	if pp > 8 || pp < -8 {
		return math.Pow(x, float64(pp))
	}
	if p < 0 {
		p = -pp
		flipped = true
	}
	switch p {
	case 0:
		y = 1
	case 1:
		y = x
	case 2:
		y = x * x
	case 3:
		y = x * x * x
	case 4:
		y = x * x
		y = y * y
	case 5:
		y = x * x
		y = y * y * x
	case 6:
		y = x * x
		y = y * y * y
	case 7:
		y = x * x
		y = y * y * y * x
	case 8:
		y = x * x
		y = y * y * y * y
	}
	if flipped {
		y = 1. / y
	}
	return
}

// IndexFractions returns i/(n-1) for i in [0,n), with both ends exact
func IndexFractions(n int) (f []float64) {
	f = make([]float64, n)
	if n == 1 {
		return
	}
	for i := range f {
		f[i] = float64(i) / float64(n-1)
	}
	return
}

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// StrictlyIncreasing reports the first index i where f[i] <= f[i-1], or -1
func StrictlyIncreasing(f []float64) (badIndex int) {
	for i := 1; i < len(f); i++ {
		if !(f[i] > f[i-1]) {
			return i
		}
	}
	return -1
}

func Sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}
