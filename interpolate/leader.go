package interpolate

import (
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/notargets/gocst/types"
)

// LeaderPoint offsets the leading edge locus by (DX, DY) at a span fraction
type LeaderPoint struct {
	Fraction float64
	DX, DY   float64
}

/*
LeaderBlend is the offset curve of a bend: a piecewise cubic Hermite through
(start,0), the leader points and (end,0) for each of the two offset
components. Interior slopes use the Fritsch-Butland harmonic mean, which
never overshoots the leader values; the end slopes are given by the caller,
where zero joins the unbent part with a continuous tangent.
*/
type LeaderBlend struct {
	Start, End float64
	x, y       interp.PiecewiseCubic
}

func NewLeaderBlend(start, end float64, leaders []LeaderPoint, kx, ky [2]float64) (lb *LeaderBlend, err error) {
	if !(end > start) {
		err = types.NewValidationError("interpolate.NewLeaderBlend", "bend range [%g, %g] is empty", start, end)
		return
	}
	var (
		n  = len(leaders) + 2
		fr = make([]float64, n)
		dx = make([]float64, n)
		dy = make([]float64, n)
	)
	fr[0], fr[n-1] = start, end
	for i, l := range leaders {
		fr[i+1], dx[i+1], dy[i+1] = l.Fraction, l.DX, l.DY
		if !(l.Fraction > fr[i]) {
			err = types.NewValidationError("interpolate.NewLeaderBlend",
				"leader %d at fraction %g is not inside the bend range and after the previous leader", i, l.Fraction)
			return
		}
	}
	if !(end > fr[n-2]) {
		err = types.NewValidationError("interpolate.NewLeaderBlend",
			"last leader at fraction %g is not before the bend end %g", fr[n-2], end)
		return
	}
	lb = &LeaderBlend{Start: start, End: end}
	lb.x.FitWithDerivatives(fr, dx, HermiteSlopes(fr, dx, kx[0], kx[1]))
	lb.y.FitWithDerivatives(fr, dy, HermiteSlopes(fr, dy, ky[0], ky[1]))
	return
}

func (lb *LeaderBlend) inside(f float64) bool {
	return f > lb.Start && f < lb.End
}

// Offset is zero outside the open range (Start, End)
func (lb *LeaderBlend) Offset(f float64) (dx, dy float64) {
	if !lb.inside(f) {
		return
	}
	return lb.x.Predict(f), lb.y.Predict(f)
}

// Slope is the derivative of the offset with respect to the span fraction
func (lb *LeaderBlend) Slope(f float64) (dxdf, dydf float64) {
	if !lb.inside(f) {
		return
	}
	return lb.x.PredictDerivative(f), lb.y.PredictDerivative(f)
}

// HermiteSlopes returns Fritsch-Butland slopes at the interior knots with
// the end slopes k0, k1
func HermiteSlopes(xs, ys []float64, k0, k1 float64) (m []float64) {
	var (
		n = len(xs)
	)
	m = make([]float64, n)
	m[0], m[n-1] = k0, k1
	for i := 1; i < n-1; i++ {
		var (
			h0 = xs[i] - xs[i-1]
			h1 = xs[i+1] - xs[i]
			d0 = (ys[i] - ys[i-1]) / h0
			d1 = (ys[i+1] - ys[i]) / h1
		)
		if d0*d1 <= 0 {
			continue
		}
		m[i] = 3 * (h0 + h1) / ((2*h1+h0)/d0 + (h1+2*h0)/d1)
		if math.IsNaN(m[i]) {
			m[i] = 0
		}
	}
	return
}
