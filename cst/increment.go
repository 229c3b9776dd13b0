package cst

import (
	"fmt"
	"math"

	"github.com/viterin/vek"

	"github.com/notargets/gocst/types"
)

/*
Increment adds the CST curves cu and cl on top of an existing foil. The
trailing edge gap of the base foil is removed before the increment and
restored afterwards. With keepThickness the result is rescaled so its
maximum thickness matches the base foil's.
*/
func Increment(x, yu, yl []float64, cu, cl Coefficients, keepThickness bool) (yuNew, ylNew []float64) {
	var (
		nn    = len(x)
		tail  = yu[nn-1] - yl[nn-1]
		tBase = vek.Max(Thickness(yu, yl))
		ramp  = vek.MulNumber(x, 0.5*tail)
	)
	yuNew = vek.Add(vek.Sub(yu, ramp), EvaluateAll(cu, x))
	ylNew = vek.Add(vek.Add(yl, ramp), EvaluateAll(cl, x))
	vek.Add_Inplace(yuNew, ramp)
	vek.Sub_Inplace(ylNew, ramp)
	if keepThickness {
		ScaleThickness(x, yuNew, ylNew, tBase)
	}
	return
}

/*
ScaleThickness scales both sides in place, keeping the trailing edge gap, so
the maximum thickness becomes t. It reports false, leaving the foil alone,
when the foil has no positive thickness without its gap.
*/
func ScaleThickness(x, yu, yl []float64, t float64) (ok bool) {
	var (
		nn   = len(x)
		tail = yu[nn-1] - yl[nn-1]
		ramp = vek.MulNumber(x, 0.5*tail)
	)
	vek.Sub_Inplace(yu, ramp)
	vek.Add_Inplace(yl, ramp)
	thick := Thickness(yu, yl)
	it := vek.ArgMax(thick)
	if t0 := thick[it]; t0 > 0 {
		r := (t - tail*x[it]) / t0
		vek.MulNumber_Inplace(yu, r)
		vek.MulNumber_Inplace(yl, r)
		ok = true
	}
	vek.Add_Inplace(yu, ramp)
	vek.Sub_Inplace(yl, ramp)
	return
}

type BumpKind uint8

const (
	Gaussian BumpKind = iota
	HicksHenne
)

func (bk BumpKind) String() string {
	switch bk {
	case Gaussian:
		return "Gaussian"
	case HicksHenne:
		return "HicksHenne"
	}
	return fmt.Sprintf("BumpKind(%d)", uint8(bk))
}

/*
AddBump returns y with a bump of height h centered at xc and spanning
roughly s in x. Gaussian bumps are cheap; Hicks-Henne bumps resolve better
close to the leading edge.
*/
func AddBump(x, y []float64, xc, h, s float64, kind BumpKind) (yNew []float64, err error) {
	if xc <= 0 || xc >= 1 {
		err = types.NewValidationError("cst.AddBump", "bump center must lie in (0,1), have %g", xc)
		return
	}
	if s <= 0 {
		err = types.NewValidationError("cst.AddBump", "bump span must be positive, have %g", s)
		return
	}
	yNew = make([]float64, len(y))
	switch kind {
	case Gaussian:
		for i, xi := range x {
			sigma := s / 6
			switch {
			case xc-s < 0 && xi < xc:
				sigma = xc / 3.5
			case xc+s > 1 && xi > xc:
				sigma = (1 - xc) / 3.5
			}
			yNew[i] = y[i] + h*math.Exp(-(xi-xc)*(xi-xc)/(2*sigma*sigma))
		}
	case HicksHenne:
		var (
			s0  = math.Log(0.5) / math.Log(xc)
			pw  = hicksHennePower(xc, s, s0)
			sin = func(xi float64) float64 { return math.Sin(math.Pi * math.Pow(xi, s0)) }
		)
		for i, xi := range x {
			yNew[i] = y[i] + h*math.Pow(sin(xi), pw)
		}
	default:
		err = types.NewValidationError("cst.AddBump", "unknown bump kind %v", kind)
	}
	return
}

// Bump is one AddBump on the upper or lower side of a foil
type Bump struct {
	Upper          bool
	Center, Height float64
	Span           float64
	Kind           BumpKind
}

func (b Bump) Validate() error {
	switch {
	case !(b.Center > 0 && b.Center < 1):
		return fmt.Errorf("bump center must lie in (0,1), have %g", b.Center)
	case !(b.Span > 0):
		return fmt.Errorf("bump span must be positive, have %g", b.Span)
	case b.Kind != Gaussian && b.Kind != HicksHenne:
		return fmt.Errorf("unknown bump kind %v", b.Kind)
	}
	return nil
}

// Apply adds the bump to its side and returns both sides
func (b Bump) Apply(x, yu, yl []float64) (yuNew, ylNew []float64, err error) {
	yuNew, ylNew = yu, yl
	if b.Upper {
		yuNew, err = AddBump(x, yu, b.Center, b.Height, b.Span, b.Kind)
	} else {
		ylNew, err = AddBump(x, yl, b.Center, b.Height, b.Span, b.Kind)
	}
	return
}

// hicksHennePower raises the sine power until the bump's 1% width fits in s
func hicksHennePower(xc, s, s0 float64) (pw float64) {
	pw = 1
	for span := 1.; pw < 100 && span > s; pw++ {
		x1, x2 := -1., -1.
		for i := 0; i <= 200; i++ {
			xx := float64(i) * 0.005
			yy := math.Pow(math.Sin(math.Pi*math.Pow(xx, s0)), pw)
			if yy > 0.01 && x1 < 0 && xx < xc {
				x1 = xx
			}
			if yy < 0.01 && x2 < 0 && xx > xc {
				x2 = xx
			}
		}
		if x2 < 0 {
			x2 = 1
		}
		span = x2 - x1
	}
	return
}
