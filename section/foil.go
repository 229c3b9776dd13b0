package section

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/viterin/vek"

	"github.com/notargets/gocst/cst"
	"github.com/notargets/gocst/types"
)

// Foil is a unit chord section, both sides sampled on the shared X
type Foil struct {
	X, Upper, Lower   []float64
	ThicknessMax      float64
	MaxThicknessIndex int
	LeadingEdgeRadius float64
}

func (f *Foil) Len() int {
	return len(f.X)
}

func (f *Foil) Thickness() []float64 {
	return cst.Thickness(f.Upper, f.Lower)
}

func (f *Foil) Camber() []float64 {
	return cst.Camber(f.Upper, f.Lower)
}

func (f *Foil) Check() (cst.Violations, error) {
	return cst.CheckValid(f.X, f.Upper, f.Lower, f.LeadingEdgeRadius)
}

/*
Generate evaluates the section's CST curves on nn points. When RelThickness
is set both sides are scaled by one factor so that, after the trailing edge
gap ramp is added, the thickest point measures RelThickness.
*/
func Generate(s Spec, nn int, dt cst.DistributionType) (f *Foil, err error) {
	if nn < 3 {
		err = types.NewValidationError("section.Generate", "need at least 3 points per side, have %d", nn)
		return
	}
	if err = s.Validate("section.Generate"); err != nil {
		return
	}
	var (
		x  = cst.Distribution(dt, nn)
		yu = cst.EvaluateAll(s.Upper, x)
		yl = cst.EvaluateAll(s.Lower, x)
	)
	if s.RelThickness > 0 {
		thick := cst.Thickness(yu, yl)
		it := vek.ArgMax(thick)
		t0 := thick[it]
		if !(t0 > 0) {
			err = types.NewNumericDegeneracy("section.Generate",
				"cannot scale to thickness %g, nominal thickness is %g", s.RelThickness, t0)
			return
		}
		r := (s.RelThickness - s.Tail*x[it]) / t0
		vek.MulNumber_Inplace(yu, r)
		vek.MulNumber_Inplace(yl, r)
	}
	if s.Tail > 0 {
		ramp := vek.MulNumber(x, 0.5*s.Tail)
		vek.Add_Inplace(yu, ramp)
		vek.Sub_Inplace(yl, ramp)
	}
	if s.Refine != nil {
		if yu, yl, err = s.Refine.apply(x, yu, yl); err != nil {
			return
		}
	}
	f = &Foil{
		X:     x,
		Upper: yu,
		Lower: yl,
	}
	thick := f.Thickness()
	f.MaxThicknessIndex = vek.ArgMax(thick)
	f.ThicknessMax = thick[f.MaxThicknessIndex]
	f.LeadingEdgeRadius = cst.LeadingEdgeRadius(x, yu, yl)
	if vek.Min(thick) < 0 {
		glog.Warningf("section.Generate: negative thickness %g, section self-intersects", vek.Min(thick))
	}
	return
}

// apply adds the incremental curves, then the bumps, then restores the
// thickness of the unrefined foil when asked to
func (r *Refine) apply(x, yu, yl []float64) (yuNew, ylNew []float64, err error) {
	var (
		tBase = vek.Max(cst.Thickness(yu, yl))
	)
	yuNew, ylNew = yu, yl
	if r.Upper != nil || r.Lower != nil {
		yuNew, ylNew = cst.Increment(x, yu, yl, orZero(r.Upper), orZero(r.Lower), false)
	}
	for i, b := range r.Bumps {
		if yuNew, ylNew, err = b.Apply(x, yuNew, ylNew); err != nil {
			return nil, nil, errors.Wrapf(err, "section.Generate: bump %d", i)
		}
	}
	if r.KeepThickness && !cst.ScaleThickness(x, yuNew, ylNew, tBase) {
		err = types.NewNumericDegeneracy("section.Generate", "refined section has no thickness to rescale")
	}
	return
}

func orZero(c cst.Coefficients) cst.Coefficients {
	if c == nil {
		return cst.Coefficients{0}
	}
	return c
}
