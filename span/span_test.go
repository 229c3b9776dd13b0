package span

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gocst/cst"
	"github.com/notargets/gocst/section"
	"github.com/notargets/gocst/types"
	"github.com/notargets/gocst/utils"
)

func coef(base float64, n int) (c cst.Coefficients) {
	c = make(cst.Coefficients, n)
	for i := range c {
		c[i] = base + 0.01*float64(i)
	}
	return
}

func stack(n int) (secs []section.Spec) {
	for i := 0; i < n; i++ {
		fi := float64(i)
		secs = append(secs, section.Spec{
			LeadingEdge:  r3.Vec{X: 0.5 * fi * fi, Y: 0.1 * fi, Z: 4 * fi},
			Chord:        10 - fi,
			Twist:        -2 * fi,
			RelThickness: 0.12 - 0.01*fi,
			Tail:         0.001 * fi,
			Upper:        coef(0.2+0.01*fi, 7),
			Lower:        coef(-0.1-0.01*fi, 7),
		})
	}
	return
}

func TestTrack(t *testing.T) {
	var tr Track
	tr.Put(0, 0, cst.Coefficients{1, 2})
	tr.Put(0.5, 2, cst.Coefficients{3, 6})
	tr.Put(1, 4, cst.Coefficients{5, 10})
	require.NoError(t, tr.Check("test", "upper"))
	{ // Keys come back verbatim, and as copies
		c := tr.Lookup(0.5, LinearBlend)
		assert.Equal(t, cst.Coefficients{3, 6}, c)
		c[0] = 99
		assert.Equal(t, cst.Coefficients{3, 6}, tr.Lookup(0.5+1.e-12, SmoothBlend))
	}
	{ // Blending
		assert.InDeltaSlice(t, []float64{2, 4}, tr.Lookup(0.25, LinearBlend), 1.e-15)
		assert.InDeltaSlice(t, []float64{3.5, 7}, tr.Lookup(0.625, LinearBlend), 1.e-15)
		sm := tr.Lookup(0.125, SmoothBlend)
		r := 0.5 * (1 - math.Cos(math.Pi*0.25))
		assert.InDeltaSlice(t, []float64{1 + 2*r, 2 + 4*r}, sm, 1.e-15)
		// midpoint is the same for both blends
		assert.InDeltaSlice(t, tr.Lookup(0.75, LinearBlend), tr.Lookup(0.75, SmoothBlend), 1.e-15)
	}
	{ // Constant beyond the ends
		var tr2 Track
		tr2.Put(0.2, 1, cst.Coefficients{1})
		tr2.Put(0.6, 3, cst.Coefficients{2})
		assert.Equal(t, cst.Coefficients{1}, tr2.Lookup(0, LinearBlend))
		assert.Equal(t, cst.Coefficients{2}, tr2.Lookup(1, LinearBlend))
	}
	{ // Mismatched neighbors and empty tracks
		var bad Track
		bad.Put(0, 0, cst.Coefficients{1, 2})
		bad.Put(1, 1, cst.Coefficients{1, 2, 3})
		err := bad.Check("test", "lower")
		assert.True(t, types.IsValidation(err))
		assert.Contains(t, err.Error(), "sections 0 and 1")
		assert.True(t, types.IsValidation((&Track{}).Check("test", "upper")))
		assert.Panics(t, func() { bad.Put(0.5, 2, cst.Coefficients{1}) })
	}
}

func TestInterpolatorRoundTrip(t *testing.T) {
	for _, gt := range []GeometryType{LinearGeometry, SplineGeometry} {
		secs := stack(6)
		ip, err := New(secs, Options{Geometry: gt, Blend: SmoothBlend})
		require.NoError(t, err)
		assert.Equal(t, utils.IndexFractions(6), ip.Positions())
		for k, pos := range ip.Positions() {
			s, err := ip.SectionAt(pos)
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(secs[k], s), "section %d", k)
			assert.Equal(t, k, ip.Locate(pos))
		}
		// caller's sections are not aliased
		secs[0].Upper[0] = 99
		s, err := ip.SectionAt(0)
		require.NoError(t, err)
		assert.NotEqual(t, 99., s.Upper[0])
	}
}

func TestInterpolatorBlend(t *testing.T) {
	secs := stack(3)
	{ // Linear geometry at the middle of an interval
		ip, err := New(secs, Options{})
		require.NoError(t, err)
		s, err := ip.SectionAt(0.25)
		require.NoError(t, err)
		assert.InDelta(t, 0.25, s.LeadingEdge.X, 1.e-15)
		assert.InDelta(t, 0.05, s.LeadingEdge.Y, 1.e-15)
		assert.InDelta(t, 2., s.LeadingEdge.Z, 1.e-15)
		assert.InDelta(t, 9.5, s.Chord, 1.e-15)
		assert.InDelta(t, -1., s.Twist, 1.e-15)
		assert.InDelta(t, 0.115, s.RelThickness, 1.e-15)
		assert.InDelta(t, 0.0005, s.Tail, 1.e-15)
		assert.InDeltaSlice(t, []float64(coef(0.205, 7)), []float64(s.Upper), 1.e-15)
		assert.InDeltaSlice(t, []float64(coef(-0.105, 7)), []float64(s.Lower), 1.e-15)
		assert.Equal(t, section.Planar{}, s.Frame)
		assert.Equal(t, 0., s.Tilt)
	}
	{ // Tilt is a geometric channel like twist
		ts := stack(2)
		ts[1].Tilt = 8
		ip, err := New(ts, Options{})
		require.NoError(t, err)
		s, err := ip.SectionAt(0.25)
		require.NoError(t, err)
		assert.InDelta(t, 2., s.Tilt, 1.e-15)
	}
	{ // Spline geometry follows the curved leading edge x = z^2/32
		ip, err := New(secs, Options{Geometry: SplineGeometry})
		require.NoError(t, err)
		lin, err := New(secs, Options{})
		require.NoError(t, err)
		s, err := ip.SectionAt(0.25)
		require.NoError(t, err)
		sl, err := lin.SectionAt(0.25)
		require.NoError(t, err)
		// both bracket the same values and agree on linear channels
		assert.InDelta(t, sl.LeadingEdge.Z, s.LeadingEdge.Z, 1.e-12)
		assert.InDelta(t, sl.Chord, s.Chord, 1.e-12)
		assert.NotEqual(t, sl.LeadingEdge.X, s.LeadingEdge.X)
	}
	{ // Explicit positions are normalized
		ip, err := New(secs, Options{Positions: []float64{10, 11, 14}})
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0, 0.25, 1}, ip.Positions(), 1.e-15)
		s, err := ip.SectionAt(0.25)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(secs[1], s))
	}
	{ // Cylinder frames interpolate their origin
		cs := stack(2)
		cs[0].Frame = section.Cylinder{Origin: [2]float64{0, 0}}
		cs[1].Frame = section.Cylinder{Origin: [2]float64{1, -2}}
		ip, err := New(cs, Options{})
		require.NoError(t, err)
		assert.True(t, ip.Cylinder())
		s, err := ip.SectionAt(0.5)
		require.NoError(t, err)
		assert.Equal(t, section.Cylinder{Origin: [2]float64{0.5, -1}}, s.Frame)
	}
}

func TestInterpolatorSparse(t *testing.T) {
	// upper given on even sections, lower on odd sections
	secs := stack(5)
	for i := range secs {
		if i%2 == 0 {
			secs[i].Lower = nil
		} else {
			secs[i].Upper = nil
		}
	}
	ip, err := New(secs, Options{})
	require.NoError(t, err)
	{ // Authoritative sides are exact, the others come from their own track
		s, err := ip.SectionAt(0.25)
		require.NoError(t, err)
		assert.Nil(t, secs[1].Upper)
		assert.Equal(t, stack(5)[1].Lower, s.Lower)
		up0, up2 := stack(5)[0].Upper, stack(5)[2].Upper
		for k := range s.Upper {
			assert.InDelta(t, 0.5*(up0[k]+up2[k]), s.Upper[k], 1.e-15)
		}
	}
	{ // Before the first lower entry the lower side is held constant
		s, err := ip.SectionAt(0)
		require.NoError(t, err)
		assert.Equal(t, stack(5)[0].Upper, s.Upper)
		assert.Equal(t, stack(5)[1].Lower, s.Lower)
	}
	{ // Between sections, each side uses its own neighbors
		s, err := ip.SectionAt(0.125)
		require.NoError(t, err)
		up0, up2 := stack(5)[0].Upper, stack(5)[2].Upper
		assert.InDelta(t, up0[3]+0.25*(up2[3]-up0[3]), s.Upper[3], 1.e-15)
		assert.Equal(t, stack(5)[1].Lower, s.Lower)
	}
}

func TestInterpolatorErrors(t *testing.T) {
	check := func(mod func(secs []section.Spec) ([]section.Spec, Options), isErr func(error) bool) {
		t.Helper()
		secs, opts := mod(stack(3))
		_, err := New(secs, opts)
		require.Error(t, err)
		assert.True(t, isErr(err), "%v", err)
	}
	check(func(s []section.Spec) ([]section.Spec, Options) { return s[:1], Options{} }, types.IsValidation)
	check(func(s []section.Spec) ([]section.Spec, Options) { s[1].Chord = 0; return s, Options{} }, types.IsValidation)
	check(func(s []section.Spec) ([]section.Spec, Options) {
		s[1].Frame = section.Cylinder{}
		return s, Options{}
	}, types.IsValidation)
	check(func(s []section.Spec) ([]section.Spec, Options) {
		s[2].Upper = coef(0.1, 5)
		return s, Options{}
	}, types.IsValidation)
	check(func(s []section.Spec) ([]section.Spec, Options) {
		for i := range s {
			s[i].Lower = nil
		}
		return s, Options{}
	}, types.IsValidation)
	check(func(s []section.Spec) ([]section.Spec, Options) { s[0].RelThickness = 0; return s, Options{} }, types.IsValidation)
	check(func(s []section.Spec) ([]section.Spec, Options) {
		for i := range s {
			s[i].LeadingEdge = r3.Vec{X: 1}
		}
		return s, Options{}
	}, types.IsDegenerate)
	check(func(s []section.Spec) ([]section.Spec, Options) {
		return s, Options{Positions: []float64{1, 1, 1}}
	}, types.IsDegenerate)
	check(func(s []section.Spec) ([]section.Spec, Options) {
		return s, Options{Positions: []float64{0, 2, 1}}
	}, types.IsValidation)
	check(func(s []section.Spec) ([]section.Spec, Options) {
		return s, Options{Positions: []float64{0, 1}}
	}, types.IsValidation)

	ip, err := New(stack(3), Options{})
	require.NoError(t, err)
	for _, f := range []float64{-0.1, 1.1, math.NaN()} {
		_, err = ip.SectionAt(f)
		assert.True(t, types.IsValidation(err))
	}
	_, err = ip.SectionAt(1 + 1.e-12)
	assert.NoError(t, err)
}

func TestPositionsFromLeadingEdge(t *testing.T) {
	secs := stack(3)
	secs[0].LeadingEdge = r3.Vec{}
	secs[1].LeadingEdge = r3.Vec{Z: 3}
	secs[2].LeadingEdge = r3.Vec{Y: 4, Z: 6}
	pos, err := PositionsFromLeadingEdge(secs)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 3, 8}, pos, 1.e-15)
	ip, err := New(secs, Options{Positions: pos})
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff([]float64{0, 0.375, 1}, ip.Positions(), cmpopts.EquateApprox(0, 1.e-15)))

	secs[2].LeadingEdge = secs[1].LeadingEdge
	_, err = PositionsFromLeadingEdge(secs)
	assert.True(t, types.IsDegenerate(err))
	_, err = PositionsFromLeadingEdge(secs[:1])
	assert.True(t, types.IsValidation(err))
}

func TestFractions(t *testing.T) {
	{ // Uniform
		fr, err := Fractions(5, Uniform, nil)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, fr)
	}
	{ // Every section is a station
		pos := []float64{0, 0.1, 0.5, 1}
		for _, ns := range []int{4, 5, 11, 101} {
			fr, err := Fractions(ns, BySection, pos)
			require.NoError(t, err)
			require.Len(t, fr, ns)
			require.NoError(t, CheckFractions(fr))
			for _, p := range pos {
				assert.Contains(t, fr, p)
			}
		}
		fr, err := Fractions(11, BySection, pos)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1}, fr, 1.e-15)
	}
	{ // Errors
		_, err := Fractions(3, BySection, []float64{0, 0.2, 0.5, 1})
		assert.True(t, types.IsValidation(err))
		_, err = Fractions(1, Uniform, nil)
		assert.True(t, types.IsValidation(err))
		assert.Error(t, CheckFractions([]float64{0, 0.5}))
		assert.Error(t, CheckFractions([]float64{0, 0.5, 0.5, 1}))
		assert.Error(t, CheckFractions([]float64{0}))
		assert.NoError(t, CheckFractions([]float64{0, 0.3, 1}))
	}
	{ // Labels
		sp, err := NewSpacing("BySection")
		require.NoError(t, err)
		assert.Equal(t, BySection, sp)
		_, err = NewSpacing("random")
		assert.Error(t, err)
		gt, err := NewGeometryType("spline")
		require.NoError(t, err)
		assert.Equal(t, SplineGeometry, gt)
		bt, err := NewBlendType("smooth")
		require.NoError(t, err)
		assert.Equal(t, SmoothBlend, bt)
		_, err = NewBlendType("x")
		assert.Error(t, err)
	}
}
