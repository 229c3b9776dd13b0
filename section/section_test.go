package section

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gocst/cst"
	"github.com/notargets/gocst/types"
)

func testSpec() Spec {
	return Spec{
		LeadingEdge: r3.Vec{X: 1, Y: 2, Z: 3},
		Chord:       2,
		Upper:       cst.Coefficients{0.18, 0.15, 0.20, 0.18, 0.22, 0.17, 0.20},
		Lower:       cst.Coefficients{-0.15, -0.10, -0.12, -0.05, -0.08, -0.02, 0.02},
	}
}

func TestGenerate(t *testing.T) {
	{ // Nominal section, closed ends
		f, err := Generate(testSpec(), 101, cst.ClusterCos)
		require.NoError(t, err)
		require.Equal(t, 101, f.Len())
		assert.Equal(t, 0., f.Upper[0])
		assert.Equal(t, 0., f.Lower[0])
		assert.Equal(t, 0., f.Upper[100])
		assert.Equal(t, 0., f.Lower[100])
		assert.Equal(t, floats.Max(f.Thickness()), f.ThicknessMax)
		assert.Greater(t, f.LeadingEdgeRadius, 0.)
		assert.InDeltaSlice(t, cst.EvaluateAll(testSpec().Upper, f.X), f.Upper, 1.e-15)
	}
	{ // Trailing edge gap
		for _, tail := range []float64{0, 0.002, 0.01, 0.05} {
			s := testSpec()
			s.Tail = tail
			f, err := Generate(s, 81, cst.ClusterCos)
			require.NoError(t, err)
			assert.InDelta(t, tail, f.Upper[80]-f.Lower[80], 1.e-15)
			assert.Equal(t, 0., f.Upper[0]-f.Lower[0])
		}
	}
	{ // Relative thickness is the thickness at the nominal thickest point
		for _, tail := range []float64{0, 0.004} {
			s := testSpec()
			s.RelThickness, s.Tail = 0.09, tail
			fn, err := Generate(Spec{Chord: 1, Upper: s.Upper, Lower: s.Lower}, 101, cst.ClusterCos)
			require.NoError(t, err)
			f, err := Generate(s, 101, cst.ClusterCos)
			require.NoError(t, err)
			it := fn.MaxThicknessIndex
			assert.InDelta(t, 0.09, f.Upper[it]-f.Lower[it], 1.e-14)
			assert.InDelta(t, tail, f.Upper[100]-f.Lower[100], 1.e-15)
			if tail == 0 {
				assert.InDelta(t, 0.09, f.ThicknessMax, 1.e-14)
			}
		}
	}
	{ // Uniform scaling keeps the camber line shape proportional
		s := testSpec()
		fn, err := Generate(s, 51, cst.ClusterCos)
		require.NoError(t, err)
		s.RelThickness = 2 * fn.ThicknessMax
		f2, err := Generate(s, 51, cst.ClusterCos)
		require.NoError(t, err)
		for i := range f2.X {
			assert.InDelta(t, 2*fn.Upper[i], f2.Upper[i], 1.e-14)
			assert.InDelta(t, 2*fn.Lower[i], f2.Lower[i], 1.e-14)
		}
	}
	{ // Refine curves are added on top
		s := testSpec()
		s.Refine = &Refine{Upper: cst.Coefficients{0.01}, Lower: cst.Coefficients{0}}
		f, err := Generate(s, 41, cst.ClusterCos)
		require.NoError(t, err)
		fn, err := Generate(testSpec(), 41, cst.ClusterCos)
		require.NoError(t, err)
		for i, x := range f.X {
			assert.InDelta(t, fn.Upper[i]+cst.Evaluate(cst.Coefficients{0.01}, x), f.Upper[i], 1.e-15)
		}
	}
	{ // Bumps ride on the refined foil, thickness restored on request
		var (
			bump = cst.Bump{Upper: true, Center: 0.6, Height: 0.004, Span: 0.2}
			s    = testSpec()
		)
		fn, err := Generate(s, 101, cst.Uniform)
		require.NoError(t, err)
		s.Refine = &Refine{Bumps: []cst.Bump{bump}}
		f, err := Generate(s, 101, cst.Uniform)
		require.NoError(t, err)
		assert.InDelta(t, fn.Upper[60]+0.004, f.Upper[60], 1.e-15)
		assert.InDeltaSlice(t, fn.Lower, f.Lower, 1.e-15)
		s.Refine = &Refine{Lower: cst.Coefficients{-0.01}, Bumps: []cst.Bump{bump}, KeepThickness: true}
		f, err = Generate(s, 101, cst.Uniform)
		require.NoError(t, err)
		assert.InDelta(t, fn.ThicknessMax, f.ThicknessMax, 1.e-4)
		assert.Greater(t, f.ThicknessMax, 0.)
	}
	{ // Invalid input
		for _, mod := range []func(s *Spec){
			func(s *Spec) { s.Chord = 0 },
			func(s *Spec) { s.Chord = -1 },
			func(s *Spec) { s.Chord = math.NaN() },
			func(s *Spec) { s.Tail = -0.01 },
			func(s *Spec) { s.RelThickness = -0.1 },
			func(s *Spec) { s.Upper = cst.Coefficients{} },
			func(s *Spec) { s.Lower = nil },
			func(s *Spec) { s.Twist = math.Inf(1) },
			func(s *Spec) { s.LeadingEdge.Z = math.NaN() },
			func(s *Spec) { s.Refine = &Refine{Upper: cst.Coefficients{}} },
			func(s *Spec) { s.Refine = &Refine{Bumps: []cst.Bump{{Center: 1.5, Span: 0.1}}} },
			func(s *Spec) { s.Tilt = math.NaN() },
		} {
			s := testSpec()
			mod(&s)
			_, err := Generate(s, 21, cst.ClusterCos)
			assert.True(t, types.IsValidation(err), "%v", err)
		}
		_, err := Generate(testSpec(), 2, cst.ClusterCos)
		assert.True(t, types.IsValidation(err))
	}
	{ // Scaling a zero thickness section is degenerate
		s := testSpec()
		s.Upper, s.Lower = cst.Coefficients{0}, cst.Coefficients{0}
		s.RelThickness = 0.1
		_, err := Generate(s, 21, cst.ClusterCos)
		assert.True(t, types.IsDegenerate(err))
	}
	{ // Sparse sides pass geometry validation only
		s := testSpec()
		s.Lower = nil
		assert.NoError(t, s.ValidateGeometry("test"))
		assert.Error(t, s.Validate("test"))
	}
}

func TestPlace(t *testing.T) {
	f, err := Generate(testSpec(), 61, cst.ClusterCos)
	require.NoError(t, err)
	{ // Untwisted: scale and translate
		s := testSpec()
		up, lo, err := Place(f, s, PlaceOptions{})
		require.NoError(t, err)
		require.Len(t, up, 61)
		assert.Equal(t, s.LeadingEdge, up[0])
		assert.Equal(t, s.LeadingEdge, lo[0])
		for i := range up {
			assert.InDelta(t, 1+2*f.X[i], up[i].X, 1.e-14)
			assert.InDelta(t, 2+2*f.Upper[i], up[i].Y, 1.e-14)
			assert.InDelta(t, 2+2*f.Lower[i], lo[i].Y, 1.e-14)
			assert.Equal(t, 3., up[i].Z)
		}
	}
	{ // Twist turns the trailing edge about the leading edge
		s := testSpec()
		s.Twist = -40
		up, lo, err := Place(f, s, PlaceOptions{})
		require.NoError(t, err)
		assert.Equal(t, s.LeadingEdge, up[0])
		te := up[60]
		assert.InDelta(t, 1+2*math.Cos(-40*math.Pi/180), te.X, 1.e-14)
		assert.InDelta(t, 2+2*math.Sin(-40*math.Pi/180), te.Y, 1.e-14)
		// chord length is unchanged
		for i := range up {
			d0 := math.Hypot(2*f.X[i], 2*f.Lower[i])
			assert.InDelta(t, d0, r3.Norm(r3.Sub(lo[i], s.LeadingEdge)), 1.e-13)
		}
		// projected chord restores the x extent
		up, _, err = Place(f, s, PlaceOptions{ProjectedChord: true})
		require.NoError(t, err)
		assert.InDelta(t, 1+2, up[60].X, 1.e-13)
		assert.NoError(t, PlaceOptions{ProjectedChord: true}.Check(s, "test"))
		s.Twist = 90
		assert.Error(t, PlaceOptions{ProjectedChord: true}.Check(s, "test"))
		assert.NoError(t, PlaceOptions{}.Check(s, "test"))
	}
	{ // Cylinder frame keeps every point on the leading edge radius
		s := testSpec()
		s.LeadingEdge = r3.Vec{X: 0, Y: 0, Z: 20}
		s.Frame = Cylinder{}
		up, lo, err := Place(f, s, PlaceOptions{})
		require.NoError(t, err)
		assert.Equal(t, s.LeadingEdge, up[0])
		for i := range up {
			assert.InDelta(t, 20., math.Hypot(up[i].Y, up[i].Z), 1.e-12)
			assert.InDelta(t, 20., math.Hypot(lo[i].Y, lo[i].Z), 1.e-12)
			// arc length replaces the planar thickness offset
			assert.InDelta(t, 2*f.Upper[i], 20*math.Atan2(up[i].Y, up[i].Z), 1.e-12)
		}
		assert.Equal(t, "Cylinder(0, 0)", s.Frame.String())
		assert.Equal(t, "Planar", testSpec().FrameOrPlanar().String())
	}
	{ // A section reaching around its cylinder cannot be placed
		s := testSpec()
		s.LeadingEdge = r3.Vec{Z: 1}
		s.Chord, s.Twist = 4, 90
		s.Frame = Cylinder{}
		_, _, err := Place(f, s, PlaceOptions{})
		assert.True(t, types.IsDegenerate(err))
	}
	{ // Tilt turns the placed section about x through the leading edge
		s := testSpec()
		up0, lo0, err := Place(f, s, PlaceOptions{})
		require.NoError(t, err)
		s.Tilt = 90
		up, lo, err := Place(f, s, PlaceOptions{})
		require.NoError(t, err)
		for i := range up {
			assert.InDelta(t, up0[i].X, up[i].X, 1.e-14)
			assert.InDelta(t, s.LeadingEdge.Y, up[i].Y, 1.e-14)
			assert.InDelta(t, s.LeadingEdge.Z+(up0[i].Y-s.LeadingEdge.Y), up[i].Z, 1.e-14)
			assert.InDelta(t, s.LeadingEdge.Z+(lo0[i].Y-s.LeadingEdge.Y), lo[i].Z, 1.e-14)
		}
	}
}

func TestCopy(t *testing.T) {
	s := testSpec()
	s.Refine = &Refine{Upper: cst.Coefficients{1}, Lower: cst.Coefficients{2}}
	c := s.Copy()
	c.Upper[0] = 99
	c.Refine.Lower[0] = 99
	assert.Equal(t, 0.18, s.Upper[0])
	assert.Equal(t, 2., s.Refine.Lower[0])
}
