package interpolate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gocst/types"
)

func TestLeaderBlend(t *testing.T) {
	{ // Single leader: interpolates, stays in range, zero at the ends
		lb, err := NewLeaderBlend(0.2, 0.8, []LeaderPoint{{Fraction: 0.5, DY: 1.5}}, [2]float64{}, [2]float64{})
		require.NoError(t, err)
		_, dy := lb.Offset(0.5)
		assert.Equal(t, 1.5, dy)
		var prev float64
		for i := 0; i <= 100; i++ {
			f := float64(i) / 100
			dx, dy := lb.Offset(f)
			assert.Equal(t, 0., dx)
			assert.GreaterOrEqual(t, dy, 0.)
			assert.LessOrEqual(t, dy, 1.5)
			switch {
			case f <= 0.2 || f >= 0.8:
				assert.Equal(t, 0., dy)
			case f <= 0.5:
				assert.GreaterOrEqual(t, dy, prev)
			default:
				assert.LessOrEqual(t, dy, prev)
			}
			prev = dy
		}
		// zero end slopes join the unbent part smoothly
		_, s0 := lb.Slope(0.2 + 1.e-9)
		_, s1 := lb.Slope(0.8 - 1.e-9)
		assert.InDelta(t, 0., s0, 1.e-6)
		assert.InDelta(t, 0., s1, 1.e-6)
		_, s := lb.Slope(0.5)
		assert.Equal(t, 0., s)
		_, s = lb.Slope(0.9)
		assert.Equal(t, 0., s)
	}
	{ // Monotone leaders give a monotone offset without overshoot
		leaders := []LeaderPoint{
			{Fraction: 0.3, DX: 0.1, DY: -0.2},
			{Fraction: 0.5, DX: 0.5, DY: -0.3},
			{Fraction: 0.7, DX: 0.6, DY: -1},
		}
		lb, err := NewLeaderBlend(0, 1, leaders, [2]float64{0, 2}, [2]float64{})
		require.NoError(t, err)
		for _, l := range leaders {
			dx, dy := lb.Offset(l.Fraction)
			assert.InDelta(t, l.DX, dx, 1.e-15)
			assert.InDelta(t, l.DY, dy, 1.e-15)
		}
		var prev float64
		for i := 0; i <= 70; i++ {
			dx, _ := lb.Offset(float64(i) / 100)
			assert.GreaterOrEqual(t, dx, prev-1.e-15)
			assert.LessOrEqual(t, dx, 0.6+1.e-15)
			prev = dx
		}
		// end slope is honored
		sx, _ := lb.Slope(1 - 1.e-9)
		assert.InDelta(t, 2., sx, 1.e-6)
	}
	{ // No leaders: the end slopes alone shape the offset
		lb, err := NewLeaderBlend(0, 1, nil, [2]float64{1, -1}, [2]float64{})
		require.NoError(t, err)
		dx, dy := lb.Offset(0.5)
		assert.InDelta(t, 0.25, dx, 1.e-15)
		assert.Equal(t, 0., dy)
	}
	{ // Invalid leader ordering
		for _, leaders := range [][]LeaderPoint{
			{{Fraction: 0.1}},
			{{Fraction: 1}},
			{{Fraction: 0.5}, {Fraction: 0.5}},
			{{Fraction: 0.6}, {Fraction: 0.4}},
			{{Fraction: math.NaN()}},
		} {
			_, err := NewLeaderBlend(0.2, 0.8, leaders, [2]float64{}, [2]float64{})
			assert.True(t, types.IsValidation(err), "%v", leaders)
		}
		_, err := NewLeaderBlend(0.5, 0.5, nil, [2]float64{}, [2]float64{})
		assert.True(t, types.IsValidation(err))
	}
}

func TestHermiteSlopes(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4}
	{ // Linear data keeps its slope
		m := HermiteSlopes(xs, []float64{0, 2, 4, 6, 8}, 2, 2)
		assert.InDeltaSlice(t, []float64{2, 2, 2, 2, 2}, m, 1.e-15)
	}
	{ // Extrema get a flat tangent
		m := HermiteSlopes(xs, []float64{0, 1, 0, 1, 0}, 0, 0)
		assert.Equal(t, []float64{0, 0, 0, 0, 0}, m)
	}
	{ // Harmonic mean of unequal secants
		m := HermiteSlopes([]float64{0, 1, 2}, []float64{0, 1, 4}, 0, 0)
		assert.InDelta(t, 3*2/(3./1+3./3), m[1], 1.e-15)
	}
}
