package geometry3D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gocst/types"
)

func assertVec(t *testing.T, want, got r3.Vec, tol float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol)
	assert.InDelta(t, want.Y, got.Y, tol)
	assert.InDelta(t, want.Z, got.Z, tol)
}

func TestRotator(t *testing.T) {
	{ // Quarter turn about z through an offset origin
		r, err := NewRotator(90, ZAxis, r3.Vec{X: 1, Y: 1})
		require.NoError(t, err)
		assertVec(t, r3.Vec{X: 1, Y: 2, Z: 5}, r.Apply(r3.Vec{X: 2, Y: 1, Z: 5}), 1.e-14)
		// the origin is fixed
		assertVec(t, r3.Vec{X: 1, Y: 1}, r.Apply(r3.Vec{X: 1, Y: 1}), 1.e-15)
	}
	{ // Unnormalized axis
		r, err := NewRotator(180, r3.Vec{Y: 5}, r3.Vec{})
		require.NoError(t, err)
		assertVec(t, r3.Vec{X: -1, Y: 2, Z: -3}, r.Apply(r3.Vec{X: 1, Y: 2, Z: 3}), 1.e-14)
	}
	{ // Matches the planar twist rotation
		r, err := NewRotator(-37.5, ZAxis, r3.Vec{})
		require.NoError(t, err)
		dx, dy := RotateInPlane(0.8, 0.05, -37.5)
		assertVec(t, r3.Vec{X: dx, Y: dy}, r.Apply(r3.Vec{X: 0.8, Y: 0.05}), 1.e-14)
	}
	_, err := NewRotator(10, r3.Vec{}, r3.Vec{})
	assert.Error(t, err)
	assert.True(t, Parallel(ZAxis, r3.Vec{Z: -3}))
	assert.False(t, Parallel(ZAxis, r3.Vec{X: 1, Z: 1}))
	assert.False(t, Parallel(ZAxis, r3.Vec{}))
	assert.InDelta(t, math.Pi/2, Radians(90), 1.e-15)
	assert.InDelta(t, 90., Degrees(math.Pi/2), 1.e-13)
}

func TestFlip(t *testing.T) {
	var (
		p = r3.Vec{X: 1, Y: 2, Z: 3}
	)
	{ // Turns agree with the general rotation
		for _, tc := range []struct {
			name  string
			axis  r3.Vec
			angle float64
		}{
			{"+X", XAxis, 90}, {"-X", XAxis, -90},
			{"+Y", YAxis, 90}, {"-Y", YAxis, -90},
			{"+Z", ZAxis, 90}, {"-Z", ZAxis, -90},
		} {
			ops, err := ParseFlips(tc.name)
			require.NoError(t, err)
			require.Len(t, ops, 1)
			r, err := NewRotator(tc.angle, tc.axis, r3.Vec{})
			require.NoError(t, err)
			assertVec(t, r.Apply(p), ops[0].Apply(p), 1.e-14)
			assert.Equal(t, tc.name, ops[0].String())
		}
	}
	{ // Mirrors
		ops, err := ParseFlips("xy, YZ ZX")
		require.NoError(t, err)
		assert.Equal(t, []FlipOp{MirrorXY, MirrorYZ, MirrorZX}, ops)
		assert.Equal(t, r3.Vec{X: 1, Y: 2, Z: -3}, MirrorXY.Apply(p))
		assert.Equal(t, r3.Vec{X: -1, Y: 2, Z: 3}, MirrorYZ.Apply(p))
		assert.Equal(t, r3.Vec{X: 1, Y: -2, Z: 3}, MirrorZX.Apply(p))
	}
	{ // Four quarter turns are the identity, bit for bit
		q := p
		for i := 0; i < 4; i++ {
			q = TurnPlusY.Apply(q)
		}
		assert.Equal(t, p, q)
	}
	_, err := ParseFlips("+W")
	assert.Error(t, err)
	ops, err := ParseFlips("")
	assert.NoError(t, err)
	assert.Empty(t, ops)
}

func TestCylinderMap(t *testing.T) {
	var (
		origins = []r2.Vec{{}, {X: 3, Y: 4}, {X: -2.5, Y: 0.1}, {X: 1.e3, Y: -7}}
		offsets = []r2.Vec{{}, {X: 1}, {Y: -1}, {X: -3, Y: -4}, {X: 0.123, Y: 45.6}, {X: 3, Y: 4}}
	)
	{ // Polar and Cartesian are exact inverses, including the zero offset
		for _, o := range origins {
			cm := NewCylinderMap(o.X, o.Y)
			for _, p := range offsets {
				q := cm.Cartesian(cm.Polar(p))
				assert.InDelta(t, p.X, q.X, 1.e-12)
				assert.InDelta(t, p.Y, q.Y, 1.e-12)
			}
		}
	}
	{ // Angle convention: +z is zero, +y is a quarter turn
		cm := NewCylinderMap(0, 0)
		r, th := cm.Polar(r2.Vec{X: 2})
		assert.InDelta(t, 2., r, 1.e-15)
		assert.InDelta(t, math.Pi/2, th, 1.e-15)
		r, th = cm.Polar(r2.Vec{Y: 5})
		assert.Equal(t, 5., r)
		assert.Equal(t, 0., th)
	}
	{ // Wrap keeps the radius for tangential offsets and round trips
		cm := NewCylinderMap(0, 0)
		le := r3.Vec{X: 0.3, Y: 0, Z: 10}
		for _, d := range []r3.Vec{{X: 1, Y: 0.5}, {X: 0.2, Y: -0.3, Z: 0.1}, {}, {X: 2}} {
			w, err := cm.Wrap(le, d)
			require.NoError(t, err)
			assert.Equal(t, d.X, w.X)
			if d.Z == 0 {
				assert.InDelta(t, 10., math.Hypot(le.Y+w.Y, le.Z+w.Z), 1.e-12)
			}
			u := cm.Unwrap(le, w)
			assertVec(t, d, u, 1.e-12)
		}
		// arc length along the circle
		w, err := cm.Wrap(le, r3.Vec{Y: 10 * math.Pi / 2})
		require.NoError(t, err)
		assertVec(t, r3.Vec{Y: 10, Z: -10}, w, 1.e-12)
	}
	{ // Offset origin round trip
		cm := NewCylinderMap(3, 4)
		le := r3.Vec{X: 1, Y: 2, Z: -6}
		d := r3.Vec{X: 0.7, Y: -1.1, Z: 0.3}
		w, err := cm.Wrap(le, d)
		require.NoError(t, err)
		assertVec(t, d, cm.Unwrap(le, w), 1.e-12)
	}
	{ // Round trips hold up to just short of half a turn, beyond it Wrap refuses
		cm := NewCylinderMap(0, 0)
		le := r3.Vec{Z: 10}
		for _, d := range []r3.Vec{{X: 1, Y: 5}, {X: 1, Y: 31}, {X: 1, Y: -31}, {X: 1, Y: 1, Z: -9.5}, {X: 1, Y: 1, Z: 40}} {
			w, err := cm.Wrap(le, d)
			require.NoError(t, err)
			assertVec(t, d, cm.Unwrap(le, w), 1.e-10)
		}
		for _, d := range []r3.Vec{{X: 1, Y: 40}, {X: 1, Y: -10 * math.Pi}, {X: 1, Y: 1, Z: -12}, {X: 1, Y: 1, Z: -10}} {
			_, err := cm.Wrap(le, d)
			assert.True(t, types.IsDegenerate(err), "%v", d)
		}
	}
	{ // A leading edge on the axis has no cylinder
		cm := NewCylinderMap(2, 2)
		d := r3.Vec{X: 1, Y: 1, Z: 1}
		w, err := cm.Wrap(r3.Vec{X: 5, Y: 2, Z: 2}, d)
		require.NoError(t, err)
		assert.Equal(t, d, w)
		assert.Equal(t, d, cm.Unwrap(r3.Vec{X: 5, Y: 2, Z: 2}, d))
	}
}
