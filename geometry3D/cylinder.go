package geometry3D

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gocst/types"
)

/*
CylinderMap describes blade sections wrapped around an axis parallel to x,
passing through Origin in the (y,z) plane. Angles are measured from +z
towards +y, so a point at angle theta and radius r sits at
Origin + r*(sin theta, cos theta).
*/
type CylinderMap struct {
	Origin r2.Vec // (oy, oz)
}

func NewCylinderMap(oy, oz float64) CylinderMap {
	return CylinderMap{Origin: r2.Vec{X: oy, Y: oz}}
}

// Polar returns the radius and angle of the (y,z) point p about the origin
func (cm CylinderMap) Polar(p r2.Vec) (r, theta float64) {
	d := r2.Sub(p, cm.Origin)
	return math.Hypot(d.X, d.Y), math.Atan2(d.X, d.Y)
}

// Cartesian is the inverse of Polar
func (cm CylinderMap) Cartesian(r, theta float64) r2.Vec {
	sn, cs := math.Sincos(theta)
	return r2.Add(cm.Origin, r2.Vec{X: r * sn, Y: r * cs})
}

/*
Wrap reinterprets a planar section offset d from the leading edge le: d.Y
becomes arc length about the origin at the leading edge radius, d.Z becomes
a change of radius, and d.X is unchanged. The returned vector is the
Cartesian offset from le. A leading edge on the axis has no defined
cylinder and d is returned as is.

Offsets that reach half way around the cylinder, or through its axis, have
no unique inverse and are a NumericDegeneracy.
*/
func (cm CylinderMap) Wrap(le, d r3.Vec) (w r3.Vec, err error) {
	if d.Y == 0 && d.Z == 0 {
		return d, nil
	}
	R, theta0 := cm.Polar(r2.Vec{X: le.Y, Y: le.Z})
	if R < 1.e-12 {
		return d, nil
	}
	switch {
	case !(math.Abs(d.Y) < math.Pi*R):
		err = types.NewNumericDegeneracy("geometry3D.Wrap",
			"arc offset %g reaches half way around a cylinder of radius %g", d.Y, R)
		return
	case !(R+d.Z > 0):
		err = types.NewNumericDegeneracy("geometry3D.Wrap",
			"radial offset %g crosses the axis of a cylinder of radius %g", d.Z, R)
		return
	}
	p := cm.Cartesian(R+d.Z, theta0+d.Y/R)
	return r3.Vec{X: d.X, Y: p.X - le.Y, Z: p.Y - le.Z}, nil
}

// Unwrap is the inverse of Wrap over the offsets Wrap accepts
func (cm CylinderMap) Unwrap(le, w r3.Vec) r3.Vec {
	if w.Y == 0 && w.Z == 0 {
		return w
	}
	R, theta0 := cm.Polar(r2.Vec{X: le.Y, Y: le.Z})
	if R < 1.e-12 {
		return w
	}
	r, theta := cm.Polar(r2.Vec{X: le.Y + w.Y, Y: le.Z + w.Z})
	dTheta := math.Remainder(theta-theta0, 2*math.Pi)
	return r3.Vec{X: w.X, Y: dTheta * R, Z: r - R}
}
