package section

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gocst/geometry3D"
	"github.com/notargets/gocst/types"
)

type PlaceOptions struct {
	// ProjectedChord treats Chord as the length projected on x, so the
	// twisted section is stretched by 1/cos(twist)
	ProjectedChord bool
}

func (opts PlaceOptions) Check(s Spec, op string) error {
	if opts.ProjectedChord && math.Abs(math.Cos(geometry3D.Radians(s.Twist))) < 1.e-6 {
		return types.NewValidationError(op, "projected chord is undefined at twist %g", s.Twist)
	}
	return nil
}

/*
Place scales the unit foil by the chord, twists it about the span axis
through the leading edge and moves it to the leading edge. Both sides are
returned leading edge first. Cylinder frames wrap the offsets from the
leading edge about the frame axis, and Tilt then turns them about x.
*/
func Place(f *Foil, s Spec, opts PlaceOptions) (upper, lower []r3.Vec, err error) {
	var (
		scale = s.Chord
		cyl   geometry3D.CylinderMap
		isCyl bool
	)
	if opts.ProjectedChord {
		scale /= math.Cos(geometry3D.Radians(s.Twist))
	}
	if c, ok := s.Cylinder(); ok {
		cyl, isCyl = c.Map(), true
	}
	place := func(x, y float64) (p r3.Vec, err error) {
		dx, dy := geometry3D.RotateInPlane(x*scale, y*scale, s.Twist)
		d := r3.Vec{X: dx, Y: dy}
		if isCyl {
			if d, err = cyl.Wrap(s.LeadingEdge, d); err != nil {
				return
			}
		}
		if s.Tilt != 0 {
			d.Y, d.Z = geometry3D.RotateInPlane(d.Y, d.Z, s.Tilt)
		}
		return r3.Add(s.LeadingEdge, d), nil
	}
	upper, lower = make([]r3.Vec, f.Len()), make([]r3.Vec, f.Len())
	for i, x := range f.X {
		if upper[i], err = place(x, f.Upper[i]); err != nil {
			return nil, nil, errors.Wrapf(err, "section.Place: upper point %d", i)
		}
		if lower[i], err = place(x, f.Lower[i]); err != nil {
			return nil, nil, errors.Wrapf(err, "section.Place: lower point %d", i)
		}
	}
	return
}
