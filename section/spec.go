package section

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gocst/cst"
	"github.com/notargets/gocst/geometry3D"
	"github.com/notargets/gocst/types"
	"github.com/notargets/gocst/utils"
)

// Frame selects how a section's offsets from its leading edge are placed
type Frame interface {
	isFrame()
	String() string
}

type Planar struct{}

func (Planar) isFrame()       {}
func (Planar) String() string { return "Planar" }

// Cylinder wraps offsets around an x-parallel axis through Origin (oy, oz)
type Cylinder struct {
	Origin [2]float64
}

func (Cylinder) isFrame() {}
func (c Cylinder) String() string {
	return fmt.Sprintf("Cylinder(%g, %g)", c.Origin[0], c.Origin[1])
}

func (c Cylinder) Map() geometry3D.CylinderMap {
	return geometry3D.NewCylinderMap(c.Origin[0], c.Origin[1])
}

// Refine holds incremental curves and bumps added on top of the base
// section. A nil side has no incremental curve.
type Refine struct {
	Upper, Lower  cst.Coefficients
	Bumps         []cst.Bump
	KeepThickness bool
}

type Spec struct {
	LeadingEdge r3.Vec
	Chord       float64
	Twist       float64 // degrees, about the span axis through the leading edge
	// Tilt turns the twisted section about the chordwise (x) axis through
	// the leading edge, in degrees
	Tilt float64
	// RelThickness is the target maximum thickness over chord, 0 keeps the
	// nominal CST thickness
	RelThickness float64
	// Tail is the trailing edge gap over chord
	Tail float64
	// A nil side means this section is not authoritative for it
	Upper, Lower cst.Coefficients
	Frame        Frame
	Refine       *Refine
}

func (s Spec) Copy() (sc Spec) {
	sc = s
	sc.Upper, sc.Lower = s.Upper.Copy(), s.Lower.Copy()
	if s.Refine != nil {
		sc.Refine = &Refine{
			Upper:         s.Refine.Upper.Copy(),
			Lower:         s.Refine.Lower.Copy(),
			Bumps:         append([]cst.Bump(nil), s.Refine.Bumps...),
			KeepThickness: s.Refine.KeepThickness,
		}
	}
	return
}

func (s Spec) FrameOrPlanar() Frame {
	if s.Frame == nil {
		return Planar{}
	}
	return s.Frame
}

func (s Spec) Cylinder() (c Cylinder, ok bool) {
	c, ok = s.Frame.(Cylinder)
	return
}

// ValidateGeometry checks everything but the presence of coefficients
func (s Spec) ValidateGeometry(op string) error {
	switch {
	case !(s.Chord > 0) || utils.IsNan(s.Chord):
		return types.NewValidationError(op, "chord must be positive, have %g", s.Chord)
	case s.RelThickness < 0 || utils.IsNan(s.RelThickness):
		return types.NewValidationError(op, "relative thickness must not be negative, have %g", s.RelThickness)
	case s.Tail < 0 || utils.IsNan(s.Tail):
		return types.NewValidationError(op, "tail must not be negative, have %g", s.Tail)
	case utils.IsNan(s.Twist) || utils.IsNan(s.Tilt):
		return types.NewValidationError(op, "twist and tilt must be finite")
	case utils.AnyNan([]float64{s.LeadingEdge.X, s.LeadingEdge.Y, s.LeadingEdge.Z}) >= 0:
		return types.NewValidationError(op, "leading edge is not finite")
	}
	for _, c := range [][]float64{s.Upper, s.Lower} {
		if c != nil && !cst.Coefficients(c).Validate() {
			return types.NewValidationError(op, "coefficient vector is empty or not finite")
		}
	}
	if r := s.Refine; r != nil {
		for _, c := range []cst.Coefficients{r.Upper, r.Lower} {
			if c != nil && !c.Validate() {
				return types.NewValidationError(op, "refine curve coefficients are empty or not finite")
			}
		}
		for i, b := range r.Bumps {
			if err := b.Validate(); err != nil {
				return types.NewValidationError(op, "bump %d: %v", i, err)
			}
		}
	}
	return nil
}

// Validate also requires coefficients on both sides
func (s Spec) Validate(op string) error {
	if err := s.ValidateGeometry(op); err != nil {
		return err
	}
	if s.Upper == nil || s.Lower == nil {
		return types.NewValidationError(op, "section needs coefficients on both sides")
	}
	return nil
}
