package geometry3D

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	XAxis = r3.Vec{X: 1}
	YAxis = r3.Vec{Y: 1}
	ZAxis = r3.Vec{Z: 1}
)

func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Rotator turns points by a fixed angle about an axis through an origin
type Rotator struct {
	rot    r3.Rotation
	origin r3.Vec
}

func NewRotator(angleDeg float64, axis, origin r3.Vec) (r Rotator, err error) {
	if r3.Norm(axis) < 1.e-14 {
		err = fmt.Errorf("rotation axis has zero length")
		return
	}
	r = Rotator{
		rot:    r3.NewRotation(Radians(angleDeg), axis),
		origin: origin,
	}
	return
}

func (r Rotator) Apply(p r3.Vec) r3.Vec {
	return r3.Add(r.origin, r.rot.Rotate(r3.Sub(p, r.origin)))
}

// RotateInPlane turns (dx,dy) counterclockwise by angleDeg
func RotateInPlane(dx, dy, angleDeg float64) (float64, float64) {
	sn, cs := math.Sincos(Radians(angleDeg))
	return dx*cs - dy*sn, dx*sn + dy*cs
}

// Parallel reports whether a and b point along the same line
func Parallel(a, b r3.Vec) bool {
	na, nb := r3.Norm(a), r3.Norm(b)
	if na == 0 || nb == 0 {
		return false
	}
	return r3.Norm(r3.Cross(a, b)) <= 1.e-12*na*nb
}

/*
FlipOp is an exact coordinate permutation: a quarter turn about a positive
or negative axis, or a mirror in a coordinate plane.
*/
type FlipOp uint8

const (
	TurnPlusX FlipOp = iota
	TurnMinusX
	TurnPlusY
	TurnMinusY
	TurnPlusZ
	TurnMinusZ
	MirrorXY
	MirrorYZ
	MirrorZX
)

var FlipNames = map[string]FlipOp{
	"+X": TurnPlusX,
	"-X": TurnMinusX,
	"+Y": TurnPlusY,
	"-Y": TurnMinusY,
	"+Z": TurnPlusZ,
	"-Z": TurnMinusZ,
	"XY": MirrorXY,
	"YZ": MirrorYZ,
	"ZX": MirrorZX,
}

func (op FlipOp) String() string {
	for name, o := range FlipNames {
		if o == op {
			return name
		}
	}
	return fmt.Sprintf("FlipOp(%d)", uint8(op))
}

// ParseFlips reads a whitespace or comma separated list like "+X -Z XY"
func ParseFlips(s string) (ops []FlipOp, err error) {
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}) {
		op, ok := FlipNames[strings.ToUpper(tok)]
		if !ok {
			err = fmt.Errorf("unknown flip %q", tok)
			return
		}
		ops = append(ops, op)
	}
	return
}

func (op FlipOp) Apply(p r3.Vec) r3.Vec {
	switch op {
	case TurnPlusX:
		return r3.Vec{X: p.X, Y: -p.Z, Z: p.Y}
	case TurnMinusX:
		return r3.Vec{X: p.X, Y: p.Z, Z: -p.Y}
	case TurnPlusY:
		return r3.Vec{X: p.Z, Y: p.Y, Z: -p.X}
	case TurnMinusY:
		return r3.Vec{X: -p.Z, Y: p.Y, Z: p.X}
	case TurnPlusZ:
		return r3.Vec{X: -p.Y, Y: p.X, Z: p.Z}
	case TurnMinusZ:
		return r3.Vec{X: p.Y, Y: -p.X, Z: p.Z}
	case MirrorXY:
		return r3.Vec{X: p.X, Y: p.Y, Z: -p.Z}
	case MirrorYZ:
		return r3.Vec{X: -p.X, Y: p.Y, Z: p.Z}
	case MirrorZX:
		return r3.Vec{X: p.X, Y: -p.Y, Z: p.Z}
	}
	panic(fmt.Errorf("unknown flip %d", op))
}
