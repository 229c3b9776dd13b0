package surface

import (
	"math"
	"sort"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gocst/geometry3D"
	"github.com/notargets/gocst/interpolate"
	"github.com/notargets/gocst/section"
	"github.com/notargets/gocst/types"
	"github.com/notargets/gocst/utils"
)

/*
Rotate turns the grid and every section's leading edge by angleDeg about
axis through origin. Turning about the span (z) axis also changes the twist
of each untilted section by the same angle. Turning about x changes each
section's tilt and carries cylinder frame origins along.
*/
func (sf *Surface) Rotate(angleDeg float64, axis, origin r3.Vec) (err error) {
	const op = "surface.Rotate"
	var (
		rot geometry3D.Rotator
	)
	if err = sf.requireGrid(op); err != nil {
		return
	}
	if rot, err = geometry3D.NewRotator(angleDeg, axis, origin); err != nil {
		return types.NewValidationError(op, "%v", err)
	}
	sf.grid.ApplyAll(rot.Apply)
	var (
		alongZ = geometry3D.Parallel(axis, geometry3D.ZAxis)
		alongX = geometry3D.Parallel(axis, geometry3D.XAxis)
	)
	for i := range sf.secs {
		s := &sf.secs[i]
		s.LeadingEdge = rot.Apply(s.LeadingEdge)
		switch {
		case alongZ && s.Tilt == 0:
			s.Twist += angleDeg * utils.Sign(axis.Z)
		case alongZ:
			glog.Warningf("%s: surface %s section %d is tilted, its twist no longer describes the grid",
				op, sf.Name, i)
		case alongX:
			s.Tilt += angleDeg * utils.Sign(axis.X)
			if cyl, ok := s.Cylinder(); ok {
				o := rot.Apply(r3.Vec{Y: cyl.Origin[0], Z: cyl.Origin[1]})
				s.Frame = section.Cylinder{Origin: [2]float64{o.Y, o.Z}}
			}
		}
	}
	sf.state = Transformed
	glog.V(1).Infof("%s: surface %s turned %g deg about %v through %v", op, sf.Name, angleDeg, axis, origin)
	return
}

// Flip applies quarter turns and mirrors like "+X -Z XY" to the grid and
// the section leading edges
func (sf *Surface) Flip(flips string) (err error) {
	const op = "surface.Flip"
	var (
		ops []geometry3D.FlipOp
	)
	if err = sf.requireGrid(op); err != nil {
		return
	}
	if ops, err = geometry3D.ParseFlips(flips); err != nil {
		return types.NewValidationError(op, "%v", err)
	}
	for _, fo := range ops {
		sf.grid.ApplyAll(fo.Apply)
		for i := range sf.secs {
			sf.secs[i].LeadingEdge = fo.Apply(sf.secs[i].LeadingEdge)
		}
	}
	if len(ops) != 0 {
		sf.state = Transformed
	}
	return
}

// BendParams bends the leading edge locus between stations Start and End
type BendParams struct {
	Start, End int
	Leaders    []interpolate.LeaderPoint
	// Kx, Ky are the offset slopes at the start and end of the range
	Kx, Ky [2]float64
	// FollowTangent turns each moved station about x through its leading
	// edge by the angle the bend turns the locus in the plane normal to x,
	// and adds that angle to the tilt of the sections in the range
	FollowTangent bool
}

/*
Bend moves the stations strictly between Start and End in x and y by the
leader blend offset at their span fraction. Section shapes are unchanged,
stations Start and End and everything outside the range stay in place.
*/
func (sf *Surface) Bend(p BendParams) (err error) {
	const op = "surface.Bend"
	var (
		lb *interpolate.LeaderBlend
	)
	if err = sf.requireGrid(op); err != nil {
		return
	}
	ns := sf.grid.NumStations()
	if p.Start < 0 || p.End > ns-1 || p.Start >= p.End {
		return types.NewValidationError(op, "station range [%d, %d] is not inside [0, %d] with start before end",
			p.Start, p.End, ns-1)
	}
	var (
		fr     = sf.grid.Fractions
		before = append([]r3.Vec{}, sf.grid.LeadingEdges...)
	)
	if p.FollowTangent {
		for j := p.Start + 1; j < p.End; j++ {
			t := locusTangent(before, j)
			if math.Hypot(t.Y, t.Z) <= 1.e-9*r3.Norm(t) {
				return types.NewValidationError(op,
					"the leading edge locus at station %d runs along x, there is no tangent to follow", j)
			}
		}
	}
	if lb, err = interpolate.NewLeaderBlend(fr[p.Start], fr[p.End], p.Leaders, p.Kx, p.Ky); err != nil {
		return
	}
	for j := p.Start + 1; j < p.End; j++ {
		dx, dy := lb.Offset(fr[j])
		d := r3.Vec{X: dx, Y: dy}
		sf.grid.Apply(j, func(q r3.Vec) r3.Vec { return r3.Add(q, d) })
	}
	turns := make([]float64, ns)
	if p.FollowTangent {
		after := sf.grid.LeadingEdges
		for j := p.Start + 1; j < p.End; j++ {
			turns[j] = followTurn(before, after, j)
		}
		for j := p.Start + 1; j < p.End; j++ {
			if turns[j] == 0 {
				continue
			}
			rot, _ := geometry3D.NewRotator(geometry3D.Degrees(turns[j]), geometry3D.XAxis, sf.grid.LeadingEdges[j])
			le := sf.grid.LeadingEdges[j]
			sf.grid.Apply(j, rot.Apply)
			sf.grid.LeadingEdges[j] = le
		}
	}
	for i, f := range sf.positions {
		if i < len(sf.secs) && f > fr[p.Start] && f < fr[p.End] {
			dx, dy := lb.Offset(f)
			s := &sf.secs[i]
			s.LeadingEdge = r3.Add(s.LeadingEdge, r3.Vec{X: dx, Y: dy})
			s.Tilt += geometry3D.Degrees(turnAt(fr, turns, f))
		}
	}
	sf.state = Transformed
	glog.V(1).Infof("%s: surface %s stations %d..%d, %d leader(s), follow tangent %v",
		op, sf.Name, p.Start, p.End, len(p.Leaders), p.FollowTangent)
	return
}

// locusTangent is the central difference of the leading edge locus at j
func locusTangent(le []r3.Vec, j int) r3.Vec {
	lo, hi := max(j-1, 0), min(j+1, len(le)-1)
	return r3.Sub(le[hi], le[lo])
}

/*
followTurn is the signed angle about +x from the unbent to the bent locus
tangent at station j, both projected on the plane normal to x.
*/
func followTurn(before, after []r3.Vec, j int) float64 {
	t0, t1 := locusTangent(before, j), locusTangent(after, j)
	t0.X, t1.X = 0, 0
	return math.Atan2(r3.Cross(t0, t1).X, r3.Dot(t0, t1))
}

// turnAt interpolates the station turns linearly to span fraction f
func turnAt(fr, turns []float64, f float64) float64 {
	k := sort.SearchFloat64s(fr, f)
	switch {
	case k < len(fr) && math.Abs(fr[k]-f) <= utils.FRACTOL:
		return turns[k]
	case k > 0 && math.Abs(fr[k-1]-f) <= utils.FRACTOL:
		return turns[k-1]
	case k == 0 || k == len(fr):
		return 0
	}
	return utils.Lerp(turns[k-1], turns[k], (f-fr[k-1])/(fr[k]-fr[k-1]))
}
