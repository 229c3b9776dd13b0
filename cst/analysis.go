package cst

import (
	"fmt"
	"math"
	"strings"

	"github.com/viterin/vek"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/gocst/types"
)

func Thickness(yu, yl []float64) []float64 {
	return vek.Sub(yu, yl)
}

func Camber(yu, yl []float64) (camber []float64) {
	camber = vek.Add(yu, yl)
	vek.MulNumber_Inplace(camber, 0.5)
	return
}

/*
Curvature is the signed curvature of the polyline (x,y) from the circle
through each triple of neighbors, positive when the curve turns
counterclockwise. End points copy their neighbor.
*/
func Curvature(x, y []float64) (curv []float64, err error) {
	var (
		nn = len(x)
	)
	if nn < 3 || len(y) != nn {
		err = types.NewValidationError("cst.Curvature", "need at least 3 matching points, have x=%d y=%d", nn, len(y))
		return
	}
	curv = make([]float64, nn)
	for i := 1; i < nn-1; i++ {
		var (
			p1 = r2.Vec{X: x[i-1], Y: y[i-1]}
			p2 = r2.Vec{X: x[i], Y: y[i]}
			p3 = r2.Vec{X: x[i+1], Y: y[i+1]}
			a  = r2.Norm(r2.Sub(p1, p2))
			b  = r2.Norm(r2.Sub(p2, p3))
			c  = r2.Norm(r2.Sub(p3, p1))
			p  = 0.5 * (a + b + c)
			t  = p * (p - a) * (p - b) * (p - c)
			R  = a * b * c
		)
		if R > 1.e-12 && t > 0 {
			curv[i] = 4 * math.Sqrt(t) / R
		}
		if r2.Cross(r2.Sub(p2, p1), r2.Sub(p3, p1)) < 0 {
			curv[i] = -curv[i]
		}
	}
	curv[0], curv[nn-1] = curv[1], curv[nn-2]
	return
}

// CircleFrom3Points returns the circle through three points, ok is false
// when they are collinear
func CircleFrom3Points(p1, p2, p3 r2.Vec) (radius float64, center r2.Vec, ok bool) {
	var (
		d = 2 * (p1.X*(p2.Y-p3.Y) + p2.X*(p3.Y-p1.Y) + p3.X*(p1.Y-p2.Y))
	)
	if math.Abs(d) < 1.e-14 {
		return
	}
	var (
		s1 = r2.Norm2(p1)
		s2 = r2.Norm2(p2)
		s3 = r2.Norm2(p3)
	)
	center.X = (s1*(p2.Y-p3.Y) + s2*(p3.Y-p1.Y) + s3*(p1.Y-p2.Y)) / d
	center.Y = (s1*(p3.X-p2.X) + s2*(p1.X-p3.X) + s3*(p2.X-p1.X)) / d
	radius = r2.Norm(r2.Sub(p1, center))
	ok = true
	return
}

// RLEStation is the chordwise location used to sample the nose circle
const RLEStation = 0.005

/*
LeadingEdgeRadius estimates the nose radius from the circle through the
leading edge and both sides at x = RLEStation. Zero means the estimate is
unavailable.
*/
func LeadingEdgeRadius(x, yu, yl []float64) (rle float64) {
	if len(x) < 3 || x[len(x)-1] <= RLEStation {
		return 0
	}
	var (
		yuR, ylR float64
		err      error
	)
	if yuR, err = sampleCurve(x, yu, RLEStation); err != nil {
		return 0
	}
	if ylR, err = sampleCurve(x, yl, RLEStation); err != nil {
		return 0
	}
	r, _, ok := CircleFrom3Points(r2.Vec{}, r2.Vec{X: RLEStation, Y: yuR}, r2.Vec{X: RLEStation, Y: ylR})
	if !ok {
		return 0
	}
	return r
}

func sampleCurve(x, y []float64, xs float64) (ys float64, err error) {
	var pr interp.FittablePredictor
	if len(x) < 4 {
		pr = &interp.PiecewiseLinear{}
	} else {
		pr = &interp.NaturalCubic{}
	}
	if err = pr.Fit(x, y); err != nil {
		return
	}
	ys = pr.Predict(xs)
	return
}

/*
MaxThickness locates the maximum of yu(x)-yl(x) for the CST curves cu and
cl. The arg max of a uniform sample seeds a Nelder-Mead refinement, and the
sample is kept if the refinement does not improve on it.
*/
func MaxThickness(cu, cl Coefficients) (xMax, tMax float64) {
	var (
		ns    = 201
		xs    = Distribution(Uniform, ns)
		thick = Thickness(EvaluateAll(cu, xs), EvaluateAll(cl, xs))
		im    = vek.ArgMax(thick)
		bu    = bernstein(cu.Order())
		bl    = bernstein(cl.Order())
		f     = func(x float64) float64 {
			x = math.Max(0, math.Min(1, x))
			c := ClassFunction(x)
			return c * (shape(cu, bu, x) - shape(cl, bl, x))
		}
	)
	xMax, tMax = xs[im], thick[im]
	problem := optimize.Problem{
		Func: func(p []float64) float64 { return -f(p[0]) },
	}
	settings := &optimize.Settings{
		FuncEvaluations: 400,
		Converger: &optimize.FunctionConverge{
			Absolute:   1.e-14,
			Iterations: 20,
		},
	}
	result, err := optimize.Minimize(problem, []float64{xMax}, settings, &optimize.NelderMead{})
	if err != nil || result == nil {
		return
	}
	if xr := math.Max(0, math.Min(1, result.X[0])); f(xr) > tMax {
		xMax, tMax = xr, f(xr)
	}
	return
}

type Rule uint8

const (
	RuleNegativeThickness Rule = iota
	RuleMaxThicknessLocation
	RuleThicknessExtrema
	RuleCurvature
	RuleCamber
	RuleLeadingEdgeRadius
	RuleConvexLeadingEdge
	numRules
)

var ruleNames = [numRules]string{
	"negative thickness",
	"max thickness location",
	"thickness extrema",
	"curvature",
	"camber",
	"leading edge radius",
	"convex leading edge",
}

func (r Rule) String() string {
	if r < numRules {
		return ruleNames[r]
	}
	return fmt.Sprintf("Rule(%d)", uint8(r))
}

// Violations is indexed by Rule, true marks a broken rule
type Violations [numRules]bool

func (v Violations) Valid() bool {
	for _, b := range v {
		if b {
			return false
		}
	}
	return true
}

func (v Violations) String() string {
	var broken []string
	for r, b := range v {
		if b {
			broken = append(broken, Rule(r).String())
		}
	}
	if len(broken) == 0 {
		return "valid"
	}
	return strings.Join(broken, ", ")
}

/*
CheckValid applies the section plausibility rules to a unit chord foil
sampled on x (ascending, LE first). rle <= 0 skips the nose radius rule.
*/
func CheckValid(x, yu, yl []float64, rle float64) (v Violations, err error) {
	var (
		nn            = len(x)
		curvU, curvL  []float64
		thick         = Thickness(yu, yl)
		camber        = Camber(yu, yl)
		iMax          = vek.ArgMax(thick)
		t0, xMax      = thick[iMax], x[iMax]
		nExtreme      int
		cMaxU, cMaxL  float64
		camMax        float64
		ii            = int(0.1*float64(nn)) + 1
		a0, aUp, aLow float64
	)
	if curvU, err = Curvature(x, yu); err != nil {
		return
	}
	if curvL, err = Curvature(x, yl); err != nil {
		return
	}
	if vek.Min(thick) < 0 {
		v[RuleNegativeThickness] = true
	}
	if xMax < 0.15 || xMax > 0.75 {
		v[RuleMaxThicknessLocation] = true
	}
	for i := 0; i < nn-2; i++ {
		if (thick[i+2]-thick[i+1])*(thick[i]-thick[i+1]) >= 0 {
			nExtreme++
		}
	}
	if nExtreme > 2 {
		v[RuleThicknessExtrema] = true
	}
	for i := 0; i < nn; i++ {
		if x[i] >= 0.1 {
			cMaxU = math.Max(cMaxU, math.Abs(curvU[i]))
			cMaxL = math.Max(cMaxL, math.Abs(curvL[i]))
		}
		if x[i] >= 0.2 && x[i] <= 0.7 {
			camMax = math.Max(camMax, math.Abs(camber[i]))
		}
	}
	if cMaxU > 5 || cMaxL > 5 {
		v[RuleCurvature] = true
	}
	if camMax > 0.025 {
		v[RuleCamber] = true
	}
	if rle > 0 && (rle < 0.005 || rle/t0 < 0.1) {
		v[RuleLeadingEdgeRadius] = true
	}
	if ii < nn && xMax > 0 && x[ii] > 0 {
		a0 = t0 / xMax
		aUp = yu[ii] / x[ii] / a0
		aLow = -yl[ii] / x[ii] / a0
		if aUp < 1 || aLow < 1 {
			v[RuleConvexLeadingEdge] = true
		}
	}
	return
}
