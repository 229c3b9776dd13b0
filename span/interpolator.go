package span

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gocst/section"
	"github.com/notargets/gocst/types"
	"github.com/notargets/gocst/utils"
)

type GeometryType uint8

const (
	LinearGeometry GeometryType = iota
	// SplineGeometry runs a natural cubic spline through every section
	SplineGeometry
)

func NewGeometryType(label string) (gt GeometryType, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "linear":
		gt = LinearGeometry
	case "spline", "cubic":
		gt = SplineGeometry
	default:
		err = fmt.Errorf("unknown geometry interpolation %q", label)
	}
	return
}

func NewBlendType(label string) (bt BlendType, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "linear":
		bt = LinearBlend
	case "smooth", "cosine":
		bt = SmoothBlend
	default:
		err = fmt.Errorf("unknown coefficient blend %q", label)
	}
	return
}

type Options struct {
	// Positions are span coordinates of the sections, normalized to [0,1] by
	// New. Empty means i/(n-1).
	Positions []float64
	Geometry  GeometryType
	Blend     BlendType
}

// Scalar channels of a section that are interpolated along the span
const (
	chLEX = iota
	chLEY
	chLEZ
	chChord
	chTwist
	chTilt
	chThick
	chTail
	chOriginY
	chOriginZ
	numChannels
)

func channels(s section.Spec) (c [numChannels]float64) {
	c[chLEX], c[chLEY], c[chLEZ] = s.LeadingEdge.X, s.LeadingEdge.Y, s.LeadingEdge.Z
	c[chChord], c[chTwist], c[chTilt] = s.Chord, s.Twist, s.Tilt
	c[chThick], c[chTail] = s.RelThickness, s.Tail
	if cyl, ok := s.Cylinder(); ok {
		c[chOriginY], c[chOriginZ] = cyl.Origin[0], cyl.Origin[1]
	}
	return
}

type Interpolator struct {
	secs         []section.Spec
	pos          []float64
	opts         Options
	upper, lower *Track
	cylinder     bool
	splines      []interp.Predictor
}

func New(secs []section.Spec, opts Options) (ip *Interpolator, err error) {
	const op = "span.New"
	var (
		n = len(secs)
	)
	if n < 2 {
		err = types.NewValidationError(op, "need at least 2 sections, have %d", n)
		return
	}
	ip = &Interpolator{
		secs:  make([]section.Spec, n),
		opts:  opts,
		upper: &Track{},
		lower: &Track{},
	}
	for i, s := range secs {
		if err = s.ValidateGeometry(fmt.Sprintf("%s: section %d", op, i)); err != nil {
			return nil, err
		}
		ip.secs[i] = s.Copy()
	}
	if ip.cylinder, err = checkFrames(op, secs); err != nil {
		return nil, err
	}
	if err = checkThickness(op, secs); err != nil {
		return nil, err
	}
	if err = checkSpan(op, secs); err != nil {
		return nil, err
	}
	if ip.pos, err = normalizePositions(op, opts.Positions, n); err != nil {
		return nil, err
	}
	for i, s := range ip.secs {
		if s.Upper != nil {
			ip.upper.Put(ip.pos[i], i, s.Upper)
		}
		if s.Lower != nil {
			ip.lower.Put(ip.pos[i], i, s.Lower)
		}
	}
	if err = ip.upper.Check(op, "upper"); err != nil {
		return nil, err
	}
	if err = ip.lower.Check(op, "lower"); err != nil {
		return nil, err
	}
	if opts.Geometry == SplineGeometry && n >= 3 {
		if err = ip.fitSplines(); err != nil {
			return nil, err
		}
	}
	return
}

func checkFrames(op string, secs []section.Spec) (cylinder bool, err error) {
	var nCyl int
	for _, s := range secs {
		if _, ok := s.Cylinder(); ok {
			nCyl++
		}
	}
	if nCyl != 0 && nCyl != len(secs) {
		err = types.NewValidationError(op, "%d of %d sections have a cylinder frame, all or none must", nCyl, len(secs))
	}
	return nCyl != 0, err
}

// A zero RelThickness means nominal, which cannot be blended with a target
func checkThickness(op string, secs []section.Spec) error {
	var nominal int
	for _, s := range secs {
		if s.RelThickness == 0 {
			nominal++
		}
	}
	if nominal != 0 && nominal != len(secs) {
		return types.NewValidationError(op, "%d of %d sections keep nominal thickness, all or none must", nominal, len(secs))
	}
	return nil
}

func checkSpan(op string, secs []section.Spec) error {
	for _, s := range secs[1:] {
		if r3.Norm(r3.Sub(s.LeadingEdge, secs[0].LeadingEdge)) > utils.NODETOL {
			return nil
		}
	}
	return types.NewNumericDegeneracy(op, "all %d leading edges coincide", len(secs))
}

func normalizePositions(op string, raw []float64, n int) (pos []float64, err error) {
	if len(raw) == 0 {
		return utils.IndexFractions(n), nil
	}
	if len(raw) != n {
		err = types.NewValidationError(op, "have %d positions for %d sections", len(raw), n)
		return
	}
	length := raw[n-1] - raw[0]
	if !(math.Abs(length) > utils.NODETOL) {
		err = types.NewNumericDegeneracy(op, "section positions span zero length")
		return
	}
	if bad := utils.StrictlyIncreasing(raw); bad >= 0 {
		err = types.NewValidationError(op, "section positions must increase, position %d is %g after %g",
			bad, raw[bad], raw[bad-1])
		return
	}
	pos = make([]float64, n)
	for i := range raw {
		pos[i] = (raw[i] - raw[0]) / length
	}
	pos[0], pos[n-1] = 0, 1
	return
}

/*
PositionsFromLeadingEdge measures each section's distance along the leading
edge polyline, for use as Options.Positions.
*/
func PositionsFromLeadingEdge(secs []section.Spec) (pos []float64, err error) {
	if len(secs) < 2 {
		err = types.NewValidationError("span.PositionsFromLeadingEdge", "need at least 2 sections, have %d", len(secs))
		return
	}
	seg := make([]float64, len(secs))
	for i := 1; i < len(secs); i++ {
		seg[i] = r3.Norm(r3.Sub(secs[i].LeadingEdge, secs[i-1].LeadingEdge))
		if seg[i] <= utils.NODETOL {
			err = types.NewNumericDegeneracy("span.PositionsFromLeadingEdge",
				"sections %d and %d share a leading edge", i-1, i)
			return
		}
	}
	pos = floats.CumSum(make([]float64, len(secs)), seg)
	return
}

func (ip *Interpolator) fitSplines() (err error) {
	var (
		n  = len(ip.secs)
		ys = make([]float64, n)
	)
	ip.splines = make([]interp.Predictor, numChannels)
	for ch := 0; ch < numChannels; ch++ {
		for i, s := range ip.secs {
			ys[i] = channels(s)[ch]
		}
		sp := &interp.NaturalCubic{}
		if err = sp.Fit(ip.pos, ys); err != nil {
			return types.NewNumericDegeneracy("span.New", "spline fit of channel %d: %v", ch, err)
		}
		ip.splines[ch] = sp
	}
	return
}

func (ip *Interpolator) Positions() []float64 {
	return append([]float64{}, ip.pos...)
}

func (ip *Interpolator) NumSections() int {
	return len(ip.secs)
}

func (ip *Interpolator) Cylinder() bool {
	return ip.cylinder
}

// Locate returns the section at fraction, or -1
func (ip *Interpolator) Locate(fraction float64) int {
	i := sort.SearchFloat64s(ip.pos, fraction)
	for _, k := range []int{i - 1, i} {
		if k >= 0 && k < len(ip.pos) && math.Abs(ip.pos[k]-fraction) <= utils.FRACTOL {
			return k
		}
	}
	return -1
}

/*
SectionAt returns the section at span fraction f in [0,1]. A fraction on a
section position returns that section unchanged, with any side it is not
authoritative for filled in from that side's track.
*/
func (ip *Interpolator) SectionAt(f float64) (s section.Spec, err error) {
	if utils.IsNan(f) || f < -utils.FRACTOL || f > 1+utils.FRACTOL {
		err = types.NewValidationError("span.SectionAt", "fraction %g is outside [0,1]", f)
		return
	}
	if k := ip.Locate(f); k >= 0 {
		s = ip.secs[k].Copy()
		if s.Upper == nil {
			s.Upper = ip.upper.Lookup(f, ip.opts.Blend)
		}
		if s.Lower == nil {
			s.Lower = ip.lower.Lookup(f, ip.opts.Blend)
		}
		return
	}
	var (
		i    = sort.SearchFloat64s(ip.pos, f) // pos[i-1] < f < pos[i]
		a, b = ip.secs[i-1], ip.secs[i]
		t    = (f - ip.pos[i-1]) / (ip.pos[i] - ip.pos[i-1])
		ch   [numChannels]float64
	)
	if ip.splines != nil {
		for c := range ch {
			ch[c] = ip.splines[c].Predict(f)
		}
	} else {
		ca, cb := channels(a), channels(b)
		for c := range ch {
			ch[c] = utils.Lerp(ca[c], cb[c], t)
		}
	}
	s = section.Spec{
		LeadingEdge:  r3.Vec{X: ch[chLEX], Y: ch[chLEY], Z: ch[chLEZ]},
		Chord:        ch[chChord],
		Twist:        ch[chTwist],
		Tilt:         ch[chTilt],
		RelThickness: math.Max(0, ch[chThick]),
		Tail:         math.Max(0, ch[chTail]),
		Upper:        ip.upper.Lookup(f, ip.opts.Blend),
		Lower:        ip.lower.Lookup(f, ip.opts.Blend),
		Frame:        section.Planar{},
	}
	if ip.cylinder {
		s.Frame = section.Cylinder{Origin: [2]float64{ch[chOriginY], ch[chOriginZ]}}
	}
	near := a
	if t > 0.5 {
		near = b
	}
	if near.Refine != nil {
		s.Refine = near.Copy().Refine
	}
	if !(s.Chord > 0) {
		err = types.NewNumericDegeneracy("span.SectionAt", "interpolated chord %g at fraction %g", s.Chord, f)
	}
	return
}
