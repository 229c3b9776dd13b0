package surface

import (
	"fmt"
	"sort"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gocst/cst"
	"github.com/notargets/gocst/section"
	"github.com/notargets/gocst/span"
	"github.com/notargets/gocst/types"
	"github.com/notargets/gocst/utils"
)

type State uint8

const (
	Uninitialized State = iota
	Built
	Transformed
	Smoothed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Built:
		return "Built"
	case Transformed:
		return "Transformed"
	case Smoothed:
		return "Smoothed"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

type Options struct {
	Nn, Ns       int // points per side, spanwise stations
	Distribution cst.DistributionType
	Spacing      span.Spacing
	// Fractions overrides Ns and Spacing with explicit station fractions
	Fractions []float64
	// Positions are explicit span coordinates of the sections
	Positions []float64
	// ByLeadingEdge positions sections by distance along the leading edge
	ByLeadingEdge  bool
	Geometry       span.GeometryType
	Blend          span.BlendType
	ProjectedChord bool
	ParallelDegree int // 0 uses every CPU
}

func DefaultOptions() Options {
	return Options{
		Nn:           101,
		Ns:           101,
		Distribution: cst.ClusterCos,
		Spacing:      span.Uniform,
		Blend:        span.LinearBlend,
	}
}

// StationInfo carries per station diagnostics from Geo
type StationInfo struct {
	Fraction          float64
	Chord, Twist      float64
	RelThickness      float64
	ThicknessMax      float64
	LeadingEdgeRadius float64
	Violations        cst.Violations
}

/*
Surface owns an ordered stack of sections and the grid lofted through them.
A Surface is not safe for concurrent use.
*/
type Surface struct {
	Name string
	// input is what Geo builds from, secs follows the grid's transforms
	input, secs []section.Spec
	opts        Options
	grid        *types.Grid
	info        []StationInfo
	positions   []float64
	state       State
}

func New(name string, secs []section.Spec, opts Options) (sf *Surface) {
	sf = &Surface{
		Name: name,
		opts: opts,
	}
	sf.input = copySections(secs)
	sf.secs = copySections(secs)
	return
}

func copySections(secs []section.Spec) (c []section.Spec) {
	c = make([]section.Spec, len(secs))
	for i, s := range secs {
		c[i] = s.Copy()
	}
	return
}

func (sf *Surface) State() State {
	return sf.state
}

func (sf *Surface) Options() Options {
	return sf.opts
}

func (sf *Surface) NumSections() int {
	return len(sf.secs)
}

// Sections returns the section stack, with leading edges and twists moved by
// any transforms applied since Geo
func (sf *Surface) Sections() []section.Spec {
	return copySections(sf.secs)
}

func (sf *Surface) requireGrid(op string) error {
	if sf.state == Uninitialized || sf.grid == nil {
		return types.NewStateError(op, sf.state.String(), "a grid built by Geo")
	}
	return nil
}

// Grid returns a copy of the current grid
func (sf *Surface) Grid() (g *types.Grid, err error) {
	if err = sf.requireGrid("surface.Grid"); err != nil {
		return
	}
	return sf.grid.Copy(), nil
}

func (sf *Surface) LeadingEdges() (le []r3.Vec, err error) {
	if err = sf.requireGrid("surface.LeadingEdges"); err != nil {
		return
	}
	return append([]r3.Vec{}, sf.grid.LeadingEdges...), nil
}

func (sf *Surface) StationInfo() (info []StationInfo, err error) {
	if err = sf.requireGrid("surface.StationInfo"); err != nil {
		return
	}
	return append([]StationInfo{}, sf.info...), nil
}

// Positions returns the span fraction of every section from the last Geo
func (sf *Surface) Positions() []float64 {
	return append([]float64{}, sf.positions...)
}

func (sf *Surface) parallelDegree() int {
	if sf.opts.ParallelDegree > 0 {
		return sf.opts.ParallelDegree
	}
	return utils.DefaultParallelDegree()
}

// lofted returns the sections Geo works from; a lone section is extruded
// one unit along z
func (sf *Surface) lofted() (secs []section.Spec) {
	secs = copySections(sf.input)
	if len(secs) == 1 {
		s := secs[0].Copy()
		s.LeadingEdge.Z += 1
		secs = append(secs, s)
		glog.V(1).Infof("surface %s: single section, extruding one unit along z", sf.Name)
	}
	return
}

func (sf *Surface) interpolator(op string, secs []section.Spec) (ip *span.Interpolator, err error) {
	opts := span.Options{
		Positions: sf.opts.Positions,
		Geometry:  sf.opts.Geometry,
		Blend:     sf.opts.Blend,
	}
	if sf.opts.ByLeadingEdge && len(opts.Positions) == 0 {
		if opts.Positions, err = span.PositionsFromLeadingEdge(secs); err != nil {
			return nil, errors.Wrapf(err, "%s: surface %s", op, sf.Name)
		}
	}
	if ip, err = span.New(secs, opts); err != nil {
		return nil, errors.Wrapf(err, "%s: surface %s", op, sf.Name)
	}
	return
}

/*
Geo lofts the sections into a fresh grid, discarding any earlier grid and
the transforms applied to it. With split the upper and lower sides are
separate sheets, otherwise one sheet runs lower TE, LE, upper TE.
*/
func (sf *Surface) Geo(split bool) (err error) {
	const op = "surface.Geo"
	var (
		nn   = sf.opts.Nn
		secs []section.Spec
		ip   *span.Interpolator
		fr   []float64
	)
	switch {
	case len(sf.input) == 0:
		return types.NewValidationError(op, "surface %s has no sections", sf.Name)
	case nn < 3:
		return types.NewValidationError(op, "need at least 3 points per side, have %d", nn)
	case len(sf.opts.Fractions) == 0 && sf.opts.Ns < len(sf.input):
		return types.NewValidationError(op, "%d stations cannot hold %d sections", sf.opts.Ns, len(sf.input))
	}
	secs = sf.lofted()
	if ip, err = sf.interpolator(op, secs); err != nil {
		return
	}
	if len(sf.opts.Fractions) != 0 {
		if err = span.CheckFractions(sf.opts.Fractions); err != nil {
			return
		}
		fr = sf.opts.Fractions
	} else if fr, err = span.Fractions(sf.opts.Ns, sf.opts.Spacing, ip.Positions()); err != nil {
		return
	}
	var (
		grid  = types.NewGrid(fr, nn, split)
		info  = make([]StationInfo, len(fr))
		popts = section.PlaceOptions{ProjectedChord: sf.opts.ProjectedChord}
		pm    = utils.NewPartitionMap(sf.parallelDegree(), len(fr))
	)
	err = pm.ParallelFor(func(bn, kMin, kMax int) (err error) {
		for j := kMin; j < kMax; j++ {
			if info[j], err = sf.station(grid, ip, popts, j); err != nil {
				return errors.Wrapf(err, "surface %s: station %d at fraction %g", sf.Name, j, fr[j])
			}
		}
		return
	})
	if err != nil {
		return
	}
	sf.grid, sf.info, sf.positions = grid, info, ip.Positions()
	sf.secs = secs
	sf.state = Built
	glog.V(1).Infof("surface %s: built %d sections into %d stations x %d points, %d sheet(s)",
		sf.Name, len(secs), len(fr), grid.Sheets[0].Np, len(grid.Sheets))
	return
}

// station generates and places station j, writing only row j of the grid
func (sf *Surface) station(grid *types.Grid, ip *span.Interpolator, popts section.PlaceOptions,
	j int) (info StationInfo, err error) {
	var (
		f    = grid.Fractions[j]
		s    section.Spec
		foil *section.Foil
	)
	if s, err = ip.SectionAt(f); err != nil {
		return
	}
	if err = popts.Check(s, "surface.Geo"); err != nil {
		return
	}
	if foil, err = section.Generate(s, sf.opts.Nn, sf.opts.Distribution); err != nil {
		return
	}
	up, lo, err := section.Place(foil, s, popts)
	if err != nil {
		return
	}
	grid.SetSection(j, up, lo)
	info = StationInfo{
		Fraction:          f,
		Chord:             s.Chord,
		Twist:             s.Twist,
		RelThickness:      s.RelThickness,
		ThicknessMax:      foil.ThicknessMax,
		LeadingEdgeRadius: foil.LeadingEdgeRadius,
	}
	if info.Violations, err = foil.Check(); err != nil {
		return
	}
	if glog.V(2) {
		glog.Infof("surface %s: station %d f=%.4f chord=%.4f twist=%.3f tmax=%.5f rle=%.5f rules: %v",
			sf.Name, j, f, s.Chord, s.Twist, foil.ThicknessMax, foil.LeadingEdgeRadius, info.Violations)
	}
	return
}

/*
AddSections inserts sections interpolated at the given span fractions
between the existing ones. Fractions on an existing section are ignored.
The grid is discarded, so Geo must run again.
*/
func (sf *Surface) AddSections(fractions []float64) (err error) {
	const op = "surface.AddSections"
	var (
		secs = sf.lofted()
		ip   *span.Interpolator
	)
	if ip, err = sf.interpolator(op, secs); err != nil {
		return
	}
	var (
		pos    = ip.Positions()
		raw    = sf.opts.Positions
		added  []section.Spec
		addPos []float64
	)
	for _, f := range fractions {
		if utils.IsNan(f) || f <= 0 || f >= 1 {
			return types.NewValidationError(op, "fraction %g is not strictly inside (0,1)", f)
		}
		if ip.Locate(f) >= 0 {
			continue
		}
		var s section.Spec
		if s, err = ip.SectionAt(f); err != nil {
			return
		}
		added = append(added, s)
		addPos = append(addPos, f)
	}
	type entry struct {
		pos float64
		sec section.Spec
		raw float64
	}
	entries := make([]entry, 0, len(secs)+len(added))
	// without raw positions the normalized ones are kept, so the stack does
	// not fall back to even spacing
	for i, s := range secs {
		e := entry{pos: pos[i], sec: s, raw: pos[i]}
		if len(raw) != 0 {
			e.raw = raw[i]
		}
		entries = append(entries, e)
	}
	for i, s := range added {
		e := entry{pos: addPos[i], sec: s, raw: addPos[i]}
		if len(raw) != 0 {
			e.raw = raw[0] + addPos[i]*(raw[len(raw)-1]-raw[0])
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(a, b int) bool { return entries[a].pos < entries[b].pos })
	// drop duplicates among the new fractions
	var (
		newSecs []section.Spec
		newRaw  []float64
		last    = -1.
	)
	for _, e := range entries {
		if e.pos-last <= utils.FRACTOL {
			continue
		}
		last = e.pos
		newSecs = append(newSecs, e.sec)
		newRaw = append(newRaw, e.raw)
	}
	if len(sf.input) == 1 {
		glog.V(1).Infof("surface %s: the extruded second section is now part of the input", sf.Name)
	}
	sf.input = newSecs
	sf.secs = copySections(newSecs)
	sf.opts.Positions = newRaw
	if sf.opts.Ns < len(newSecs) && len(sf.opts.Fractions) == 0 {
		sf.opts.Ns = len(newSecs)
	}
	sf.grid, sf.info, sf.state = nil, nil, Uninitialized
	glog.V(1).Infof("%s: surface %s now has %d sections", op, sf.Name, len(newSecs))
	return
}

// SectionFoils generates the unit chord foil of each input section, with
// sides the section does not define filled in along the span
func (sf *Surface) SectionFoils() (foils []*section.Foil, err error) {
	const op = "surface.SectionFoils"
	var (
		ip *span.Interpolator
	)
	if len(sf.input) == 0 {
		return nil, types.NewValidationError(op, "surface %s has no sections", sf.Name)
	}
	if ip, err = sf.interpolator(op, sf.lofted()); err != nil {
		return
	}
	for i, f := range ip.Positions()[:len(sf.input)] {
		var (
			s    section.Spec
			foil *section.Foil
		)
		if s, err = ip.SectionAt(f); err != nil {
			return
		}
		if foil, err = section.Generate(s, sf.opts.Nn, sf.opts.Distribution); err != nil {
			return nil, errors.Wrapf(err, "%s: surface %s section %d", op, sf.Name, i)
		}
		foils = append(foils, foil)
	}
	return
}
