package types

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

type SheetKind uint8

const (
	// Combined runs lower trailing edge -> leading edge -> upper trailing edge
	Combined SheetKind = iota
	UpperSide
	LowerSide
)

func (k SheetKind) String() string {
	switch k {
	case Combined:
		return "Combined"
	case UpperSide:
		return "Upper"
	case LowerSide:
		return "Lower"
	}
	return fmt.Sprintf("SheetKind(%d)", uint8(k))
}

/*
Sheet is a structured Ns x Np point array. Station j (spanwise) is the slow
index, point i along the section is the fast index, so a station's points
are contiguous in X, Y and Z.
*/
type Sheet struct {
	Kind    SheetKind
	Ns, Np  int
	X, Y, Z []float64
	// LEIndex is the point index holding the leading edge on every station
	LEIndex int
}

func NewSheet(kind SheetKind, ns, np int) (s *Sheet) {
	s = &Sheet{
		Kind: kind,
		Ns:   ns,
		Np:   np,
		X:    make([]float64, ns*np),
		Y:    make([]float64, ns*np),
		Z:    make([]float64, ns*np),
	}
	if kind == Combined {
		s.LEIndex = (np - 1) / 2
	}
	return
}

func (s *Sheet) index(j, i int) int {
	return j*s.Np + i
}

func (s *Sheet) At(j, i int) r3.Vec {
	ind := s.index(j, i)
	return r3.Vec{X: s.X[ind], Y: s.Y[ind], Z: s.Z[ind]}
}

func (s *Sheet) Set(j, i int, p r3.Vec) {
	ind := s.index(j, i)
	s.X[ind], s.Y[ind], s.Z[ind] = p.X, p.Y, p.Z
}

func (s *Sheet) Station(j int) (pts []r3.Vec) {
	pts = make([]r3.Vec, s.Np)
	for i := range pts {
		pts[i] = s.At(j, i)
	}
	return
}

func (s *Sheet) SetStation(j int, pts []r3.Vec) {
	if len(pts) != s.Np {
		panic(fmt.Errorf("station has %d points, sheet expects %d", len(pts), s.Np))
	}
	for i, p := range pts {
		s.Set(j, i, p)
	}
}

// Apply maps every point on station j through f
func (s *Sheet) Apply(j int, f func(p r3.Vec) r3.Vec) {
	for i := 0; i < s.Np; i++ {
		s.Set(j, i, f(s.At(j, i)))
	}
}

func (s *Sheet) Copy() *Sheet {
	ss := *s
	ss.X = append([]float64{}, s.X...)
	ss.Y = append([]float64{}, s.Y...)
	ss.Z = append([]float64{}, s.Z...)
	return &ss
}

type Grid struct {
	Sheets []*Sheet
	// Fractions holds the normalized span coordinate of each station
	Fractions []float64
	// LeadingEdges holds the current leading edge point of each station
	LeadingEdges []r3.Vec
}

func NewGrid(fractions []float64, np int, split bool) (g *Grid) {
	ns := len(fractions)
	g = &Grid{
		Fractions:    append([]float64{}, fractions...),
		LeadingEdges: make([]r3.Vec, ns),
	}
	if split {
		g.Sheets = []*Sheet{NewSheet(UpperSide, ns, np), NewSheet(LowerSide, ns, np)}
	} else {
		g.Sheets = []*Sheet{NewSheet(Combined, ns, 2*np-1)}
	}
	return
}

func (g *Grid) NumStations() int {
	return len(g.Fractions)
}

func (g *Grid) Split() bool {
	return len(g.Sheets) == 2
}

// SetSection writes one station from upper and lower side points, both
// ordered leading edge to trailing edge
func (g *Grid) SetSection(j int, upper, lower []r3.Vec) {
	if g.Split() {
		g.Sheets[0].SetStation(j, upper)
		g.Sheets[1].SetStation(j, lower)
	} else {
		var (
			s  = g.Sheets[0]
			nn = len(upper)
		)
		for i := 0; i < nn; i++ {
			s.Set(j, nn-1-i, lower[i])
			s.Set(j, nn-1+i, upper[i])
		}
	}
	g.LeadingEdges[j] = upper[0]
}

// Sides returns station j as upper and lower point arrays, leading edge first
func (g *Grid) Sides(j int) (upper, lower []r3.Vec) {
	if g.Split() {
		return g.Sheets[0].Station(j), g.Sheets[1].Station(j)
	}
	var (
		s  = g.Sheets[0]
		nn = s.LEIndex + 1
	)
	upper, lower = make([]r3.Vec, nn), make([]r3.Vec, nn)
	for i := 0; i < nn; i++ {
		lower[i] = s.At(j, nn-1-i)
		upper[i] = s.At(j, nn-1+i)
	}
	return
}

// Apply maps every point of station j, including its leading edge, through f
func (g *Grid) Apply(j int, f func(p r3.Vec) r3.Vec) {
	for _, s := range g.Sheets {
		s.Apply(j, f)
	}
	g.LeadingEdges[j] = f(g.LeadingEdges[j])
}

func (g *Grid) ApplyAll(f func(p r3.Vec) r3.Vec) {
	for j := range g.Fractions {
		g.Apply(j, f)
	}
}

// SyncLeadingEdges reloads the leading edge locus from the sheets
func (g *Grid) SyncLeadingEdges() {
	s := g.Sheets[0]
	for j := range g.LeadingEdges {
		g.LeadingEdges[j] = s.At(j, s.LEIndex)
	}
}

func (g *Grid) Copy() *Grid {
	gg := &Grid{
		Fractions:    append([]float64{}, g.Fractions...),
		LeadingEdges: append([]r3.Vec{}, g.LeadingEdges...),
		Sheets:       make([]*Sheet, len(g.Sheets)),
	}
	for i, s := range g.Sheets {
		gg.Sheets[i] = s.Copy()
	}
	return gg
}
