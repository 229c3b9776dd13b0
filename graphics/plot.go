package graphics

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/notargets/gocst/section"
)

var (
	Width  = 10 * vg.Inch
	Height = 4 * vg.Inch
)

// FoilPlot draws each foil as an upper and a lower line on unit chord axes
func FoilPlot(title string, foils []*section.Foil, names []string) (p *plot.Plot, err error) {
	p = plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	var lines []interface{}
	for n, f := range foils {
		name := fmt.Sprintf("section %d", n)
		if n < len(names) {
			name = names[n]
		}
		up, lo := make(plotter.XYs, f.Len()), make(plotter.XYs, f.Len())
		for i, x := range f.X {
			up[i] = plotter.XY{X: x, Y: f.Upper[i]}
			lo[i] = plotter.XY{X: x, Y: f.Lower[i]}
		}
		lines = append(lines, name+" upper", up, name+" lower", lo)
	}
	if err = plotutil.AddLines(p, lines...); err != nil {
		return nil, errors.Wrap(err, "graphics.FoilPlot")
	}
	return
}

// Plane picks the two coordinates a leading edge trace is drawn against
type Plane uint8

const (
	PlaneZX Plane = iota // span against chordwise sweep
	PlaneZY              // span against dihedral
)

func (pl Plane) axes(v r3.Vec) (h, w float64) {
	if pl == PlaneZY {
		return v.Z, v.Y
	}
	return v.Z, v.X
}

// LeadingEdgePlot draws the leading edge trace with its stations marked
func LeadingEdgePlot(title string, le []r3.Vec, pl Plane) (p *plot.Plot, err error) {
	p = plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Z"
	p.Y.Label.Text = "X"
	if pl == PlaneZY {
		p.Y.Label.Text = "Y"
	}
	pts := make(plotter.XYs, len(le))
	for i, v := range le {
		pts[i].X, pts[i].Y = pl.axes(v)
	}
	if err = plotutil.AddLinePoints(p, "leading edge", pts); err != nil {
		return nil, errors.Wrap(err, "graphics.LeadingEdgePlot")
	}
	return
}

// Save writes p to fileName, the format follows the extension
func Save(p *plot.Plot, fileName string) (err error) {
	if filepath.Ext(fileName) == "" {
		return errors.Errorf("graphics.Save: %s has no image extension", fileName)
	}
	if err = p.Save(Width, Height, fileName); err != nil {
		return errors.Wrapf(err, "graphics.Save: %s", fileName)
	}
	return
}
