package writefiles

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/notargets/gocst/cst"
	"github.com/notargets/gocst/section"
	"github.com/notargets/gocst/types"
)

// WriteFile creates fileName and hands a buffered writer to write
func WriteFile(fileName string, write func(w io.Writer) error) (err error) {
	var (
		file *os.File
	)
	if file, err = os.Create(fileName); err != nil {
		return errors.Wrapf(err, "unable to create %s", fileName)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "closing %s", fileName)
		}
	}()
	bw := bufio.NewWriter(file)
	if err = write(bw); err != nil {
		return errors.Wrapf(err, "writing %s", fileName)
	}
	if err = bw.Flush(); err != nil {
		return errors.Wrapf(err, "writing %s", fileName)
	}
	glog.V(1).Infof("wrote %s", fileName)
	return
}

func zoneTitle(s *types.Sheet, n int) string {
	switch s.Kind {
	case types.UpperSide:
		return fmt.Sprintf("SecUpp %d", n)
	case types.LowerSide:
		return fmt.Sprintf("SecLow %d", n)
	}
	return fmt.Sprintf("Section %d", n)
}

/*
WriteTecplot writes the grid as a Tecplot ASCII point file, one ordered zone
per sheet with i running along the section and j along the span.
*/
func WriteTecplot(w io.Writer, g *types.Grid) (err error) {
	if _, err = fmt.Fprintf(w, "Variables= X  Y  Z\n"); err != nil {
		return
	}
	for n, s := range g.Sheets {
		if _, err = fmt.Fprintf(w, "zone T=\"%s\" i= %d j= %d\n", zoneTitle(s, n), s.Np, s.Ns); err != nil {
			return
		}
		for ind := range s.X {
			if _, err = fmt.Fprintf(w, "  %.9f   %.9f   %.9f\n", s.X[ind], s.Y[ind], s.Z[ind]); err != nil {
				return
			}
		}
	}
	return
}

/*
WritePlot3D writes the grid as an ASCII multi-block Plot3D file: the block
count, each block's dimensions, then per block all X, all Y and all Z with
three values per line.
*/
func WritePlot3D(w io.Writer, g *types.Grid) (err error) {
	if _, err = fmt.Fprintf(w, "%d\n", len(g.Sheets)); err != nil {
		return
	}
	for _, s := range g.Sheets {
		if _, err = fmt.Fprintf(w, "%d %d 1\n", s.Np, s.Ns); err != nil {
			return
		}
	}
	for _, s := range g.Sheets {
		for _, coord := range [][]float64{s.X, s.Y, s.Z} {
			if err = writeBlock(w, coord); err != nil {
				return
			}
		}
	}
	return
}

func writeBlock(w io.Writer, v []float64) (err error) {
	for i, f := range v {
		sep := " "
		if (i+1)%3 == 0 || i == len(v)-1 {
			sep = "\n"
		}
		if _, err = fmt.Fprintf(w, " %.9f%s", f, sep); err != nil {
			return
		}
	}
	return
}

/*
WriteFoils writes unit foils as Tecplot zones, an upper and a lower zone per
foil. With info each point also carries the side's curvature, the thickness
and the camber.
*/
func WriteFoils(w io.Writer, foils []*section.Foil, info bool) (err error) {
	header := "Variables= X  Y\n"
	if info {
		header = "Variables= X  Y  Curvature Thickness Camber\n"
	}
	if _, err = fmt.Fprint(w, header); err != nil {
		return
	}
	for n, f := range foils {
		var (
			thick, camber []float64
			curvU, curvL  []float64
			sides         = [][]float64{f.Upper, f.Lower}
			names         = []string{"Upp", "Low"}
		)
		if info {
			thick, camber = f.Thickness(), f.Camber()
			if curvU, err = cst.Curvature(f.X, f.Upper); err != nil {
				return
			}
			if curvL, err = cst.Curvature(f.X, f.Lower); err != nil {
				return
			}
		}
		curv := [][]float64{curvU, curvL}
		for k, y := range sides {
			if _, err = fmt.Fprintf(w, "zone T=\"%s-%d\" i= %d\n", names[k], n, f.Len()); err != nil {
				return
			}
			for i, x := range f.X {
				if info {
					_, err = fmt.Fprintf(w, "   %.9f  %.9f  %.9f  %.9f  %.9f\n", x, y[i], curv[k][i], thick[i], camber[i])
				} else {
					_, err = fmt.Fprintf(w, "   %.9f  %.9f\n", x, y[i])
				}
				if err != nil {
					return
				}
			}
		}
	}
	return
}
