package readfiles

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gocst/cst"
	"github.com/notargets/gocst/section"
	"github.com/notargets/gocst/types"
)

const (
	SuctionSuffix  = "-suction"
	PressureSuffix = "-pressure"
)

type settingsKey uint8

const (
	noKey settingsKey = iota
	layoutKey
	coefsKey
	originKey
)

var settingsKeys = map[string]settingsKey{
	"layout:":         layoutKey,
	"cst_coefs:":      coefsKey,
	"cylinderorigin:": originKey,
}

/*
SurfaceBlock is one [Surf] block of a settings file. Layout rows are
LE-X LE-Y LE-Z chord twist thick. Coefs maps a 1-based section number to
one or two coefficient rows, and may skip sections.
*/
type SurfaceBlock struct {
	Name            string
	Layout          [][6]float64
	Coefs           map[int][]cst.Coefficients
	CylinderOrigins [][2]float64
}

type Settings struct {
	Blocks map[string]*SurfaceBlock
	Names  []string // in file order
}

func ReadSettingsFile(fileName string) (st *Settings, err error) {
	var (
		file *os.File
	)
	if file, err = os.Open(fileName); err != nil {
		return nil, errors.Wrapf(err, "unable to open settings file %s", fileName)
	}
	defer file.Close()
	if st, err = ParseSettings(file); err != nil {
		return nil, errors.Wrapf(err, "settings file %s", fileName)
	}
	glog.V(1).Infof("read %d surface block(s) from %s: %v", len(st.Names), fileName, st.Names)
	return
}

// ParseSettings reads every [Surf] block. Lines outside a block and table
// lines that are not numeric, like column headers, are skipped.
func ParseSettings(r io.Reader) (st *Settings, err error) {
	const op = "readfiles.ParseSettings"
	var (
		scanner = bufio.NewScanner(r)
		block   *SurfaceBlock
		key     = noKey
		group   = 0
		lineNum = 0
	)
	st = &Settings{Blocks: make(map[string]*SurfaceBlock)}
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if fields[0] == "[Surf]" {
			if len(fields) < 2 {
				return nil, types.NewValidationError(op, "line %d: [Surf] needs a name", lineNum)
			}
			name := fields[1]
			if _, ok := st.Blocks[name]; ok {
				return nil, types.NewValidationError(op, "line %d: surface %s is defined twice", lineNum, name)
			}
			block = &SurfaceBlock{Name: name, Coefs: make(map[int][]cst.Coefficients)}
			st.Blocks[name] = block
			st.Names = append(st.Names, name)
			key, group = noKey, 0
			continue
		}
		if block == nil {
			continue
		}
		if k, ok := settingsKeys[strings.ToLower(fields[0])]; ok {
			key, group = k, 0
			continue
		}
		switch key {
		case layoutKey:
			if row, ok := parseRow(fields); ok && len(row) >= 6 {
				block.Layout = append(block.Layout, [6]float64(row[:6]))
			}
		case coefsKey:
			if strings.EqualFold(fields[0], "Section") {
				if len(fields) < 2 {
					return nil, types.NewValidationError(op, "line %d: Section needs a number", lineNum)
				}
				if group, err = strconv.Atoi(fields[1]); err != nil || group < 1 {
					return nil, types.NewValidationError(op, "line %d: bad section number %q", lineNum, fields[1])
				}
				if _, ok := block.Coefs[group]; ok {
					return nil, types.NewValidationError(op, "line %d: section %d of %s is given twice",
						lineNum, group, block.Name)
				}
				block.Coefs[group] = nil
				continue
			}
			row, ok := parseRow(fields)
			if !ok || group == 0 {
				continue
			}
			if len(block.Coefs[group]) == 2 {
				return nil, types.NewValidationError(op, "line %d: section %d of %s has more than two coefficient rows",
					lineNum, group, block.Name)
			}
			block.Coefs[group] = append(block.Coefs[group], row)
		case originKey:
			if row, ok := parseRow(fields); ok && len(row) >= 2 {
				block.CylinderOrigins = append(block.CylinderOrigins, [2]float64{row[0], row[1]})
			}
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "%s: line %d", op, lineNum)
	}
	return st, nil
}

func parseRow(fields []string) (row []float64, ok bool) {
	row = make([]float64, len(fields))
	for i, f := range fields {
		var err error
		if row[i], err = strconv.ParseFloat(f, 64); err != nil {
			return nil, false
		}
	}
	return row, true
}

/*
Surface builds the sections of block name. tails are absolute trailing edge
gaps, none for closed sections, one for every section or one per section,
stored on each section as a fraction of its chord. A section with a single
coefficient row gets it on the lower side when the name ends in -pressure,
otherwise on the upper side.
*/
func (st *Settings) Surface(name string, tails ...float64) (secs []section.Spec, err error) {
	const op = "readfiles.Surface"
	block, ok := st.Blocks[name]
	if !ok {
		return nil, types.NewValidationError(op, "no [Surf] block named %s, have %v", name, st.Names)
	}
	n := len(block.Layout)
	if n == 0 {
		return nil, types.NewValidationError(op, "surface %s has no Layout rows", name)
	}
	if len(block.CylinderOrigins) != 0 && len(block.CylinderOrigins) != n {
		return nil, types.NewValidationError(op, "surface %s has %d cylinder origins for %d sections",
			name, len(block.CylinderOrigins), n)
	}
	if len(tails) > 1 && len(tails) != n {
		return nil, types.NewValidationError(op, "surface %s has %d tails for %d sections", name, len(tails), n)
	}
	secs = make([]section.Spec, n)
	for i, row := range block.Layout {
		s := &secs[i]
		s.LeadingEdge = r3.Vec{X: row[0], Y: row[1], Z: row[2]}
		s.Chord, s.Twist, s.RelThickness = row[3], row[4], row[5]
		if s.Chord > 0 {
			s.Tail = tailAt(tails, i) / s.Chord
		}
		s.Frame = section.Planar{}
		if len(block.CylinderOrigins) != 0 {
			s.Frame = section.Cylinder{Origin: block.CylinderOrigins[i]}
		}
	}
	groups := make([]int, 0, len(block.Coefs))
	for k := range block.Coefs {
		groups = append(groups, k)
	}
	sort.Ints(groups)
	for _, k := range groups {
		rows := block.Coefs[k]
		if k > n {
			return nil, types.NewValidationError(op, "surface %s has coefficients for section %d of %d", name, k, n)
		}
		s := &secs[k-1]
		switch len(rows) {
		case 0:
			return nil, types.NewValidationError(op, "surface %s section %d has no coefficient rows", name, k)
		case 2:
			s.Upper, s.Lower = rows[0], rows[1]
		default:
			if strings.HasSuffix(name, PressureSuffix) {
				s.Lower = rows[0]
			} else {
				s.Upper = rows[0]
			}
		}
	}
	glog.V(1).Infof("%s: surface %s, %d sections, %d coefficient groups", op, name, n, len(groups))
	return
}

func tailAt(tails []float64, i int) float64 {
	switch len(tails) {
	case 0:
		return 0
	case 1:
		return tails[0]
	}
	return tails[i]
}

/*
Blade merges the blocks name-suction and name-pressure. The layout and the
upper side come from the suction block, the lower side from the pressure
block, each possibly given on a different subset of sections.
*/
func (st *Settings) Blade(name string, tails ...float64) (secs []section.Spec, err error) {
	const op = "readfiles.Blade"
	var (
		pressure []section.Spec
	)
	if secs, err = st.Surface(name+SuctionSuffix, tails...); err != nil {
		return
	}
	if pressure, err = st.Surface(name+PressureSuffix, tails...); err != nil {
		return
	}
	if len(pressure) != len(secs) {
		return nil, types.NewValidationError(op, "blade %s has %d suction and %d pressure sections",
			name, len(secs), len(pressure))
	}
	for i := range secs {
		secs[i].Lower = pressure[i].Lower
	}
	return
}

// ReadSettings parses r and builds surface name, or the blade with that
// name when there is no block of that name
func ReadSettings(r io.Reader, name string, tails ...float64) (secs []section.Spec, err error) {
	var (
		st *Settings
	)
	if st, err = ParseSettings(r); err != nil {
		return
	}
	return st.Sections(name, tails...)
}

func (st *Settings) Sections(name string, tails ...float64) (secs []section.Spec, err error) {
	if _, ok := st.Blocks[name]; ok {
		return st.Surface(name, tails...)
	}
	if _, ok := st.Blocks[name+SuctionSuffix]; ok {
		return st.Blade(name, tails...)
	}
	return nil, types.NewValidationError("readfiles.Sections", "no surface or blade named %s, have %v", name, st.Names)
}
