package span

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/gocst/types"
	"github.com/notargets/gocst/utils"
)

type Spacing uint8

const (
	Uniform Spacing = iota
	// BySection puts a station on every section and fills each interval in
	// proportion to its length
	BySection
)

func NewSpacing(label string) (sp Spacing, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "uniform":
		sp = Uniform
	case "bysection", "section", "sections":
		sp = BySection
	default:
		err = fmt.Errorf("unknown span spacing %q", label)
	}
	return
}

func (sp Spacing) String() string {
	switch sp {
	case Uniform:
		return "Uniform"
	case BySection:
		return "BySection"
	}
	return fmt.Sprintf("Spacing(%d)", uint8(sp))
}

// Fractions returns ns station fractions for sections at positions
func Fractions(ns int, sp Spacing, positions []float64) (fr []float64, err error) {
	if ns < 2 {
		err = types.NewValidationError("span.Fractions", "need at least 2 stations, have %d", ns)
		return
	}
	switch sp {
	case Uniform:
		fr = utils.IndexFractions(ns)
	case BySection:
		fr, err = bySection(ns, positions)
	default:
		err = types.NewValidationError("span.Fractions", "unknown spacing %v", sp)
	}
	return
}

func bySection(ns int, pos []float64) (fr []float64, err error) {
	var (
		nseg   = len(pos) - 1
		nIntvl = ns - 1
	)
	if nseg < 1 || nIntvl < nseg {
		err = types.NewValidationError("span.Fractions",
			"%d stations cannot place one on each of %d sections", ns, len(pos))
		return
	}
	// at least one interval per segment, the rest in proportion to length
	var (
		counts = make([]int, nseg)
		share  = make([]float64, nseg)
		used   int
	)
	for k := 0; k < nseg; k++ {
		share[k] = float64(nIntvl) * (pos[k+1] - pos[k]) / (pos[nseg] - pos[0])
		counts[k] = max(1, int(math.Floor(share[k])))
		used += counts[k]
	}
	for used != nIntvl {
		var (
			best  = -1
			score = math.Inf(-1)
		)
		for k := 0; k < nseg; k++ {
			d := share[k] - float64(counts[k])
			if used > nIntvl {
				d = -d
				if counts[k] == 1 {
					continue
				}
			}
			if d > score {
				best, score = k, d
			}
		}
		if used < nIntvl {
			counts[best]++
			used++
		} else {
			counts[best]--
			used--
		}
	}
	fr = make([]float64, 0, ns)
	for k := 0; k < nseg; k++ {
		for m := 0; m < counts[k]; m++ {
			if m == 0 {
				fr = append(fr, pos[k])
				continue
			}
			fr = append(fr, pos[k]+(pos[k+1]-pos[k])*float64(m)/float64(counts[k]))
		}
	}
	fr = append(fr, pos[nseg])
	return
}

// CheckFractions validates a caller supplied station sequence
func CheckFractions(fr []float64) error {
	const op = "span.CheckFractions"
	switch {
	case len(fr) < 2:
		return types.NewValidationError(op, "need at least 2 stations, have %d", len(fr))
	case fr[0] != 0 || fr[len(fr)-1] != 1:
		return types.NewValidationError(op, "stations must run from 0 to 1, have %g to %g", fr[0], fr[len(fr)-1])
	}
	if bad := utils.StrictlyIncreasing(fr); bad >= 0 {
		return types.NewValidationError(op, "station %d at %g does not follow %g", bad, fr[bad], fr[bad-1])
	}
	return nil
}
