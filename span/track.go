package span

import (
	"math"
	"sort"

	"github.com/notargets/gocst/cst"
	"github.com/notargets/gocst/types"
	"github.com/notargets/gocst/utils"
)

type BlendType uint8

const (
	LinearBlend BlendType = iota
	// SmoothBlend eases between sections with a half cosine ratio
	SmoothBlend
)

func (bt BlendType) ratio(t float64) float64 {
	if bt == SmoothBlend {
		return 0.5 * (1 - math.Cos(math.Pi*t))
	}
	return t
}

/*
Track is the sparse set of sections that define one side's coefficients,
keyed by span fraction in ascending order. Lookups between keys blend the
two neighboring entries, lookups beyond the ends take the end entry.
*/
type Track struct {
	Keys    []float64
	Vectors []cst.Coefficients
	// Sections holds the section index each entry came from
	Sections []int
}

func (tr *Track) Put(fraction float64, section int, coef cst.Coefficients) {
	if n := len(tr.Keys); n > 0 && !(fraction > tr.Keys[n-1]) {
		panic("track keys must be added in increasing order")
	}
	tr.Keys = append(tr.Keys, fraction)
	tr.Vectors = append(tr.Vectors, coef.Copy())
	tr.Sections = append(tr.Sections, section)
}

func (tr *Track) Len() int {
	return len(tr.Keys)
}

// Check rejects neighbors whose vectors cannot be blended element-wise
func (tr *Track) Check(op, side string) error {
	if tr.Len() == 0 {
		return types.NewValidationError(op, "no section defines %s coefficients", side)
	}
	for i := 1; i < tr.Len(); i++ {
		if len(tr.Vectors[i]) != len(tr.Vectors[i-1]) {
			return types.NewValidationError(op,
				"%s coefficients of sections %d and %d have lengths %d and %d",
				side, tr.Sections[i-1], tr.Sections[i], len(tr.Vectors[i-1]), len(tr.Vectors[i]))
		}
	}
	return nil
}

func (tr *Track) Lookup(fraction float64, bt BlendType) (coef cst.Coefficients) {
	var (
		n = tr.Len()
	)
	i := sort.SearchFloat64s(tr.Keys, fraction)
	switch {
	case i < n && math.Abs(tr.Keys[i]-fraction) <= utils.FRACTOL:
		return tr.Vectors[i].Copy()
	case i > 0 && math.Abs(tr.Keys[i-1]-fraction) <= utils.FRACTOL:
		return tr.Vectors[i-1].Copy()
	case i == 0:
		return tr.Vectors[0].Copy()
	case i == n:
		return tr.Vectors[n-1].Copy()
	}
	var (
		a, b = tr.Vectors[i-1], tr.Vectors[i]
		r    = bt.ratio((fraction - tr.Keys[i-1]) / (tr.Keys[i] - tr.Keys[i-1]))
	)
	coef = make(cst.Coefficients, len(a))
	for k := range coef {
		coef[k] = utils.Lerp(a[k], b[k], r)
	}
	return
}
