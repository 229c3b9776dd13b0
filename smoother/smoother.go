package smoother

import (
	"fmt"
	"strings"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gocst/types"
)

type Kernel uint8

const (
	// CubicFit replaces the range with a least squares cubic in span index
	CubicFit Kernel = iota
	// Laplacian iterates a three point average with fixed ends
	Laplacian
)

func NewKernel(label string) (k Kernel, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "cubic", "cubicfit":
		k = CubicFit
	case "laplacian", "average":
		k = Laplacian
	default:
		err = fmt.Errorf("unknown smoothing kernel %q", label)
	}
	return
}

func (k Kernel) String() string {
	switch k {
	case CubicFit:
		return "CubicFit"
	case Laplacian:
		return "Laplacian"
	}
	return fmt.Sprintf("Kernel(%d)", uint8(k))
}

type Options struct {
	Kernel Kernel
	// Iterations and Relaxation apply to the Laplacian kernel
	Iterations int
	Relaxation float64
}

func DefaultOptions() Options {
	return Options{Kernel: CubicFit, Iterations: 20, Relaxation: 0.5}
}

/*
Smooth refits stations start..end of the sheet along the span, separately
for X, Y and Z at each chordwise point. Stations start and end are never
written, nor is anything outside the range.
*/
func Smooth(s *types.Sheet, start, end int, opts Options) (err error) {
	if start < 0 || end > s.Ns-1 || start >= end {
		return types.NewValidationError("smoother.Smooth",
			"range [%d, %d] is not inside [0, %d] with start before end", start, end, s.Ns-1)
	}
	var (
		m = end - start + 1
		B *mat.Dense
	)
	if m < 3 {
		return
	}
	B = gather(s, start, m)
	switch opts.Kernel {
	case CubicFit:
		if B, err = cubicFit(B); err != nil {
			return
		}
	case Laplacian:
		if opts.Relaxation <= 0 || opts.Relaxation > 1 {
			return types.NewValidationError("smoother.Smooth", "relaxation must be in (0,1], have %g", opts.Relaxation)
		}
		B = laplacian(B, opts.Iterations, opts.Relaxation)
	default:
		return types.NewValidationError("smoother.Smooth", "unknown kernel %v", opts.Kernel)
	}
	scatter(s, start, B)
	return
}

// gather lays stations start..start+m-1 out as rows, X, Y, Z channel blocks as columns
func gather(s *types.Sheet, start, m int) (B *mat.Dense) {
	B = mat.NewDense(m, 3*s.Np, nil)
	for k := 0; k < m; k++ {
		j := start + k
		row := B.RawRowView(k)
		copy(row[0:s.Np], s.X[j*s.Np:(j+1)*s.Np])
		copy(row[s.Np:2*s.Np], s.Y[j*s.Np:(j+1)*s.Np])
		copy(row[2*s.Np:], s.Z[j*s.Np:(j+1)*s.Np])
	}
	return
}

// scatter writes back interior rows only
func scatter(s *types.Sheet, start int, B *mat.Dense) {
	m, _ := B.Dims()
	for k := 1; k < m-1; k++ {
		j := start + k
		row := B.RawRowView(k)
		copy(s.X[j*s.Np:(j+1)*s.Np], row[0:s.Np])
		copy(s.Y[j*s.Np:(j+1)*s.Np], row[s.Np:2*s.Np])
		copy(s.Z[j*s.Np:(j+1)*s.Np], row[2*s.Np:])
	}
}

/*
cubicFit fits a polynomial of degree min(3, m-2) in the normalized index
t = k/(m-1) to every column at once, then adds the linear ramp that takes
the fit back through the first and last rows.
*/
func cubicFit(B *mat.Dense) (F *mat.Dense, err error) {
	var (
		m, nc = B.Dims()
		deg   = min(3, m-2)
		A     = mat.NewDense(m, deg+1, nil)
		coef  mat.Dense
	)
	for k := 0; k < m; k++ {
		t := float64(k) / float64(m-1)
		p := 1.
		for d := 0; d <= deg; d++ {
			A.Set(k, d, p)
			p *= t
		}
	}
	if err = coef.Solve(A, B); err != nil {
		return nil, types.NewNumericDegeneracy("smoother.cubicFit", "least squares solve failed: %v", err)
	}
	F = mat.NewDense(m, nc, nil)
	F.Mul(A, &coef)
	for c := 0; c < nc; c++ {
		var (
			e0 = B.At(0, c) - F.At(0, c)
			e1 = B.At(m-1, c) - F.At(m-1, c)
		)
		for k := 0; k < m; k++ {
			t := float64(k) / float64(m-1)
			F.Set(k, c, F.At(k, c)+(1-t)*e0+t*e1)
		}
	}
	return
}

// laplacian applies x <- x + w/2 (x[k-1] - 2x[k] + x[k+1]) to interior rows
func laplacian(B *mat.Dense, iterations int, w float64) (X *mat.Dense) {
	var (
		m, nc = B.Dims()
		dok   = sparse.NewDOK(m, m)
	)
	dok.Set(0, 0, 1)
	dok.Set(m-1, m-1, 1)
	for k := 1; k < m-1; k++ {
		dok.Set(k, k-1, 0.5*w)
		dok.Set(k, k, 1-w)
		dok.Set(k, k+1, 0.5*w)
	}
	S := dok.ToCSR()
	X = mat.DenseCopyOf(B)
	next := mat.NewDense(m, nc, nil)
	for it := 0; it < iterations; it++ {
		next.Zero()
		S.DoNonZero(func(i, j int, v float64) {
			dst, src := next.RawRowView(i), X.RawRowView(j)
			for c := range dst {
				dst[c] += v * src[c]
			}
		})
		X, next = next, X
	}
	return
}
