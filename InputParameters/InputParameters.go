package InputParameters

import (
	"encoding/json"
	"fmt"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gocst/cst"
	"github.com/notargets/gocst/interpolate"
	"github.com/notargets/gocst/smoother"
	"github.com/notargets/gocst/span"
	"github.com/notargets/gocst/surface"
)

// Parameters obtained from the YAML case file
type RunParameters struct {
	Title          string             `json:"Title"`
	SettingsFile   string             `json:"SettingsFile"`
	Surfaces       []string           `json:"Surfaces"`
	Nn             int                `json:"Nn"`
	Ns             int                `json:"Ns"`
	Tail           Tails              `json:"Tail"`
	Split          bool               `json:"Split"`
	Distribution   string             `json:"Distribution"` // clustercos, halfcosine, uniform
	Spacing        string             `json:"Spacing"`      // uniform, bysection
	Geometry       string             `json:"Geometry"`     // linear, spline
	Blend          string             `json:"Blend"`        // linear (default), smooth
	ProjectedChord bool               `json:"ProjectedChord"`
	ByLeadingEdge  bool               `json:"ByLeadingEdge"`
	AddSections    []float64          `json:"AddSections"`
	Bends          []BendParameters   `json:"Bends"`
	Rotations      []RotateParameters `json:"Rotations"`
	Smooth         []SmoothParameters `json:"Smooth"`
	Flip           string             `json:"Flip"`
	Output         OutputParameters   `json:"Output"`
	ParallelDegree int                `json:"ParallelDegree"`
}

/*
Tails is the absolute trailing edge gap, either one value for every section
or one value per section:

	Tail: 0.004
	Tail: [0.006, 0.005, 0.004]
*/
type Tails []float64

func (t *Tails) UnmarshalJSON(data []byte) (err error) {
	var (
		scalar float64
		list   []float64
	)
	if string(data) == "null" {
		*t = nil
		return
	}
	if err = json.Unmarshal(data, &scalar); err == nil {
		*t = Tails{scalar}
		return
	}
	if err = json.Unmarshal(data, &list); err != nil {
		return errors.Wrapf(err, "Tail must be a number or a list of numbers, have %s", data)
	}
	*t = list
	return
}

type BendParameters struct {
	Start   int          `json:"Start"`
	End     int          `json:"End"`
	Leaders [][3]float64 `json:"Leaders"` // fraction, dx, dy
	Kx      [2]float64   `json:"Kx"`
	Ky      [2]float64   `json:"Ky"`
	// FollowTangent keeps the moved stations normal to the bent locus
	FollowTangent bool `json:"FollowTangent"`
}

type RotateParameters struct {
	Angle  float64    `json:"Angle"` // degrees
	Axis   [3]float64 `json:"Axis"`
	Origin [3]float64 `json:"Origin"`
}

type SmoothParameters struct {
	Start      int     `json:"Start"`
	End        int     `json:"End"`
	Kernel     string  `json:"Kernel"` // cubic, laplacian
	Iterations int     `json:"Iterations"`
	Relaxation float64 `json:"Relaxation"`
}

type OutputParameters struct {
	Directory string `json:"Directory"`
	Tecplot   bool   `json:"Tecplot"`
	Plot3D    bool   `json:"Plot3D"`
	Foil      bool   `json:"Foil"`
	FoilInfo  bool   `json:"FoilInfo"`
	Plot      bool   `json:"Plot"`
}

func (rp *RunParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, rp); err != nil {
		return
	}
	def := surface.DefaultOptions()
	if rp.Nn == 0 {
		rp.Nn = def.Nn
	}
	if rp.Ns == 0 {
		rp.Ns = def.Ns
	}
	if len(rp.Blend) == 0 {
		rp.Blend = "linear"
	}
	if len(rp.Output.Directory) == 0 {
		rp.Output.Directory = "."
	}
	return
}

func (rp *RunParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", rp.Title)
	fmt.Printf("[%s]\t\t= Settings File\n", rp.SettingsFile)
	fmt.Printf("%v\t\t= Surfaces\n", rp.Surfaces)
	fmt.Printf("[%d x %d]\t\t= Points per side x Stations\n", rp.Nn, rp.Ns)
	fmt.Printf("%v\t\t= Tail\n", []float64(rp.Tail))
	fmt.Printf("[%v]\t\t\t= Split\n", rp.Split)
	fmt.Printf("[%s/%s]\t= Geometry/Blend\n", rp.Geometry, rp.Blend)
	for i, b := range rp.Bends {
		fmt.Printf("Bends[%d] = stations %d..%d, leaders %v\n", i, b.Start, b.End, b.Leaders)
	}
	for i, r := range rp.Rotations {
		fmt.Printf("Rotations[%d] = %g deg about %v through %v\n", i, r.Angle, r.Axis, r.Origin)
	}
	for i, s := range rp.Smooth {
		fmt.Printf("Smooth[%d] = stations %d..%d, kernel %s\n", i, s.Start, s.End, s.Kernel)
	}
	if len(rp.Flip) != 0 {
		fmt.Printf("[%s]\t\t\t= Flip\n", rp.Flip)
	}
}

func (rp *RunParameters) SurfaceOptions() (opts surface.Options, err error) {
	opts = surface.DefaultOptions()
	opts.Nn, opts.Ns = rp.Nn, rp.Ns
	opts.ProjectedChord = rp.ProjectedChord
	opts.ByLeadingEdge = rp.ByLeadingEdge
	opts.ParallelDegree = rp.ParallelDegree
	if opts.Distribution, err = cst.NewDistributionType(rp.Distribution); err != nil {
		return
	}
	if opts.Spacing, err = span.NewSpacing(rp.Spacing); err != nil {
		return
	}
	if opts.Geometry, err = span.NewGeometryType(rp.Geometry); err != nil {
		return
	}
	if opts.Blend, err = span.NewBlendType(rp.Blend); err != nil {
		return
	}
	return
}

func (bp BendParameters) BendParams() (p surface.BendParams) {
	p = surface.BendParams{
		Start:         bp.Start,
		End:           bp.End,
		Kx:            bp.Kx,
		Ky:            bp.Ky,
		FollowTangent: bp.FollowTangent,
	}
	for _, l := range bp.Leaders {
		p.Leaders = append(p.Leaders, interpolate.LeaderPoint{Fraction: l[0], DX: l[1], DY: l[2]})
	}
	return
}

func (rp RotateParameters) Vectors() (axis, origin r3.Vec) {
	return r3.Vec{X: rp.Axis[0], Y: rp.Axis[1], Z: rp.Axis[2]},
		r3.Vec{X: rp.Origin[0], Y: rp.Origin[1], Z: rp.Origin[2]}
}

func (sp SmoothParameters) Options() (opts smoother.Options, err error) {
	opts = smoother.DefaultOptions()
	if opts.Kernel, err = smoother.NewKernel(sp.Kernel); err != nil {
		return
	}
	if sp.Iterations > 0 {
		opts.Iterations = sp.Iterations
	}
	if sp.Relaxation > 0 {
		opts.Relaxation = sp.Relaxation
	}
	return
}
