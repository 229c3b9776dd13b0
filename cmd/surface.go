/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gocst/InputParameters"
	"github.com/notargets/gocst/graphics"
	"github.com/notargets/gocst/readfiles"
	"github.com/notargets/gocst/section"
	"github.com/notargets/gocst/surface"
	"github.com/notargets/gocst/utils"
	"github.com/notargets/gocst/writefiles"
)

var surfaceConf = viper.New()

const exampleCaseFile = `
########################################
Title: "Test Wing"
SettingsFile: wing.txt
Surfaces: [Wing]
Nn: 101
Ns: 101
Tail: 0.004
Split: false
Geometry: linear # or spline
Blend: smooth    # or linear
Bends:
  - Start: 20
    End: 80
    Leaders: [[0.5, 0.0, 2.0]] # fraction, dx, dy
Smooth:
  - Start: 0
    End: 100
Output:
  Tecplot: true
  Plot3D: false
########################################
`

// SurfaceCmd represents the surface command
var SurfaceCmd = &cobra.Command{
	Use:   "surface",
	Short: "Loft CST sections from a settings file into surface grids",
	Long: `
Reads the [Surf] blocks named in a YAML case file, lofts each into a grid and
applies the bends, rotations, smoothing and flips of the case in that order.

gocst surface -I case.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err  error
			rp   *InputParameters.RunParameters
			stop stopper
		)
		fmt.Println("surface called")
		if stop, err = startProfile(rootConf); err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		defer stop.Stop()
		if rp, err = processSurfaceInput(surfaceConf); err != nil {
			fmt.Printf("error: %v\n", err)
			fmt.Printf("Example File:%s\n", exampleCaseFile)
			os.Exit(1)
		}
		rp.Print()
		if _, err = RunSurfaces(rp); err != nil {
			fmt.Printf("error: %+v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(SurfaceCmd)
	SurfaceCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML case file naming the settings file, surfaces and operations")
	SurfaceCmd.Flags().StringP("settingsFile", "S", "", "settings file, overrides SettingsFile of the case")
	SurfaceCmd.Flags().StringSlice("surfaces", nil, "surfaces to build, overrides Surfaces of the case")
	SurfaceCmd.Flags().StringP("outputDirectory", "o", "", "directory for grid files, overrides Output.Directory of the case")
	_ = surfaceConf.BindPFlags(SurfaceCmd.Flags())
}

func processSurfaceInput(conf *viper.Viper) (rp *InputParameters.RunParameters, err error) {
	var (
		data   []byte
		icFile = conf.GetString("inputConditionsFile")
	)
	if len(icFile) == 0 {
		return nil, fmt.Errorf("must supply a case file (-I, --inputConditionsFile) in YAML format")
	}
	if data, err = os.ReadFile(icFile); err != nil {
		return nil, errors.Wrapf(err, "unable to read case file %s", icFile)
	}
	rp = &InputParameters.RunParameters{}
	if err = rp.Parse(data); err != nil {
		return nil, errors.Wrapf(err, "parsing case file %s", icFile)
	}
	if sf := conf.GetString("settingsFile"); len(sf) != 0 {
		rp.SettingsFile = sf
	} else if len(rp.SettingsFile) != 0 && !filepath.IsAbs(rp.SettingsFile) {
		// settings are found next to the case file
		rp.SettingsFile = filepath.Join(filepath.Dir(icFile), rp.SettingsFile)
	}
	if names := conf.GetStringSlice("surfaces"); len(names) != 0 {
		rp.Surfaces = names
	}
	if dir := conf.GetString("outputDirectory"); len(dir) != 0 {
		rp.Output.Directory = dir
	}
	return
}

/*
RunSurfaces builds every surface of the case: Geo, then bends, rotations,
smoothing and flips, then the requested output files.
*/
func RunSurfaces(rp *InputParameters.RunParameters) (surfs []*surface.Surface, err error) {
	var (
		st   *readfiles.Settings
		opts surface.Options
	)
	if len(rp.SettingsFile) == 0 {
		return nil, fmt.Errorf("no settings file given")
	}
	if len(rp.Surfaces) == 0 {
		return nil, fmt.Errorf("no surfaces named in case %q", rp.Title)
	}
	if st, err = readfiles.ReadSettingsFile(rp.SettingsFile); err != nil {
		return
	}
	if opts, err = rp.SurfaceOptions(); err != nil {
		return
	}
	for _, name := range rp.Surfaces {
		var sf *surface.Surface
		start := time.Now()
		if sf, err = buildSurface(rp, st, name, opts); err != nil {
			return nil, errors.Wrapf(err, "surface %s", name)
		}
		if err = writeOutputs(rp, sf); err != nil {
			return nil, errors.Wrapf(err, "surface %s", name)
		}
		fmt.Printf("Surface %s done in %v\n", name, time.Since(start))
		glog.V(1).Infof("surface %s: %s", name, utils.GetMemUsage())
		surfs = append(surfs, sf)
	}
	return
}

func buildSurface(rp *InputParameters.RunParameters, st *readfiles.Settings, name string,
	opts surface.Options) (sf *surface.Surface, err error) {
	secs, err := st.Sections(name, rp.Tail...)
	if err != nil {
		return
	}
	sf = surface.New(name, secs, opts)
	if len(rp.AddSections) != 0 {
		if err = sf.AddSections(rp.AddSections); err != nil {
			return
		}
	}
	if err = sf.Geo(rp.Split); err != nil {
		return
	}
	fmt.Printf("Built %s: %d sections\n", name, sf.NumSections())
	for _, bp := range rp.Bends {
		if err = sf.Bend(bp.BendParams()); err != nil {
			return
		}
	}
	for _, r := range rp.Rotations {
		axis, origin := r.Vectors()
		if err = sf.Rotate(r.Angle, axis, origin); err != nil {
			return
		}
	}
	for _, sp := range rp.Smooth {
		so, err := sp.Options()
		if err != nil {
			return nil, err
		}
		if err = sf.Smooth(sp.Start, sp.End, so); err != nil {
			return nil, err
		}
	}
	if len(strings.TrimSpace(rp.Flip)) != 0 {
		if err = sf.Flip(rp.Flip); err != nil {
			return
		}
	}
	if info, err := sf.StationInfo(); err == nil {
		for j, in := range info {
			if !in.Violations.Valid() {
				glog.Warningf("surface %s: station %d at fraction %.4f breaks foil rules: %v",
					name, j, in.Fraction, in.Violations)
			}
		}
	}
	return
}

func writeOutputs(rp *InputParameters.RunParameters, sf *surface.Surface) (err error) {
	var (
		out  = rp.Output
		base = filepath.Join(out.Directory, sf.Name)
	)
	if out.Tecplot || out.Plot3D {
		g, err := sf.Grid()
		if err != nil {
			return err
		}
		if out.Tecplot {
			if err = writefiles.WriteFile(base+".dat", func(w io.Writer) error {
				return writefiles.WriteTecplot(w, g)
			}); err != nil {
				return err
			}
		}
		if out.Plot3D {
			if err = writefiles.WriteFile(base+".grd", func(w io.Writer) error {
				return writefiles.WritePlot3D(w, g)
			}); err != nil {
				return err
			}
		}
	}
	if out.Foil || out.Plot {
		foils, err := sf.SectionFoils()
		if err != nil {
			return err
		}
		if out.Foil {
			if err = writefiles.WriteFile(base+"-foils.dat", func(w io.Writer) error {
				return writefiles.WriteFoils(w, foils, out.FoilInfo)
			}); err != nil {
				return err
			}
		}
		if out.Plot {
			if err = plotSurface(sf, foils, base); err != nil {
				return err
			}
		}
	}
	return
}

func plotSurface(sf *surface.Surface, foils []*section.Foil, base string) (err error) {
	p, err := graphics.FoilPlot(sf.Name+" sections", foils, nil)
	if err != nil {
		return
	}
	if err = graphics.Save(p, base+"-foils.png"); err != nil {
		return
	}
	le, err := sf.LeadingEdges()
	if err != nil {
		return
	}
	if p, err = graphics.LeadingEdgePlot(sf.Name+" leading edge", le, graphics.PlaneZX); err != nil {
		return
	}
	return graphics.Save(p, base+"-le.png")
}
