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

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/notargets/gocst/cst"
	"github.com/notargets/gocst/graphics"
	"github.com/notargets/gocst/readfiles"
	"github.com/notargets/gocst/section"
	"github.com/notargets/gocst/types"
	"github.com/notargets/gocst/writefiles"
)

var foilConf = viper.New()

type FoilParameters struct {
	Upper, Lower []float64
	Nn           int
	Distribution string
	RelThickness float64
	Tail         float64
	Output       string
	Info         bool
	Plot         string
	// FitFile holds x, upper y, lower y rows fitted with FitOrder
	// coefficients per side in place of Upper and Lower
	FitFile  string
	FitOrder int
	Bumps    []cst.Bump
}

// FoilCmd represents the foil command
var FoilCmd = &cobra.Command{
	Use:   "foil",
	Short: "Generate and check a single unit chord CST foil",
	Long: `
Evaluates a foil from upper and lower CST coefficients, reports its thickness,
leading edge radius and validity rules, and optionally writes and plots it.

gocst foil --upper 0.18,0.15,0.2,0.18 --lower -0.15,-0.1,-0.12,-0.05 -o foil.dat
gocst foil --fit points.dat --order 6 --bump-upper 0.6,0.004,0.2`,
	Run: func(cmd *cobra.Command, args []string) {
		fp := &FoilParameters{
			Nn:           foilConf.GetInt("nn"),
			Distribution: foilConf.GetString("distribution"),
			RelThickness: foilConf.GetFloat64("thick"),
			Tail:         foilConf.GetFloat64("tail"),
			Output:       foilConf.GetString("output"),
			Info:         foilConf.GetBool("info"),
			Plot:         foilConf.GetString("plot"),
			FitFile:      foilConf.GetString("fit"),
			FitOrder:     foilConf.GetInt("order"),
		}
		fp.Upper, fp.Lower = coefficientFlags(cmd.Flags())
		bumps, err := bumpFlags(cmd.Flags(), foilConf.GetBool("hicks-henne"))
		if err == nil {
			fp.Bumps = bumps
			_, err = RunFoil(fp, os.Stdout)
		}
		if err != nil {
			fmt.Printf("error: %+v\n", err)
			os.Exit(1)
		}
	},
}

// coefficientFlags reads --upper and --lower, which viper cannot return as slices
func coefficientFlags(fs *pflag.FlagSet) (upper, lower []float64) {
	upper, _ = fs.GetFloat64Slice("upper")
	lower, _ = fs.GetFloat64Slice("lower")
	return
}

// bumpFlags reads --bump-upper and --bump-lower as center, height, span triples
func bumpFlags(fs *pflag.FlagSet, hicksHenne bool) (bumps []cst.Bump, err error) {
	kind := cst.Gaussian
	if hicksHenne {
		kind = cst.HicksHenne
	}
	for _, side := range []string{"bump-upper", "bump-lower"} {
		v, _ := fs.GetFloat64Slice(side)
		if len(v)%3 != 0 {
			return nil, types.NewValidationError("cmd.bumpFlags", "--%s needs center,height,span triples, have %d values",
				side, len(v))
		}
		for k := 0; k < len(v); k += 3 {
			bumps = append(bumps, cst.Bump{
				Upper:  side == "bump-upper",
				Center: v[k], Height: v[k+1], Span: v[k+2],
				Kind: kind,
			})
		}
	}
	return
}

func init() {
	rootCmd.AddCommand(FoilCmd)
	FoilCmd.Flags().Float64Slice("upper", nil, "upper side CST coefficients")
	FoilCmd.Flags().Float64Slice("lower", nil, "lower side CST coefficients")
	FoilCmd.Flags().IntP("nn", "n", 101, "points per side")
	FoilCmd.Flags().String("distribution", "clustercos", "chordwise points: clustercos, halfcosine, uniform")
	FoilCmd.Flags().Float64("thick", 0, "relative maximum thickness, 0 keeps the CST thickness")
	FoilCmd.Flags().Float64("tail", 0, "trailing edge gap over chord")
	FoilCmd.Flags().StringP("output", "o", "", "foil file to write")
	FoilCmd.Flags().Bool("info", false, "add curvature, thickness and camber columns to the foil file")
	FoilCmd.Flags().String("plot", "", "image file to plot the foil into")
	FoilCmd.Flags().String("fit", "", "file of x, upper y, lower y rows to fit coefficients to")
	FoilCmd.Flags().Int("order", 8, "coefficients per side for --fit")
	FoilCmd.Flags().Float64Slice("bump-upper", nil, "center,height,span of bumps added to the upper side")
	FoilCmd.Flags().Float64Slice("bump-lower", nil, "center,height,span of bumps added to the lower side")
	FoilCmd.Flags().Bool("hicks-henne", false, "use Hicks-Henne bumps instead of Gaussian ones")
	_ = foilConf.BindPFlags(FoilCmd.Flags())
}

// RunFoil generates the foil and prints its diagnostics to w. With a fit
// file the fitted coefficients replace Upper and Lower and are printed too.
func RunFoil(fp *FoilParameters, w io.Writer) (f *section.Foil, err error) {
	var (
		dt cst.DistributionType
		v  cst.Violations
	)
	if len(fp.FitFile) != 0 {
		if err = fitFoil(fp, w); err != nil {
			return
		}
	}
	s := section.Spec{
		Chord:        1,
		RelThickness: fp.RelThickness,
		Tail:         fp.Tail,
		Upper:        fp.Upper,
		Lower:        fp.Lower,
	}
	if len(fp.Bumps) != 0 {
		s.Refine = &section.Refine{Bumps: fp.Bumps}
	}
	if err = s.Validate("cmd.RunFoil"); err != nil {
		return
	}
	if dt, err = cst.NewDistributionType(fp.Distribution); err != nil {
		return
	}
	if f, err = section.Generate(s, fp.Nn, dt); err != nil {
		return
	}
	if v, err = f.Check(); err != nil {
		return
	}
	xMax, tMax := cst.MaxThickness(s.Upper, s.Lower)
	fmt.Fprintf(w, "%8.5f\t\t= Max Thickness (grid)\n", f.ThicknessMax)
	fmt.Fprintf(w, "%8.5f at %6.4f\t= Max Thickness (CST curves)\n", tMax, xMax)
	fmt.Fprintf(w, "%8.5f\t\t= Leading Edge Radius\n", f.LeadingEdgeRadius)
	fmt.Fprintf(w, "[%v]\t\t= Rules\n", v)
	if len(fp.Output) != 0 {
		if err = writefiles.WriteFile(fp.Output, func(w io.Writer) error {
			return writefiles.WriteFoils(w, []*section.Foil{f}, fp.Info)
		}); err != nil {
			return
		}
	}
	if len(fp.Plot) != 0 {
		p, err := graphics.FoilPlot("foil", []*section.Foil{f}, []string{"foil"})
		if err != nil {
			return nil, err
		}
		if err = graphics.Save(p, fp.Plot); err != nil {
			return nil, errors.Wrap(err, "cmd.RunFoil")
		}
	}
	return
}

func fitFoil(fp *FoilParameters, w io.Writer) (err error) {
	var (
		x, yu, yl []float64
		cu, cl    cst.Coefficients
	)
	if x, yu, yl, err = readfiles.ReadFoilPointsFile(fp.FitFile); err != nil {
		return
	}
	if cu, cl, err = cst.FitFoil(x, yu, yl, fp.FitOrder); err != nil {
		return errors.Wrapf(err, "cmd.RunFoil: fitting %s", fp.FitFile)
	}
	fp.Upper, fp.Lower = cu, cl
	fmt.Fprintf(w, "%v\t= Fitted Upper\n", []float64(cu))
	fmt.Fprintf(w, "%v\t= Fitted Lower\n", []float64(cl))
	return
}
