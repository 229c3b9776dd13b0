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
	goflag "flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	rootConf = viper.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gocst",
	Short: "CST section and lofted surface generator",
	Long: `
Builds airfoil sections from Class-Shape-Transformation coefficients and lofts
them into structured surface grids, with bending, rotation and smoothing of the
span.

gocst surface -I case.yaml
gocst foil --upper 0.18,0.15,0.2 --lower -0.15,-0.1,-0.12`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.config/gocst/conf.yaml)")
	rootCmd.PersistentFlags().String("profile_mode", "",
		"Enable profiling mode, one of [cpu, mem, mutex, block]")
	rootCmd.PersistentFlags().Int("block_rate", 0,
		"Block profiling rate. Must be used along with block profile_mode")
	_ = rootConf.BindPFlags(rootCmd.PersistentFlags())
	// glog flags, like -v and -logtostderr
	rootCmd.PersistentFlags().AddGoFlagSet(goflag.CommandLine)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		rootConf.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		rootConf.AddConfigPath(filepath.Join(home, ".config", "gocst"))
		rootConf.SetConfigName("conf")
	}
	rootConf.SetEnvPrefix("GOCST")
	rootConf.AutomaticEnv()
	if err := rootConf.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", rootConf.ConfigFileUsed())
	}
	for _, conf := range []*viper.Viper{surfaceConf, foilConf} {
		conf.SetEnvPrefix("GOCST")
		conf.AutomaticEnv()
		if len(rootConf.ConfigFileUsed()) != 0 {
			conf.SetConfigFile(rootConf.ConfigFileUsed())
			_ = conf.ReadInConfig()
		}
	}
}

type stopper interface {
	Stop()
}

type noOpStopper struct{}

func (noOpStopper) Stop() {}

func startProfile(conf *viper.Viper) (s stopper, err error) {
	switch mode := conf.GetString("profile_mode"); mode {
	case "cpu":
		return profile.Start(profile.CPUProfile), nil
	case "mem":
		return profile.Start(profile.MemProfile), nil
	case "mutex":
		return profile.Start(profile.MutexProfile), nil
	case "block":
		runtime.SetBlockProfileRate(conf.GetInt("block_rate"))
		return profile.Start(profile.BlockProfile), nil
	case "":
		return noOpStopper{}, nil
	default:
		return noOpStopper{}, fmt.Errorf("invalid profile mode: %q", mode)
	}
}
