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
	"io/ioutil"
	"os"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/axisolve/gopde/InputParameters"
	"github.com/axisolve/gopde/grids"
	"github.com/axisolve/gopde/grids/boundaries"
	"github.com/axisolve/gopde/model_problems/Diffusion2D"
	"github.com/axisolve/gopde/model_problems/SwiftHohenberg1D"
	"github.com/axisolve/gopde/operators"
)

type ModelType uint8

const (
	M_Diffusion ModelType = iota
	M_SwiftHohenberg
)

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a model problem described by a YAML run deck",
	Long: `
Integrates one of the built in model problems on a rotationally symmetric grid,

gopde run -I deck.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("run called")
		fname, _ := cmd.Flags().GetString("inputFile")
		verbose, _ := cmd.Flags().GetBool("verbose")
		threads, _ := cmd.Flags().GetInt("threads")
		ip := processInput(fname)
		if threads != 0 {
			ip.Threads = threads
		}
		if profileCPU {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}
		if err := RunModel(ip, verbose); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("inputFile", "I", "", "YAML run deck with grid, model and BC parameters")
	RunCmd.Flags().BoolP("verbose", "v", true, "print progress during the run")
	RunCmd.Flags().IntP("threads", "t", 0, "goroutines for the stencil sweeps, overrides the deck when nonzero")
}

func processInput(fname string) (ip *InputParameters.Parameters2D) {
	var (
		err error
	)
	if len(fname) == 0 {
		err := fmt.Errorf("must supply a run deck (-I, --inputFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Pulse Decay"
Model: diffusion        # or swifthohenberg
GridType: cylindrical   # or polar
Nr: 32
Nz: 64
Radius: 2.
ZMin: -2.
ZMax: 2.
CFL: 0.5
FinalTime: 0.1
Diffusivity: 1.
BCs:
  rHigh:
    Type: value
    Value: 0.
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = ioutil.ReadFile(fname); err != nil {
		panic(err)
	}
	ip = &InputParameters.Parameters2D{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	return
}

func parseModel(name string) (ModelType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "diffusion":
		return M_Diffusion, nil
	case "swifthohenberg", "swift-hohenberg":
		return M_SwiftHohenberg, nil
	}
	return 0, fmt.Errorf("unknown model %q", name)
}

func RunModel(ip *InputParameters.Parameters2D, verbose bool) error {
	model, err := parseModel(ip.Model)
	if err != nil {
		return err
	}
	if ip.CFL == 0 {
		ip.CFL = 0.5
	}
	if verbose {
		ip.Print()
	}
	switch model {
	case M_Diffusion:
		if len(ip.GridType) != 0 && !strings.EqualFold(ip.GridType, "cylindrical") {
			return fmt.Errorf("model diffusion runs on a cylindrical grid, deck says %q", ip.GridType)
		}
		g, err := grids.NewCylindricalGrid(ip.Radius, ip.ZMin, ip.ZMax, [2]int{ip.Nr, ip.Nz}, ip.PeriodicZ)
		if err != nil {
			return err
		}
		bcs, err := deckConditions(g, ip.BCs)
		if err != nil {
			return err
		}
		if ip.Diffusivity == 0 {
			ip.Diffusivity = 1
		}
		var opts []operators.Option
		if ip.Threads > 0 {
			opts = append(opts, operators.Parallel(ip.Threads))
		}
		c, err := Diffusion2D.NewDiffusion(ip.Diffusivity, ip.CFL, ip.FinalTime, g, bcs, opts...)
		if err != nil {
			return err
		}
		c.Run(verbose)
		if len(ip.PlotFile) != 0 {
			return c.SaveProfile(ip.PlotFile)
		}
	case M_SwiftHohenberg:
		if len(ip.GridType) != 0 && !strings.EqualFold(ip.GridType, "polar") {
			return fmt.Errorf("model swifthohenberg runs on a polar grid, deck says %q", ip.GridType)
		}
		g, err := grids.NewPolarGrid(ip.RInner, ip.Radius, ip.Nr)
		if err != nil {
			return err
		}
		bcs, err := deckConditions(g, ip.BCs)
		if err != nil {
			return err
		}
		if ip.Kc2 == 0 {
			ip.Kc2 = 1
		}
		c, err := SwiftHohenberg1D.NewSwiftHohenberg(ip.Rate, ip.Kc2, ip.Delta, ip.CFL, ip.FinalTime, g, bcs)
		if err != nil {
			return err
		}
		if err := c.SeedNoise(0, 0.01, 1); err != nil {
			return err
		}
		c.Run(verbose)
	}
	return nil
}

// deckConditions starts from the natural condition set and overlays the
// boundaries named in the deck.
func deckConditions(g grids.Grid, deck map[string]InputParameters.BoundarySpec) (*boundaries.Conditions, error) {
	axes := make([]boundaries.AxisConditions, len(g.Shape()))
	for axis, periodic := range g.Periodic() {
		if periodic {
			axes[axis] = boundaries.AxisConditions{Low: boundaries.Periodic(), High: boundaries.Periodic()}
		} else {
			axes[axis] = boundaries.AxisConditions{Low: boundaries.NoFlux(), High: boundaries.NoFlux()}
		}
	}
	sides := map[string][2]int{
		"rLow": {0, 0}, "rHigh": {0, 1},
		"zLow": {1, 0}, "zHigh": {1, 1},
	}
	for name, spec := range deck {
		pos, ok := sides[name]
		if !ok {
			return nil, fmt.Errorf("unknown boundary name %q", name)
		}
		if pos[0] >= len(axes) {
			return nil, fmt.Errorf("grid has no %s boundary", name)
		}
		bcType, err := boundaries.ParseBCName(spec.Type)
		if err != nil {
			return nil, err
		}
		var cond boundaries.Condition
		switch bcType {
		case boundaries.BCDirichlet:
			cond = boundaries.Dirichlet(spec.Value)
		case boundaries.BCNeumann:
			cond = boundaries.Neumann(spec.Value)
		case boundaries.BCRobin:
			cond = boundaries.Robin(spec.Factor, spec.Value)
		case boundaries.BCPeriodic:
			cond = boundaries.Periodic()
		}
		if pos[1] == 0 {
			axes[pos[0]].Low = cond
		} else {
			axes[pos[0]].High = cond
		}
	}
	return boundaries.NewConditions(g, 0, axes)
}
