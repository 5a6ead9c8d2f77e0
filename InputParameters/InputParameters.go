package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// BoundarySpec is one boundary entry of the run deck: a condition type name
// accepted by boundaries.ParseBCName plus its data.
type BoundarySpec struct {
	Type   string  `yaml:"Type"`
	Value  float64 `yaml:"Value"`
	Factor float64 `yaml:"Factor"` // Robin conditions only
}

// Parameters obtained from the YAML input file
type Parameters2D struct {
	Title       string                  `yaml:"Title"`
	Model       string                  `yaml:"Model"`    // diffusion or swifthohenberg
	GridType    string                  `yaml:"GridType"` // cylindrical or polar
	Nr          int                     `yaml:"Nr"`
	Nz          int                     `yaml:"Nz"`
	Radius      float64                 `yaml:"Radius"`
	RInner      float64                 `yaml:"RInner"` // polar annuli
	ZMin        float64                 `yaml:"ZMin"`
	ZMax        float64                 `yaml:"ZMax"`
	PeriodicZ   bool                    `yaml:"PeriodicZ"`
	CFL         float64                 `yaml:"CFL"`
	FinalTime   float64                 `yaml:"FinalTime"`
	Diffusivity float64                 `yaml:"Diffusivity"`
	Rate        float64                 `yaml:"Rate"` // Swift-Hohenberg forcing
	Kc2         float64                 `yaml:"Kc2"`
	Delta       float64                 `yaml:"Delta"`
	BCs         map[string]BoundarySpec `yaml:"BCs"` // key is the boundary name: rLow, rHigh, zLow, zHigh
	Threads     int                     `yaml:"Threads"`
	PlotFile    string                  `yaml:"PlotFile"`
}

func (ip *Parameters2D) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *Parameters2D) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Model\n", ip.Model)
	fmt.Printf("[%s]\t\t= Grid Type\n", ip.GridType)
	fmt.Printf("[%d x %d]\t\t= Cells\n", ip.Nr, ip.Nz)
	fmt.Printf("%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	keys := make([]string, len(ip.BCs))
	i := 0
	for k := range ip.BCs {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%s] = %v\n", key, ip.BCs[key])
	}
}
