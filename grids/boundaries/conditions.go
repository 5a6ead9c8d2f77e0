// Package boundaries resolves the physical boundary conditions of a
// symmetric grid into the two primitives the stencil kernels consume: a
// virtual (ghost) point evaluator producing the synthetic value just outside
// a boundary face, and a region evaluator producing the three-point neighbor
// triple along one axis with boundary effects already applied.
package boundaries

import (
	"fmt"

	"github.com/axisolve/gopde/grids"
)

// Side selects one end of a grid axis.
type Side uint8

const (
	Low Side = iota
	High
)

// Condition is the condition applied at one axis end. Value holds one entry
// per field component (a single entry for scalar-rank conditions,
// grid.Dim() entries for vector rank); a nil Value means zero for every
// component. Factor is only meaningful for Robin conditions.
type Condition struct {
	Type   BCType
	Value  []float64
	Factor float64
}

// Dirichlet fixes the boundary face value.
func Dirichlet(v ...float64) Condition { return Condition{Type: BCDirichlet, Value: v} }

// Neumann fixes the outward normal derivative on the boundary face.
func Neumann(d ...float64) Condition { return Condition{Type: BCNeumann, Value: d} }

// Robin fixes the mixed combination d_n u = rhs - factor*u on the face.
func Robin(factor float64, rhs ...float64) Condition {
	return Condition{Type: BCRobin, Value: rhs, Factor: factor}
}

// Periodic identifies the two ends of the axis.
func Periodic() Condition { return Condition{Type: BCPeriodic} }

// NoFlux is the vanishing-derivative condition, the default for
// non-periodic axes.
func NoFlux() Condition { return Condition{Type: BCNeumann} }

// scalarValue is the single value a scalar-rank condition carries.
func (c Condition) scalarValue() float64 {
	if len(c.Value) == 0 {
		return 0
	}
	return c.Value[0]
}

// component narrows a vector-rank condition to one field component.
func (c Condition) component(comp int) Condition {
	out := c
	if len(c.Value) == 0 {
		out.Value = nil
	} else {
		out.Value = c.Value[comp : comp+1]
	}
	return out
}

// AxisConditions pairs the conditions at the two ends of one axis.
type AxisConditions struct {
	Low, High Condition
}

// Conditions binds one AxisConditions per grid axis to a grid and a field
// rank. The operator factories consume it through CheckValueRank,
// ExtractComponent and the evaluator constructors; all resolution work
// happens when evaluators are built, never per kernel call.
//
// The low end of the radial axis of a full-disk or cylindrical grid is the
// symmetry axis: the kernels handle it analytically and its Low condition is
// never consulted. On annular polar grids the inner rim is a real boundary
// and Low applies like any other condition.
type Conditions struct {
	grid grids.Grid
	rank int
	axes []AxisConditions
}

func NewConditions(g grids.Grid, rank int, axes []AxisConditions) (*Conditions, error) {
	if rank != 0 && rank != 1 {
		return nil, fmt.Errorf("boundaries: unsupported field rank %d", rank)
	}
	if len(axes) != len(g.Shape()) {
		return nil, fmt.Errorf("boundaries: got %d axis conditions for a %d-axis grid",
			len(axes), len(g.Shape()))
	}
	width := 1
	if rank == 1 {
		width = g.Dim()
	}
	for a, ax := range axes {
		periodic := g.Periodic()[a]
		if lowP, highP := ax.Low.Type == BCPeriodic, ax.High.Type == BCPeriodic; periodic != lowP || periodic != highP {
			return nil, fmt.Errorf("boundaries: axis %d periodicity mismatch: grid periodic=%v, conditions (%s, %s)",
				a, periodic, ax.Low.Type, ax.High.Type)
		}
		for _, c := range [2]Condition{ax.Low, ax.High} {
			if n := len(c.Value); n != 0 && n != width {
				return nil, fmt.Errorf("boundaries: axis %d condition carries %d values, want %d for rank %d",
					a, n, width, rank)
			}
		}
	}
	return &Conditions{grid: g, rank: rank, axes: append([]AxisConditions(nil), axes...)}, nil
}

// Natural builds the default condition set: periodic where the grid axis is
// periodic, no-flux everywhere else.
func Natural(g grids.Grid, rank int) *Conditions {
	axes := make([]AxisConditions, len(g.Shape()))
	for a, periodic := range g.Periodic() {
		if periodic {
			axes[a] = AxisConditions{Low: Periodic(), High: Periodic()}
		} else {
			axes[a] = AxisConditions{Low: NoFlux(), High: NoFlux()}
		}
	}
	bc, err := NewConditions(g, rank, axes)
	if err != nil {
		panic(err) // the construction above is always consistent
	}
	return bc
}

func (bc *Conditions) Grid() grids.Grid { return bc.grid }

func (bc *Conditions) Rank() int { return bc.rank }

// Axis returns the condition pair for one grid axis.
func (bc *Conditions) Axis(axis int) AxisConditions { return bc.axes[axis] }

// CheckValueRank fails with a *RankError when the conditions were built for
// a different field rank than an operator expects.
func (bc *Conditions) CheckValueRank(expected int) error {
	if bc.rank != expected {
		return &RankError{Expected: expected, Got: bc.rank}
	}
	return nil
}

// ExtractComponent returns a scalar-rank view of a vector-rank condition
// set, selecting the value of field component comp at every axis end. The
// vector and tensor operator builders use it to assemble their
// per-component scalar kernels; it is the only supported rank conversion.
func (bc *Conditions) ExtractComponent(comp int) *Conditions {
	if bc.rank == 0 {
		return bc
	}
	axes := make([]AxisConditions, len(bc.axes))
	for a, ax := range bc.axes {
		axes[a] = AxisConditions{
			Low:  ax.Low.component(comp),
			High: ax.High.component(comp),
		}
	}
	return &Conditions{grid: bc.grid, rank: 0, axes: axes}
}

// RankError reports a boundary condition set bound to a different field
// rank than an operator expects.
type RankError struct {
	Expected, Got int
}

func (e *RankError) Error() string {
	return fmt.Sprintf("boundary conditions hold rank %d values, operator needs rank %d", e.Got, e.Expected)
}
