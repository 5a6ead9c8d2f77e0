// Package SwiftHohenberg1D evolves the Swift-Hohenberg pattern formation
// equation
//
//	dc/dt = [Rate - (Kc2 + lap)^2] c + Delta*c^2 - c^3
//
// on a polar grid. The biharmonic term is built from two applications of
// the Laplacian kernel; the explicit time step scales with dr^4, so runs
// stay short on coarse grids.
package SwiftHohenberg1D

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"

	"github.com/axisolve/gopde/grids"
	"github.com/axisolve/gopde/grids/boundaries"
	"github.com/axisolve/gopde/operators"
	"github.com/axisolve/gopde/operators/polar"
	"github.com/axisolve/gopde/spectral"
	"github.com/axisolve/gopde/utils"
)

type SwiftHohenberg struct {
	// Input parameters
	Rate, Kc2, Delta float64
	CFL, FinalTime   float64
	Grid             *grids.PolarGrid
	Lap              operators.Operator
	C                *sparse.DenseArray
}

func NewSwiftHohenberg(rate, kc2, delta, CFL, finalTime float64, g *grids.PolarGrid,
	bcs *boundaries.Conditions) (*SwiftHohenberg, error) {
	lap, err := polar.NewOperator(operators.Laplace, bcs)
	if err != nil {
		return nil, err
	}
	return &SwiftHohenberg{
		Rate:      rate,
		Kc2:       kc2,
		Delta:     delta,
		CFL:       CFL,
		FinalTime: finalTime,
		Grid:      g,
		Lap:       lap,
		C:         sparse.ZerosDense(g.Shape()...),
	}, nil
}

// SeedNoise replaces the field with a random perturbation of the given
// spectral exponent and scale.
func (c *SwiftHohenberg) SeedNoise(exponent, scale float64, seed uint64) error {
	gen, err := spectral.MakeColoredNoise(c.Grid.Shape(), c.Grid.Discretization(), exponent, scale, seed)
	if err != nil {
		return err
	}
	c.C = gen()
	return nil
}

func (c *SwiftHohenberg) Run(verbose bool) {
	var (
		g            = c.Grid
		logFrequency = 1000
	)
	dr := g.Discretization()[0]
	dt := c.CFL * utils.POW(dr, 4) / 16
	Ns := math.Ceil(c.FinalTime / dt)
	dt = c.FinalTime / Ns
	Nsteps := int(Ns)
	if verbose {
		fmt.Printf("rate = %8.5f, kc2 = %8.5f, dt = %8.6g, Nsteps = %d\n",
			c.Rate, c.Kc2, dt, Nsteps)
	}

	var (
		resid = sparse.ZerosDense(g.Shape()...)
		rhs   = sparse.ZerosDense(g.Shape()...)
		v     = sparse.ZerosDense(g.Shape()...)
		w     = sparse.ZerosDense(g.Shape()...)
		Time  float64
	)
	for tstep := 0; tstep < Nsteps; tstep++ {
		for INTRK := 0; INTRK < 5; INTRK++ {
			c.RHS(rhs, v, w)
			// resid = rk4a(INTRK) * resid + dt * rhs
			for i, f := range rhs.Elements {
				resid.Elements[i] = utils.RK4a[INTRK]*resid.Elements[i] + dt*f
			}
			// c += rk4b(INTRK) * resid
			for i, res := range resid.Elements {
				c.C.Elements[i] += utils.RK4b[INTRK] * res
			}
		}
		Time += dt
		if verbose && tstep%logFrequency == 0 {
			fmt.Printf("Time = %8.4f, max_resid[%d] = %10.8f, cmin = %8.5f, cmax = %8.5f\n",
				Time, tstep, utils.MaxAbs(resid.Elements), floats.Min(c.C.Elements), floats.Max(c.C.Elements))
		}
	}
}

// RHS evaluates the right hand side into rhs, using v and w as scratch for
// the two Laplacian passes.
func (c *SwiftHohenberg) RHS(rhs, v, w *sparse.DenseArray) {
	if _, err := c.Lap.Apply(c.C, v); err != nil {
		panic(err)
	}
	// v = (kc2 + lap) c
	for i, ci := range c.C.Elements {
		v.Elements[i] += c.Kc2 * ci
	}
	if _, err := c.Lap.Apply(v, w); err != nil {
		panic(err)
	}
	// rhs = rate*c - (kc2 + lap) v + delta*c^2 - c^3
	for i, ci := range c.C.Elements {
		rhs.Elements[i] = c.Rate*ci - (c.Kc2*v.Elements[i] + w.Elements[i]) + c.Delta*ci*ci - ci*ci*ci
	}
}
