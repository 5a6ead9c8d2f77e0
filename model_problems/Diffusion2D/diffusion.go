// Package Diffusion2D evolves the axisymmetric heat equation
//
//	dc/dt = D * lap(c)
//
// on a cylindrical grid with a low storage five stage RK4 stepper. Under
// no-flux boundaries the discrete Laplacian conserves the integrated mass,
// which the runner reports alongside the residual.
package Diffusion2D

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/axisolve/gopde/grids"
	"github.com/axisolve/gopde/grids/boundaries"
	"github.com/axisolve/gopde/operators"
	"github.com/axisolve/gopde/operators/cylindrical"
	"github.com/axisolve/gopde/utils"
)

type Diffusion struct {
	// Input parameters
	D, CFL, FinalTime float64
	Grid              *grids.CylindricalGrid
	Lap               operators.Operator
	C                 *sparse.DenseArray
}

func NewDiffusion(D, CFL, FinalTime float64, g *grids.CylindricalGrid,
	bcs *boundaries.Conditions, opts ...operators.Option) (*Diffusion, error) {
	lap, err := cylindrical.NewOperator(operators.Laplace, bcs, opts...)
	if err != nil {
		return nil, err
	}
	c := &Diffusion{
		D:         D,
		CFL:       CFL,
		FinalTime: FinalTime,
		Grid:      g,
		Lap:       lap,
		C:         sparse.ZerosDense(g.Shape()...),
	}
	c.SetPulse(g.Radius / 4)
	return c, nil
}

// SetPulse deposits a unit amplitude Gaussian of width sigma on the axis,
// centered along z.
func (c *Diffusion) SetPulse(sigma float64) {
	var (
		g  = c.Grid
		zs = g.AxisCoord(1)
		zc = 0.5 * (zs[0] + zs[len(zs)-1])
	)
	for i, r := range g.Radii() {
		for j, z := range zs {
			c.C.Elements[i*g.Nz+j] = math.Exp(-(r*r + (z-zc)*(z-zc)) / (2 * sigma * sigma))
		}
	}
}

func (c *Diffusion) Run(verbose bool) {
	var (
		g            = c.Grid
		logFrequency = 50
	)
	dx := g.Discretization()
	hmin := math.Min(dx[0], dx[1])
	dt := c.CFL * hmin * hmin / (4 * c.D)
	Ns := math.Ceil(c.FinalTime / dt)
	dt = c.FinalTime / Ns
	Nsteps := int(Ns)
	if verbose {
		fmt.Printf("D = %8.5f, dt = %8.6f, Nsteps = %d\n", c.D, dt, Nsteps)
		fmt.Printf("initial mass = %10.8f\n", g.Integrate(c.C))
	}

	var (
		resid = sparse.ZerosDense(g.Shape()...)
		rhs   = sparse.ZerosDense(g.Shape()...)
		Time  float64
	)
	for tstep := 0; tstep < Nsteps; tstep++ {
		for INTRK := 0; INTRK < 5; INTRK++ {
			if _, err := c.Lap.Apply(c.C, rhs); err != nil {
				panic(err)
			}
			// resid = rk4a(INTRK) * resid + dt * rhs
			for i, lap := range rhs.Elements {
				resid.Elements[i] = utils.RK4a[INTRK]*resid.Elements[i] + dt*c.D*lap
			}
			// c += rk4b(INTRK) * resid
			for i, res := range resid.Elements {
				c.C.Elements[i] += utils.RK4b[INTRK] * res
			}
		}
		Time += dt
		if verbose && tstep%logFrequency == 0 {
			fmt.Printf("Time = %8.4f, max_resid[%d] = %10.8f, mass = %10.8f\n",
				Time, tstep, utils.MaxAbs(resid.Elements), g.Integrate(c.C))
		}
	}
	if verbose {
		fmt.Printf("final mass = %10.8f\n", g.Integrate(c.C))
	}
}

// SaveProfile writes a PNG of the radial concentration profile at the
// axial midplane.
func (c *Diffusion) SaveProfile(fname string) error {
	var (
		g  = c.Grid
		jc = g.Nz / 2
	)
	pts := make(plotter.XYs, g.Nr)
	for i, r := range g.Radii() {
		pts[i].X = r
		pts[i].Y = c.C.Elements[i*g.Nz+jc]
	}
	p := plot.New()
	p.Title.Text = "radial concentration profile"
	p.X.Label.Text = "r"
	p.Y.Label.Text = "c"
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)
	return p.Save(6*vg.Inch, 4*vg.Inch, fname)
}
