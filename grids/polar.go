package grids

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// PolarGrid is a disk or annulus with angular symmetry: fields depend only
// on the radial coordinate. The single axis covers (RInner, ROuter) with N
// cells, r_i = RInner + (i+0.5)*dr. RInner == 0 is the full disk; its
// innermost cell sits against the symmetry point and is handled analytically
// by the operators rather than through a user boundary condition. RInner > 0
// is an annulus whose inner rim takes a user boundary condition like any
// other domain edge.
type PolarGrid struct {
	RInner, ROuter float64
	N              int
	dr             float64
	radii          []float64
}

func NewPolarGrid(rInner, rOuter float64, n int) (*PolarGrid, error) {
	if rInner < 0 {
		return nil, fmt.Errorf("polar grid: inner radius must not be negative, got %g", rInner)
	}
	if rOuter <= rInner {
		return nil, fmt.Errorf("polar grid: need rOuter > rInner, got (%g, %g)", rInner, rOuter)
	}
	if n < 1 {
		return nil, fmt.Errorf("polar grid: need at least one cell, got %d", n)
	}
	g := &PolarGrid{
		RInner: rInner,
		ROuter: rOuter,
		N:      n,
	}
	g.dr = (rOuter - rInner) / float64(n)
	g.radii = make([]float64, n)
	for i := range g.radii {
		g.radii[i] = rInner + (float64(i)+0.5)*g.dr
	}
	return g, nil
}

func (g *PolarGrid) Shape() []int              { return []int{g.N} }
func (g *PolarGrid) Discretization() []float64 { return []float64{g.dr} }
func (g *PolarGrid) Periodic() []bool          { return []bool{false} }
func (g *PolarGrid) Dim() int                  { return 2 }

// HasHole reports whether the grid is an annulus rather than a full disk.
func (g *PolarGrid) HasHole() bool { return g.RInner > 0 }

// Radii returns the cell centered radial coordinates.
func (g *PolarGrid) Radii() []float64 { return g.radii }

// AxisCoord returns the cell centered coordinates along one axis.
func (g *PolarGrid) AxisCoord(axis int) []float64 {
	if axis != 0 {
		panic(fmt.Sprintf("polar grid has no axis %d", axis))
	}
	return g.radii
}

// Shapes of the field arrays the operators accept: components are ordered
// (radial, azimuthal) ahead of the grid axis.
func (g *PolarGrid) ScalarShape() []int { return []int{g.N} }
func (g *PolarGrid) VectorShape() []int { return []int{2, g.N} }
func (g *PolarGrid) TensorShape() []int { return []int{2, 2, g.N} }

// CellVolumes returns the area 2*pi*r_i*dr of every annular cell.
func (g *PolarGrid) CellVolumes() *sparse.DenseArray {
	w := sparse.ZerosDense(g.N)
	for i := 0; i < g.N; i++ {
		w.Elements[i] = 2 * math.Pi * g.radii[i] * g.dr
	}
	return w
}

// Integrate computes the area integral of a scalar field over the grid.
func (g *PolarGrid) Integrate(f *sparse.DenseArray) float64 {
	w := g.CellVolumes()
	if len(f.Elements) != len(w.Elements) {
		panic(fmt.Sprintf("integrate: field shape %v does not match grid shape %v", f.Shape, g.Shape()))
	}
	return floats.Dot(w.Elements, f.Elements)
}
