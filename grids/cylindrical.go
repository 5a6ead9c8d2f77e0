package grids

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// CylindricalGrid is a cylinder of the given radius and axial extent with
// polar symmetry: fields depend only on the radial coordinate r and the
// axial coordinate z. Axis 0 is radial with Nr cells covering (0, Radius),
// axis 1 is axial with Nz cells covering (ZMin, ZMax). Cell centers are
// offset half a step from the axis, r_i = (i+0.5)*dr, which keeps the
// coordinate singularity at r=0 out of the stencils.
type CylindricalGrid struct {
	Radius     float64
	ZMin, ZMax float64
	Nr, Nz     int
	dr, dz     float64
	periodicZ  bool
	radii      []float64
}

func NewCylindricalGrid(radius, zMin, zMax float64, shape [2]int, periodicZ bool) (*CylindricalGrid, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("cylindrical grid: radius must be positive, got %g", radius)
	}
	if zMax <= zMin {
		return nil, fmt.Errorf("cylindrical grid: need zMax > zMin, got (%g, %g)", zMin, zMax)
	}
	if shape[0] < 1 || shape[1] < 1 {
		return nil, fmt.Errorf("cylindrical grid: need at least one cell per axis, got %v", shape)
	}
	g := &CylindricalGrid{
		Radius:    radius,
		ZMin:      zMin,
		ZMax:      zMax,
		Nr:        shape[0],
		Nz:        shape[1],
		periodicZ: periodicZ,
	}
	g.dr = radius / float64(g.Nr)
	g.dz = (zMax - zMin) / float64(g.Nz)
	g.radii = make([]float64, g.Nr)
	for i := range g.radii {
		g.radii[i] = (float64(i) + 0.5) * g.dr
	}
	return g, nil
}

func (g *CylindricalGrid) Shape() []int              { return []int{g.Nr, g.Nz} }
func (g *CylindricalGrid) Discretization() []float64 { return []float64{g.dr, g.dz} }
func (g *CylindricalGrid) Periodic() []bool          { return []bool{false, g.periodicZ} }
func (g *CylindricalGrid) Dim() int                  { return 3 }

// Radii returns the cell centered radial coordinates r_i = (i+0.5)*dr.
func (g *CylindricalGrid) Radii() []float64 { return g.radii }

// AxisCoord returns the cell centered coordinates along one axis.
func (g *CylindricalGrid) AxisCoord(axis int) []float64 {
	switch axis {
	case 0:
		return g.radii
	case 1:
		zs := make([]float64, g.Nz)
		for j := range zs {
			zs[j] = g.ZMin + (float64(j)+0.5)*g.dz
		}
		return zs
	}
	panic(fmt.Sprintf("cylindrical grid has no axis %d", axis))
}

// Shapes of the field arrays the operators accept: components are ordered
// (radial, axial, azimuthal) ahead of the grid axes.
func (g *CylindricalGrid) ScalarShape() []int { return []int{g.Nr, g.Nz} }
func (g *CylindricalGrid) VectorShape() []int { return []int{3, g.Nr, g.Nz} }
func (g *CylindricalGrid) TensorShape() []int { return []int{3, 3, g.Nr, g.Nz} }

// CellVolumes returns the volume 2*pi*r_i*dr*dz of every cell.
func (g *CylindricalGrid) CellVolumes() *sparse.DenseArray {
	w := sparse.ZerosDense(g.Nr, g.Nz)
	for i := 0; i < g.Nr; i++ {
		v := 2 * math.Pi * g.radii[i] * g.dr * g.dz
		for j := 0; j < g.Nz; j++ {
			w.Elements[i*g.Nz+j] = v
		}
	}
	return w
}

// Integrate computes the volume integral of a scalar field over the grid.
func (g *CylindricalGrid) Integrate(f *sparse.DenseArray) float64 {
	w := g.CellVolumes()
	if len(f.Elements) != len(w.Elements) {
		panic(fmt.Sprintf("integrate: field shape %v does not match grid shape %v", f.Shape, g.Shape()))
	}
	return floats.Dot(w.Elements, f.Elements)
}
