package boundaries

import (
	"testing"

	"github.com/axisolve/gopde/grids"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBCName(t *testing.T) {
	for name, want := range map[string]BCType{
		"Dirichlet":  BCDirichlet,
		"VALUE":      BCDirichlet,
		" no-flux ":  BCNeumann,
		"derivative": BCNeumann,
		"mixed":      BCRobin,
		"periodic":   BCPeriodic,
	} {
		got, err := ParseBCName(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseBCName("open")
	assert.Error(t, err)
	assert.Equal(t, "Robin", BCRobin.String())
}

func annulus(t *testing.T) *grids.PolarGrid {
	g, err := grids.NewPolarGrid(0.5, 2.5, 4)
	require.NoError(t, err)
	return g
}

func TestVirtualPoints(t *testing.T) {
	var (
		g    = annulus(t) // h = 0.5
		data = []float64{1, 2, 3, 4}
	)
	vp := func(c Condition) (lo, hi float64) {
		bc, err := NewConditions(g, 0, []AxisConditions{{Low: c, High: c}})
		require.NoError(t, err)
		lo = bc.VirtualPointEvaluator(0, Low)(data, 0, 1)
		hi = bc.VirtualPointEvaluator(0, High)(data, 0, 1)
		return
	}
	{ // Dirichlet mirrors the edge cell around the face value
		lo, hi := vp(Dirichlet(3))
		assert.Equal(t, 5., lo)
		assert.Equal(t, 2., hi)
	}
	{ // Neumann extrapolates the outward slope
		lo, hi := vp(Neumann(2))
		assert.Equal(t, 2., lo)
		assert.Equal(t, 5., hi)
	}
	{ // NoFlux copies the edge cell
		lo, hi := vp(NoFlux())
		assert.Equal(t, 1., lo)
		assert.Equal(t, 4., hi)
	}
	{ // Robin ghost is (u*(2-f*h) + 2*rhs*h) / (2+f*h)
		lo, hi := vp(Robin(2, 3))
		assert.InDelta(t, 4./3, lo, 1.e-14)
		assert.InDelta(t, 7./3, hi, 1.e-14)
	}
}

func TestPeriodicAxis(t *testing.T) {
	g, err := grids.NewCylindricalGrid(1.5, 0, 1, [2]int{3, 2}, true)
	require.NoError(t, err)
	var (
		bc   = Natural(g, 0)
		data = []float64{10, 11, 12, 13, 14, 15}
	)
	{ // Ghosts at either end read the opposite end of the lane (here i=1)
		assert.Equal(t, 13., bc.VirtualPointEvaluator(1, Low)(data, 2, 1))
		assert.Equal(t, 12., bc.VirtualPointEvaluator(1, High)(data, 2, 1))
	}
	{ // Regions wrap around
		lo, c, hi := bc.RegionEvaluator(1)(data, 2, 1, 0)
		assert.Equal(t, [3]float64{13, 12, 13}, [3]float64{lo, c, hi})
	}
	{ // The radial axis still substitutes ghosts, stride Nz (lane j=1)
		lo, c, hi := bc.RegionEvaluator(0)(data, 1, 2, 2)
		assert.Equal(t, [3]float64{13, 15, 15}, [3]float64{lo, c, hi})
	}
}

func TestRegionEvaluator(t *testing.T) {
	var (
		g    = annulus(t)
		data = []float64{1, 2, 3, 4}
	)
	bc, err := NewConditions(g, 0, []AxisConditions{
		{Low: Dirichlet(), High: Neumann()},
	})
	require.NoError(t, err)
	region := bc.RegionEvaluator(0)
	{ // Inner rim, zero-value ghost is -u
		lo, c, hi := region(data, 0, 1, 0)
		assert.Equal(t, [3]float64{-1, 1, 2}, [3]float64{lo, c, hi})
	}
	{ // Interior cells read their neighbors directly
		lo, c, hi := region(data, 0, 1, 2)
		assert.Equal(t, [3]float64{2, 3, 4}, [3]float64{lo, c, hi})
	}
	{ // Outer rim, zero-derivative ghost copies the edge
		lo, c, hi := region(data, 0, 1, 3)
		assert.Equal(t, [3]float64{3, 4, 4}, [3]float64{lo, c, hi})
	}
}

func TestSingleCellAxis(t *testing.T) {
	g, err := grids.NewPolarGrid(0.5, 1, 1)
	require.NoError(t, err)
	bc, err := NewConditions(g, 0, []AxisConditions{
		{Low: Dirichlet(2), High: Dirichlet(4)},
	})
	require.NoError(t, err)
	lo, c, hi := bc.RegionEvaluator(0)([]float64{3}, 0, 1, 0)
	assert.Equal(t, [3]float64{1, 3, 5}, [3]float64{lo, c, hi})
}

func TestConditionsValidation(t *testing.T) {
	g, err := grids.NewCylindricalGrid(1.5, 0, 1, [2]int{3, 2}, true)
	require.NoError(t, err)
	{ // Natural picks periodic on the periodic axis, no-flux elsewhere
		bc := Natural(g, 1)
		assert.Equal(t, BCNeumann, bc.Axis(0).Low.Type)
		assert.Equal(t, BCPeriodic, bc.Axis(1).High.Type)
		assert.NoError(t, bc.CheckValueRank(1))
		var rankErr *RankError
		require.ErrorAs(t, bc.CheckValueRank(0), &rankErr)
		assert.Equal(t, 0, rankErr.Expected)
		assert.Equal(t, 1, rankErr.Got)
	}
	{ // Field rank is scalar or vector only
		_, err := NewConditions(g, 2, []AxisConditions{
			{Low: NoFlux(), High: NoFlux()},
			{Low: Periodic(), High: Periodic()},
		})
		assert.Error(t, err)
	}
	{ // One AxisConditions pair per grid axis
		_, err := NewConditions(g, 0, []AxisConditions{
			{Low: NoFlux(), High: NoFlux()},
		})
		assert.Error(t, err)
	}
	{ // Periodicity must match the grid, on both ends
		_, err := NewConditions(g, 0, []AxisConditions{
			{Low: NoFlux(), High: NoFlux()},
			{Low: NoFlux(), High: NoFlux()},
		})
		assert.Error(t, err)
		_, err = NewConditions(g, 0, []AxisConditions{
			{Low: Periodic(), High: Periodic()},
			{Low: Periodic(), High: Periodic()},
		})
		assert.Error(t, err)
		_, err = NewConditions(g, 0, []AxisConditions{
			{Low: NoFlux(), High: NoFlux()},
			{Low: Periodic(), High: NoFlux()},
		})
		assert.Error(t, err)
	}
	{ // Condition values carry one entry per field component
		_, err := NewConditions(g, 0, []AxisConditions{
			{Low: Dirichlet(1, 2), High: NoFlux()},
			{Low: Periodic(), High: Periodic()},
		})
		assert.Error(t, err)
		_, err = NewConditions(g, 1, []AxisConditions{
			{Low: Dirichlet(1, 2), High: NoFlux()},
			{Low: Periodic(), High: Periodic()},
		})
		assert.Error(t, err)
		_, err = NewConditions(g, 1, []AxisConditions{
			{Low: Dirichlet(1, 2, 3), High: NoFlux()},
			{Low: Periodic(), High: Periodic()},
		})
		assert.NoError(t, err)
	}
}

func TestExtractComponent(t *testing.T) {
	g, err := grids.NewCylindricalGrid(1.5, 0, 1, [2]int{3, 2}, true)
	require.NoError(t, err)
	vec, err := NewConditions(g, 1, []AxisConditions{
		{Low: NoFlux(), High: Dirichlet(1, 2, 3)},
		{Low: Periodic(), High: Periodic()},
	})
	require.NoError(t, err)
	{ // Component 2 of (radial, axial, azimuthal) is the azimuthal part
		azim := vec.ExtractComponent(2)
		assert.Equal(t, 0, azim.Rank())
		assert.Equal(t, []float64{3}, azim.Axis(0).High.Value)
		assert.Empty(t, azim.Axis(0).Low.Value)
		assert.Equal(t, BCPeriodic, azim.Axis(1).Low.Type)
	}
	{ // Scalar conditions pass through unchanged
		sc := Natural(g, 0)
		assert.Same(t, sc, sc.ExtractComponent(1))
	}
}
