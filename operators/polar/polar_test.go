package polar

import (
	"math"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/axisolve/gopde/grids"
	"github.com/axisolve/gopde/grids/boundaries"
	"github.com/axisolve/gopde/operators"
)

// allclose fails unless |want-got| <= atol + rtol*|want| elementwise.
func allclose(t *testing.T, want, got []float64, rtol, atol float64) {
	t.Helper()
	require.Equal(t, len(want), len(got))
	for i := range want {
		if diff := math.Abs(want[i] - got[i]); diff > atol+rtol*math.Abs(want[i]) {
			t.Fatalf("element %d: want %g, got %g (diff %g)", i, want[i], got[i], diff)
		}
	}
}

func apply(t *testing.T, op operators.Operator, in *sparse.DenseArray) []float64 {
	t.Helper()
	out, err := op.Apply(in, nil)
	require.NoError(t, err)
	return out.Elements
}

// radialConditions pairs an unused low condition with the given outer one.
func radialConditions(t *testing.T, g grids.Grid, outer boundaries.Condition) *boundaries.Conditions {
	t.Helper()
	bcs, err := boundaries.NewConditions(g, 0, []boundaries.AxisConditions{
		{Low: boundaries.NoFlux(), High: outer},
	})
	require.NoError(t, err)
	return bcs
}

func scalarField(g grids.Grid, values []float64) *sparse.DenseArray {
	f := sparse.ZerosDense(g.Shape()...)
	copy(f.Elements, values)
	return f
}

// Reference results on a three cell disk with dr = 1/2, checked by hand.
func TestFindiff(t *testing.T) {
	g, err := grids.NewPolarGrid(0, 1.5, 3)
	require.NoError(t, err)
	u := []float64{1, 2, 4}
	r1, r2 := g.Radii()[1], g.Radii()[2]

	{ // gradient, radial plane; azimuthal plane stays zero
		gr, err := NewGradient(radialConditions(t, g, boundaries.Dirichlet()))
		require.NoError(t, err)
		res := apply(t, gr, scalarField(g, u))
		allclose(t, []float64{1, 3, -6}, res[:3], 0, 1e-12)
		assert.Equal(t, []float64{0, 0, 0}, res[3:])

		gr, err = NewGradient(radialConditions(t, g, boundaries.Neumann()))
		require.NoError(t, err)
		allclose(t, []float64{1, 3, 2}, apply(t, gr, scalarField(g, u))[:3], 0, 1e-12)
	}

	{ // divergence reads the radial component only
		v := sparse.ZerosDense(g.VectorShape()...)
		copy(v.Elements[:3], u)
		copy(v.Elements[3:], []float64{7, 8, 9})

		dv, err := NewDivergence(radialConditions(t, g, boundaries.Dirichlet()))
		require.NoError(t, err)
		allclose(t, []float64{5, 3 + 2/r1, -6 + 4/r2}, apply(t, dv, v), 0, 1e-12)

		dv, err = NewDivergence(radialConditions(t, g, boundaries.Neumann()))
		require.NoError(t, err)
		allclose(t, []float64{5, 3 + 2/r1, 2 + 4/r2}, apply(t, dv, v), 0, 1e-12)
	}
}

// Reference results on a three cell annulus where the inner rim is a real
// boundary with its own condition.
func TestAnnulusStencils(t *testing.T) {
	g, err := grids.NewPolarGrid(0.5, 2, 3)
	require.NoError(t, err)
	require.True(t, g.HasHole())
	u := []float64{1, 2, 4}
	bcs, err := boundaries.NewConditions(g, 0, []boundaries.AxisConditions{
		{Low: boundaries.Dirichlet(3), High: boundaries.NoFlux()},
	})
	require.NoError(t, err)

	// ghost values: inner 2*3-1 = 5, outer copies the edge cell
	lp, err := NewLaplacian(bcs)
	require.NoError(t, err)
	allclose(t, []float64{16, 4 + 3/1.25, -8 + 2/1.75}, apply(t, lp, scalarField(g, u)), 0, 1e-12)

	gr, err := NewGradient(bcs)
	require.NoError(t, err)
	allclose(t, []float64{-3, 3, 2}, apply(t, gr, scalarField(g, u))[:3], 0, 1e-12)

	v := sparse.ZerosDense(g.VectorShape()...)
	copy(v.Elements[:3], u)
	dv, err := NewDivergence(bcs)
	require.NoError(t, err)
	allclose(t, []float64{-3 + 1/0.75, 3 + 2/1.25, 2 + 4/1.75}, apply(t, dv, v), 0, 1e-12)
}

// The discrete Laplacian conserves the integral of any field under no-flux
// boundaries: every interior face flux cancels between its two cells.
func TestConservativeLaplace(t *testing.T) {
	cases := []struct {
		name           string
		rInner, rOuter float64
	}{
		{"disk", 0, 1.5},
		{"annulus", 0.5, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := grids.NewPolarGrid(tc.rInner, tc.rOuter, 8)
			require.NoError(t, err)
			lp, err := NewLaplacian(boundaries.Natural(g, 0))
			require.NoError(t, err)

			f := sparse.ZerosDense(g.Shape()...)
			for k := range f.Elements {
				f.Elements[k] = 0.5 + 0.5*math.Sin(2.4*float64(k)+0.3)
			}
			lap, err := lp.Apply(f, nil)
			require.NoError(t, err)
			assert.InDelta(t, 0, g.Integrate(lap), 1e-11)
		})
	}
}

// A vanishing inner hole must reproduce the full disk, while a finite hole
// must not: the annulus stencils limit to the analytic center handling.
func TestSmallAnnulus(t *testing.T) {
	disk, err := grids.NewPolarGrid(0, 1, 8)
	require.NoError(t, err)
	tiny, err := grids.NewPolarGrid(1e-8, 1, 8)
	require.NoError(t, err)
	wide, err := grids.NewPolarGrid(0.1, 1, 8)
	require.NoError(t, err)

	kinds := []operators.Kind{
		operators.Laplace, operators.Gradient,
		operators.Divergence, operators.TensorDivergence,
	}
	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			results := make([][]float64, 0, 3)
			for _, g := range []*grids.PolarGrid{disk, tiny, wide} {
				op, err := NewOperator(kind, boundaries.Natural(g, kind.Rank()))
				require.NoError(t, err)
				in := sparse.ZerosDense(op.InShape()...)
				for k := range in.Elements {
					in.Elements[k] = 0.5 + 0.5*math.Sin(2.4*float64(k)+0.3)
				}
				results = append(results, apply(t, op, in))
			}
			assert.InDeltaSlice(t, results[0], results[1], 1.5e-5)
			assert.Greater(t, floats.Distance(results[0], results[2], 2), 1e-3)
		})
	}
}

// div(grad u) agrees with laplace(u) away from the boundary rows.
func TestDivGradMatchesLaplace(t *testing.T) {
	g, err := grids.NewPolarGrid(0, 2*math.Pi, 16)
	require.NoError(t, err)
	u := sparse.ZerosDense(g.Shape()...)
	want := make([]float64, g.N)
	for i, r := range g.Radii() {
		u.Elements[i] = math.Cos(r)
		want[i] = -math.Sin(r)/r - math.Cos(r)
	}

	lp, err := NewLaplacian(radialConditions(t, g, boundaries.NoFlux()))
	require.NoError(t, err)
	gr, err := NewGradient(radialConditions(t, g, boundaries.NoFlux()))
	require.NoError(t, err)
	dv, err := NewDivergence(radialConditions(t, g, boundaries.Dirichlet()))
	require.NoError(t, err)

	direct := apply(t, lp, u)
	grad, err := gr.Apply(u, nil)
	require.NoError(t, err)
	composed, err := dv.Apply(grad, nil)
	require.NoError(t, err)

	allclose(t, want[1:15], direct[1:15], 0.1, 0.1)
	allclose(t, want[1:15], composed.Elements[1:15], 0.1, 0.1)
}

// The componentwise kernels must reproduce their scalar building blocks
// bitwise, plane by plane.
func TestComponentwiseComposition(t *testing.T) {
	g, err := grids.NewPolarGrid(0, 2, 6)
	require.NoError(t, err)
	n := g.N
	bcs := boundaries.Natural(g, 1)

	vec := sparse.ZerosDense(g.VectorShape()...)
	for k := range vec.Elements {
		vec.Elements[k] = math.Sin(1.3 * float64(k))
	}
	tens := sparse.ZerosDense(g.TensorShape()...)
	for k := range tens.Elements {
		tens.Elements[k] = math.Cos(0.7 * float64(k))
	}

	{ // vector Laplacian == scalar Laplacian per component plane
		vl, err := NewVectorLaplacian(bcs)
		require.NoError(t, err)
		got := apply(t, vl, vec)
		for c := 0; c < 2; c++ {
			lp, err := NewLaplacian(bcs.ExtractComponent(c))
			require.NoError(t, err)
			plane := apply(t, lp, scalarField(g, vec.Elements[c*n:(c+1)*n]))
			assert.Equal(t, plane, got[c*n:(c+1)*n])
		}
	}

	{ // vector gradient column c == gradient of component c
		vg, err := NewVectorGradient(bcs)
		require.NoError(t, err)
		got := apply(t, vg, vec)
		for c := 0; c < 2; c++ {
			gr, err := NewGradient(bcs.ExtractComponent(c))
			require.NoError(t, err)
			plane := apply(t, gr, scalarField(g, vec.Elements[c*n:(c+1)*n]))
			assert.Equal(t, plane[:n], got[(0*2+c)*n:(0*2+c+1)*n])
			assert.Equal(t, plane[n:], got[(1*2+c)*n:(1*2+c+1)*n])
		}
	}

	{ // tensor divergence row c == divergence of row c
		td, err := NewTensorDivergence(bcs)
		require.NoError(t, err)
		got := apply(t, td, tens)
		for c := 0; c < 2; c++ {
			dv, err := NewDivergence(bcs.ExtractComponent(c))
			require.NoError(t, err)
			row := sparse.ZerosDense(g.VectorShape()...)
			copy(row.Elements, tens.Elements[c*2*n:(c*2+2)*n])
			assert.Equal(t, apply(t, dv, row), got[c*n:(c+1)*n])
		}
	}
}

// A single cell resolves nothing on the disk but keeps the full stencil on
// an annulus, where both ghost points exist.
func TestSingleCell(t *testing.T) {
	{ // disk
		g, err := grids.NewPolarGrid(0, 1, 1)
		require.NoError(t, err)
		bcs := boundaries.Natural(g, 0)

		lp, err := NewLaplacian(bcs)
		require.NoError(t, err)
		assert.Equal(t, []float64{0}, apply(t, lp, scalarField(g, []float64{3})))

		gr, err := NewGradient(bcs)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0}, apply(t, gr, scalarField(g, []float64{3})))

		dv, err := NewDivergence(bcs)
		require.NoError(t, err)
		v := sparse.ZerosDense(g.VectorShape()...)
		v.Elements[0], v.Elements[1] = 3, 7
		assert.Equal(t, []float64{0}, apply(t, dv, v))
	}

	{ // annulus, dr = 1, r_0 = 3/2: ghosts 2*2-3 = 1 and 2*4-3 = 5
		g, err := grids.NewPolarGrid(1, 2, 1)
		require.NoError(t, err)
		bcs, err := boundaries.NewConditions(g, 0, []boundaries.AxisConditions{
			{Low: boundaries.Dirichlet(2), High: boundaries.Dirichlet(4)},
		})
		require.NoError(t, err)

		lp, err := NewLaplacian(bcs)
		require.NoError(t, err)
		allclose(t, []float64{4. / 3}, apply(t, lp, scalarField(g, []float64{3})), 0, 1e-14)

		gr, err := NewGradient(bcs)
		require.NoError(t, err)
		allclose(t, []float64{2, 0}, apply(t, gr, scalarField(g, []float64{3})), 0, 1e-14)

		dv, err := NewDivergence(bcs)
		require.NoError(t, err)
		v := sparse.ZerosDense(g.VectorShape()...)
		v.Elements[0] = 3
		allclose(t, []float64{4}, apply(t, dv, v), 0, 1e-14)
	}
}

// Assembling the Laplacian into matrix form must reproduce kernel
// application, offset included.
func TestAssembleMatchesApply(t *testing.T) {
	g, err := grids.NewPolarGrid(0, 1.5, 8)
	require.NoError(t, err)
	lp, err := NewLaplacian(radialConditions(t, g, boundaries.Dirichlet(2)))
	require.NoError(t, err)

	A, b, err := operators.Assemble(lp)
	require.NoError(t, err)
	rows, cols := A.Dims()
	assert.Equal(t, 8, rows)
	assert.Equal(t, 8, cols)
	// the Dirichlet data shows up as the affine offset of the outer row
	assert.NotZero(t, b[7])

	u := sparse.ZerosDense(g.Shape()...)
	for k := range u.Elements {
		u.Elements[k] = math.Sin(0.9 * float64(k))
	}
	want := apply(t, lp, u)

	var y mat.VecDense
	y.MulVec(A, mat.NewVecDense(len(u.Elements), u.Elements))
	for i := range want {
		assert.InDelta(t, want[i], y.AtVec(i)+b[i], 1e-12)
	}
}

func TestFactory(t *testing.T) {
	g, err := grids.NewPolarGrid(0, 1, 4)
	require.NoError(t, err)

	shapes := []struct {
		kind    operators.Kind
		in, out []int
	}{
		{operators.Laplace, []int{4}, []int{4}},
		{operators.Gradient, []int{4}, []int{2, 4}},
		{operators.Divergence, []int{2, 4}, []int{4}},
		{operators.VectorGradient, []int{2, 4}, []int{2, 2, 4}},
		{operators.VectorLaplace, []int{2, 4}, []int{2, 4}},
		{operators.TensorDivergence, []int{2, 2, 4}, []int{2, 4}},
	}
	for _, tc := range shapes {
		op, err := NewOperator(tc.kind, boundaries.Natural(g, tc.kind.Rank()))
		require.NoError(t, err, tc.kind)
		assert.Equal(t, tc.in, op.InShape(), tc.kind)
		assert.Equal(t, tc.out, op.OutShape(), tc.kind)
	}

	{ // conditions bound to the wrong grid type
		cg, err := grids.NewCylindricalGrid(1, 0, 1, [2]int{4, 4}, true)
		require.NoError(t, err)
		_, err = NewOperator(operators.Laplace, boundaries.Natural(cg, 0))
		var cfgErr *operators.ConfigError
		require.ErrorAs(t, err, &cfgErr)
	}

	{ // condition rank must match the operator's input rank
		var rankErr *boundaries.RankError
		_, err := NewLaplacian(boundaries.Natural(g, 1))
		require.ErrorAs(t, err, &rankErr)
		_, err = NewVectorGradient(boundaries.Natural(g, 0))
		require.ErrorAs(t, err, &rankErr)
	}

	{ // shape checks at application time
		lp, err := NewLaplacian(boundaries.Natural(g, 0))
		require.NoError(t, err)
		var shapeErr *operators.ShapeError
		_, err = lp.Apply(sparse.ZerosDense(5), nil)
		require.ErrorAs(t, err, &shapeErr)
		f := sparse.ZerosDense(4)
		_, err = lp.Apply(f, f)
		require.Error(t, err)
	}
}
