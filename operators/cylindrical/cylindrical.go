// Package cylindrical builds the differential operator kernels for
// CylindricalGrid fields. The grid assumes rotational symmetry, so fields
// depend on the radial coordinate r and the axial coordinate z only; the
// first array axis runs along the radius with cell centers at
// r_i = (i+1/2)*dr, the second along the cylinder axis. Vector components
// are ordered (radial, axial, azimuthal) and the azimuthal component of
// every computed gradient is exactly zero.
//
// Kernels are immutable after construction: scale factors, boundary
// evaluators and the serial/fan-out execution plan are all fixed by the
// factory. The fan-out path splits the axial index across goroutines and
// leaves the per-lane arithmetic untouched, so both paths produce
// identical bits.
package cylindrical

import (
	"fmt"

	"github.com/axisolve/gopde/grids"
	"github.com/axisolve/gopde/grids/boundaries"
	"github.com/axisolve/gopde/operators"
	"github.com/ctessum/sparse"
)

// NewOperator builds the kernel of the given kind for the cylindrical grid
// the conditions are bound to. Every kind is constructible here, including
// VectorLaplace which operators.ParseKind does not resolve by name.
func NewOperator(kind operators.Kind, bcs *boundaries.Conditions, opts ...operators.Option) (operators.Operator, error) {
	switch kind {
	case operators.Laplace:
		op, err := NewLaplacian(bcs, opts...)
		if err != nil {
			return nil, err
		}
		return op, nil
	case operators.Gradient:
		op, err := NewGradient(bcs, opts...)
		if err != nil {
			return nil, err
		}
		return op, nil
	case operators.Divergence:
		op, err := NewDivergence(bcs, opts...)
		if err != nil {
			return nil, err
		}
		return op, nil
	case operators.VectorGradient:
		op, err := NewVectorGradient(bcs, opts...)
		if err != nil {
			return nil, err
		}
		return op, nil
	case operators.VectorLaplace:
		op, err := NewVectorLaplacian(bcs, opts...)
		if err != nil {
			return nil, err
		}
		return op, nil
	case operators.TensorDivergence:
		op, err := NewTensorDivergence(bcs, opts...)
		if err != nil {
			return nil, err
		}
		return op, nil
	}
	return nil, &operators.ConfigError{Msg: fmt.Sprintf("unsupported operator kind %s", kind)}
}

func cylGrid(bcs *boundaries.Conditions) (*grids.CylindricalGrid, error) {
	g, ok := bcs.Grid().(*grids.CylindricalGrid)
	if !ok {
		return nil, &operators.ConfigError{
			Msg: fmt.Sprintf("cylindrical operators need a *grids.CylindricalGrid, got %T", bcs.Grid()),
		}
	}
	return g, nil
}

// stencil2D carries the geometry and execution plan every kernel shares.
type stencil2D struct {
	g      *grids.CylindricalGrid
	nr, nz int
	ex     *operators.Executor
}

func newStencil2D(g *grids.CylindricalGrid, opts []operators.Option) stencil2D {
	return stencil2D{
		g:  g,
		nr: g.Nr,
		nz: g.Nz,
		ex: operators.NewExecutor(operators.Gather(opts), g.Nr*g.Nz, g.Nz),
	}
}

func (s stencil2D) planeSize() int { return s.nr * s.nz }

// Laplacian is the scalar Laplacian kernel, scalar field in and out.
type Laplacian struct {
	stencil2D
	dr2, dz2 float64
	outerR   boundaries.VirtualPoint
	regionZ  boundaries.Region
}

func NewLaplacian(bcs *boundaries.Conditions, opts ...operators.Option) (*Laplacian, error) {
	g, err := cylGrid(bcs)
	if err != nil {
		return nil, err
	}
	if err := bcs.CheckValueRank(0); err != nil {
		return nil, err
	}
	d := g.Discretization()
	return &Laplacian{
		stencil2D: newStencil2D(g, opts),
		dr2:       1 / (d[0] * d[0]),
		dz2:       1 / (d[1] * d[1]),
		outerR:    bcs.VirtualPointEvaluator(0, boundaries.High),
		regionZ:   bcs.RegionEvaluator(1),
	}, nil
}

func (l *Laplacian) InShape() []int  { return l.g.ScalarShape() }
func (l *Laplacian) OutShape() []int { return l.g.ScalarShape() }

func (l *Laplacian) Apply(in, out *sparse.DenseArray) (*sparse.DenseArray, error) {
	if err := operators.CheckApply(in, out, l.InShape(), l.OutShape()); err != nil {
		return nil, err
	}
	if out == nil {
		out = sparse.ZerosDense(l.OutShape()...)
	}
	l.applyPlane(in.Elements, out.Elements)
	return out, nil
}

func (l *Laplacian) applyPlane(in, out []float64) {
	l.ex.Run(func(jMin, jMax int) {
		var (
			nr, nz   = l.nr, l.nz
			dr2, dz2 = l.dr2, l.dz2
		)
		for j := jMin; j < jMax; j++ {
			// Innermost cell: reflection across the symmetry axis
			// collapses the radial part to 2*(u[1]-u[0])/dr^2.
			zl, c, zh := l.regionZ(in, 0, 1, j)
			if nr == 1 {
				out[j] = (zl - 2*c + zh) * dz2
				continue
			}
			out[j] = 2*(in[nz+j]-c)*dr2 + (zl-2*c+zh)*dz2
			for i := 1; i < nr-1; i++ {
				idx := i*nz + j
				zl, c, zh := l.regionZ(in, i*nz, 1, j)
				rl, rh := in[idx-nz], in[idx+nz]
				out[idx] = (rh-2*c+rl)*dr2 +
					(rh-rl)/float64(2*i+1)*dr2 +
					(zl-2*c+zh)*dz2
			}
			// Outermost cell: the high radial neighbor is the ghost
			// point of the radial condition.
			i := nr - 1
			idx := i*nz + j
			zl, c, zh = l.regionZ(in, i*nz, 1, j)
			rl, rh := in[idx-nz], l.outerR(in, j, nz)
			out[idx] = (rh-2*c+rl)*dr2 +
				(rh-rl)/float64(2*i+1)*dr2 +
				(zl-2*c+zh)*dz2
		}
	})
}

// Gradient maps a scalar field to its (radial, axial, azimuthal) gradient.
type Gradient struct {
	stencil2D
	scaleR, scaleZ float64
	outerR         boundaries.VirtualPoint
	regionZ        boundaries.Region
}

func NewGradient(bcs *boundaries.Conditions, opts ...operators.Option) (*Gradient, error) {
	g, err := cylGrid(bcs)
	if err != nil {
		return nil, err
	}
	if err := bcs.CheckValueRank(0); err != nil {
		return nil, err
	}
	d := g.Discretization()
	return &Gradient{
		stencil2D: newStencil2D(g, opts),
		scaleR:    1 / (2 * d[0]),
		scaleZ:    1 / (2 * d[1]),
		outerR:    bcs.VirtualPointEvaluator(0, boundaries.High),
		regionZ:   bcs.RegionEvaluator(1),
	}, nil
}

func (gr *Gradient) InShape() []int  { return gr.g.ScalarShape() }
func (gr *Gradient) OutShape() []int { return gr.g.VectorShape() }

func (gr *Gradient) Apply(in, out *sparse.DenseArray) (*sparse.DenseArray, error) {
	if err := operators.CheckApply(in, out, gr.InShape(), gr.OutShape()); err != nil {
		return nil, err
	}
	if out == nil {
		out = sparse.ZerosDense(gr.OutShape()...)
	}
	p := gr.planeSize()
	gr.applyPlanes(in.Elements,
		out.Elements[0:p], out.Elements[p:2*p], out.Elements[2*p:3*p])
	return out, nil
}

// applyPlanes writes the derivative of the scalar plane in along each
// direction into outR, outZ and outPhi.
func (gr *Gradient) applyPlanes(in, outR, outZ, outPhi []float64) {
	gr.ex.Run(func(jMin, jMax int) {
		var (
			nr, nz         = gr.nr, gr.nz
			scaleR, scaleZ = gr.scaleR, gr.scaleZ
		)
		for j := jMin; j < jMax; j++ {
			// Innermost cell: one-sided difference toward the axis. This
			// deliberately differs from the Laplacian's reflection.
			zl, _, zh := gr.regionZ(in, 0, 1, j)
			if nr == 1 {
				outR[j] = 0
			} else {
				outR[j] = (in[nz+j] - in[j]) * scaleR
			}
			outZ[j] = (zh - zl) * scaleZ
			outPhi[j] = 0 // no phi dependence
			for i := 1; i < nr-1; i++ {
				idx := i*nz + j
				zl, _, zh := gr.regionZ(in, i*nz, 1, j)
				outR[idx] = (in[idx+nz] - in[idx-nz]) * scaleR
				outZ[idx] = (zh - zl) * scaleZ
				outPhi[idx] = 0
			}
			if nr == 1 {
				continue
			}
			i := nr - 1
			idx := i*nz + j
			zl, _, zh = gr.regionZ(in, i*nz, 1, j)
			outR[idx] = (gr.outerR(in, j, nz) - in[idx-nz]) * scaleR
			outZ[idx] = (zh - zl) * scaleZ
			outPhi[idx] = 0
		}
	})
}

// Divergence reduces a (radial, axial, azimuthal) vector field to a scalar
// field; the azimuthal plane is never read.
type Divergence struct {
	stencil2D
	dr             float64
	scaleR, scaleZ float64
	outerR         boundaries.VirtualPoint
	regionZ        boundaries.Region
}

func NewDivergence(bcs *boundaries.Conditions, opts ...operators.Option) (*Divergence, error) {
	g, err := cylGrid(bcs)
	if err != nil {
		return nil, err
	}
	if err := bcs.CheckValueRank(0); err != nil {
		return nil, err
	}
	d := g.Discretization()
	return &Divergence{
		stencil2D: newStencil2D(g, opts),
		dr:        d[0],
		scaleR:    1 / (2 * d[0]),
		scaleZ:    1 / (2 * d[1]),
		outerR:    bcs.VirtualPointEvaluator(0, boundaries.High),
		regionZ:   bcs.RegionEvaluator(1),
	}, nil
}

func (d *Divergence) InShape() []int  { return d.g.VectorShape() }
func (d *Divergence) OutShape() []int { return d.g.ScalarShape() }

func (d *Divergence) Apply(in, out *sparse.DenseArray) (*sparse.DenseArray, error) {
	if err := operators.CheckApply(in, out, d.InShape(), d.OutShape()); err != nil {
		return nil, err
	}
	if out == nil {
		out = sparse.ZerosDense(d.OutShape()...)
	}
	p := d.planeSize()
	d.applyPlanes(in.Elements[0:p], in.Elements[p:2*p], out.Elements)
	return out, nil
}

// applyPlanes reduces the radial and axial component planes into out.
func (d *Divergence) applyPlanes(inR, inZ, out []float64) {
	d.ex.Run(func(jMin, jMax int) {
		var (
			nr, nz         = d.nr, d.nz
			dr             = d.dr
			scaleR, scaleZ = d.scaleR, d.scaleZ
		)
		for j := jMin; j < jMax; j++ {
			// Innermost cell: exact balance of the radial flux through
			// the outer cell face, using r_face = dr and r_0 = dr/2.
			zl, _, zh := d.regionZ(inZ, 0, 1, j)
			divZ := (zh - zl) * scaleZ
			if nr == 1 {
				out[j] = divZ
				continue
			}
			out[j] = (inR[nz+j]+3*inR[j])*scaleR + divZ
			for i := 1; i < nr-1; i++ {
				idx := i*nz + j
				zl, _, zh := d.regionZ(inZ, i*nz, 1, j)
				divR := (inR[idx+nz]-inR[idx-nz])*scaleR +
					inR[idx]/((float64(i)+0.5)*dr)
				out[idx] = divR + (zh-zl)*scaleZ
			}
			i := nr - 1
			idx := i*nz + j
			zl, _, zh = d.regionZ(inZ, i*nz, 1, j)
			divR := (d.outerR(inR, j, nz)-inR[idx-nz])*scaleR +
				inR[idx]/((float64(i)+0.5)*dr)
			out[idx] = divR + (zh-zl)*scaleZ
		}
	})
}

// VectorGradient maps a vector field to the rank-2 tensor of component
// gradients: out[d, c] holds the d-derivative of component c.
type VectorGradient struct {
	comps [3]*Gradient
}

func NewVectorGradient(bcs *boundaries.Conditions, opts ...operators.Option) (*VectorGradient, error) {
	if _, err := cylGrid(bcs); err != nil {
		return nil, err
	}
	if err := bcs.CheckValueRank(1); err != nil {
		return nil, err
	}
	vg := &VectorGradient{}
	for c := range vg.comps {
		gr, err := NewGradient(bcs.ExtractComponent(c), opts...)
		if err != nil {
			return nil, err
		}
		vg.comps[c] = gr
	}
	return vg, nil
}

func (vg *VectorGradient) InShape() []int  { return vg.comps[0].g.VectorShape() }
func (vg *VectorGradient) OutShape() []int { return vg.comps[0].g.TensorShape() }

func (vg *VectorGradient) Apply(in, out *sparse.DenseArray) (*sparse.DenseArray, error) {
	if err := operators.CheckApply(in, out, vg.InShape(), vg.OutShape()); err != nil {
		return nil, err
	}
	if out == nil {
		out = sparse.ZerosDense(vg.OutShape()...)
	}
	p := vg.comps[0].planeSize()
	for c, gr := range vg.comps {
		gr.applyPlanes(in.Elements[c*p:(c+1)*p],
			out.Elements[(0*3+c)*p:(0*3+c+1)*p],
			out.Elements[(1*3+c)*p:(1*3+c+1)*p],
			out.Elements[(2*3+c)*p:(2*3+c+1)*p])
	}
	return out, nil
}

// VectorLaplacian applies the scalar Laplacian to every component plane.
type VectorLaplacian struct {
	comps [3]*Laplacian
}

func NewVectorLaplacian(bcs *boundaries.Conditions, opts ...operators.Option) (*VectorLaplacian, error) {
	if _, err := cylGrid(bcs); err != nil {
		return nil, err
	}
	if err := bcs.CheckValueRank(1); err != nil {
		return nil, err
	}
	vl := &VectorLaplacian{}
	for c := range vl.comps {
		lp, err := NewLaplacian(bcs.ExtractComponent(c), opts...)
		if err != nil {
			return nil, err
		}
		vl.comps[c] = lp
	}
	return vl, nil
}

func (vl *VectorLaplacian) InShape() []int  { return vl.comps[0].g.VectorShape() }
func (vl *VectorLaplacian) OutShape() []int { return vl.comps[0].g.VectorShape() }

func (vl *VectorLaplacian) Apply(in, out *sparse.DenseArray) (*sparse.DenseArray, error) {
	if err := operators.CheckApply(in, out, vl.InShape(), vl.OutShape()); err != nil {
		return nil, err
	}
	if out == nil {
		out = sparse.ZerosDense(vl.OutShape()...)
	}
	p := vl.comps[0].planeSize()
	for c, lp := range vl.comps {
		lp.applyPlane(in.Elements[c*p:(c+1)*p], out.Elements[c*p:(c+1)*p])
	}
	return out, nil
}

// TensorDivergence reduces a rank-2 tensor field to the vector of row
// divergences: out[c] is the divergence of the vector in[c, :].
type TensorDivergence struct {
	comps [3]*Divergence
}

func NewTensorDivergence(bcs *boundaries.Conditions, opts ...operators.Option) (*TensorDivergence, error) {
	if _, err := cylGrid(bcs); err != nil {
		return nil, err
	}
	if err := bcs.CheckValueRank(1); err != nil {
		return nil, err
	}
	td := &TensorDivergence{}
	for c := range td.comps {
		dv, err := NewDivergence(bcs.ExtractComponent(c), opts...)
		if err != nil {
			return nil, err
		}
		td.comps[c] = dv
	}
	return td, nil
}

func (td *TensorDivergence) InShape() []int  { return td.comps[0].g.TensorShape() }
func (td *TensorDivergence) OutShape() []int { return td.comps[0].g.VectorShape() }

func (td *TensorDivergence) Apply(in, out *sparse.DenseArray) (*sparse.DenseArray, error) {
	if err := operators.CheckApply(in, out, td.InShape(), td.OutShape()); err != nil {
		return nil, err
	}
	if out == nil {
		out = sparse.ZerosDense(td.OutShape()...)
	}
	p := td.comps[0].planeSize()
	for c, dv := range td.comps {
		dv.applyPlanes(in.Elements[(c*3+0)*p:(c*3+1)*p],
			in.Elements[(c*3+1)*p:(c*3+2)*p],
			out.Elements[c*p:(c+1)*p])
	}
	return out, nil
}
