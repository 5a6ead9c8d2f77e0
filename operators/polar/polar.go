// Package polar builds the differential operator kernels for PolarGrid
// fields. The grid assumes rotational symmetry, so fields depend on the
// radial coordinate only, with cell centers at r_i = r_inner + (i+1/2)*dr.
// Vector components are ordered (radial, azimuthal) and the azimuthal
// component of every computed gradient is exactly zero.
//
// On the full disk (r_inner == 0) the innermost cell is handled
// analytically: the Laplacian reflects across the origin, the gradient
// uses a one-sided difference and the divergence balances the flux through
// the outer cell face. On an annulus the inner rim is a real boundary and
// the innermost cell reads the ghost point of the inner condition in the
// general interior formulas. Metric terms divide by the actual cell radii,
// so annuli of any inner radius work.
package polar

import (
	"fmt"

	"github.com/axisolve/gopde/grids"
	"github.com/axisolve/gopde/grids/boundaries"
	"github.com/axisolve/gopde/operators"
	"github.com/ctessum/sparse"
)

// NewOperator builds the kernel of the given kind for the polar grid the
// conditions are bound to. Polar kernels take no execution options: with a
// single radial lane there is nothing to fan out over, so they always run
// sequentially.
func NewOperator(kind operators.Kind, bcs *boundaries.Conditions) (operators.Operator, error) {
	switch kind {
	case operators.Laplace:
		op, err := NewLaplacian(bcs)
		if err != nil {
			return nil, err
		}
		return op, nil
	case operators.Gradient:
		op, err := NewGradient(bcs)
		if err != nil {
			return nil, err
		}
		return op, nil
	case operators.Divergence:
		op, err := NewDivergence(bcs)
		if err != nil {
			return nil, err
		}
		return op, nil
	case operators.VectorGradient:
		op, err := NewVectorGradient(bcs)
		if err != nil {
			return nil, err
		}
		return op, nil
	case operators.VectorLaplace:
		op, err := NewVectorLaplacian(bcs)
		if err != nil {
			return nil, err
		}
		return op, nil
	case operators.TensorDivergence:
		op, err := NewTensorDivergence(bcs)
		if err != nil {
			return nil, err
		}
		return op, nil
	}
	return nil, &operators.ConfigError{Msg: fmt.Sprintf("unsupported operator kind %s", kind)}
}

func polarGrid(bcs *boundaries.Conditions) (*grids.PolarGrid, error) {
	g, ok := bcs.Grid().(*grids.PolarGrid)
	if !ok {
		return nil, &operators.ConfigError{
			Msg: fmt.Sprintf("polar operators need a *grids.PolarGrid, got %T", bcs.Grid()),
		}
	}
	return g, nil
}

type stencil1D struct {
	g  *grids.PolarGrid
	n  int
	dr float64
	rs []float64
}

func newStencil1D(g *grids.PolarGrid) stencil1D {
	return stencil1D{g: g, n: g.N, dr: g.Discretization()[0], rs: g.Radii()}
}

// Laplacian is the scalar Laplacian kernel, scalar field in and out.
type Laplacian struct {
	stencil1D
	dr2   float64
	inner boundaries.VirtualPoint // nil on the full disk
	outer boundaries.VirtualPoint
}

func NewLaplacian(bcs *boundaries.Conditions) (*Laplacian, error) {
	g, err := polarGrid(bcs)
	if err != nil {
		return nil, err
	}
	if err := bcs.CheckValueRank(0); err != nil {
		return nil, err
	}
	l := &Laplacian{
		stencil1D: newStencil1D(g),
		dr2:       1 / (g.Discretization()[0] * g.Discretization()[0]),
		outer:     bcs.VirtualPointEvaluator(0, boundaries.High),
	}
	if g.HasHole() {
		l.inner = bcs.VirtualPointEvaluator(0, boundaries.Low)
	}
	return l, nil
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
	l.applyLane(in.Elements, out.Elements)
	return out, nil
}

func (l *Laplacian) applyLane(in, out []float64) {
	var (
		n, dr2 = l.n, l.dr2
		dr, rs = l.dr, l.rs
	)
	if n == 1 {
		if l.inner == nil {
			out[0] = 0 // a single disk cell resolves no curvature
			return
		}
		rl, rh := l.inner(in, 0, 1), l.outer(in, 0, 1)
		out[0] = (rh-2*in[0]+rl)*dr2 + (rh-rl)/(2*rs[0]*dr)
		return
	}
	if l.inner == nil {
		// reflection across the origin
		out[0] = 2 * (in[1] - in[0]) * dr2
	} else {
		rl := l.inner(in, 0, 1)
		out[0] = (in[1]-2*in[0]+rl)*dr2 + (in[1]-rl)/(2*rs[0]*dr)
	}
	for i := 1; i < n-1; i++ {
		out[i] = (in[i+1]-2*in[i]+in[i-1])*dr2 + (in[i+1]-in[i-1])/(2*rs[i]*dr)
	}
	i := n - 1
	rh := l.outer(in, 0, 1)
	out[i] = (rh-2*in[i]+in[i-1])*dr2 + (rh-in[i-1])/(2*rs[i]*dr)
}

// Gradient maps a scalar field to its (radial, azimuthal) gradient.
type Gradient struct {
	stencil1D
	scaleR       float64
	inner, outer boundaries.VirtualPoint
}

func NewGradient(bcs *boundaries.Conditions) (*Gradient, error) {
	g, err := polarGrid(bcs)
	if err != nil {
		return nil, err
	}
	if err := bcs.CheckValueRank(0); err != nil {
		return nil, err
	}
	gr := &Gradient{
		stencil1D: newStencil1D(g),
		scaleR:    1 / (2 * g.Discretization()[0]),
		outer:     bcs.VirtualPointEvaluator(0, boundaries.High),
	}
	if g.HasHole() {
		gr.inner = bcs.VirtualPointEvaluator(0, boundaries.Low)
	}
	return gr, nil
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
	gr.applyPlanes(in.Elements, out.Elements[0:gr.n], out.Elements[gr.n:2*gr.n])
	return out, nil
}

func (gr *Gradient) applyPlanes(in, outR, outPhi []float64) {
	var (
		n      = gr.n
		scaleR = gr.scaleR
	)
	for i := 0; i < n; i++ {
		outPhi[i] = 0 // no phi dependence
	}
	if n == 1 {
		if gr.inner == nil {
			outR[0] = 0
			return
		}
		outR[0] = (gr.outer(in, 0, 1) - gr.inner(in, 0, 1)) * scaleR
		return
	}
	if gr.inner == nil {
		// one-sided difference toward the origin, deliberately not the
		// Laplacian's reflection
		outR[0] = (in[1] - in[0]) * scaleR
	} else {
		outR[0] = (in[1] - gr.inner(in, 0, 1)) * scaleR
	}
	for i := 1; i < n-1; i++ {
		outR[i] = (in[i+1] - in[i-1]) * scaleR
	}
	outR[n-1] = (gr.outer(in, 0, 1) - in[n-2]) * scaleR
}

// Divergence reduces a (radial, azimuthal) vector field to a scalar
// field; the azimuthal plane is never read.
type Divergence struct {
	stencil1D
	scaleR       float64
	inner, outer boundaries.VirtualPoint
}

func NewDivergence(bcs *boundaries.Conditions) (*Divergence, error) {
	g, err := polarGrid(bcs)
	if err != nil {
		return nil, err
	}
	if err := bcs.CheckValueRank(0); err != nil {
		return nil, err
	}
	d := &Divergence{
		stencil1D: newStencil1D(g),
		scaleR:    1 / (2 * g.Discretization()[0]),
		outer:     bcs.VirtualPointEvaluator(0, boundaries.High),
	}
	if g.HasHole() {
		d.inner = bcs.VirtualPointEvaluator(0, boundaries.Low)
	}
	return d, nil
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
	d.applyPlane(in.Elements[0:d.n], out.Elements)
	return out, nil
}

func (d *Divergence) applyPlane(inR, out []float64) {
	var (
		n      = d.n
		scaleR = d.scaleR
		rs     = d.rs
	)
	if n == 1 {
		if d.inner == nil {
			out[0] = 0
			return
		}
		out[0] = (d.outer(inR, 0, 1)-d.inner(inR, 0, 1))*scaleR + inR[0]/rs[0]
		return
	}
	if d.inner == nil {
		// exact balance of the flux through the outer face of the
		// center cell, using r_face = dr and r_0 = dr/2
		out[0] = (inR[1] + 3*inR[0]) * scaleR
	} else {
		out[0] = (inR[1]-d.inner(inR, 0, 1))*scaleR + inR[0]/rs[0]
	}
	for i := 1; i < n-1; i++ {
		out[i] = (inR[i+1]-inR[i-1])*scaleR + inR[i]/rs[i]
	}
	i := n - 1
	out[i] = (d.outer(inR, 0, 1)-inR[i-1])*scaleR + inR[i]/rs[i]
}

// VectorGradient maps a vector field to the rank-2 tensor of component
// gradients: out[d, c] holds the d-derivative of component c.
type VectorGradient struct {
	comps [2]*Gradient
}

func NewVectorGradient(bcs *boundaries.Conditions) (*VectorGradient, error) {
	if _, err := polarGrid(bcs); err != nil {
		return nil, err
	}
	if err := bcs.CheckValueRank(1); err != nil {
		return nil, err
	}
	vg := &VectorGradient{}
	for c := range vg.comps {
		gr, err := NewGradient(bcs.ExtractComponent(c))
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
	n := vg.comps[0].n
	for c, gr := range vg.comps {
		gr.applyPlanes(in.Elements[c*n:(c+1)*n],
			out.Elements[(0*2+c)*n:(0*2+c+1)*n],
			out.Elements[(1*2+c)*n:(1*2+c+1)*n])
	}
	return out, nil
}

// VectorLaplacian applies the scalar Laplacian to every component plane.
type VectorLaplacian struct {
	comps [2]*Laplacian
}

func NewVectorLaplacian(bcs *boundaries.Conditions) (*VectorLaplacian, error) {
	if _, err := polarGrid(bcs); err != nil {
		return nil, err
	}
	if err := bcs.CheckValueRank(1); err != nil {
		return nil, err
	}
	vl := &VectorLaplacian{}
	for c := range vl.comps {
		lp, err := NewLaplacian(bcs.ExtractComponent(c))
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
	n := vl.comps[0].n
	for c, lp := range vl.comps {
		lp.applyLane(in.Elements[c*n:(c+1)*n], out.Elements[c*n:(c+1)*n])
	}
	return out, nil
}

// TensorDivergence reduces a rank-2 tensor field to the vector of row
// divergences: out[c] is the divergence of the vector in[c, :].
type TensorDivergence struct {
	comps [2]*Divergence
}

func NewTensorDivergence(bcs *boundaries.Conditions) (*TensorDivergence, error) {
	if _, err := polarGrid(bcs); err != nil {
		return nil, err
	}
	if err := bcs.CheckValueRank(1); err != nil {
		return nil, err
	}
	td := &TensorDivergence{}
	for c := range td.comps {
		dv, err := NewDivergence(bcs.ExtractComponent(c))
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
	n := td.comps[0].n
	for c, dv := range td.comps {
		dv.applyPlane(in.Elements[(c*2+0)*n:(c*2+1)*n], out.Elements[c*n:(c+1)*n])
	}
	return out, nil
}
