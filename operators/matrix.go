package operators

import (
	"github.com/ctessum/sparse"
	sparseblas "github.com/james-bowman/sparse"
)

// Assemble probes a kernel with unit fields to recover its matrix form: a
// CSR matrix A over the flattened input and the affine offset b
// contributed by inhomogeneous boundary values, so that
// flatten(op.Apply(u)) = A*flatten(u) + b. Rectangular operators such as
// gradient and divergence assemble like square ones. Intended for
// inspection and cross-checking, not for implicit solves.
func Assemble(op Operator) (*sparseblas.CSR, []float64, error) {
	var (
		in  = sparse.ZerosDense(op.InShape()...)
		out = sparse.ZerosDense(op.OutShape()...)
	)
	if _, err := op.Apply(in, out); err != nil {
		return nil, nil, err
	}
	b := make([]float64, len(out.Elements))
	copy(b, out.Elements)

	dok := sparseblas.NewDOK(len(b), len(in.Elements))
	for j := range in.Elements {
		in.Elements[j] = 1
		if _, err := op.Apply(in, out); err != nil {
			return nil, nil, err
		}
		for i, v := range out.Elements {
			if a := v - b[i]; a != 0 {
				dok.Set(i, j, a)
			}
		}
		in.Elements[j] = 0
	}
	return dok.ToCSR(), b, nil
}
