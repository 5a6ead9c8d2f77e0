// Package operators holds the grid independent pieces of the stencil
// engine: the operator enumeration, construction options, the lane
// executor, shared error types and operator matrix assembly. The stencil
// kernels themselves live in the per-geometry subpackages.
package operators

import "fmt"

// Kind enumerates the differential operators the per-grid factories build.
type Kind uint8

const (
	// Laplace is the scalar Laplacian.
	Laplace Kind = iota
	// Gradient maps a scalar field to its vector gradient.
	Gradient
	// Divergence maps a vector field to a scalar field.
	Divergence
	// VectorGradient maps a vector field to a rank-2 tensor field.
	VectorGradient
	// VectorLaplace is the componentwise Laplacian of a vector field.
	VectorLaplace
	// TensorDivergence maps a rank-2 tensor field to a vector field.
	TensorDivergence
)

func (k Kind) String() string {
	switch k {
	case Laplace:
		return "laplace"
	case Gradient:
		return "gradient"
	case Divergence:
		return "divergence"
	case VectorGradient:
		return "vector_gradient"
	case VectorLaplace:
		return "vector_laplace"
	case TensorDivergence:
		return "tensor_divergence"
	}
	return "unknown"
}

// Rank is the field rank the boundary condition values of the operator must
// carry: 0 for the scalar operators, 1 for the vector and tensor ones.
func (k Kind) Rank() int {
	switch k {
	case Laplace, Gradient, Divergence:
		return 0
	}
	return 1
}

// ParseKind resolves an operator name from a run deck. Only names with a
// dispatch entry resolve; in particular "vector_laplace" has none and
// VectorLaplace kernels are only built by passing the Kind to a factory.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "laplace", "laplacian":
		return Laplace, nil
	case "gradient":
		return Gradient, nil
	case "divergence":
		return Divergence, nil
	case "vector_gradient":
		return VectorGradient, nil
	case "tensor_divergence":
		return TensorDivergence, nil
	}
	return 0, &ConfigError{Msg: fmt.Sprintf("unsupported operator %q", name)}
}
