package operators

import "github.com/ctessum/sparse"

// Operator is a constructed differential operator kernel. Implementations
// are immutable after construction and safe for concurrent Apply calls with
// distinct output arrays.
type Operator interface {
	// Apply evaluates the operator on in, writing into out and returning
	// it. A nil out allocates a fresh output array.
	Apply(in, out *sparse.DenseArray) (*sparse.DenseArray, error)
	InShape() []int
	OutShape() []int
}

// CheckApply validates a single Apply call: input shape, output shape, and
// that in and out do not share backing storage. A nil out passes, the
// kernel allocates then.
func CheckApply(in, out *sparse.DenseArray, inShape, outShape []int) error {
	if in == nil || !sameShape(in.Shape, inShape) {
		return &ShapeError{Ctx: "input field", Want: inShape, Got: shapeOf(in)}
	}
	if out == nil {
		return nil
	}
	if !sameShape(out.Shape, outShape) {
		return &ShapeError{Ctx: "output field", Want: outShape, Got: out.Shape}
	}
	if len(in.Elements) != 0 && len(out.Elements) != 0 &&
		&in.Elements[0] == &out.Elements[0] {
		return &ShapeError{Ctx: "input and output share one backing array"}
	}
	return nil
}

func shapeOf(a *sparse.DenseArray) []int {
	if a == nil {
		return nil
	}
	return a.Shape
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
