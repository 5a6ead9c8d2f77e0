// Package grids defines the symmetric grid geometries the operator kernels
// are built against: cylindrical (radial + axial) and polar (radial only).
// Both exploit rotational symmetry - no field quantity depends on the
// azimuthal angle - so a 3D cylinder collapses to a 2D (r, z) computation and
// a 2D disk collapses to a 1D radial computation.
package grids

// Grid is the read-only geometry contract consumed by the operator builders.
type Grid interface {
	// Shape returns the per-axis cell counts, radial axis first.
	Shape() []int
	// Discretization returns the uniform per-axis cell spacing.
	Discretization() []float64
	// Periodic reports per-axis periodicity. The radial axis is never
	// periodic.
	Periodic() []bool
	// Dim is the dimension of the embedding space, which is also the number
	// of components a vector field on the grid carries.
	Dim() int
}
