package boundaries

import "fmt"

// VirtualPoint produces the ghost value just outside one end of a grid axis
// for the lane of cells starting at base with the given stride between
// consecutive cells. With u the edge cell value and h the axis spacing, the
// ghost cell holds
//
//	Dirichlet v:   2*v - u
//	Neumann d:     u + d*h                        (d along the outward normal)
//	Robin f, rhs:  (u*(2-f*h) + 2*rhs*h) / (2+f*h)
//	Periodic:      the cell at the opposite end of the lane
type VirtualPoint func(data []float64, base, stride int) float64

// Region produces the low/center/high neighbor triple around cell k of a
// lane, substituting ghost values at the ends of non-periodic axes and
// wrapping around on periodic ones.
type Region func(data []float64, base, stride, k int) (lo, c, hi float64)

// VirtualPointEvaluator resolves the condition at one end of an axis into
// its ghost evaluator. Conditions must be scalar rank.
func (bc *Conditions) VirtualPointEvaluator(axis int, side Side) VirtualPoint {
	if bc.rank != 0 {
		panic("boundaries: virtual points need scalar-rank conditions, call ExtractComponent first")
	}
	var (
		n    = bc.grid.Shape()[axis]
		h    = bc.grid.Discretization()[axis]
		cond = bc.axes[axis].Low
		edge = 0
	)
	if side == High {
		cond = bc.axes[axis].High
		edge = n - 1
	}
	if cond.Type == BCPeriodic {
		opp := n - 1 - edge
		return func(data []float64, base, stride int) float64 {
			return data[base+opp*stride]
		}
	}
	// The remaining conditions are all affine in the edge value.
	var fac, off float64
	switch cond.Type {
	case BCDirichlet:
		fac, off = -1, 2*cond.scalarValue()
	case BCNeumann:
		fac, off = 1, cond.scalarValue()*h
	case BCRobin:
		den := 2 + cond.Factor*h
		fac = (2 - cond.Factor*h) / den
		off = 2 * cond.scalarValue() * h / den
	default:
		panic(fmt.Sprintf("boundaries: unhandled condition type %s", cond.Type))
	}
	return func(data []float64, base, stride int) float64 {
		return fac*data[base+edge*stride] + off
	}
}

// RegionEvaluator resolves both ends of an axis at once. The returned
// Region reads the k-1 and k+1 neighbors directly in the interior and
// falls back to the end evaluators at the lane edges.
func (bc *Conditions) RegionEvaluator(axis int) Region {
	n := bc.grid.Shape()[axis]
	if bc.grid.Periodic()[axis] {
		return func(data []float64, base, stride, k int) (lo, c, hi float64) {
			lo = data[base+((k-1+n)%n)*stride]
			c = data[base+k*stride]
			hi = data[base+((k+1)%n)*stride]
			return
		}
	}
	var (
		vpLow  = bc.VirtualPointEvaluator(axis, Low)
		vpHigh = bc.VirtualPointEvaluator(axis, High)
	)
	return func(data []float64, base, stride, k int) (lo, c, hi float64) {
		c = data[base+k*stride]
		if k == 0 {
			lo = vpLow(data, base, stride)
		} else {
			lo = data[base+(k-1)*stride]
		}
		if k == n-1 {
			hi = vpHigh(data, base, stride)
		} else {
			hi = data[base+(k+1)*stride]
		}
		return
	}
}
