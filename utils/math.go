package utils

import (
	"math"

	"github.com/exascience/pargo/parallel"
)

// Low storage five stage RK4 coefficients (Carpenter / Kennedy), used by the
// explicit time steppers in model_problems:
//
//	resid = RK4a[s]*resid + dt*RHS(u, t + RK4c[s]*dt)
//	u    += RK4b[s]*resid
var (
	RK4a = [5]float64{
		0.0,
		-567301805773.0 / 1357537059087.0,
		-2404267990393.0 / 2016746695238.0,
		-3550918686646.0 / 2091501179385.0,
		-1275806237668.0 / 842570457699.0,
	}
	RK4b = [5]float64{
		1432997174477.0 / 9575080441755.0,
		5161836677717.0 / 13612068292357.0,
		1720146321549.0 / 2090206949498.0,
		3134564353537.0 / 4481467310338.0,
		2277821191437.0 / 14882151754819.0,
	}
	RK4c = [5]float64{
		0.0,
		1432997174477.0 / 9575080441755.0,
		2526269341429.0 / 6820363962896.0,
		2006345519317.0 / 3224310063776.0,
		2802321613138.0 / 2924317926251.0,
	}
)

func POW(x float64, pp int) (y float64) {
	var (
		p       = pp
		flipped bool
	)
	if pp > 8 || pp < -8 {
		goto MATHPOW
	}

	if p < 0 {
		p = -pp
		flipped = true
	}
	switch p {
	case 0:
		y = 1
	case 1:
		y = x
	case 2:
		y = x * x
	case 3:
		y = x * x * x
	case 4:
		y = x * x
		y = y * y
	case 5:
		y = x * x
		y = y * y * x
	case 6:
		y = x * x
		y = y * y * y
	case 7:
		y = x * x
		y = y * y * y * x
	case 8:
		y = x * x
		y = y * y * y * y
	}
	if flipped {
		y = 1. / y
	}
	return

MATHPOW:
	y = math.Pow(x, float64(p))
	return
}

// MaxAbs returns the largest magnitude in xs, reduced over index ranges in
// parallel.
func MaxAbs(xs []float64) float64 {
	return parallel.RangeReduceFloat64(0, len(xs), 0,
		func(low, high int) (m float64) {
			for i := low; i < high; i++ {
				if a := math.Abs(xs[i]); a > m {
					m = a
				}
			}
			return
		}, math.Max)
}
