package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// step advances u by one low storage RK4 step of du/dt = f(u, t).
func step(u, t, dt float64, f func(u, t float64) float64) float64 {
	var resid float64
	for INTRK := 0; INTRK < 5; INTRK++ {
		resid = RK4a[INTRK]*resid + dt*f(u, t+RK4c[INTRK]*dt)
		u += RK4b[INTRK] * resid
	}
	return u
}

func TestRK4(t *testing.T) {
	{ // Quadrature weights sum to one: du/dt = 1 advances u by exactly dt
		u := step(3, 0, 0.125, func(u, t float64) float64 { return 1 })
		assert.InDelta(t, 3+0.125, u, 1e-14)
	}
	{ // Second order condition wires the stage times: du/dt = t is exact
		var (
			t0 = 0.7
			dt = 0.125
		)
		u := step(1, t0, dt, func(u, t float64) float64 { return t })
		assert.InDelta(t, 1+dt*t0+dt*dt/2, u, 1e-14)
	}
	{ // du/dt = u over one step lands within the O(dt^5) truncation error
		u := step(1, 0, 0.1, func(u, t float64) float64 { return u })
		assert.InDelta(t, math.Exp(0.1), u, 1e-6)
	}
}

func TestPOW(t *testing.T) {
	for _, x := range []float64{-2.5, -1, 0.5, 1.75, 3} {
		for p := -8; p <= 8; p++ {
			assert.InEpsilon(t, math.Pow(x, float64(p)), POW(x, p), 1e-13)
		}
	}
	// Exponents outside the unrolled range fall through to math.Pow
	assert.Equal(t, math.Pow(1.5, 20), POW(1.5, 20))
	assert.Equal(t, 1., POW(42, 0))
}

func TestMaxAbs(t *testing.T) {
	assert.Equal(t, 7.5, MaxAbs([]float64{1, -7.5, 3, 0}))
	// Large enough to split across goroutines
	xs := make([]float64, 10000)
	for i := range xs {
		xs[i] = math.Sin(float64(i))
	}
	xs[6137] = -9.25
	assert.Equal(t, 9.25, MaxAbs(xs))
}
