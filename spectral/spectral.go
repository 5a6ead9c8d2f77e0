// Package spectral generates random fields with prescribed spectral
// statistics and measures the power spectrum of existing fields. It covers
// the one and two axis shapes used by the grids in this module; the half
// spectrum layout follows the real-FFT convention, a real transform along
// the last axis and a full complex transform along the first.
package spectral

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// fullFreqs returns the DFT sample frequencies j/(n*d) with the negative
// half wrapped to the back, in cycles per unit length.
func fullFreqs(n int, d float64) []float64 {
	fs := make([]float64, n)
	step := 1 / (float64(n) * d)
	for j := 0; j <= (n-1)/2; j++ {
		fs[j] = float64(j) * step
	}
	for j := (n-1)/2 + 1; j < n; j++ {
		fs[j] = float64(j-n) * step
	}
	return fs
}

// halfFreqs returns the real-FFT frequencies 0..n/2 in cycles per unit.
func halfFreqs(n int, d float64) []float64 {
	fs := make([]float64, n/2+1)
	step := 1 / (float64(n) * d)
	for j := range fs {
		fs[j] = float64(j) * step
	}
	return fs
}

// waveNumbers returns |k|^2 on the half spectrum, flattened row major.
func waveNumbers(shape []int, dx []float64) []float64 {
	switch len(shape) {
	case 1:
		fs := halfFreqs(shape[0], dx[0])
		k2 := make([]float64, len(fs))
		for i, f := range fs {
			k2[i] = f * f
		}
		return k2
	case 2:
		f0 := fullFreqs(shape[0], dx[0])
		f1 := halfFreqs(shape[1], dx[1])
		k2 := make([]float64, len(f0)*len(f1))
		for i, a := range f0 {
			for j, b := range f1 {
				k2[i*len(f1)+j] = a*a + b*b
			}
		}
		return k2
	}
	panic(fmt.Sprintf("spectral: unsupported field dimension %d", len(shape)))
}

func checkShape(shape []int, dx []float64) error {
	if len(shape) < 1 || len(shape) > 2 {
		return fmt.Errorf("spectral: need a 1- or 2-axis shape, got %v", shape)
	}
	if len(dx) != len(shape) {
		return fmt.Errorf("spectral: %d axis spacings for shape %v", len(dx), shape)
	}
	for i, n := range shape {
		if n < 1 {
			return fmt.Errorf("spectral: shape %v has an empty axis", shape)
		}
		if dx[i] <= 0 {
			return fmt.Errorf("spectral: axis %d spacing must be positive, got %g", i, dx[i])
		}
	}
	return nil
}

// MakeColoredNoise returns a generator of Gaussian random fields with
// spectral density S(k) proportional to scale^2 * |k|^exponent. The zero
// mode is suppressed, so every generated field is mean free; exponent == 0
// degenerates to white noise of the requested scale without any transform.
// Successive calls draw from one stream seeded with seed, so a fixed seed
// reproduces the whole sequence. The generator reuses internal buffers and
// is not safe for concurrent use.
func MakeColoredNoise(shape []int, discretization []float64, exponent, scale float64, seed uint64) (func() *sparse.DenseArray, error) {
	if err := checkShape(shape, discretization); err != nil {
		return nil, err
	}
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)}

	if exponent == 0 {
		return func() *sparse.DenseArray {
			out := sparse.ZerosDense(shape...)
			for i := range out.Elements {
				out.Elements[i] = scale * normal.Rand()
			}
			return out
		}, nil
	}

	scaling := waveNumbers(shape, discretization)
	for i, k2 := range scaling {
		scaling[i] = scale * math.Pow(k2, exponent/4)
	}
	scaling[0] = 0 // suppress the mean

	if len(shape) == 1 {
		var (
			n     = shape[0]
			fft   = fourier.NewFFT(n)
			coeff = make([]complex128, n/2+1)
		)
		return func() *sparse.DenseArray {
			out := sparse.ZerosDense(shape...)
			for i := range out.Elements {
				out.Elements[i] = normal.Rand()
			}
			fft.Coefficients(coeff, out.Elements)
			for i := range coeff {
				coeff[i] *= complex(scaling[i], 0)
			}
			fft.Sequence(out.Elements, coeff)
			floats.Scale(1/float64(n), out.Elements)
			return out
		}, nil
	}

	var (
		n0, n1 = shape[0], shape[1]
		h      = n1/2 + 1
		rfft   = fourier.NewFFT(n1)
		cfft   = fourier.NewCmplxFFT(n0)
		spec   = make([]complex128, n0*h)
		col    = make([]complex128, n0)
		colF   = make([]complex128, n0)
	)
	return func() *sparse.DenseArray {
		out := sparse.ZerosDense(shape...)
		for i := range out.Elements {
			out.Elements[i] = normal.Rand()
		}
		for i := 0; i < n0; i++ {
			rfft.Coefficients(spec[i*h:(i+1)*h], out.Elements[i*n1:(i+1)*n1])
		}
		// scale each half-spectrum column in frequency space; the mask is
		// symmetric under k -> -k, so the field stays real
		for j := 0; j < h; j++ {
			for i := 0; i < n0; i++ {
				col[i] = spec[i*h+j]
			}
			cfft.Coefficients(colF, col)
			for i := 0; i < n0; i++ {
				colF[i] *= complex(scaling[i*h+j], 0)
			}
			cfft.Sequence(col, colF)
			for i := 0; i < n0; i++ {
				spec[i*h+j] = col[i] / complex(float64(n0), 0)
			}
		}
		for i := 0; i < n0; i++ {
			rfft.Sequence(out.Elements[i*n1:(i+1)*n1], spec[i*h:(i+1)*h])
		}
		floats.Scale(1/float64(n1), out.Elements)
		return out
	}, nil
}

// rfft2 computes the half spectrum of a rows x cols field: a real
// transform along each row, then a complex transform down each column.
func rfft2(field []float64, n0, n1 int) []complex128 {
	var (
		h    = n1/2 + 1
		rfft = fourier.NewFFT(n1)
		cfft = fourier.NewCmplxFFT(n0)
		spec = make([]complex128, n0*h)
		col  = make([]complex128, n0)
		colF = make([]complex128, n0)
	)
	for i := 0; i < n0; i++ {
		rfft.Coefficients(spec[i*h:(i+1)*h], field[i*n1:(i+1)*n1])
	}
	for j := 0; j < h; j++ {
		for i := 0; i < n0; i++ {
			col[i] = spec[i*h+j]
		}
		cfft.Coefficients(colF, col)
		for i := 0; i < n0; i++ {
			spec[i*h+j] = colF[i]
		}
	}
	return spec
}

// Density measures the power spectrum of a field: the wave-vector
// magnitudes of the half spectrum alongside the squared transform moduli,
// both flattened row major and unbinned. ks[0] is the zero mode, so
// density[0] vanishes for mean-free fields. The field must have a 1- or
// 2-axis shape matching the discretization; anything else is a programming
// error and panics.
func Density(data *sparse.DenseArray, discretization []float64) (ks, density []float64) {
	shape := data.Shape
	if err := checkShape(shape, discretization); err != nil {
		panic(err.Error())
	}

	var spec []complex128
	switch len(shape) {
	case 1:
		spec = fourier.NewFFT(shape[0]).Coefficients(nil, data.Elements)
	case 2:
		spec = rfft2(data.Elements, shape[0], shape[1])
	}

	k2 := waveNumbers(shape, discretization)
	ks = make([]float64, len(spec))
	density = make([]float64, len(spec))
	for i, c := range spec {
		ks[i] = math.Sqrt(k2[i])
		density[i] = real(c)*real(c) + imag(c)*imag(c)
	}
	return ks, density
}
