// Package analysis provides frequency analysis of per-tick series,
// used to spot periodic solver behavior such as resonating stacks.
package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform by radix-2
// Cooley-Tukey. Input length must be a power of two.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PowerSpectrum returns the magnitude of the positive-frequency half
// of the transform.
func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// Spectrum pads the series with zeros to the next power of two and
// returns its power spectrum. The mean is removed first so the DC
// component does not swamp the interesting frequencies.
func Spectrum(series []float64) []float64 {
	if len(series) == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	n := 1
	for n < len(series) {
		n *= 2
	}
	padded := make([]float64, n)
	for i, v := range series {
		padded[i] = v - mean
	}

	return PowerSpectrum(padded)
}

// DominantFrequency returns the peak bin of the spectrum converted to
// hertz for the given sample rate, skipping the DC bin.
func DominantFrequency(spectrum []float64, sampleRate float64) float64 {
	if len(spectrum) < 2 {
		return 0
	}
	maxIdx := 1
	for i := 2; i < len(spectrum); i++ {
		if spectrum[i] > spectrum[maxIdx] {
			maxIdx = i
		}
	}
	return float64(maxIdx) * sampleRate / float64(2*len(spectrum))
}
