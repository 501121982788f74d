package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns the amplitude of the first len(data)/2 frequency
// bins. The mean is removed first so bin 0 does not swamp the rest.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}

	mean := stat.Mean(data, nil)
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	spec := fft.FFTReal(centered)
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantPeriod returns the period in frames of the strongest non-zero
// frequency bin, or 0 when the spectrum is flat.
func DominantPeriod(data []float64) float64 {
	ps := PowerSpectrum(data)
	best, idx := 0.0, 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > best {
			best, idx = ps[i], i
		}
	}
	if idx == 0 {
		return 0
	}
	return float64(len(data)) / float64(idx)
}
