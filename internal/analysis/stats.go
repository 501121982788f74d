package analysis

import (
	"math"

	"github.com/san-kum/galaxysim/internal/series"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

type Stats struct {
	Min  float64
	Mean float64
	Max  float64
	Std  float64
}

// FrameStats summarises the acceleration magnitudes of frame t.
func FrameStats(ser *series.Series, t int) (Stats, error) {
	_, acc, err := ser.Frame(t)
	if err != nil {
		return Stats{}, err
	}
	if len(acc) == 0 {
		return Stats{}, nil
	}

	mean, std := stat.MeanStdDev(acc, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return Stats{
		Min:  floats.Min(acc),
		Mean: mean,
		Max:  floats.Max(acc),
		Std:  std,
	}, nil
}

// MeanAccelerationSeries returns the mean acceleration magnitude of every
// recorded frame.
func MeanAccelerationSeries(ser *series.Series) []float64 {
	out := make([]float64, ser.Len())
	for t := range out {
		// t < Len, so Frame cannot fail
		_, acc, _ := ser.Frame(t)
		if len(acc) > 0 {
			out[t] = stat.Mean(acc, nil)
		}
	}
	return out
}

// Centroids returns the mean position of each half of the population at
// frame t.
func Centroids(ser *series.Series, t int) (bottom, top r3.Vec, err error) {
	pos, _, err := ser.Frame(t)
	if err != nil {
		return r3.Vec{}, r3.Vec{}, err
	}
	half := len(pos) / 2
	if half == 0 {
		return r3.Vec{}, r3.Vec{}, nil
	}
	return centroid(pos[:half]), centroid(pos[half:]), nil
}

// Separation returns the centroid distance between the two galaxies for
// every recorded frame.
func Separation(ser *series.Series) ([]float64, error) {
	out := make([]float64, ser.Len())
	for t := range out {
		b, top, err := Centroids(ser, t)
		if err != nil {
			return nil, err
		}
		out[t] = r3.Norm(r3.Sub(top, b))
	}
	return out, nil
}

func centroid(pos []r3.Vec) r3.Vec {
	var c r3.Vec
	for _, p := range pos {
		c = r3.Add(c, p)
	}
	return r3.Scale(1/float64(len(pos)), c)
}
