// Package analysis summarises a recorded run.
//
//   - [FrameStats]: min, mean, max and spread of acceleration magnitudes in one frame
//   - [MeanAccelerationSeries]: mean acceleration magnitude per frame
//   - [Separation]: distance between the two galaxy centroids per frame
//   - [PowerSpectrum]: amplitude spectrum of a per-frame series
//
// A typical check for the moment of closest approach:
//
//	sep, _ := analysis.Separation(ser)
//	closest := floats.MinIdx(sep)
package analysis
