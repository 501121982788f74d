// Package compute provides the gravitational acceleration backends.
//
// Every backend evaluates the direct pairwise sum
//
//	a_i = Gm * sum_{j != i} (p_j - p_i) / |p_j - p_i|^3
//
// skipping any pair whose separation is below the shared body diameter
// (near-contact exclusion). Two backends are registered:
//
//   - serial: symmetric i<j loop on the calling goroutine
//   - parallel: per-body sums fanned out over worker goroutines
//
// Select one by name:
//
//	backend, err := compute.Lookup("parallel", 0)
//	excluded := backend.Accelerations(pos, gm, diameter, acc)
//
// Both read pos only and write acc only, so callers must hand in a
// snapshot that is not mutated while the call runs.
package compute
