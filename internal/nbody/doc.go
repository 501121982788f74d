// Package nbody holds the body population and the force/integration kernel.
//
// Bodies are stored as parallel slices (structure of arrays). All bodies
// share one gravitational parameter Gm and one contact diameter.
//
// Each [Kernel.Step] advances every body once:
//
//	pos += vel*dt + 0.5*acc*dt*dt
//	vel += acc*dt
//
// with acc computed in the same step. [Snapshot] ordering evaluates every
// acceleration from the start-of-step positions before moving anything;
// [Interleaved] ordering moves body i before body i+1 computes its sum,
// matching the historical per-body loop.
package nbody
