// Package dynamo provides the primitives shared by every stage of a galaxy
// collision run.
//
//   - [PreconditionError]: fatal precondition failures carrying the region,
//     body index or frame index that triggered them
//   - [ParallelFor]: chunked worker fan-out used by the force backends
//
// # Errors
//
// All precondition failures wrap one of the sentinel errors declared in
// errors.go, so callers match them with [errors.Is]:
//
//	if errors.Is(err, dynamo.ErrSampleShortfall) {
//	    // lattice too coarse for the configured body count
//	}
//
// Numeric edge cases such as near-contact pairs are handled inside the
// kernel and never surface as errors.
package dynamo
