// Package signal provides the core primitives shared by every stage of
// the transmission pipeline.
//
// The package defines the point vector and the error taxonomy used
// throughout the module:
//
//   - [Point]: a D-dimensional signal-space vector
//   - [ErrInvalidParameter]: configuration value outside its range
//   - [ErrDimensionMismatch]: point/constellation dimensionality disagreement
//   - [ErrLengthMismatch]: paired sequence length disagreement
//
// All errors are detected eagerly at the start of the affected stage and
// wrapped with stage context via [PipelineError]; no stage silently
// recovers.
//
// # Thread Safety
//
// Points are plain slices and follow the usual aliasing rules: clone
// before sharing across goroutines that mutate.
package signal
