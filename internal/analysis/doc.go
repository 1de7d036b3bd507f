// Package analysis provides closed-form companions to simulated runs.
//
// The package covers the math a run is checked against:
//
//   - [Q]: Gaussian tail probability P(Z > x)
//   - [TheorySER]: exact symbol error rate of the cube-corner constellation
//   - [EsN0DB]: per-symbol SNR of a run in decibels
//   - [SERConfidence]: 95% half-width of a measured error rate
//   - [NoiseStats]: mean and variance of recorded noise samples
//   - [Histogram]: binned density estimate for plotting
//
// # Validating a Run
//
// A measured rate should land inside the binomial confidence band
// around the closed form:
//
//	want := analysis.TheorySER(a, n0, 3)
//	if math.Abs(got-want) > analysis.SERConfidence(got, n) {
//	    // More symbols needed, or the pipeline is broken
//	}
package analysis
