// Package distance holds the comparison kernels of codebook training.
//
// SquaredL2Windows scores one entry against every window of the signal in a
// single strided pass:
//
//	out := make([]float32, len(signal)-len(vec)+1)
//	distance.SquaredL2Windows(signal, vec, out)
//
// NearestWindows reduces a group of same-length entries to the best entry per
// window position. Provider returns the scalar kernel for a Metric.
package distance
