// Package audio holds the sample-buffer plumbing around the codec: rate
// conversion, amplitude domain mapping, normalization, padding and quality
// measurement. Buffers are never modified in place; every function returns a
// new slice.
package audio
