// Package vq trains variable-length vector-quantization codebooks for audio.
//
// A Generator learns a codebook of up to 256 sample vectors whose lengths lie
// in [MinLen, MaxLen], together with the index stream that reproduces the
// training signal from them. Training alternates three steps until the total
// segmentation cost stops improving:
//
//  1. Segmentation: optimal covering of the signal by codebook entries under
//     the per-vector weight Lambda and the smoothness weight Alpha.
//  2. Update: every referenced entry moves to the mean of its windows, and is
//     snapped to the hardware voltage table when Constrained is set.
//  3. Adaptation: entries nobody used are respawned by splitting the entries
//     with the largest assigned error.
//
// # Usage
//
//	g, err := vq.NewGenerator(vq.Config{
//	    Size:   256,
//	    MinLen: 2,
//	    MaxLen: 16,
//	    Lambda: 0.005,
//	}, rand.New(rand.NewSource(1)))
//	res, err := g.Train(ctx, signal, nil)
//	// res.Codebook, res.Indices
//
// All randomness comes from the rand.Rand passed to NewGenerator, so a fixed
// seed reproduces a run exactly.
package vq
