// Package quantization provides the raw (non-VQ) sample path: every sample is
// mapped straight to the nearest hardware output level.
//
// # Nearest Level
//
//	levels := quantization.Quantize(audio, hardware.SingleChannel(), false)
//
// audio must already be in the codec's unipolar [0, 1] domain.
//
// # Noise Shaping
//
// With noise shaping enabled the encoder feeds each sample's quantization
// error forward into the next sample (first-order error feedback). The mean
// of the output then tracks the input closely and the noise moves towards
// high frequencies, which only pays off when the sample rate is well above
// the audible band:
//
//	enc := quantization.NewRawEncoder(table, quantization.WithNoiseShaping())
//	levels := enc.Quantize(audio)
//	payload, err := enc.Encode(audio, true, false) // packed, no prebake
//
// Quantization is deterministic: the same input always yields the same levels.
package quantization
