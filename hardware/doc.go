// Package hardware describes the POKEY output stage the codec targets.
//
// Samples are played back in volume-only mode: every output sample is a write
// of a 4-bit volume to an AUDC register with the volume-only bit (0x10) set.
// With two channels the physical output is the mix of both volumes, which
// gives 31 combined levels before the analog saturation curve is applied.
//
// # Tables
//
// A Table is the sorted set of levels a configuration can produce, normalized
// to [0, 1]. It is used to project codebook values onto reachable voltages and
// to map a level back to the per-channel nibbles that produce it:
//
//	t := hardware.DualChannel()
//	idx := t.Nearest(0.42)   // index of the closest combined level
//	p := t.Pair(idx)         // channel 1 / channel 2 volumes
//
// # Register write race
//
// The decoder updates the two AUDC registers with two sequential stores.
// For GlitchCycles CPU cycles after the first store the output reflects the
// new channel 1 volume and the stale channel 2 volume. Saturate models the
// nonlinear mixing used when previewing that race.
package hardware
