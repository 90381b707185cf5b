// Package pokeyvq encodes audio for playback on the Atari POKEY sound chip.
//
// The codec trains a small codebook of variable-length sample vectors plus an
// index stream that replays them in order, optionally restricted to the
// discrete output levels the AUDC volume registers can produce. The result
// is exported as the byte tables a hand-written 6502 decoder walks once per
// scanline.
//
// # Quick Start
//
//	cfg := pokeyvq.DefaultConfig()
//	cfg.Channels = 2
//	enc, _ := pokeyvq.New(cfg, pokeyvq.WithLogger(pokeyvq.NewTextLogger(slog.LevelInfo)))
//	res, _ := enc.Run(ctx, samples, 44100)
//	_ = res.Tables.WriteListing(os.Stdout, "SFX")
//
// # Multiple Clips
//
// RunClips trains one codebook for several clips. No vector crosses a clip
// boundary, and the exported directory lets the player start each clip
// independently. Clips marked Raw bypass the codebook and are stored as
// directly quantized levels.
//
// # Preview
//
// Two-channel playback writes AUDC1 and AUDC2 with separate stores, so for a
// few cycles the chip outputs the new channel 1 volume next to the old
// channel 2 volume. Encoder.Preview renders that glitch at a normal audio
// rate for auditioning.
//
// # Batches
//
// BatchEncoder runs independent jobs (one per instrument) in parallel, bounded
// by a resource.Controller.
package pokeyvq
