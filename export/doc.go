// Package export serializes a trained codebook and index stream into the byte
// tables consumed by the real-time decoder.
//
// # Tables
//
//	LENS        256 bytes  entry length per slot, 0 for unused slots
//	OFFSET_LO   256 bytes  low byte of the entry's offset into BLOB
//	OFFSET_HI   256 bytes  high byte of the entry's offset into BLOB
//	BLOB        n bytes    encoded entries in slot order
//	INDICES     m bytes    index stream, one byte per vector
//
// With a clip directory, five parallel per-clip tables follow:
// CLIP_START_LO/HI and CLIP_END_LO/HI give the clip's byte range inside
// INDICES (VQ clips) or RAW_BLOB (raw clips), CLIP_MODE is 0 for VQ and 1
// for raw.
//
// # Layouts
//
// SpeedPacked stores two single-channel samples per byte, earlier sample in
// the low nibble. SpeedUnpacked stores one byte per sample, optionally with
// the AUDC volume-only bit preset. Two-channel exports store one byte per
// sample (B in the high nibble) or two bytes per sample (A then B).
//
// Export is a pure function: identical inputs give identical tables.
//
// # Output
//
// Tables.WriteListing emits an assembler listing; Tables.MarshalBinary and
// Tables.Bundle produce a self-describing checksummed container.
package export
