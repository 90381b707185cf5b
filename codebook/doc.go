// Package codebook stores the variable-length sample vectors of a VQ codebook.
//
// A Codebook has a fixed number of slots (at most 256, so an entry id fits a
// byte). All entries live in one contiguous float32 arena; each slot owns a
// fixed-stride region and records its current length. A length of zero marks
// an unset slot.
//
//	┌────────────── stride ──────────────┬────────────── stride ──────────────┐
//	│ entry 0 samples (len 0)  │ unused  │ entry 1 samples (len 1)   │ unused │ ...
//	└────────────────────────────────────┴────────────────────────────────────┘
//
// Entry returns views into the arena; they stay valid until the slot is Set
// again. A Codebook is owned by a single training job and is not safe for
// concurrent mutation.
package codebook
