// Package quantization turns hardware level indices into decoder payload bytes.
//
// Four layouts exist, selected by channel count and packing:
//
//	┌───────────┬──────────────────────────────┬──────────────────────────────┐
//	│           │ packed                       │ unpacked                     │
//	├───────────┼──────────────────────────────┼──────────────────────────────┤
//	│ 1 channel │ 2 samples/byte, low = first  │ 1 byte/sample, volume|ctrl   │
//	│ 2 channel │ 1 byte/sample, hi = B lo = A │ 2 bytes/sample, A|ctrl B|ctrl│
//	└───────────┴──────────────────────────────┴──────────────────────────────┘
//
// ctrl is the AUDC volume-only bit, set only when prebake is enabled so the
// decoder can store the byte without masking.
package quantization
