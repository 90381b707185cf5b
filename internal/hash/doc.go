// Package hash provides the CRC32-Castagnoli (CRC32C) checksums that guard
// exported bundles and published artifacts.
//
//	sum := hash.CRC32C(data)
//	if err := hash.Verify(data, sum); err != nil { ... }
//
// Go's crc32 package uses hardware instructions (SSE4.2, ARM CRC) when
// available.
package hash
