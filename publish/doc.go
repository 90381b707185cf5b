// Package publish writes exported sound banks to a blob store.
//
// Each publication stores an assembler listing, a binary bundle and an
// optional quality report under <name>/<version>/, then commits a new
// manifest version that records their sizes and CRC32C checksums:
//
//	pub := publish.New(blobstore.NewLocalStore("out"),
//	    publish.WithCompression(export.CompressionZSTD),
//	)
//	m, err := pub.Publish(ctx, "kick", tables, report)
//
// Fetch reads a bank back and verifies it against the manifest.
package publish
