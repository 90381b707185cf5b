// Package s3 stores published sound banks in Amazon S3.
//
// Store maps blob names to keys below a root prefix. Small blobs go out as a
// single PutObject with a CRC32C checksum; larger ones use the multipart
// uploader from feature/s3/manager. Names selected by WithWriteOnce are
// written with If-None-Match so a version directory is never overwritten.
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "banks", "sfx/",
//	    s3.WithWriteOnce(func(name string) bool { return name != blobstore.CurrentName }),
//	)
//
// DDBCommitStore keeps the CURRENT pointer in DynamoDB instead, so two
// publishers racing on the same prefix cannot both win.
package s3
