// Package minio stores published sound banks on a MinIO server or any other
// S3-compatible endpoint reachable without AWS credentials.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds: credentials.NewStaticV4(accessKey, secretKey, ""),
//	})
//	if err != nil {
//	    return err
//	}
//	pub := publish.New(minioblob.NewStore(client, "banks", "sfx/"))
//
// Every object carries its CRC32C in the user metadata key Crc32c.
package minio
