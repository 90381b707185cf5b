// Package blobstore persists published artifacts (listings, bundles and
// manifests).
//
// # Built-in Implementations
//
//   - LocalStore: local directory, atomic writes, mmap reads
//   - MemoryStore: in-memory, for tests
//   - s3.Store and s3.DDBCommitStore: Amazon S3, optionally with a DynamoDB
//     commit pointer
//   - minio.Store: MinIO and other S3-compatible servers
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
