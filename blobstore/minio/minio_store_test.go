package minio

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pokeyvq/blobstore"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestPutOptions(t *testing.T) {
	opts := putOptions("sfx/sfx.s", []byte("123456789"))
	assert.Equal(t, "text/plain; charset=utf-8", opts.ContentType)
	assert.Equal(t, "e3069283", opts.UserMetadata[ChecksumMetadata])

	assert.Equal(t, "application/json", contentType("MANIFEST-000001.json"))
	assert.Equal(t, "application/octet-stream", contentType("sfx.pvq"))
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	client, err := minio.New(envOr("MINIO_ENDPOINT", "localhost:9000"), &minio.Options{
		Creds: credentials.NewStaticV4(
			envOr("MINIO_ACCESS_KEY", "minioadmin"),
			envOr("MINIO_SECRET_KEY", "minioadmin"), ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	bucket := "test-pokeyvq"
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, fmt.Sprintf("test-%d/", time.Now().UnixNano()))

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "sfx/test.s", data))

	blob, err := store.Open(ctx, "sfx/test.s")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	part := make([]byte, 5)
	n, err := blob.ReadAt(ctx, part, 6)
	require.NoError(t, err)
	assert.Equal(t, "minio", string(part[:n]))

	tail := make([]byte, 10)
	n, err = blob.ReadAt(ctx, tail, 12)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "world", string(tail[:n]))
	require.NoError(t, blob.Close())

	got, err := blobstore.ReadAll(ctx, store, "sfx/test.s")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "sfx/")
	require.NoError(t, err)
	assert.Equal(t, []string{"sfx/test.s"}, names)

	require.NoError(t, store.Delete(ctx, "sfx/test.s"))
	require.NoError(t, store.Delete(ctx, "sfx/test.s"))

	_, err = store.Open(ctx, "sfx/test.s")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
