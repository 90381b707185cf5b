package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/pokeyvq/blobstore"
	"github.com/hupe1980/pokeyvq/blobstore/minio"
	"github.com/hupe1980/pokeyvq/blobstore/s3"
)

// destination is a parsed -out value.
type destination struct {
	scheme string // "", "s3" or "minio"
	host   string // minio endpoint
	bucket string
	prefix string
	dir    string
}

func parseDestination(out string) (destination, error) {
	if !strings.Contains(out, "://") {
		return destination{dir: out}, nil
	}
	u, err := url.Parse(out)
	if err != nil {
		return destination{}, fmt.Errorf("%w: -out: %w", errUsage, err)
	}
	path := strings.Trim(u.Path, "/")

	switch u.Scheme {
	case "s3":
		if u.Host == "" {
			return destination{}, fmt.Errorf("%w: -out %q has no bucket", errUsage, out)
		}
		return destination{scheme: "s3", bucket: u.Host, prefix: path}, nil
	case "minio":
		bucket, prefix, _ := strings.Cut(path, "/")
		if u.Host == "" || bucket == "" {
			return destination{}, fmt.Errorf("%w: -out %q needs minio://host/bucket[/prefix]", errUsage, out)
		}
		return destination{scheme: "minio", host: u.Host, bucket: bucket, prefix: prefix}, nil
	default:
		return destination{}, fmt.Errorf("%w: unsupported -out scheme %q", errUsage, u.Scheme)
	}
}

// notCurrent lets published artifacts be written once while CURRENT moves.
func notCurrent(name string) bool { return name != blobstore.CurrentName }

func openStore(ctx context.Context, out, ddbTable string) (blobstore.BlobStore, error) {
	d, err := parseDestination(out)
	if err != nil {
		return nil, err
	}
	switch d.scheme {
	case "s3":
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		store := s3.NewStore(awss3.NewFromConfig(cfg), d.bucket, d.prefix, s3.WithWriteOnce(notCurrent))
		if ddbTable == "" {
			return store, nil
		}
		baseURI := "s3://" + d.bucket + "/" + d.prefix
		return s3.NewDDBCommitStore(store, dynamodb.NewFromConfig(cfg), ddbTable, baseURI), nil
	case "minio":
		client, err := miniogo.New(d.host, &miniogo.Options{
			Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
			Secure: os.Getenv("MINIO_SECURE") == "true",
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		return minio.NewStore(client, d.bucket, d.prefix), nil
	default:
		if err := os.MkdirAll(d.dir, 0o755); err != nil {
			return nil, err
		}
		return blobstore.NewLocalStore(d.dir), nil
	}
}
