package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/meshq/blobstore"
	"github.com/hupe1980/meshq/blobstore/minio"
	s3store "github.com/hupe1980/meshq/blobstore/s3"
	"github.com/hupe1980/meshq/runlog/ddb"
)

// storeLocation is a parsed store argument.
type storeLocation struct {
	scheme   string // "file", "s3" or "minio"
	endpoint string // minio only
	bucket   string
	prefix   string
	path     string // file only
}

// parseLocation accepts a local directory, s3://bucket/prefix or
// minio://host:port/bucket/prefix.
func parseLocation(raw string) (storeLocation, error) {
	if !strings.Contains(raw, "://") {
		return storeLocation{scheme: "file", path: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return storeLocation{}, fmt.Errorf("invalid store %q: %w", raw, err)
	}
	rest := strings.Trim(u.Path, "/")

	switch u.Scheme {
	case "file":
		return storeLocation{scheme: "file", path: u.Host + u.Path}, nil
	case "s3":
		if u.Host == "" {
			return storeLocation{}, fmt.Errorf("invalid store %q: missing bucket", raw)
		}
		return storeLocation{scheme: "s3", bucket: u.Host, prefix: withSlash(rest)}, nil
	case "minio":
		bucket, prefix, _ := strings.Cut(rest, "/")
		if u.Host == "" || bucket == "" {
			return storeLocation{}, fmt.Errorf("invalid store %q: want minio://host/bucket[/prefix]", raw)
		}
		return storeLocation{scheme: "minio", endpoint: u.Host, bucket: bucket, prefix: withSlash(prefix)}, nil
	default:
		return storeLocation{}, fmt.Errorf("invalid store %q: unsupported scheme %q", raw, u.Scheme)
	}
}

func withSlash(prefix string) string {
	if prefix == "" || strings.HasSuffix(prefix, "/") {
		return prefix
	}
	return prefix + "/"
}

// openStore connects to the store at loc. Cloud credentials come from the
// environment: the default AWS chain for s3, MINIO_ACCESS_KEY and
// MINIO_SECRET_KEY for minio.
func openStore(ctx context.Context, loc storeLocation) (blobstore.BlobStore, error) {
	switch loc.scheme {
	case "s3":
		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return s3store.NewStore(s3.NewFromConfig(awsCfg), loc.bucket, loc.prefix), nil
	case "minio":
		return minio.Dial(ctx, minio.Config{
			Endpoint:  loc.endpoint,
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Secure:    os.Getenv("MINIO_SECURE") == "true",
			Region:    os.Getenv("MINIO_REGION"),
			Bucket:    loc.bucket,
			Prefix:    loc.prefix,
		})
	default:
		return blobstore.NewLocalStore(loc.path), nil
	}
}

// openRunLog numbers batch runs in the DynamoDB table, keyed by the output
// location.
func openRunLog(ctx context.Context, table, baseURI string) (*ddb.Log, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ddb.New(dynamodb.NewFromConfig(awsCfg), table, baseURI), nil
}
