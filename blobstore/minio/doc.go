// Package minio provides a BlobStore backed by MinIO or any other
// S3-compatible server (Ceph, Garage, SeaweedFS).
//
// # Basic Usage
//
//	store, err := minioblob.Dial(ctx, minioblob.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	    Bucket:    "meshes",
//	    Prefix:    "run-1/",
//	})
//
// Dial creates the bucket when it is missing, so a fresh server can be used
// as an output target directly.
package minio
