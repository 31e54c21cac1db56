// Package blobstore provides the storage abstraction meshes are read from and
// results are written to.
//
// A BlobStore addresses immutable blobs by slash-separated name. Meshes are
// loaded whole and outputs are written whole with Put, so a reader never sees
// a partial file.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, reads through mmap
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3 (aws-sdk-go-v2, multipart uploads via the transfer manager)
//   - minio.Store: MinIO and other S3-compatible services
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
