// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "meshes/")
//
// # Features
//
//   - Range reads for blob access
//   - Multipart uploads through the transfer manager for large exports
//   - Automatic pagination for listing
//   - Configurable prefix so many runs can share a bucket
package s3
