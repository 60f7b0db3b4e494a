// Package storage provides an abstraction layer for object storage services.
//
// It builds the single, process-wide storage client from configuration and hides
// which SDK performs the work. Two drivers are supported:
//
//   - aws: the AWS SDK for Go v2 (default). Presigning goes through s3.PresignClient.
//   - minio: the MinIO Go client, for S3-compatible providers.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Operations
//
//   - PresignGetObject: Produces a time-limited read URL for {bucket, key}. Local computation only.
//   - BucketExists: Verifies access to the target bucket (network round-trip).
//
// # Configuration
//
// Config is read from the "aws" section, so AWS_REGION, AWS_ACCESS_KEY_ID,
// AWS_SECRET_ACCESS_KEY and AWS_S3_BUCKET_NAME are all required. NewClient
// refuses to build a client when any of them is missing.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	url, err := client.PresignGetObject(ctx, storage.ObjectRef{Bucket: "assets", Key: "a.png"}, 24*time.Hour)
package storage
