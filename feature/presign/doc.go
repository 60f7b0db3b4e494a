// Package presign issues time-limited download URLs for objects in the configured bucket.
//
// The Service wraps the process-wide storage.Client. For each call it builds a
// {bucket, key} descriptor, asks the client to sign a GET for it, and returns the
// URL. Signing is a local computation; nothing is sent to the storage provider,
// so a URL is produced even for keys that do not exist.
//
// # Expiry
//
// URLs live for AWS_S3_PRESIGN_EXPIRY_SECONDS (24 hours by default). Sign accepts
// a per-call expiry up to MaxExpiry (7 days).
//
// # Errors
//
// Every failure is logged and returned as a *SigningError wrapping the cause.
// ErrEmptyKey and ErrInvalidExpiry mark caller mistakes; anything else comes from the SDK.
//
// # Audit
//
// When a database is attached, each issued link is recorded in presign_audits
// (key, bucket, expiry, ray id). A failed write is logged and ignored.
//
// # HTTP Endpoints
//
//   - GET /presign/{key} : Returns {key, url, expires_at}. Supports ?expires_in=<seconds>.
package presign
