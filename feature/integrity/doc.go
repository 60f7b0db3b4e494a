// Package integrity checks that the infrastructure behind presigning is usable.
//
// Signing itself never touches the network, so a bad bucket name or revoked
// credentials only show up when a client follows the URL. These checks surface
// such problems up front by reusing the shared storage client.
//
// # Checks Provided
//
//   - Bucket: HEADs the configured bucket (network round-trip).
//   - Audit: Validates the presign_audits table columns when a database is attached.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/bucket : Runs the bucket check.
//   - GET /integrity/audit : Runs the audit table check.
package integrity
