// Package storage provides blob store backends behind one capability
// interface.
//
// Two backends implement interfaces.BlobStore:
//
//   - LocalBackend stores blobs on the local filesystem under
//     <root>/<container>/<path>, creating parent directories on write.
//   - S3Backend stores blobs in S3-compatible object storage with one
//     bucket per logical container. Bucket names are derived
//     deterministically from the container, so every process targets the
//     same bucket without coordination.
//
// # Backend Selection
//
// Backends are specified by location URI and created by BackendFactory at
// startup:
//
//	file:///var/lib/resources/
//	s3://[ACCESS_KEY:SECRET_KEY@]host/?region=us-east-1&endpoint=minio.local:9000&path-style=true
//
// # Bucket Lifecycle
//
// BucketRegistry keeps a process-wide set of bucket names known to exist,
// seeded by ListBuckets at startup and appended to as buckets are created
// lazily on first write. A creation that loses a race to another process is
// treated as success.
//
// # Deletion Semantics
//
// Delete returns whether the blob is confirmed absent after the call. The
// local backend reports the filesystem delete result directly; the S3
// backend follows its delete with a HEAD existence probe, because object
// stores may report success for deletes of nonexistent or still-propagating
// objects.
package storage
