// Package interfaces defines core interfaces and types for the resource
// storage service, separating interface definitions from implementations.
//
// # Storage Interfaces
//
// BlobStore: Reads, writes and deletes raw bytes for one metadata record
// across heterogeneous backends (local filesystem, S3-compatible object
// storage). Behaves identically regardless of where bytes land.
//
// ResourceRepository: CRUD over metadata records keyed by an internal
// identifier and a public UUID.
//
// Storage: The storage engine contract consumed by the HTTP facade. Owns the
// create/read/delete protocols and their failure semantics.
//
// # Core Types
//
// Resource: The metadata record describing one stored blob (identifiers,
// container, classification, content type, physical path, display name).
//
// Container: Logical grouping of blobs. Locally a subdirectory, remotely a
// bucket whose name is derived deterministically from the container.
//
// Classification: Caller-supplied content classification tag.
//
// # Error Kinds
//
// Sentinel errors classify every failure the engine can surface:
// ErrResourceNotFound, ErrResourceRead, ErrResourceCreate, ErrBatchCreate
// and ErrResourceDelete at the engine level; ErrObjectNotFound and
// ErrBackendUnavailable at the adapter level. Adapters never hide faults
// from the engine; the engine classifies every adapter fault into exactly
// one engine-level kind before returning. Classify with errors.Is.
package interfaces
