// Package resource implements the storage engine that keeps metadata
// records and physical blobs consistent despite partial failures.
//
// # Create Protocol
//
// CreateOne inserts the metadata record first, then writes the blob. If the
// blob write fails, a compensating delete removes the now-pointless record
// before the failure propagates. The two stores share no transaction;
// ordered steps plus the compensating action bound the window in which a
// record references a missing blob to the duration of the write. A crash
// between insert and write leaves a blob-pending record behind — that
// window is documented, not eliminated, and the repository's FindAll is the
// hook an external reconciler would sweep with.
//
// # Delete Protocol
//
// DeleteOne deletes the blob, then re-verifies its absence with an
// existence probe before removing the metadata record. The delete call's
// own success signal is not trusted: some backends report success for
// deletes of nonexistent or still-propagating objects. If absence cannot be
// confirmed the record is kept, so no blob is ever orphaned without a
// tracking record.
//
// # Batch Creation
//
// CreateMany runs CreateOne per item concurrently. The call either returns
// every identifier or fails as a whole with ErrBatchCreate; it does not
// report which items failed, and items that succeeded before the failure
// stay persisted. Callers that need per-item outcomes must create items
// individually.
package resource
