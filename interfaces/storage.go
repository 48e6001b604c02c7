package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// BlobStore reads, writes and deletes raw bytes for one metadata record.
// It hides backend-specific addressing and container lifecycle; the two
// implementations (local filesystem, S3-compatible object storage) must
// behave identically from the caller's point of view.
type BlobStore interface {
	// Fetch retrieves the bytes at the record's path within its container.
	// Returns ErrObjectNotFound if the object is absent; any other fault is
	// a plain I/O error.
	Fetch(ctx context.Context, res *Resource) ([]byte, error)

	// Store writes the bytes for the record, creating any missing
	// intermediate containers first.
	Store(ctx context.Context, res *Resource, data []byte) error

	// Delete removes the record's blob and reports whether it is confirmed
	// absent afterwards. A true result is the only trusted success signal;
	// the delete call succeeding on its own is not.
	Delete(ctx context.Context, res *Resource) (bool, error)

	// Available checks if the backend is accessible.
	Available(ctx context.Context) bool

	// Name returns an identifier for logging.
	Name() string
}

// ResourceRepository provides CRUD over metadata records. The backing store
// supplies its own transactional guarantees, at least read-your-writes for a
// single record.
type ResourceRepository interface {
	// FindByPublicID looks a record up by its public UUID.
	// Returns ErrResourceNotFound if absent.
	FindByPublicID(ctx context.Context, publicID uuid.UUID) (*Resource, error)

	// Insert stores a new record, populating ID, CreatedAt and UpdatedAt.
	Insert(ctx context.Context, res *Resource) error

	// DeleteByID removes a record by its internal identifier.
	DeleteByID(ctx context.Context, id uint64) error

	// FindAll returns every record. Used by administration and
	// reconciliation tooling, not by the hot path.
	FindAll(ctx context.Context) ([]*Resource, error)
}

// Storage is the engine contract exposed to the API facade. Every method
// returns one of the sentinel error kinds defined in this package; the
// facade maps them onto HTTP semantics.
type Storage interface {
	// Retrieve returns the record for publicID with Data populated.
	Retrieve(ctx context.Context, publicID uuid.UUID) (*Resource, error)

	// CreateOne stores a single payload and returns its fresh public UUID.
	CreateOne(ctx context.Context, meta Metadata, upload Upload) (uuid.UUID, error)

	// CreateMany stores each payload independently and concurrently.
	// Result order is completion order, not input order. If any item fails
	// the whole call fails with ErrBatchCreate; items that succeeded stay
	// persisted.
	CreateMany(ctx context.Context, meta Metadata, uploads []Upload) ([]uuid.UUID, error)

	// DeleteOne removes the blob, verifies its absence, then removes the
	// metadata record. Returns ErrResourceNotFound if no record exists.
	DeleteOne(ctx context.Context, publicID uuid.UUID) error
}
