package repository

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/tyv-platform/resource-service/interfaces"
)

var (
	bucketResources = []byte("resources")
	bucketUUIDIndex = []byte("uuid_index")
)

// BoltConfig configures the Bolt-backed resource repository.
type BoltConfig struct {
	Path    string
	Timeout time.Duration
}

// BoltRepository persists resource metadata records in BoltDB. Rows live in
// the resources bucket keyed by big-endian internal id; a second bucket
// maps public UUIDs to internal ids for external lookups.
type BoltRepository struct {
	db *bolt.DB
}

// NewBoltRepository opens (or creates) the database file and its buckets.
func NewBoltRepository(cfg BoltConfig) (*BoltRepository, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("boltdb: path is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 1 * time.Second
	}

	db, err := bolt.Open(cfg.Path, 0o600, &bolt.Options{Timeout: cfg.Timeout})
	if err != nil {
		return nil, fmt.Errorf("boltdb: open: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketResources, bucketUUIDIndex} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("boltdb: create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltRepository{db: db}, nil
}

// Close releases the underlying database file.
func (r *BoltRepository) Close() error {
	return r.db.Close()
}

// FindByPublicID looks a record up by its public UUID.
// Returns ErrResourceNotFound if absent.
func (r *BoltRepository) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*interfaces.Resource, error) {
	var res *interfaces.Resource

	err := r.db.View(func(tx *bolt.Tx) error {
		idRaw := tx.Bucket(bucketUUIDIndex).Get([]byte(publicID.String()))
		if idRaw == nil {
			return interfaces.ErrResourceNotFound
		}

		raw := tx.Bucket(bucketResources).Get(idRaw)
		if raw == nil {
			return interfaces.ErrResourceNotFound
		}

		res = &interfaces.Resource{}
		if err := json.Unmarshal(raw, res); err != nil {
			return fmt.Errorf("boltdb: decode resource: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Insert stores a new record, assigning the internal id from the bucket
// sequence and stamping CreatedAt and UpdatedAt.
func (r *BoltRepository) Insert(ctx context.Context, res *interfaces.Resource) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		resources := tx.Bucket(bucketResources)

		id, err := resources.NextSequence()
		if err != nil {
			return fmt.Errorf("boltdb: next sequence: %w", err)
		}

		now := time.Now()
		res.ID = id
		res.CreatedAt = now
		res.UpdatedAt = now

		raw, err := json.Marshal(res)
		if err != nil {
			return fmt.Errorf("boltdb: encode resource: %w", err)
		}

		key := idKey(id)
		if err := resources.Put(key, raw); err != nil {
			return fmt.Errorf("boltdb: put resource: %w", err)
		}
		if err := tx.Bucket(bucketUUIDIndex).Put([]byte(res.PublicID.String()), key); err != nil {
			return fmt.Errorf("boltdb: put uuid index: %w", err)
		}
		return nil
	})
}

// DeleteByID removes a record and its UUID index entry. Deleting an id that
// is already gone is a no-op.
func (r *BoltRepository) DeleteByID(ctx context.Context, id uint64) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		resources := tx.Bucket(bucketResources)
		key := idKey(id)

		raw := resources.Get(key)
		if raw == nil {
			return nil
		}

		var res interfaces.Resource
		if err := json.Unmarshal(raw, &res); err != nil {
			return fmt.Errorf("boltdb: decode resource: %w", err)
		}

		if err := resources.Delete(key); err != nil {
			return fmt.Errorf("boltdb: delete resource: %w", err)
		}
		if err := tx.Bucket(bucketUUIDIndex).Delete([]byte(res.PublicID.String())); err != nil {
			return fmt.Errorf("boltdb: delete uuid index: %w", err)
		}
		return nil
	})
}

// FindAll returns every record in internal id order.
func (r *BoltRepository) FindAll(ctx context.Context) ([]*interfaces.Resource, error) {
	var all []*interfaces.Resource

	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketResources).ForEach(func(_, raw []byte) error {
			res := &interfaces.Resource{}
			if err := json.Unmarshal(raw, res); err != nil {
				return fmt.Errorf("boltdb: decode resource: %w", err)
			}
			all = append(all, res)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

func idKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}
