package resource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tyv-platform/resource-service/interfaces"
)

// Engine orchestrates metadata and blob operations. It is the sole consumer
// of the blob store and the resource repository, and owns the create, read
// and delete protocols and their failure semantics.
type Engine struct {
	blobs interfaces.BlobStore
	repo  interfaces.ResourceRepository
	log   *slog.Logger
}

// NewEngine creates a storage engine over the given blob store and
// metadata repository.
func NewEngine(blobs interfaces.BlobStore, repo interfaces.ResourceRepository, log *slog.Logger) *Engine {
	return &Engine{
		blobs: blobs,
		repo:  repo,
		log:   log,
	}
}

// Retrieve returns the metadata record for publicID with its payload
// populated. Returns ErrResourceNotFound when no record exists; every
// backend fault, including a missing blob behind tracked metadata, is
// classified as ErrResourceRead.
func (e *Engine) Retrieve(ctx context.Context, publicID uuid.UUID) (*interfaces.Resource, error) {
	res, err := e.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, interfaces.ErrResourceNotFound) {
			e.log.Warn("Resource not found", slog.String("publicID", publicID.String()))
			return nil, fmt.Errorf("%w: %s", interfaces.ErrResourceNotFound, publicID)
		}
		e.log.Error("Resource lookup failed", slog.String("publicID", publicID.String()), "err", err)
		return nil, fmt.Errorf("%w: %v", interfaces.ErrResourceRead, err)
	}

	data, err := e.blobs.Fetch(ctx, res)
	if err != nil {
		e.log.Error("Resource reading error",
			slog.String("publicID", publicID.String()),
			slog.String("path", res.Path),
			"err", err)
		return nil, fmt.Errorf("%w: %v", interfaces.ErrResourceRead, err)
	}

	res.Data = data
	return res, nil
}

// CreateOne stores one payload and returns its fresh public UUID.
//
// The steps are strictly ordered: the metadata record is inserted first,
// then the blob is written. A failed blob write triggers a compensating
// metadata delete, so no record whose blob never landed survives the call.
// The only remaining inconsistency window is a crash between the two steps,
// which leaves a blob-pending record for external reconciliation.
func (e *Engine) CreateOne(ctx context.Context, meta interfaces.Metadata, upload interfaces.Upload) (uuid.UUID, error) {
	res := newResource(meta, upload)

	data, err := io.ReadAll(upload.Content)
	if err != nil {
		e.log.Error("Resource creation error", "err", err)
		return uuid.Nil, fmt.Errorf("%w: reading payload: %v", interfaces.ErrResourceCreate, err)
	}

	if err := e.repo.Insert(ctx, res); err != nil {
		e.log.Error("Resource creation error", "err", err)
		return uuid.Nil, fmt.Errorf("%w: inserting metadata: %v", interfaces.ErrResourceCreate, err)
	}

	if err := e.blobs.Store(ctx, res, data); err != nil {
		// Compensating action: the blob-pending record must not survive a
		// failed write. If the compensation itself fails the orphan is
		// logged, but the original failure is what propagates.
		if delErr := e.repo.DeleteByID(ctx, res.ID); delErr != nil {
			e.log.Error("Compensating metadata delete failed, record orphaned",
				slog.String("publicID", res.PublicID.String()),
				slog.Uint64("id", res.ID),
				"err", delErr)
		}
		e.log.Error("Resource creation error", slog.String("publicID", res.PublicID.String()), "err", err)
		return uuid.Nil, fmt.Errorf("%w: storing blob: %v", interfaces.ErrResourceCreate, err)
	}

	e.log.Info("Resource created", slog.String("publicID", res.PublicID.String()))
	return res.PublicID, nil
}

// CreateMany applies CreateOne's protocol independently and concurrently to
// each upload. Identifiers are collected in completion order. If any item
// fails the whole call fails with ErrBatchCreate; items that succeeded stay
// persisted and are not rolled back.
func (e *Engine) CreateMany(ctx context.Context, meta interfaces.Metadata, uploads []interfaces.Upload) ([]uuid.UUID, error) {
	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		ids  []uuid.UUID
		errs []error
	)

	for _, upload := range uploads {
		wg.Add(1)
		go func(upload interfaces.Upload) {
			defer wg.Done()
			id, err := e.CreateOne(ctx, meta, upload)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			ids = append(ids, id)
		}(upload)
	}
	wg.Wait()

	if len(errs) > 0 {
		e.log.Error("Resource list creation error",
			slog.Int("failed", len(errs)),
			slog.Int("succeeded", len(ids)),
			"err", errs[0])
		return nil, fmt.Errorf("%w: %d of %d items failed: %v",
			interfaces.ErrBatchCreate, len(errs), len(uploads), errs[0])
	}

	e.log.Info("Resource list created", slog.Int("count", len(ids)))
	return ids, nil
}

// DeleteOne removes the resource identified by publicID.
//
// The blob is deleted first and its absence re-verified; only a confirmed
// absence allows the metadata record to go. If absence cannot be confirmed
// the record is deliberately retained, so no blob is ever left without a
// tracking record.
func (e *Engine) DeleteOne(ctx context.Context, publicID uuid.UUID) error {
	res, err := e.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, interfaces.ErrResourceNotFound) {
			e.log.Warn("Resource deletion failed", slog.String("publicID", publicID.String()), "err", err)
			return fmt.Errorf("%w: %s", interfaces.ErrResourceNotFound, publicID)
		}
		return fmt.Errorf("%w: looking up metadata: %v", interfaces.ErrResourceDelete, err)
	}

	absent, err := e.blobs.Delete(ctx, res)
	if err != nil {
		e.log.Warn("Resource deletion failed", slog.String("publicID", publicID.String()), "err", err)
		return fmt.Errorf("%w: deleting blob: %v", interfaces.ErrResourceDelete, err)
	}
	if !absent {
		e.log.Warn("Resource deletion failed, blob still present",
			slog.String("publicID", publicID.String()),
			slog.String("path", res.Path))
		return fmt.Errorf("%w: blob deletion not confirmed for %s", interfaces.ErrResourceDelete, publicID)
	}

	if err := e.repo.DeleteByID(ctx, res.ID); err != nil {
		e.log.Warn("Resource deletion failed", slog.String("publicID", publicID.String()), "err", err)
		return fmt.Errorf("%w: deleting metadata: %v", interfaces.ErrResourceDelete, err)
	}

	e.log.Info("Resource deleted", slog.String("publicID", publicID.String()))
	return nil
}

// newResource assembles the metadata record for a fresh upload: a new
// public UUID and the physical path computed once, never recomputed.
func newResource(meta interfaces.Metadata, upload interfaces.Upload) *interfaces.Resource {
	publicID := uuid.New()
	return &interfaces.Resource{
		PublicID:       publicID,
		Container:      meta.Container,
		Classification: meta.Classification,
		ContentType:    upload.ContentType,
		Path:           physicalPath(publicID, upload.Title, time.Now()),
		Title:          upload.Title,
	}
}

// physicalPath builds the backend-relative locator <ISO-date>/<uuid>-<title>.
// The layout is an externally observable convention shared with already
// stored objects and must be preserved byte-for-byte. The fresh UUID keeps
// same-day uploads with identical filenames from colliding.
func physicalPath(publicID uuid.UUID, title string, now time.Time) string {
	return now.Format("2006-01-02") + "/" + publicID.String() + "-" + title
}
