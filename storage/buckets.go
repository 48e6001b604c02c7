package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
)

// BucketRegistry tracks which remote buckets are known to exist and lazily
// creates missing ones. It is constructed once, seeded at startup, and
// shared by whatever owns the S3 backend; names are only ever added.
type BucketRegistry struct {
	client *s3.S3
	log    *slog.Logger

	mu    sync.RWMutex
	known map[string]struct{}
}

// NewBucketRegistry creates a registry over the given S3 client.
// Call Seed before first use to load the buckets already visible to the
// credentials.
func NewBucketRegistry(client *s3.S3, log *slog.Logger) *BucketRegistry {
	return &BucketRegistry{
		client: client,
		log:    log,
		known:  make(map[string]struct{}),
	}
}

// Seed lists all buckets visible to the backend credentials and records
// them as known.
func (r *BucketRegistry) Seed(ctx context.Context) error {
	result, err := r.client.ListBucketsWithContext(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return fmt.Errorf("failed to list buckets: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bucket := range result.Buckets {
		r.known[aws.StringValue(bucket.Name)] = struct{}{}
	}

	r.log.Debug("Seeded bucket registry", slog.Int("count", len(r.known)))
	return nil
}

// EnsureExists makes sure the named bucket exists, creating it if it has
// not been seen yet. A creation that fails because the bucket already
// exists (a race with another process) still counts as success. The
// check-then-act window means concurrent first-time callers may both
// attempt creation; the loser lands in the already-exists path.
func (r *BucketRegistry) EnsureExists(ctx context.Context, name string) error {
	r.mu.RLock()
	_, ok := r.known[name]
	r.mu.RUnlock()
	if ok {
		return nil
	}

	_, err := r.client.CreateBucketWithContext(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		if aerr, isAwsErr := err.(awserr.Error); isAwsErr {
			switch aerr.Code() {
			case s3.ErrCodeBucketAlreadyExists, s3.ErrCodeBucketAlreadyOwnedByYou:
				r.log.Warn("Bucket already exists, skipping", slog.String("bucket", name))
				r.remember(name)
				return nil
			}
		}
		return fmt.Errorf("failed to create bucket %s: %w", name, err)
	}

	r.log.Info("Bucket has been created", slog.String("bucket", name))
	r.remember(name)
	return nil
}

// Known reports whether a bucket name is already in the known set.
func (r *BucketRegistry) Known(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.known[name]
	return ok
}

func (r *BucketRegistry) remember(name string) {
	r.mu.Lock()
	r.known[name] = struct{}{}
	r.mu.Unlock()
}
