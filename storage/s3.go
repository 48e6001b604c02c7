package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/tyv-platform/resource-service/interfaces"
)

// S3Config holds the connection parameters for an S3-compatible backend.
type S3Config struct {
	Region    string
	Endpoint  string // optional, for S3-compatible services
	AccessKey string
	SecretKey string

	// PathStyle forces path-style addressing. Required by most
	// S3-compatible endpoints.
	PathStyle bool

	// DisableSSL disables TLS towards the endpoint. Test setups only.
	DisableSSL bool
}

// NewS3Client creates an S3 API client from the given configuration.
func NewS3Client(cfg S3Config) (*s3.S3, error) {
	awsCfg := aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.PathStyle {
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.DisableSSL {
		awsCfg.DisableSSL = aws.Bool(true)
	}

	sess, err := session.NewSession(&awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return s3.New(sess), nil
}

// S3Backend implements a blob store on Amazon S3 or compatible services.
// Each logical container maps to its own bucket; bucket names come from the
// container itself, so two processes never disagree on the target bucket.
type S3Backend struct {
	client  *s3.S3
	buckets *BucketRegistry
	log     *slog.Logger
}

// NewS3Backend creates an S3 blob store over the given client. The bucket
// registry handles lazy creation of buckets that do not exist yet.
func NewS3Backend(client *s3.S3, buckets *BucketRegistry, log *slog.Logger) *S3Backend {
	return &S3Backend{
		client:  client,
		buckets: buckets,
		log:     log,
	}
}

// Fetch retrieves the blob for the given record from its container bucket.
// Returns ErrObjectNotFound if the object doesn't exist.
func (b *S3Backend) Fetch(ctx context.Context, res *interfaces.Resource) ([]byte, error) {
	start := time.Now()
	bucket := res.Container.BucketName()

	result, err := b.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(res.Path),
	})
	if err != nil {
		if isNotFoundErr(err) {
			b.log.Debug("Object not found in S3",
				slog.String("bucket", bucket),
				slog.String("key", res.Path),
				slog.Duration("duration", time.Since(start)))
			return nil, interfaces.ErrObjectNotFound
		}

		b.log.Error("Failed to get object from S3",
			slog.String("bucket", bucket),
			slog.String("key", res.Path),
			"err", err,
			slog.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}

	b.log.Debug("Fetched blob from S3",
		slog.String("bucket", bucket),
		slog.String("key", res.Path),
		slog.Int("size", len(data)),
		slog.Duration("duration", time.Since(start)))

	return data, nil
}

// Store uploads the blob for the given record, making sure the container
// bucket exists first.
func (b *S3Backend) Store(ctx context.Context, res *interfaces.Resource, data []byte) error {
	bucket := res.Container.BucketName()

	if err := b.buckets.EnsureExists(ctx, bucket); err != nil {
		return err
	}

	_, err := b.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(res.Path),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(res.ContentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object to S3: %w", err)
	}

	b.log.Debug("Stored blob in S3",
		slog.String("bucket", bucket),
		slog.String("key", res.Path),
		slog.Int("size", len(data)))

	return nil
}

// Delete removes the blob, then probes for it with a HEAD request and
// reports whether it is confirmed absent. The delete call's own success is
// not trusted: some services report success for deletes of nonexistent or
// still-propagating objects.
func (b *S3Backend) Delete(ctx context.Context, res *interfaces.Resource) (bool, error) {
	bucket := res.Container.BucketName()

	_, err := b.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(res.Path),
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete object from S3: %w", err)
	}

	absent, err := b.objectAbsent(ctx, bucket, res.Path)
	if err != nil {
		return false, err
	}

	b.log.Debug("Deleted blob from S3",
		slog.String("bucket", bucket),
		slog.String("key", res.Path),
		slog.Bool("confirmedAbsent", absent))

	return absent, nil
}

// objectAbsent issues a HEAD existence probe. Absence is confirmed only by
// a not-found response; any other outcome means the object may still exist.
func (b *S3Backend) objectAbsent(ctx context.Context, bucket, key string) (bool, error) {
	_, err := b.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return false, nil
	}
	if isNotFoundErr(err) {
		return true, nil
	}
	return false, fmt.Errorf("failed to probe object existence: %w", err)
}

// Available checks if the S3 backend is reachable by listing buckets.
func (b *S3Backend) Available(ctx context.Context) bool {
	start := time.Now()

	_, err := b.client.ListBucketsWithContext(ctx, &s3.ListBucketsInput{})
	if err != nil {
		b.log.Warn("S3 backend unavailable",
			"err", err,
			slog.Duration("duration", time.Since(start)))
		return false
	}

	return true
}

// Name returns a unique identifier for this storage backend.
func (b *S3Backend) Name() string {
	return "s3"
}

// isNotFoundErr recognizes the SDK's flavors of "object does not exist".
// HEAD requests carry no body, so the SDK surfaces a bare 404 as code
// "NotFound" rather than "NoSuchKey".
func isNotFoundErr(err error) bool {
	aerr, ok := err.(awserr.Error)
	if !ok {
		return false
	}
	switch aerr.Code() {
	case s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket, "NotFound":
		return true
	}
	if reqErr, ok := err.(awserr.RequestFailure); ok {
		return reqErr.StatusCode() == 404
	}
	return false
}
