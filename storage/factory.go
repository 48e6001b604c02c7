package storage

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/tyv-platform/resource-service/interfaces"
)

// BackendFactory creates blob store backends from location URIs. The
// backend variant is selected by configuration at startup, never per call.
type BackendFactory struct {
	log *slog.Logger
}

// NewBackendFactory creates a new factory instance.
func NewBackendFactory(log *slog.Logger) *BackendFactory {
	return &BackendFactory{log: log}
}

// BackendFor creates a blob store from a location URI.
//
// Supported schemes:
//   - file:///var/lib/resources - Local filesystem storage
//   - s3://[ACCESS_KEY:SECRET_KEY@]host/?region=us-east-1&endpoint=custom.s3.com&path-style=true
//
// Returns ErrInvalidLocationURI if the URI is malformed or the scheme is
// unsupported.
func (f *BackendFactory) BackendFor(ctx context.Context, locationURI string) (interfaces.BlobStore, error) {
	u, err := url.Parse(locationURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrInvalidLocationURI, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return f.createLocalBackend(u)
	case "s3":
		return f.createS3Backend(ctx, u)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", interfaces.ErrInvalidLocationURI, u.Scheme)
	}
}

// createLocalBackend creates a filesystem backend.
// URI format: file:///absolute/path/ or file://./relative/path/
func (f *BackendFactory) createLocalBackend(u *url.URL) (interfaces.BlobStore, error) {
	f.log.Debug("Creating local backend", slog.String("uri", u.String()))

	path := u.Path
	if u.Host != "" {
		path = u.Host + "/" + strings.TrimPrefix(path, "/")
	}
	if path == "" {
		return nil, fmt.Errorf("%w: empty path in file URI %q", interfaces.ErrInvalidLocationURI, u.String())
	}

	return NewLocalBackend(path, f.log)
}

// createS3Backend creates an S3 or S3-compatible backend. Credentials may
// be embedded in the URI user info; with none, the SDK's default chain
// (environment, instance profile) applies. The bucket registry is seeded
// here so every later Store call starts from the full known set.
func (f *BackendFactory) createS3Backend(ctx context.Context, u *url.URL) (interfaces.BlobStore, error) {
	f.log.Debug("Creating S3 backend", slog.String("uri", u.Redacted()))

	query := u.Query()
	cfg := S3Config{
		Region:     query.Get("region"),
		Endpoint:   query.Get("endpoint"),
		PathStyle:  query.Get("path-style") == "true",
		DisableSSL: query.Get("disable-ssl") == "true",
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Endpoint == "" && u.Host != "" {
		cfg.Endpoint = u.Host
	}

	if u.User != nil {
		cfg.AccessKey = u.User.Username()
		cfg.SecretKey, _ = u.User.Password()
		f.log.Debug("Using embedded credentials for S3 access")
	}

	client, err := NewS3Client(cfg)
	if err != nil {
		return nil, err
	}

	buckets := NewBucketRegistry(client, f.log)
	if err := buckets.Seed(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	return NewS3Backend(client, buckets, f.log), nil
}
