package interfaces

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Container is the logical grouping a resource is stored under.
// Locally it maps to a subdirectory, remotely to a bucket.
type Container int

const (
	ContainerProduct Container = iota
	ContainerComment
	ContainerUser
)

// containerBucketIDs pins the remote bucket name suffix per container.
// These values are part of the on-bucket layout and must never change.
var containerBucketIDs = map[Container]string{
	ContainerProduct: "e45331f2-5941-4b35-baa0-10e01f016f1e",
	ContainerComment: "9550a615-edd0-44b0-a2ca-507d6d6f5aeb",
	ContainerUser:    "724c2a96-1e1b-4889-969c-f151c449f510",
}

// String returns the canonical uppercase container name.
func (c Container) String() string {
	switch c {
	case ContainerProduct:
		return "PRODUCT"
	case ContainerComment:
		return "COMMENT"
	case ContainerUser:
		return "USER"
	default:
		return "UNKNOWN"
	}
}

// DirName returns the lowercase directory name used by the local backend.
func (c Container) DirName() string {
	return strings.ToLower(c.String())
}

// BucketName returns the deterministic remote bucket name for this container.
// Every process derives the same name, so no coordination is needed.
func (c Container) BucketName() string {
	return c.DirName() + "-" + containerBucketIDs[c]
}

// ParseContainer parses a container name, case-insensitively.
func ParseContainer(s string) (Container, error) {
	switch strings.ToUpper(s) {
	case "PRODUCT":
		return ContainerProduct, nil
	case "COMMENT":
		return ContainerComment, nil
	case "USER":
		return ContainerUser, nil
	default:
		return 0, fmt.Errorf("unknown container: %q", s)
	}
}

// MarshalJSON stores containers by name, matching the metadata row format.
func (c Container) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Container) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseContainer(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Classification is the caller-supplied content classification tag.
type Classification int

const (
	ClassificationImage Classification = iota
	ClassificationVideo
	ClassificationDocument
)

// String returns the canonical uppercase classification name.
func (c Classification) String() string {
	switch c {
	case ClassificationImage:
		return "IMAGE"
	case ClassificationVideo:
		return "VIDEO"
	case ClassificationDocument:
		return "DOCUMENT"
	default:
		return "UNKNOWN"
	}
}

// ParseClassification parses a classification name, case-insensitively.
func ParseClassification(s string) (Classification, error) {
	switch strings.ToUpper(s) {
	case "IMAGE":
		return ClassificationImage, nil
	case "VIDEO":
		return ClassificationVideo, nil
	case "DOCUMENT":
		return ClassificationDocument, nil
	default:
		return 0, fmt.Errorf("unknown classification: %q", s)
	}
}

// MarshalJSON stores classifications by name, matching the metadata row format.
func (c Classification) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Classification) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClassification(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Metadata carries the caller-chosen attributes of a resource at creation time.
type Metadata struct {
	Container      Container
	Classification Classification
}

// Resource is the metadata record describing one stored blob.
//
// ID is the store-assigned surrogate key and PublicID the externally visible
// identifier; both are immutable once created. Path is the backend-relative
// locator computed once at creation and never recomputed. Data is transient:
// it is populated only while serving a read and is never persisted.
type Resource struct {
	ID             uint64         `json:"id"`
	PublicID       uuid.UUID      `json:"public_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	Container      Container      `json:"container"`
	Classification Classification `json:"classification"`
	ContentType    string         `json:"content_type"`
	Path           string         `json:"path"`
	Title          string         `json:"title"`

	Data []byte `json:"-"`
}

// Upload is one payload handed to the storage engine for creation.
type Upload struct {
	// Title is the original filename, kept as the content-disposition hint.
	Title string

	// ContentType is the MIME type captured from the uploaded payload.
	ContentType string

	// Content supplies the raw bytes. Read exactly once per create.
	Content io.Reader
}

var (
	// ErrResourceNotFound is returned when no metadata record exists for the
	// given public identifier.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrResourceRead is returned when metadata exists but the backend could
	// not produce the bytes. Distinct from ErrResourceNotFound so callers can
	// tell "never existed" from "exists but unreadable".
	ErrResourceRead = errors.New("resource reading failed")

	// ErrResourceCreate is returned when the blob write failed after the
	// metadata insert. The engine removes the metadata record before
	// returning this.
	ErrResourceCreate = errors.New("resource creation failed")

	// ErrBatchCreate is returned when one or more items of a batch create
	// failed. Items that succeeded stay persisted and are not rolled back.
	ErrBatchCreate = errors.New("batch resource creation failed")

	// ErrResourceDelete is returned when blob deletion could not be verified.
	// The metadata record is deliberately retained in that case.
	ErrResourceDelete = errors.New("resource deletion failed")

	// ErrObjectNotFound is returned by a blob store when the underlying
	// object or file is absent.
	ErrObjectNotFound = errors.New("object not found in storage backend")

	// ErrBackendUnavailable is returned when a storage backend is not
	// accessible at all.
	ErrBackendUnavailable = errors.New("storage backend unavailable")

	// ErrInvalidLocationURI is returned when a storage location URI is
	// malformed or uses an unsupported scheme.
	ErrInvalidLocationURI = errors.New("invalid storage location URI")
)
