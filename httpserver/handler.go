package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tyv-platform/resource-service/interfaces"
)

// maxUploadSize is the in-memory buffer limit for multipart parsing (32MB);
// larger parts spill to temporary files.
const maxUploadSize = 32 << 20

var (
	retrieveTotal = metrics.NewCounter("resource_retrieve_total")
	createTotal   = metrics.NewCounter("resource_create_total")
	deleteTotal   = metrics.NewCounter("resource_delete_total")
	errorsTotal   = metrics.NewCounter("resource_errors_total")
)

// errorResponse is the JSON error body returned to clients. Backend
// internals stay out of it; full detail goes to the log only.
type errorResponse struct {
	Timestamp    time.Time `json:"timestamp"`
	ErrorMessage string    `json:"errorMessage"`
}

// Handler translates HTTP requests into storage engine calls and maps the
// engine's error kinds onto status codes.
type Handler struct {
	storage interfaces.Storage
	log     *slog.Logger
}

// NewHandler creates a new HTTP request handler over the storage engine.
func NewHandler(storage interfaces.Storage, log *slog.Logger) *Handler {
	return &Handler{
		storage: storage,
		log:     log,
	}
}

// HandleRetrieve serves the resource payload as an attachment download.
//
// URL format: GET /api/resource/{uuid}
//
// Responses: 200 with Content-Disposition, Content-Type and Content-Length
// headers and the raw bytes; 400 on a malformed UUID; 404 when no resource
// exists for the identifier; 500 when the resource exists but its bytes
// could not be read.
func (h *Handler) HandleRetrieve(w http.ResponseWriter, r *http.Request) {
	retrieveTotal.Inc()

	publicID, err := parseUUID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := h.storage.Retrieve(r.Context(), publicID)
	if err != nil {
		if errors.Is(err, interfaces.ErrResourceNotFound) {
			h.writeError(w, http.StatusNotFound,
				fmt.Errorf("resource by UUID [%s] not found", publicID))
			return
		}
		h.writeError(w, http.StatusInternalServerError, errors.New("resource reading error"))
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+res.Title+`"`)
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Data)
}

// HandleUpload creates a single resource from a multipart form.
//
// URL format: POST /api/resource/upload
//
// Form values: "bucket" (container name), "category" (classification) and
// one "file" part. Responds 201 with the new UUID as a JSON string.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	createTotal.Inc()

	meta, uploads, err := h.parseMultipart(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(uploads) != 1 {
		h.writeError(w, http.StatusBadRequest,
			fmt.Errorf("expected exactly one file part, got %d", len(uploads)))
		return
	}

	id, err := h.storage.CreateOne(r.Context(), meta, uploads[0])
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, errors.New("resource creation error"))
		return
	}

	h.writeJSON(w, http.StatusCreated, id.String())
}

// HandleUploadList creates one resource per "file" part, all sharing the
// same container and classification.
//
// URL format: POST /api/resource/uploadList
//
// Responds 201 with a JSON array of UUIDs, in completion order. If any item
// fails the whole request fails; items that succeeded stay persisted.
func (h *Handler) HandleUploadList(w http.ResponseWriter, r *http.Request) {
	createTotal.Inc()

	meta, uploads, err := h.parseMultipart(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(uploads) == 0 {
		h.writeError(w, http.StatusBadRequest, errors.New("no file parts in request"))
		return
	}

	ids, err := h.storage.CreateMany(r.Context(), meta, uploads)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, errors.New("resource list creation error"))
		return
	}

	strs := make([]string, 0, len(ids))
	for _, id := range ids {
		strs = append(strs, id.String())
	}
	h.writeJSON(w, http.StatusCreated, strs)
}

// HandleDelete removes a resource.
//
// URL format: DELETE /api/resource/{uuid}
//
// Responds 204 on success and on unknown identifiers alike: deleting a
// resource that never existed is a no-op from the caller's point of view.
// An unverifiable blob deletion responds 500 and keeps the resource.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	deleteTotal.Inc()

	publicID, err := parseUUID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	err = h.storage.DeleteOne(r.Context(), publicID)
	if err != nil && !errors.Is(err, interfaces.ErrResourceNotFound) {
		h.writeError(w, http.StatusInternalServerError, errors.New("resource deletion error"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseMultipart extracts the metadata form values and every "file" part.
func (h *Handler) parseMultipart(r *http.Request) (interfaces.Metadata, []interfaces.Upload, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return interfaces.Metadata{}, nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	container, err := interfaces.ParseContainer(r.FormValue("bucket"))
	if err != nil {
		return interfaces.Metadata{}, nil, err
	}
	classification, err := interfaces.ParseClassification(r.FormValue("category"))
	if err != nil {
		return interfaces.Metadata{}, nil, err
	}
	meta := interfaces.Metadata{Container: container, Classification: classification}

	var uploads []interfaces.Upload
	for _, header := range r.MultipartForm.File["file"] {
		file, err := header.Open()
		if err != nil {
			return interfaces.Metadata{}, nil, fmt.Errorf("opening file part: %w", err)
		}
		uploads = append(uploads, interfaces.Upload{
			Title:       header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     file,
		})
	}

	return meta, uploads, nil
}

func parseUUID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "uuid")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid UUID %q", raw)
	}
	return id, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("Failed to encode response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		errorsTotal.Inc()
	}
	h.writeJSON(w, status, errorResponse{
		Timestamp:    time.Now(),
		ErrorMessage: err.Error(),
	})
}
