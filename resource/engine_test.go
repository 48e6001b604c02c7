package resource

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tyv-platform/resource-service/interfaces"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMeta() interfaces.Metadata {
	return interfaces.Metadata{
		Container:      interfaces.ContainerProduct,
		Classification: interfaces.ClassificationImage,
	}
}

// insertAssignsID makes the repository mock behave like the real store:
// Insert populates the surrogate key and timestamps.
func insertAssignsID(repo *MockRepository, id uint64) *mock.Call {
	return repo.On("Insert", mock.Anything, mock.AnythingOfType("*interfaces.Resource")).
		Run(func(args mock.Arguments) {
			res := args.Get(1).(*interfaces.Resource)
			res.ID = id
			res.CreatedAt = time.Now()
			res.UpdatedAt = time.Now()
		})
}

func TestEngine_Retrieve(t *testing.T) {
	publicID := uuid.New()
	stored := &interfaces.Resource{
		ID:          7,
		PublicID:    publicID,
		Container:   interfaces.ContainerProduct,
		ContentType: "image/png",
		Path:        "2024-05-01/" + publicID.String() + "-a.png",
		Title:       "a.png",
	}

	tests := []struct {
		name        string
		setupMocks  func(repo *MockRepository, blobs *MockBlobStore)
		expectedErr error
		expectData  []byte
	}{
		{
			name: "round trip",
			setupMocks: func(repo *MockRepository, blobs *MockBlobStore) {
				repo.On("FindByPublicID", mock.Anything, publicID).Return(stored, nil)
				blobs.On("Fetch", mock.Anything, stored).Return([]byte("hello"), nil)
			},
			expectData: []byte("hello"),
		},
		{
			name: "metadata absent",
			setupMocks: func(repo *MockRepository, blobs *MockBlobStore) {
				repo.On("FindByPublicID", mock.Anything, publicID).
					Return(nil, interfaces.ErrResourceNotFound)
			},
			expectedErr: interfaces.ErrResourceNotFound,
		},
		{
			name: "blob missing behind tracked metadata",
			setupMocks: func(repo *MockRepository, blobs *MockBlobStore) {
				repo.On("FindByPublicID", mock.Anything, publicID).Return(stored, nil)
				blobs.On("Fetch", mock.Anything, stored).Return(nil, interfaces.ErrObjectNotFound)
			},
			expectedErr: interfaces.ErrResourceRead,
		},
		{
			name: "backend io fault",
			setupMocks: func(repo *MockRepository, blobs *MockBlobStore) {
				repo.On("FindByPublicID", mock.Anything, publicID).Return(stored, nil)
				blobs.On("Fetch", mock.Anything, stored).Return(nil, errors.New("connection reset"))
			},
			expectedErr: interfaces.ErrResourceRead,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepository{}
			blobs := &MockBlobStore{}
			tt.setupMocks(repo, blobs)

			engine := NewEngine(blobs, repo, testLogger())
			res, err := engine.Retrieve(context.Background(), publicID)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
				// NotFound and ReadFailure must stay distinguishable.
				if errors.Is(tt.expectedErr, interfaces.ErrResourceRead) {
					assert.False(t, errors.Is(err, interfaces.ErrResourceNotFound))
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectData, res.Data)
				assert.Equal(t, "a.png", res.Title)
				assert.Equal(t, "image/png", res.ContentType)
			}

			repo.AssertExpectations(t)
			blobs.AssertExpectations(t)
		})
	}
}

func TestEngine_CreateOne(t *testing.T) {
	repo := &MockRepository{}
	blobs := &MockBlobStore{}

	var inserted *interfaces.Resource
	insertAssignsID(repo, 42).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(*interfaces.Resource)
		inserted.ID = 42
	}).Return(nil)
	blobs.On("Store", mock.Anything, mock.AnythingOfType("*interfaces.Resource"), []byte("hello")).Return(nil)

	engine := NewEngine(blobs, repo, testLogger())
	id, err := engine.CreateOne(context.Background(), testMeta(), interfaces.Upload{
		Title:       "a.png",
		ContentType: "image/png",
		Content:     strings.NewReader("hello"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	require.NotNil(t, inserted)
	assert.Equal(t, id, inserted.PublicID)
	assert.Equal(t, interfaces.ContainerProduct, inserted.Container)
	assert.Equal(t, interfaces.ClassificationImage, inserted.Classification)
	assert.Equal(t, "image/png", inserted.ContentType)
	assert.Equal(t, "a.png", inserted.Title)

	wantPrefix := time.Now().Format("2006-01-02") + "/" + id.String() + "-"
	assert.Equal(t, wantPrefix+"a.png", inserted.Path)

	repo.AssertExpectations(t)
	blobs.AssertExpectations(t)
}

func TestEngine_CreateOne_CompensatesOnBlobWriteFailure(t *testing.T) {
	repo := &MockRepository{}
	blobs := &MockBlobStore{}

	insertAssignsID(repo, 42).Return(nil)
	blobs.On("Store", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))
	repo.On("DeleteByID", mock.Anything, uint64(42)).Return(nil)

	engine := NewEngine(blobs, repo, testLogger())
	_, err := engine.CreateOne(context.Background(), testMeta(), interfaces.Upload{
		Title:   "a.png",
		Content: strings.NewReader("hello"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, interfaces.ErrResourceCreate)
	repo.AssertCalled(t, "DeleteByID", mock.Anything, uint64(42))
	repo.AssertExpectations(t)
	blobs.AssertExpectations(t)
}

func TestEngine_CreateOne_CompensationFailureStillReportsCreate(t *testing.T) {
	repo := &MockRepository{}
	blobs := &MockBlobStore{}

	insertAssignsID(repo, 42).Return(nil)
	blobs.On("Store", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))
	repo.On("DeleteByID", mock.Anything, uint64(42)).Return(errors.New("db unavailable"))

	engine := NewEngine(blobs, repo, testLogger())
	_, err := engine.CreateOne(context.Background(), testMeta(), interfaces.Upload{
		Title:   "a.png",
		Content: strings.NewReader("hello"),
	})

	// The original creation failure propagates, not the secondary one.
	require.Error(t, err)
	assert.ErrorIs(t, err, interfaces.ErrResourceCreate)
	assert.Contains(t, err.Error(), "disk full")
}

func TestEngine_CreateOne_InsertFailureSkipsBlobWrite(t *testing.T) {
	repo := &MockRepository{}
	blobs := &MockBlobStore{}

	repo.On("Insert", mock.Anything, mock.Anything).Return(errors.New("db unavailable"))

	engine := NewEngine(blobs, repo, testLogger())
	_, err := engine.CreateOne(context.Background(), testMeta(), interfaces.Upload{
		Title:   "a.png",
		Content: strings.NewReader("hello"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, interfaces.ErrResourceCreate)
	blobs.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything)
}

func TestEngine_CreateMany(t *testing.T) {
	repo := &MockRepository{}
	blobs := &MockBlobStore{}

	var id atomic.Uint64
	repo.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*interfaces.Resource).ID = id.Add(1)
	}).Return(nil)
	blobs.On("Store", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	engine := NewEngine(blobs, repo, testLogger())
	ids, err := engine.CreateMany(context.Background(), testMeta(), []interfaces.Upload{
		{Title: "a.png", Content: bytes.NewReader([]byte("one"))},
		{Title: "b.png", Content: bytes.NewReader([]byte("two"))},
		{Title: "c.png", Content: bytes.NewReader([]byte("three"))},
	})

	require.NoError(t, err)
	assert.Len(t, ids, 3)

	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id in batch result")
		seen[id] = true
	}
}

func TestEngine_CreateMany_AggregateFailure(t *testing.T) {
	repo := &MockRepository{}
	blobs := &MockBlobStore{}

	repo.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*interfaces.Resource).ID = 1
	}).Return(nil)
	repo.On("DeleteByID", mock.Anything, mock.Anything).Return(nil).Maybe()
	// First file sticks, second one fails its blob write.
	blobs.On("Store", mock.Anything, mock.Anything, []byte("good")).Return(nil)
	blobs.On("Store", mock.Anything, mock.Anything, []byte("bad")).Return(errors.New("disk full"))

	engine := NewEngine(blobs, repo, testLogger())
	ids, err := engine.CreateMany(context.Background(), testMeta(), []interfaces.Upload{
		{Title: "good.png", Content: bytes.NewReader([]byte("good"))},
		{Title: "bad.png", Content: bytes.NewReader([]byte("bad"))},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, interfaces.ErrBatchCreate)
	assert.Nil(t, ids)
}

func TestEngine_DeleteOne(t *testing.T) {
	publicID := uuid.New()
	stored := &interfaces.Resource{ID: 7, PublicID: publicID, Container: interfaces.ContainerProduct}

	t.Run("success", func(t *testing.T) {
		repo := &MockRepository{}
		blobs := &MockBlobStore{}
		repo.On("FindByPublicID", mock.Anything, publicID).Return(stored, nil)
		blobs.On("Delete", mock.Anything, stored).Return(true, nil)
		repo.On("DeleteByID", mock.Anything, uint64(7)).Return(nil)

		engine := NewEngine(blobs, repo, testLogger())
		require.NoError(t, engine.DeleteOne(context.Background(), publicID))
		repo.AssertExpectations(t)
		blobs.AssertExpectations(t)
	})

	t.Run("absent metadata causes no backend calls", func(t *testing.T) {
		repo := &MockRepository{}
		blobs := &MockBlobStore{}
		repo.On("FindByPublicID", mock.Anything, publicID).
			Return(nil, interfaces.ErrResourceNotFound)

		engine := NewEngine(blobs, repo, testLogger())
		err := engine.DeleteOne(context.Background(), publicID)

		require.Error(t, err)
		assert.ErrorIs(t, err, interfaces.ErrResourceNotFound)
		blobs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unverified deletion keeps metadata", func(t *testing.T) {
		repo := &MockRepository{}
		blobs := &MockBlobStore{}
		repo.On("FindByPublicID", mock.Anything, publicID).Return(stored, nil)
		blobs.On("Delete", mock.Anything, stored).Return(false, nil)

		engine := NewEngine(blobs, repo, testLogger())
		err := engine.DeleteOne(context.Background(), publicID)

		require.Error(t, err)
		assert.ErrorIs(t, err, interfaces.ErrResourceDelete)
		repo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
	})

	t.Run("backend fault keeps metadata", func(t *testing.T) {
		repo := &MockRepository{}
		blobs := &MockBlobStore{}
		repo.On("FindByPublicID", mock.Anything, publicID).Return(stored, nil)
		blobs.On("Delete", mock.Anything, stored).Return(false, errors.New("connection reset"))

		engine := NewEngine(blobs, repo, testLogger())
		err := engine.DeleteOne(context.Background(), publicID)

		require.Error(t, err)
		assert.ErrorIs(t, err, interfaces.ErrResourceDelete)
		repo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
	})
}

func TestPhysicalPath(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	id := uuid.MustParse("9550a615-edd0-44b0-a2ca-507d6d6f5aeb")

	assert.Equal(t,
		"2024-05-01/9550a615-edd0-44b0-a2ca-507d6d6f5aeb-a.png",
		physicalPath(id, "a.png", now))

	// Same day, same filename, different UUID: distinct paths.
	other := physicalPath(uuid.New(), "a.png", now)
	assert.NotEqual(t, physicalPath(id, "a.png", now), other)
}
