package resource

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tyv-platform/resource-service/interfaces"
)

// MockBlobStore mocks the interfaces.BlobStore interface
type MockBlobStore struct {
	mock.Mock
}

// Fetch mocks the Fetch method
func (m *MockBlobStore) Fetch(ctx context.Context, res *interfaces.Resource) ([]byte, error) {
	args := m.Called(ctx, res)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Store mocks the Store method
func (m *MockBlobStore) Store(ctx context.Context, res *interfaces.Resource, data []byte) error {
	args := m.Called(ctx, res, data)
	return args.Error(0)
}

// Delete mocks the Delete method
func (m *MockBlobStore) Delete(ctx context.Context, res *interfaces.Resource) (bool, error) {
	args := m.Called(ctx, res)
	return args.Bool(0), args.Error(1)
}

// Available mocks the Available method
func (m *MockBlobStore) Available(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

// Name mocks the Name method
func (m *MockBlobStore) Name() string {
	return "mock"
}

// MockRepository mocks the interfaces.ResourceRepository interface
type MockRepository struct {
	mock.Mock
}

// FindByPublicID mocks the FindByPublicID method
func (m *MockRepository) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*interfaces.Resource, error) {
	args := m.Called(ctx, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.Resource), args.Error(1)
}

// Insert mocks the Insert method
func (m *MockRepository) Insert(ctx context.Context, res *interfaces.Resource) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

// DeleteByID mocks the DeleteByID method
func (m *MockRepository) DeleteByID(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// FindAll mocks the FindAll method
func (m *MockRepository) FindAll(ctx context.Context) ([]*interfaces.Resource, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*interfaces.Resource), args.Error(1)
}
