package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipeshare/backend/internal/model"
)

// MockRecipeStore is a mock implementation of store.RecipeStore
type MockRecipeStore struct {
	mock.Mock
}

// Insert mocks the Insert method
func (m *MockRecipeStore) Insert(ctx context.Context, r *model.Recipe) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// ListAll mocks the ListAll method
func (m *MockRecipeStore) ListAll(ctx context.Context) ([]model.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

// UpdateByID mocks the UpdateByID method
func (m *MockRecipeStore) UpdateByID(ctx context.Context, id uuid.UUID, patch model.RecipePatch) (*model.Recipe, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// DeleteByID mocks the DeleteByID method
func (m *MockRecipeStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Ping mocks the Ping method
func (m *MockRecipeStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
