package testhelpers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/matboka/matboka-backend/internal/models"
)

// MockRecipeStore is a testify mock for the service.RecipeStore contract.
type MockRecipeStore struct {
	mock.Mock
}

func (m *MockRecipeStore) FetchAll(ctx context.Context) ([]models.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeStore) FetchByID(ctx context.Context, id uint) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeStore) FetchRecent(ctx context.Context, limit int) ([]models.Recipe, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeStore) SearchByTitle(ctx context.Context, substring string) ([]models.Recipe, error) {
	args := m.Called(ctx, substring)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeStore) Insert(ctx context.Context, recipe *models.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockRecipeStore) Update(ctx context.Context, id uint, recipe *models.Recipe) error {
	args := m.Called(ctx, id, recipe)
	return args.Error(0)
}

func (m *MockRecipeStore) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecipeStore) InsertTagLinks(ctx context.Context, links []models.RecipeTag) error {
	args := m.Called(ctx, links)
	return args.Error(0)
}

func (m *MockRecipeStore) DeleteTagLinks(ctx context.Context, recipeID uint) error {
	args := m.Called(ctx, recipeID)
	return args.Error(0)
}

func (m *MockRecipeStore) RemoveTagLinks(ctx context.Context, recipeID uint, tagIDs []uint) error {
	args := m.Called(ctx, recipeID, tagIDs)
	return args.Error(0)
}

func (m *MockRecipeStore) InsertNutrition(ctx context.Context, n *models.RecipeNutrition) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockRecipeStore) UpdateNutrition(ctx context.Context, n *models.RecipeNutrition) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockRecipeStore) DeleteNutrition(ctx context.Context, recipeID uint) error {
	args := m.Called(ctx, recipeID)
	return args.Error(0)
}

func (m *MockRecipeStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockRecipeStore) InsertTag(ctx context.Context, tag *models.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

// MockBlobStore is a testify mock for the service.BlobStore contract.
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
