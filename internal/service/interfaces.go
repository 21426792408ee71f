package service

import (
	"context"

	"github.com/matboka/matboka-backend/internal/draft"
	"github.com/matboka/matboka-backend/internal/models"
	"github.com/matboka/matboka-backend/internal/scaling"
	"github.com/matboka/matboka-backend/internal/types"
)

// RecipeStore is the record store contract the persistence workflow
// writes through. The production implementation is database.GormStore.
type RecipeStore interface {
	FetchAll(ctx context.Context) ([]models.Recipe, error)
	FetchByID(ctx context.Context, id uint) (*models.Recipe, error)
	FetchRecent(ctx context.Context, limit int) ([]models.Recipe, error)
	SearchByTitle(ctx context.Context, substring string) ([]models.Recipe, error)

	Insert(ctx context.Context, recipe *models.Recipe) error
	Update(ctx context.Context, id uint, recipe *models.Recipe) error
	Delete(ctx context.Context, id uint) error

	InsertTagLinks(ctx context.Context, links []models.RecipeTag) error
	DeleteTagLinks(ctx context.Context, recipeID uint) error
	RemoveTagLinks(ctx context.Context, recipeID uint, tagIDs []uint) error

	InsertNutrition(ctx context.Context, n *models.RecipeNutrition) error
	UpdateNutrition(ctx context.Context, n *models.RecipeNutrition) error
	DeleteNutrition(ctx context.Context, recipeID uint) error

	ListTags(ctx context.Context) ([]models.Tag, error)
	InsertTag(ctx context.Context, tag *models.Tag) error
}

// BlobStore stores hero images under opaque keys and serves them at
// public URLs.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// IRecipeService is the surface exposed to HTTP handlers.
type IRecipeService interface {
	CommitCreate(ctx context.Context, cap *types.TokenClaims, d *draft.Draft, img *NormalizedImage) (*models.Recipe, error)
	CommitUpdate(ctx context.Context, cap *types.TokenClaims, id uint, d *draft.Draft, img *NormalizedImage) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, cap *types.TokenClaims, id uint) error

	GetRecipe(ctx context.Context, id uint) (*models.Recipe, error)
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	RecentRecipes(ctx context.Context, limit int) ([]models.Recipe, error)
	SearchRecipes(ctx context.Context, query string) ([]models.Recipe, error)
	ScaleRecipe(ctx context.Context, id uint, portions int) (*scaling.ScaledView, error)

	ListTags(ctx context.Context) ([]models.Tag, error)
	CreateTag(ctx context.Context, cap *types.TokenClaims, tag *models.Tag) error
}

// IAuthService defines the authentication operations handlers use.
type IAuthService interface {
	Login(ctx context.Context, email, password string) (string, *models.Editor, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
}
