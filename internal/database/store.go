package database

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/matboka/matboka-backend/internal/models"
	"github.com/matboka/matboka-backend/internal/types"
)

// GormStore is the canonical recipe record store. Reads join tags and
// nutrition in; writes touch exactly one table each so the workflow
// layer keeps control of step ordering and compensation.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GormStore instance.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// FetchAll returns every recipe with tags and nutrition joined in.
func (s *GormStore) FetchAll(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Nutrition").
		Find(&recipes).Error
	return recipes, err
}

// FetchByID returns one recipe or a NotFoundError.
func (s *GormStore) FetchByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Nutrition").
		First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &types.NotFoundError{Resource: "recipe", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// FetchRecent returns the newest recipes, creation time descending.
func (s *GormStore) FetchRecent(ctx context.Context, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Nutrition").
		Order("created_at DESC").
		Limit(limit).
		Find(&recipes).Error
	return recipes, err
}

// SearchByTitle runs a case-insensitive title substring match.
func (s *GormStore) SearchByTitle(ctx context.Context, substring string) ([]models.Recipe, error) {
	var recipes []models.Recipe
	like := "%" + strings.ToLower(substring) + "%"
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Nutrition").
		Where("LOWER(title) LIKE ?", like).
		Find(&recipes).Error
	return recipes, err
}

// Insert creates the recipe row only; tag links and nutrition are
// separate workflow steps.
func (s *GormStore) Insert(ctx context.Context, recipe *models.Recipe) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error
}

// recipeColumns are the scalar and list columns a full-replace update
// rewrites. Zero values overwrite, which is what a full replace means.
var recipeColumns = []string{
	"title", "description", "cuisine", "meal_type", "spice_level",
	"cook_time", "servings", "image_url", "ingredients", "steps", "updated_at",
}

// Update performs a full-row update of all replaceable columns by id.
func (s *GormStore) Update(ctx context.Context, id uint, recipe *models.Recipe) error {
	result := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ?", id).
		Select(recipeColumns).
		Updates(recipe)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &types.NotFoundError{Resource: "recipe", ID: id}
	}
	return nil
}

// Delete removes the recipe row.
func (s *GormStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id).Error
}

// InsertTagLinks bulk-inserts (recipe_id, tag_id) rows.
func (s *GormStore) InsertTagLinks(ctx context.Context, links []models.RecipeTag) error {
	if len(links) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&links).Error
}

// DeleteTagLinks removes every link row for the recipe.
func (s *GormStore) DeleteTagLinks(ctx context.Context, recipeID uint) error {
	return s.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Delete(&models.RecipeTag{}).Error
}

// RemoveTagLinks removes only the named tag ids for the recipe.
func (s *GormStore) RemoveTagLinks(ctx context.Context, recipeID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Where("recipe_id = ? AND tag_id IN ?", recipeID, tagIDs).
		Delete(&models.RecipeTag{}).Error
}

// InsertNutrition creates the single nutrition row for a recipe.
func (s *GormStore) InsertNutrition(ctx context.Context, n *models.RecipeNutrition) error {
	return s.db.WithContext(ctx).Create(n).Error
}

// nutritionColumns are overwritten in place on update.
var nutritionColumns = []string{"calories", "protein", "carbohydrates", "fat", "fiber"}

// UpdateNutrition overwrites the existing nutrition row in place.
func (s *GormStore) UpdateNutrition(ctx context.Context, n *models.RecipeNutrition) error {
	result := s.db.WithContext(ctx).
		Model(&models.RecipeNutrition{}).
		Where("recipe_id = ?", n.RecipeID).
		Select(nutritionColumns).
		Updates(n)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &types.NotFoundError{Resource: "nutrition", ID: n.RecipeID}
	}
	return nil
}

// DeleteNutrition removes the nutrition row for a recipe, if any.
func (s *GormStore) DeleteNutrition(ctx context.Context, recipeID uint) error {
	return s.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Delete(&models.RecipeNutrition{}).Error
}

// ListTags returns the shared vocabulary ordered by slug.
func (s *GormStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).Order("slug_text").Find(&tags).Error
	return tags, err
}

// InsertTag adds one tag to the vocabulary.
func (s *GormStore) InsertTag(ctx context.Context, tag *models.Tag) error {
	return s.db.WithContext(ctx).Create(tag).Error
}
