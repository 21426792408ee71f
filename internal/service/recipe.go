package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/matboka/matboka-backend/internal/draft"
	"github.com/matboka/matboka-backend/internal/models"
	"github.com/matboka/matboka-backend/internal/scaling"
	"github.com/matboka/matboka-backend/internal/types"
)

const (
	blobKeyPrefix = "recipes/"

	cacheKeyAll    = "recipes:all"
	cacheKeyRecent = "recipes:recent:%d"
	cacheTTL       = 5 * time.Minute

	defaultRecentLimit = 12
	maxRecentLimit     = 50
)

// RecipeService runs the persistence workflows (create, update,
// delete) and the read paths. Workflow steps execute strictly
// sequentially; every remote call runs under a per-call timeout with
// bounded retry, and a failed step after the recipe row is committed
// is compensated in reverse order rather than left as a partial
// commit.
type RecipeService struct {
	store RecipeStore
	blobs BlobStore
	cache *redis.Client // optional

	opTimeout     time.Duration
	retryInterval time.Duration
	maxRetries    uint64
}

// NewRecipeService creates a new RecipeService instance. cache may be
// nil, in which case reads always hit the store.
func NewRecipeService(store RecipeStore, blobs BlobStore, cache *redis.Client) *RecipeService {
	return &RecipeService{
		store:         store,
		blobs:         blobs,
		cache:         cache,
		opTimeout:     10 * time.Second,
		retryInterval: 500 * time.Millisecond,
		maxRetries:    3,
	}
}

// callRemote runs op under the per-call timeout, retrying transient
// failures with constant backoff up to maxRetries.
func (s *RecipeService) callRemote(ctx context.Context, op func(context.Context) error) error {
	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(s.retryInterval), s.maxRetries), ctx)
	return backoff.Retry(func() error {
		opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
		defer cancel()
		err := op(opCtx)
		var nf *types.NotFoundError
		if errors.As(err, &nf) {
			return backoff.Permanent(err)
		}
		return err
	}, bo)
}

// CommitCreate commits a draft as a new recipe: upload image, insert
// row, insert tag links, insert nutrition. Any failure after the
// upload rolls the committed steps back in reverse order so nothing
// partial survives.
func (s *RecipeService) CommitCreate(ctx context.Context, cap *types.TokenClaims, d *draft.Draft, img *NormalizedImage) (*models.Recipe, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, &types.ValidationError{Fields: []string{"a hero image is required"}}
	}
	if !cap.CanWrite() {
		return nil, types.ErrReadOnlyCapability
	}

	key := blobKeyPrefix + uuid.New().String()
	var imageURL string
	err := s.callRemote(ctx, func(ctx context.Context) error {
		var uploadErr error
		imageURL, uploadErr = s.blobs.Upload(ctx, key, img.Data, img.ContentType)
		return uploadErr
	})
	if err != nil {
		// Terminal: nothing persisted yet.
		return nil, &types.StorageWriteError{Step: types.StepUploadImage, Err: err}
	}

	recipe := recordFromDraft(d, cap.EditorID)
	recipe.ImageURL = imageURL

	if err := s.callRemote(ctx, func(ctx context.Context) error {
		return s.store.Insert(ctx, recipe)
	}); err != nil {
		s.releaseBlob(ctx, key)
		return nil, &types.StorageWriteError{Step: types.StepInsertRecipe, Err: err}
	}

	if tagIDs := d.TagIDs(); len(tagIDs) > 0 {
		links := make([]models.RecipeTag, len(tagIDs))
		for i, id := range tagIDs {
			links[i] = models.RecipeTag{RecipeID: recipe.ID, TagID: id}
		}
		if err := s.callRemote(ctx, func(ctx context.Context) error {
			return s.store.InsertTagLinks(ctx, links)
		}); err != nil {
			s.compensateCreate(ctx, recipe.ID, key, false)
			return nil, &types.StorageWriteError{Step: types.StepInsertTagLinks, Err: err}
		}
	}

	if d.HasNutrition() {
		if err := s.callRemote(ctx, func(ctx context.Context) error {
			return s.store.InsertNutrition(ctx, nutritionRow(recipe.ID, d.Nutrition))
		}); err != nil {
			s.compensateCreate(ctx, recipe.ID, key, true)
			return nil, &types.StorageWriteError{Step: types.StepNutrition, Err: err}
		}
	}

	s.invalidateCache(ctx)
	return s.reload(ctx, recipe)
}

// compensateCreate undoes the committed steps of a failed create in
// reverse order. Cleanup failures are logged, never surfaced.
func (s *RecipeService) compensateCreate(ctx context.Context, recipeID uint, blobKey string, linksCommitted bool) {
	if linksCommitted {
		if err := s.store.DeleteTagLinks(ctx, recipeID); err != nil {
			log.Printf("[RecipeService] compensation: failed to delete tag links for recipe %d: %v", recipeID, err)
		}
	}
	if err := s.store.Delete(ctx, recipeID); err != nil {
		log.Printf("[RecipeService] compensation: failed to delete recipe row %d: %v", recipeID, err)
	}
	s.releaseBlob(ctx, blobKey)
}

// CommitUpdate commits a draft as a full replace of an existing
// recipe. A nil img keeps the stored image URL unchanged; a new image
// releases the previous blob best-effort before uploading.
func (s *RecipeService) CommitUpdate(ctx context.Context, cap *types.TokenClaims, id uint, d *draft.Draft, img *NormalizedImage) (*models.Recipe, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if !cap.CanWrite() {
		return nil, types.ErrReadOnlyCapability
	}

	existing, err := s.store.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}

	imageURL := existing.ImageURL
	if img != nil {
		if key, ok := blobKeyFromURL(existing.ImageURL); ok {
			// Never block the update on a storage cleanup failure.
			s.releaseBlob(ctx, key)
		}
		key := blobKeyPrefix + uuid.New().String()
		err := s.callRemote(ctx, func(ctx context.Context) error {
			var uploadErr error
			imageURL, uploadErr = s.blobs.Upload(ctx, key, img.Data, img.ContentType)
			return uploadErr
		})
		if err != nil {
			return nil, &types.StorageWriteError{Step: types.StepUploadImage, Err: err}
		}
	}

	recipe := recordFromDraft(d, existing.Creator)
	recipe.ID = id
	recipe.ImageURL = imageURL

	if err := s.callRemote(ctx, func(ctx context.Context) error {
		return s.store.Update(ctx, id, recipe)
	}); err != nil {
		return nil, &types.StorageWriteError{Step: types.StepUpdateRecipe, Err: err}
	}

	if err := s.replaceTagLinks(ctx, id, existing.TagIDs(), d.TagIDs()); err != nil {
		return nil, &types.StorageWriteError{Step: types.StepReplaceTagLinks, Err: err}
	}

	if err := s.reconcileNutrition(ctx, id, existing.Nutrition != nil, d); err != nil {
		return nil, &types.StorageWriteError{Step: types.StepNutrition, Err: err}
	}

	s.invalidateCache(ctx)
	return s.reload(ctx, recipe)
}

// replaceTagLinks reassigns the tag set as a set difference: insert
// only the added ids, remove only the dropped ones. Untouched links
// stay in place, which keeps the inconsistency window to the single
// changed rows instead of a full delete-then-insert.
func (s *RecipeService) replaceTagLinks(ctx context.Context, recipeID uint, current, want []uint) error {
	have := make(map[uint]bool, len(current))
	for _, id := range current {
		have[id] = true
	}
	wanted := make(map[uint]bool, len(want))
	for _, id := range want {
		wanted[id] = true
	}

	var added []models.RecipeTag
	for _, id := range want {
		if !have[id] {
			added = append(added, models.RecipeTag{RecipeID: recipeID, TagID: id})
		}
	}
	var removed []uint
	for _, id := range current {
		if !wanted[id] {
			removed = append(removed, id)
		}
	}

	if len(added) > 0 {
		if err := s.callRemote(ctx, func(ctx context.Context) error {
			return s.store.InsertTagLinks(ctx, added)
		}); err != nil {
			return err
		}
	}
	if len(removed) > 0 {
		if err := s.callRemote(ctx, func(ctx context.Context) error {
			return s.store.RemoveTagLinks(ctx, recipeID, removed)
		}); err != nil {
			return err
		}
	}
	return nil
}

// reconcileNutrition applies the explicit three-way branch: presence
// is meaningful, so this is never a blind upsert.
func (s *RecipeService) reconcileNutrition(ctx context.Context, recipeID uint, rowExisted bool, d *draft.Draft) error {
	switch {
	case d.HasNutrition() && rowExisted:
		return s.callRemote(ctx, func(ctx context.Context) error {
			return s.store.UpdateNutrition(ctx, nutritionRow(recipeID, d.Nutrition))
		})
	case d.HasNutrition():
		return s.callRemote(ctx, func(ctx context.Context) error {
			return s.store.InsertNutrition(ctx, nutritionRow(recipeID, d.Nutrition))
		})
	case rowExisted:
		// Best-effort removal: log and keep going on failure.
		if err := s.callRemote(ctx, func(ctx context.Context) error {
			return s.store.DeleteNutrition(ctx, recipeID)
		}); err != nil {
			log.Printf("[RecipeService] failed to delete nutrition row for recipe %d: %v", recipeID, err)
		}
	}
	return nil
}

// DeleteRecipe removes a recipe, its stored image, and its satellite
// rows. The blob delete runs first and is best-effort; the tag-link
// and nutrition deletes are issued explicitly rather than trusting
// store-side cascades.
func (s *RecipeService) DeleteRecipe(ctx context.Context, cap *types.TokenClaims, id uint) error {
	if !cap.CanWrite() {
		return types.ErrReadOnlyCapability
	}

	recipe, err := s.store.FetchByID(ctx, id)
	if err != nil {
		return err
	}

	if key, ok := blobKeyFromURL(recipe.ImageURL); ok {
		s.releaseBlob(ctx, key)
	}

	if err := s.callRemote(ctx, func(ctx context.Context) error {
		return s.store.DeleteTagLinks(ctx, id)
	}); err != nil {
		return &types.StorageWriteError{Step: types.StepDeleteTagLinks, Err: err}
	}

	if recipe.Nutrition != nil {
		if err := s.callRemote(ctx, func(ctx context.Context) error {
			return s.store.DeleteNutrition(ctx, id)
		}); err != nil {
			return &types.StorageWriteError{Step: types.StepNutrition, Err: err}
		}
	}

	if err := s.callRemote(ctx, func(ctx context.Context) error {
		return s.store.Delete(ctx, id)
	}); err != nil {
		return &types.StorageWriteError{Step: types.StepDeleteRecipe, Err: err}
	}

	s.invalidateCache(ctx)
	return nil
}

// GetRecipe retrieves a recipe by id with tags and nutrition joined.
func (s *RecipeService) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	return s.store.FetchByID(ctx, id)
}

// ListRecipes returns all recipes.
func (s *RecipeService) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	if recipes, ok := s.cachedRecipes(ctx, cacheKeyAll); ok {
		return recipes, nil
	}
	recipes, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	s.storeCache(ctx, cacheKeyAll, recipes)
	return recipes, nil
}

// RecentRecipes returns the newest recipes, newest first.
func (s *RecipeService) RecentRecipes(ctx context.Context, limit int) ([]models.Recipe, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	key := fmt.Sprintf(cacheKeyRecent, limit)
	if recipes, ok := s.cachedRecipes(ctx, key); ok {
		return recipes, nil
	}
	recipes, err := s.store.FetchRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	s.storeCache(ctx, key, recipes)
	return recipes, nil
}

// SearchRecipes runs a case-insensitive title substring match.
func (s *RecipeService) SearchRecipes(ctx context.Context, query string) ([]models.Recipe, error) {
	return s.store.SearchByTitle(ctx, query)
}

// ScaleRecipe fetches a recipe and derives the scaled view for the
// requested portion count. portions < 1 requests the baseline view at
// the recipe's own servings.
func (s *RecipeService) ScaleRecipe(ctx context.Context, id uint, portions int) (*scaling.ScaledView, error) {
	recipe, err := s.store.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if portions < 1 {
		portions = recipe.Servings
	}
	view := scaling.ScalePortions(recipe, portions)
	return &view, nil
}

// ListTags returns the shared tag vocabulary.
func (s *RecipeService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.store.ListTags(ctx)
}

// CreateTag adds a tag to the shared vocabulary.
func (s *RecipeService) CreateTag(ctx context.Context, cap *types.TokenClaims, tag *models.Tag) error {
	if !cap.CanWrite() {
		return types.ErrReadOnlyCapability
	}
	return s.callRemote(ctx, func(ctx context.Context) error {
		return s.store.InsertTag(ctx, tag)
	})
}

// releaseBlob deletes a stored image best-effort; failures are logged
// and never block the workflow.
func (s *RecipeService) releaseBlob(ctx context.Context, key string) {
	if err := s.callRemote(ctx, func(ctx context.Context) error {
		return s.blobs.Delete(ctx, key)
	}); err != nil {
		log.Printf("[RecipeService] failed to delete stored image %s: %v", key, err)
	}
}

// reload fetches the committed record with tags and nutrition joined.
// The commit already succeeded, so a failed read falls back to the
// row we hold.
func (s *RecipeService) reload(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	full, err := s.store.FetchByID(ctx, recipe.ID)
	if err != nil {
		log.Printf("[RecipeService] committed recipe %d but reload failed: %v", recipe.ID, err)
		return recipe, nil
	}
	return full, nil
}

func (s *RecipeService) cachedRecipes(ctx context.Context, key string) ([]models.Recipe, bool) {
	if s.cache == nil {
		return nil, false
	}
	payload, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var recipes []models.Recipe
	if err := json.Unmarshal(payload, &recipes); err != nil {
		return nil, false
	}
	return recipes, true
}

func (s *RecipeService) storeCache(ctx context.Context, key string, recipes []models.Recipe) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(recipes)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, cacheTTL).Err(); err != nil {
		log.Printf("[RecipeService] failed to cache %s: %v", key, err)
	}
}

func (s *RecipeService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	keys, err := s.cache.Keys(ctx, "recipes:*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[RecipeService] failed to invalidate recipe cache: %v", err)
	}
}

// recordFromDraft maps a validated draft onto a recipe row. Tag links
// and the nutrition row are satellite writes, not part of the row.
func recordFromDraft(d *draft.Draft, creator uuid.UUID) *models.Recipe {
	return &models.Recipe{
		Title:       d.Title,
		Description: d.Description,
		Cuisine:     d.Cuisine,
		MealType:    d.MealType,
		SpiceLevel:  d.SpiceLevel,
		CookTime:    d.CookTime,
		Servings:    d.Servings,
		Creator:     creator,
		Ingredients: d.Ingredients(),
		Steps:       d.Steps(),
	}
}

func nutritionRow(recipeID uint, n types.NutritionInput) *models.RecipeNutrition {
	return &models.RecipeNutrition{
		RecipeID:      recipeID,
		Calories:      n.Calories,
		Protein:       n.Protein,
		Carbohydrates: n.Carbohydrates,
		Fat:           n.Fat,
		Fiber:         n.Fiber,
	}
}

// blobKeyFromURL derives the storage key from a stored image URL: the
// path segment starting at the known "recipes/" prefix.
func blobKeyFromURL(imageURL string) (string, bool) {
	if imageURL == "" {
		return "", false
	}
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", false
	}
	path := strings.TrimPrefix(u.Path, "/")
	idx := strings.Index(path, blobKeyPrefix)
	if idx < 0 {
		return "", false
	}
	return path[idx:], true
}
