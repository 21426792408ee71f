package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/matboka/matboka-backend/internal/draft"
	"github.com/matboka/matboka-backend/internal/models"
	"github.com/matboka/matboka-backend/internal/testhelpers"
	"github.com/matboka/matboka-backend/internal/types"
)

func newTestService(store *testhelpers.MockRecipeStore, blobs *testhelpers.MockBlobStore) *RecipeService {
	svc := NewRecipeService(store, blobs, nil)
	// No retries so the mocks see deterministic call counts.
	svc.maxRetries = 0
	svc.retryInterval = time.Millisecond
	return svc
}

func editorClaims() *types.TokenClaims {
	return &types.TokenClaims{
		EditorID: uuid.New(),
		Email:    "editor@example.com",
		Role:     types.EditorRole,
	}
}

func testDraft(t *testing.T) *draft.Draft {
	t.Helper()
	d := draft.New()
	d.Title = "Pasta med tomatsaus"
	d.Description = "En enkel og rask hverdagsmiddag med pasta og hjemmelaget tomatsaus."
	d.Cuisine = "italiensk"
	d.MealType = "middag"
	d.SpiceLevel = "mild"
	d.CookTime = 30
	d.Servings = 4
	require.NoError(t, d.AddIngredient(types.IngredientInput{Name: "Pasta", Unit: "g", Amount: 400}))
	require.NoError(t, d.AddStep("Kok pastaen etter anvisningen på pakken."))
	return d
}

func testImage() *NormalizedImage {
	return &NormalizedImage{Data: []byte("jpeg-bytes"), ContentType: "image/jpeg", Width: 800, Height: 600}
}

func TestCommitCreateHappyPath(t *testing.T) {
	store := new(testhelpers.MockRecipeStore)
	blobs := new(testhelpers.MockBlobStore)
	svc := newTestService(store, blobs)

	d := testDraft(t)
	d.ToggleTag(2)
	d.Nutrition = types.NutritionInput{Calories: 2000, Protein: 70}

	blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything, "image/jpeg").
		Return("https://recipe-images.s3.amazonaws.com/recipes/new-key", nil)
	store.On("Insert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Recipe).ID = 42
		}).
		Return(nil)
	store.On("InsertTagLinks", mock.Anything, []models.RecipeTag{{RecipeID: 42, TagID: 2}}).Return(nil)
	store.On("InsertNutrition", mock.Anything, mock.MatchedBy(func(n *models.RecipeNutrition) bool {
		return n.RecipeID == 42 && n.Calories == 2000
	})).Return(nil)
	store.On("FetchByID", mock.Anything, uint(42)).
		Return(&models.Recipe{ID: 42, Title: d.Title, Tags: []models.Tag{{ID: 2}}}, nil)

	recipe, err := svc.CommitCreate(context.Background(), editorClaims(), d, testImage())
	require.NoError(t, err)
	assert.Equal(t, uint(42), recipe.ID)
	require.Len(t, recipe.Tags, 1)

	store.AssertExpectations(t)
	blobs.AssertExpectations(t)
	blobs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCommitCreateInvalidDraftTouchesNothing(t *testing.T) {
	store := new(testhelpers.MockRecipeStore)
	blobs := new(testhelpers.MockBlobStore)
	svc := newTestService(store, blobs)

	d := testDraft(t)
	require.NoError(t, d.RemoveIngredient(0))

	_, err := svc.CommitCreate(context.Background(), editorClaims(), d, testImage())

	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	blobs.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCommitCreateRequiresImage(t *testing.T) {
	svc := newTestService(new(testhelpers.MockRecipeStore), new(testhelpers.MockBlobStore))

	_, err := svc.CommitCreate(context.Background(), editorClaims(), testDraft(t), nil)

	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCommitCreateRequiresWriteCapability(t *testing.T) {
	store := new(testhelpers.MockRecipeStore)
	blobs := new(testhelpers.MockBlobStore)
	svc := newTestService(store, blobs)

	_, err := svc.CommitCreate(context.Background(), nil, testDraft(t), testImage())
	assert.ErrorIs(t, err, types.ErrReadOnlyCapability)

	viewer := &types.TokenClaims{EditorID: uuid.New(), Role: "viewer"}
	_, err = svc.CommitCreate(context.Background(), viewer, testDraft(t), testImage())
	assert.ErrorIs(t, err, types.ErrReadOnlyCapability)

	blobs.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCommitCreateUploadFailureIsTerminal(t *testing.T) {
	store := new(testhelpers.MockRecipeStore)
	blobs := new(testhelpers.MockBlobStore)
	svc := newTestService(store, blobs)

	blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("bucket unavailable"))

	_, err := svc.CommitCreate(context.Background(), editorClaims(), testDraft(t), testImage())

	var serr *types.StorageWriteError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, types.StepUploadImage, serr.Step)
	store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	blobs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCommitCreateInsertFailureReleasesBlob(t *testing.T) {
	store := new(testhelpers.MockRecipeStore)
	blobs := new(testhelpers.MockBlobStore)
	svc := newTestService(store, blobs)

	var uploadedKey string
	blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { uploadedKey = args.String(1) }).
		Return("https://recipe-images.s3.amazonaws.com/recipes/x", nil)
	store.On("Insert", mock.Anything, mock.Anything).Return(errors.New("connection reset"))
	blobs.On("Delete", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.CommitCreate(context.Background(), editorClaims(), testDraft(t), testImage())

	var serr *types.StorageWriteError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, types.StepInsertRecipe, serr.Step)
	blobs.AssertCalled(t, "Delete", mock.Anything, uploadedKey)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCommitCreateTagLinkFailureCompensates(t *testing.T) {
	store := new(testhelpers.MockRecipeStore)
	blobs := new(testhelpers.MockBlobStore)
	svc := newTestService(store, blobs)

	d := testDraft(t)
	d.ToggleTag(5)

	blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("https://recipe-images.s3.amazonaws.com/recipes/x", nil)
	store.On("Insert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*models.Recipe).ID = 9 }).
		Return(nil)
	store.On("InsertTagLinks", mock.Anything, mock.Anything).Return(errors.New("deadlock"))
	store.On("Delete", mock.Anything, uint(9)).Return(nil)
	blobs.On("Delete", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.CommitCreate(context.Background(), editorClaims(), d, testImage())

	var serr *types.StorageWriteError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, types.StepInsertTagLinks, serr.Step)
	// Links never committed, so only the row and the blob are undone.
	store.AssertNotCalled(t, "DeleteTagLinks", mock.Anything, mock.Anything)
	store.AssertCalled(t, "Delete", mock.Anything, uint(9))
	blobs.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCommitCreateNutritionFailureCompensates(t *testing.T) {
	store := new(testhelpers.MockRecipeStore)
	blobs := new(testhelpers.MockBlobStore)
	svc := newTestService(store, blobs)

	d := testDraft(t)
	d.ToggleTag(5)
	d.Nutrition = types.NutritionInput{Calories: 900}

	blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("https://recipe-images.s3.amazonaws.com/recipes/x", nil)
	store.On("Insert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*models.Recipe).ID = 9 }).
		Return(nil)
	store.On("InsertTagLinks", mock.Anything, mock.Anything).Return(nil)
	store.On("InsertNutrition", mock.Anything, mock.Anything).Return(errors.New("constraint violation"))
	store.On("DeleteTagLinks", mock.Anything, uint(9)).Return(nil)
	store.On("Delete", mock.Anything, uint(9)).Return(nil)
	blobs.On("Delete", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.CommitCreate(context.Background(), editorClaims(), d, testImage())

	var serr *types.StorageWriteError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, types.StepNutrition, serr.Step)
	store.AssertCalled(t, "DeleteTagLinks", mock.Anything, uint(9))
	store.AssertCalled(t, "Delete", mock.Anything, uint(9))
	blobs.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCommitUpdateReplacesTagsAsDiff(t *testing.T) {
	store := new(testhelpers.MockRecipeStore)
	blobs := new(testhelpers.MockBlobStore)
	svc := newTestService(store, blobs)

	existing := &models.Recipe{
		ID:       11,
		Servings: 4,
		ImageURL: "https://recipe-images.s3.amazonaws.com/recipes/keep",
		Tags:     []models.Tag{{ID: 1}, {ID: 2}},
	}
	store.On("FetchByID", mock.Anything, uint(11)).Return(existing, nil)
	store.On("Update", mock.Anything, uint(11), mock.Anything).Return(nil)
	store.On("InsertTagLinks", mock.Anything, []models.RecipeTag{{RecipeID: 11, TagID: 3}}).Return(nil)
	store.On("RemoveTagLinks", mock.Anything, uint(11), []uint{1}).Return(nil)

	d := testDraft(t)
	d.ToggleTag(2)
	d.ToggleTag(3)

	_, err := svc.CommitUpdate(context.Background(), editorClaims(), 11, d, nil)
	require.NoError(t, err)

	store.AssertExpectations(t)
	// Unchanged link 2 is never touched.
	store.AssertNotCalled(t, "DeleteTagLinks", mock.Anything, mock.Anything)
	blobs.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	blobs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCommitUpdateRemovesClearedNutrition(t *testing.T) {
	store := new(testhelpers.MockRecipeStore)
	blobs := new(testhelpers.MockBlobStore)
	svc := newTestService(store, blobs)

	existing := &models.Recipe{
		ID:        11,
		Servings:  4,
		ImageURL:  "https://recipe-images.s3.amazonaws.com/recipes/keep",
		Nutrition: &models.RecipeNutrition{RecipeID: 11, Calories: 500},
	}
	store.On("FetchByID", mock.Anything, uint(11)).Return(existing, nil)
	store.On("Update", mock.Anything, uint(11), mock.Anything).Return(nil)
	store.On("DeleteNutrition", mock.Anything, uint(11)).Return(nil).Once()

	d := testDraft(t)
	// Calories cleared to zero: the stored facts must go away.
	d.Nutrition = types.NutritionInput{}

	_, err := svc.CommitUpdate(context.Background(), editorClaims(), 11, d, nil)
	require.NoError(t, err)

	store.AssertExpectations(t)
	store.AssertNotCalled(t, "InsertNutrition", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "UpdateNutrition", mock.Anything, mock.Anything)
	store.AssertNumberOfCalls(t, "DeleteNutrition", 1)
}

func TestCommitUpdateUpdatesExistingNutrition(t *testing.T) {
	store := new(testhelpers.MockRecipeStore)
	blobs := new(testhelpers.MockBlobStore)
	svc := newTestService(store, blobs)

	existing := &models.Recipe{
		ID:        11,
		Servings:  4,
		ImageURL:  "https://recipe-images.s3.amazonaws.com/recipes/keep",
		Nutrition: &models.RecipeNutrition{RecipeID: 11, Calories: 500},
	}
	store.On("FetchByID", mock.Anything, uint(11)).Return(existing, nil)
	store.On("Update", mock.Anything, uint(11), mock.Anything).Return(nil)
	store.On("UpdateNutrition", mock.Anything, mock.MatchedBy(func(n *models.RecipeNutrition) bool {
		return n.RecipeID == 11 && n.Calories == 650
	})).Return(nil)

	d := testDraft(t)
	d.Nutrition = types.NutritionInput{Calories: 650}

	_, err := svc.CommitUpdate(context.Background(), editorClaims(), 11, d, nil)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestCommitUpdateSwapsImage(t *testing.T) {
	store := new(testhelpers.MockRecipeStore)
	blobs := new(testhelpers.MockBlobStore)
	svc := newTestService(store, blobs)

	existing := &models.Recipe{
		ID:       11,
		Servings: 4,
		ImageURL: "https://recipe-images.s3.amazonaws.com/recipes/old-key",
	}
	store.On("FetchByID", mock.Anything, uint(11)).Return(existing, nil)
	blobs.On("Delete", mock.Anything, "recipes/old-key").Return(nil)
	blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything, "image/jpeg").
		Return("https://recipe-images.s3.amazonaws.com/recipes/new-key", nil)
	store.On("Update", mock.Anything, uint(11), mock.MatchedBy(func(r *models.Recipe) bool {
		return r.ImageURL == "https://recipe-images.s3.amazonaws.com/recipes/new-key"
	})).Return(nil)

	_, err := svc.CommitUpdate(context.Background(), editorClaims(), 11, testDraft(t), testImage())
	require.NoError(t, err)
	store.AssertExpectations(t)
	blobs.AssertExpectations(t)
}

func TestCommitUpdateMissingRecipe(t *testing.T) {
	store := new(testhelpers.MockRecipeStore)
	svc := newTestService(store, new(testhelpers.MockBlobStore))

	store.On("FetchByID", mock.Anything, uint(99)).
		Return(nil, &types.NotFoundError{Resource: "recipe", ID: 99})

	_, err := svc.CommitUpdate(context.Background(), editorClaims(), 99, testDraft(t), nil)

	var nf *types.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestDeleteRecipeRemovesSatellites(t *testing.T) {
	store := new(testhelpers.MockRecipeStore)
	blobs := new(testhelpers.MockBlobStore)
	svc := newTestService(store, blobs)

	recipe := &models.Recipe{
		ID:        7,
		ImageURL:  "https://recipe-images.s3.amazonaws.com/recipes/abc",
		Nutrition: &models.RecipeNutrition{RecipeID: 7, Calories: 300},
	}
	store.On("FetchByID", mock.Anything, uint(7)).Return(recipe, nil)

	var order []string
	blobs.On("Delete", mock.Anything, "recipes/abc").
		Run(func(mock.Arguments) { order = append(order, "blob") }).Return(nil)
	store.On("DeleteTagLinks", mock.Anything, uint(7)).
		Run(func(mock.Arguments) { order = append(order, "links") }).Return(nil)
	store.On("DeleteNutrition", mock.Anything, uint(7)).
		Run(func(mock.Arguments) { order = append(order, "nutrition") }).Return(nil)
	store.On("Delete", mock.Anything, uint(7)).
		Run(func(mock.Arguments) { order = append(order, "row") }).Return(nil)

	err := svc.DeleteRecipe(context.Background(), editorClaims(), 7)
	require.NoError(t, err)

	assert.Equal(t, []string{"blob", "links", "nutrition", "row"}, order)
}

func TestDeleteRecipeToleratesBlobFailure(t *testing.T) {
	store := new(testhelpers.MockRecipeStore)
	blobs := new(testhelpers.MockBlobStore)
	svc := newTestService(store, blobs)

	recipe := &models.Recipe{ID: 7, ImageURL: "https://recipe-images.s3.amazonaws.com/recipes/abc"}
	store.On("FetchByID", mock.Anything, uint(7)).Return(recipe, nil)
	blobs.On("Delete", mock.Anything, "recipes/abc").Return(errors.New("access denied"))
	store.On("DeleteTagLinks", mock.Anything, uint(7)).Return(nil)
	store.On("Delete", mock.Anything, uint(7)).Return(nil)

	err := svc.DeleteRecipe(context.Background(), editorClaims(), 7)
	assert.NoError(t, err)
	store.AssertCalled(t, "Delete", mock.Anything, uint(7))
}

func TestDeleteRecipeRequiresWriteCapability(t *testing.T) {
	store := new(testhelpers.MockRecipeStore)
	svc := newTestService(store, new(testhelpers.MockBlobStore))

	err := svc.DeleteRecipe(context.Background(), nil, 7)
	assert.ErrorIs(t, err, types.ErrReadOnlyCapability)
	store.AssertNotCalled(t, "FetchByID", mock.Anything, mock.Anything)
}

func TestScaleRecipe(t *testing.T) {
	store := new(testhelpers.MockRecipeStore)
	svc := newTestService(store, new(testhelpers.MockBlobStore))

	recipe := &models.Recipe{
		ID:       3,
		Servings: 4,
		Ingredients: models.IngredientList{
			{Name: "Pasta", Unit: "g", Amount: 400},
		},
	}
	store.On("FetchByID", mock.Anything, uint(3)).Return(recipe, nil)

	view, err := svc.ScaleRecipe(context.Background(), 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Portions)
	assert.Equal(t, 200.0, view.Ingredients[0].Amount)

	// portions < 1 means "as stored".
	view, err = svc.ScaleRecipe(context.Background(), 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, view.Portions)
	assert.Equal(t, 1.0, view.Multiplier)
}

func TestRecentRecipesClampsLimit(t *testing.T) {
	store := new(testhelpers.MockRecipeStore)
	svc := newTestService(store, new(testhelpers.MockBlobStore))

	store.On("FetchRecent", mock.Anything, 12).Return([]models.Recipe{}, nil).Once()
	store.On("FetchRecent", mock.Anything, 50).Return([]models.Recipe{}, nil).Once()

	_, err := svc.RecentRecipes(context.Background(), 0)
	require.NoError(t, err)
	_, err = svc.RecentRecipes(context.Background(), 500)
	require.NoError(t, err)

	store.AssertExpectations(t)
}

func TestCreateTagRequiresWriteCapability(t *testing.T) {
	store := new(testhelpers.MockRecipeStore)
	svc := newTestService(store, new(testhelpers.MockBlobStore))

	err := svc.CreateTag(context.Background(), nil, &models.Tag{Name: "Rask", Slug: "rask"})
	assert.ErrorIs(t, err, types.ErrReadOnlyCapability)

	store.On("InsertTag", mock.Anything, mock.Anything).Return(nil)
	err = svc.CreateTag(context.Background(), editorClaims(), &models.Tag{Name: "Rask", Slug: "rask"})
	assert.NoError(t, err)
}

func TestBlobKeyFromURL(t *testing.T) {
	tests := []struct {
		url  string
		key  string
		want bool
	}{
		{"https://recipe-images.s3.amazonaws.com/recipes/abc", "recipes/abc", true},
		{"https://cdn.example.com/assets/recipes/deep/key.jpg", "recipes/deep/key.jpg", true},
		{"https://example.com/images/other.jpg", "", false},
		{"", "", false},
		{"://bad-url", "", false},
	}
	for _, tt := range tests {
		key, ok := blobKeyFromURL(tt.url)
		assert.Equal(t, tt.want, ok, tt.url)
		assert.Equal(t, tt.key, key, tt.url)
	}
}
