package scaling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matboka/matboka-backend/internal/models"
)

func pastaRecipe() *models.Recipe {
	return &models.Recipe{
		ID:       7,
		Servings: 4,
		Ingredients: models.IngredientList{
			{Name: "Pasta", Unit: "g", Amount: 400},
			{Name: "Olivenolje", Unit: "ss", Amount: 2},
		},
		Nutrition: &models.RecipeNutrition{
			RecipeID:      7,
			Calories:      2000,
			Protein:       70,
			Carbohydrates: 300,
			Fat:           45,
			Fiber:         18,
		},
	}
}

func TestScaleDown(t *testing.T) {
	view := ScalePortions(pastaRecipe(), 2)

	assert.Equal(t, uint(7), view.RecipeID)
	assert.Equal(t, 4, view.BaseServings)
	assert.Equal(t, 2, view.Portions)
	assert.Equal(t, 0.5, view.Multiplier)

	require.Len(t, view.Ingredients, 2)
	assert.Equal(t, 200.0, view.Ingredients[0].Amount)
	assert.Equal(t, 1.0, view.Ingredients[1].Amount)
}

func TestScaleUp(t *testing.T) {
	view := ScalePortions(pastaRecipe(), 6)

	assert.Equal(t, 1.5, view.Multiplier)
	assert.Equal(t, 600.0, view.Ingredients[0].Amount)
	assert.Equal(t, 3.0, view.Ingredients[1].Amount)
}

func TestIdentityScale(t *testing.T) {
	r := pastaRecipe()
	view := ScalePortions(r, 4)

	assert.Equal(t, 1.0, view.Multiplier)
	assert.Equal(t, 400.0, view.Ingredients[0].Amount)
	assert.Equal(t, 2.0, view.Ingredients[1].Amount)
	// The stored record is untouched.
	assert.Equal(t, 400.0, r.Ingredients[0].Amount)
}

func TestPortionsClampedToOne(t *testing.T) {
	view := ScalePortions(pastaRecipe(), 0)
	assert.Equal(t, 1, view.Portions)
	assert.Equal(t, 0.25, view.Multiplier)
	assert.Equal(t, 100.0, view.Ingredients[0].Amount)

	view = ScalePortions(pastaRecipe(), -3)
	assert.Equal(t, 1, view.Portions)
}

func TestAmountRounding(t *testing.T) {
	r := &models.Recipe{
		ID:       1,
		Servings: 3,
		Ingredients: models.IngredientList{
			{Name: "Fløte", Unit: "dl", Amount: 2},
		},
	}

	// 2 * (2/3) = 1.333... rounds to 1.3 for display.
	view := ScalePortions(r, 2)
	assert.Equal(t, 1.3, view.Ingredients[0].Amount)

	// 2 * (5/3) = 3.333... rounds to 3.3.
	view = ScalePortions(r, 5)
	assert.Equal(t, 3.3, view.Ingredients[0].Amount)
}

func TestNutritionScaling(t *testing.T) {
	view := ScalePortions(pastaRecipe(), 6)

	require.NotNil(t, view.Nutrition)
	// Per portion is totals divided by base servings, calories rounded
	// to a whole number, the rest to one decimal.
	assert.Equal(t, 500.0, view.Nutrition.PerPortion.Calories)
	assert.Equal(t, 17.5, view.Nutrition.PerPortion.Protein)
	assert.Equal(t, 75.0, view.Nutrition.PerPortion.Carbohydrates)
	assert.Equal(t, 11.3, view.Nutrition.PerPortion.Fat)
	assert.Equal(t, 4.5, view.Nutrition.PerPortion.Fiber)

	assert.Equal(t, 3000.0, view.Nutrition.Total.Calories)
	assert.Equal(t, 105.0, view.Nutrition.Total.Protein)
}

func TestPerPortionCaloriesRoundedWhole(t *testing.T) {
	r := pastaRecipe()
	r.Nutrition.Calories = 1000
	r.Servings = 3

	view := ScalePortions(r, 3)
	assert.Equal(t, 333.0, view.Nutrition.PerPortion.Calories)
}

func TestNutritionOmittedWhenAbsent(t *testing.T) {
	r := pastaRecipe()
	r.Nutrition = nil
	view := ScalePortions(r, 2)
	assert.Nil(t, view.Nutrition)

	// Zero calories means absent even when other fields carry values.
	r = pastaRecipe()
	r.Nutrition.Calories = 0
	view = ScalePortions(r, 2)
	assert.Nil(t, view.Nutrition)
}
