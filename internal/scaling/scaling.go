// Package scaling derives per-portion and scaled-total quantities from
// a canonical recipe record. Pure and stateless; stored amounts are
// never modified, rounding happens only on the way to display.
package scaling

import (
	"math"

	"github.com/matboka/matboka-backend/internal/models"
)

// ScaledIngredient is one ingredient with its amount scaled to the
// requested portions and rounded to one decimal for display.
type ScaledIngredient struct {
	Name   string  `json:"name"`
	Unit   string  `json:"unit"`
	Amount float64 `json:"amount"`
}

// NutritionValues holds one set of nutrition figures.
type NutritionValues struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	Fiber         float64 `json:"fiber"`
}

// ScaledNutrition carries per-portion figures and the totals at the
// requested portion count.
type ScaledNutrition struct {
	PerPortion NutritionValues `json:"per_portion"`
	Total      NutritionValues `json:"total"`
}

// ScaledView is what display surfaces render for a recipe at a
// requested portion count.
type ScaledView struct {
	RecipeID     uint               `json:"recipe_id"`
	BaseServings int                `json:"base_servings"`
	Portions     int                `json:"portions"`
	Multiplier   float64            `json:"multiplier"`
	Ingredients  []ScaledIngredient `json:"ingredients"`
	Nutrition    *ScaledNutrition   `json:"nutrition,omitempty"`
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ScalePortions maps a recipe and a requested portion count to scaled
// ingredient and nutrition quantities. Portions are clamped to a
// minimum of 1; requesting the base servings is an identity scale.
// The nutrition view is omitted entirely when facts are absent
// (calories == 0 counts as absent, whatever the other fields say).
func ScalePortions(r *models.Recipe, portions int) ScaledView {
	if portions < 1 {
		portions = 1
	}
	multiplier := float64(portions) / float64(r.Servings)

	view := ScaledView{
		RecipeID:     r.ID,
		BaseServings: r.Servings,
		Portions:     portions,
		Multiplier:   multiplier,
		Ingredients:  make([]ScaledIngredient, len(r.Ingredients)),
	}
	for i, ing := range r.Ingredients {
		view.Ingredients[i] = ScaledIngredient{
			Name:   ing.Name,
			Unit:   ing.Unit,
			Amount: round1(ing.Amount * multiplier),
		}
	}

	if r.HasNutrition() {
		n := r.Nutrition
		servings := float64(r.Servings)
		view.Nutrition = &ScaledNutrition{
			PerPortion: NutritionValues{
				Calories:      math.Round(n.Calories / servings),
				Protein:       round1(n.Protein / servings),
				Carbohydrates: round1(n.Carbohydrates / servings),
				Fat:           round1(n.Fat / servings),
				Fiber:         round1(n.Fiber / servings),
			},
			Total: NutritionValues{
				Calories:      math.Round(n.Calories * multiplier),
				Protein:       round1(n.Protein * multiplier),
				Carbohydrates: round1(n.Carbohydrates * multiplier),
				Fat:           round1(n.Fat * multiplier),
				Fiber:         round1(n.Fiber * multiplier),
			},
		}
	}

	return view
}
