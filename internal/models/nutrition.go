package models

// RecipeNutrition holds the optional nutrition facts for a recipe,
// always expressed for the whole recipe at its base servings, never
// per portion. Zero or one row per recipe.
type RecipeNutrition struct {
	RecipeID      uint    `gorm:"primarykey" json:"-"`
	Calories      float64 `gorm:"not null;default:0" json:"calories"`
	Protein       float64 `gorm:"not null;default:0" json:"protein"`
	Carbohydrates float64 `gorm:"not null;default:0" json:"carbohydrates"`
	Fat           float64 `gorm:"not null;default:0" json:"fat"`
	Fiber         float64 `gorm:"not null;default:0" json:"fiber"`
}

// TableName matches the migration schema.
func (RecipeNutrition) TableName() string { return "recipe_nutrition" }
