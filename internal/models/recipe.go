package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Ingredient is one row of a recipe's ingredient list. Amount is
// relative to the recipe's base Servings count.
type Ingredient struct {
	Name   string  `json:"name"`
	Unit   string  `json:"unit"`
	Amount float64 `json:"amount"`
}

// Step is one instruction. Numbers are 1-based and contiguous; gaps
// are never persisted.
type Step struct {
	Number      int    `json:"stepNumber"`
	Instruction string `json:"instruction"`
}

// IngredientList is a custom type for storing the ordered ingredient
// list in a JSONB column.
type IngredientList []Ingredient

// Value implements the driver.Valuer interface
func (l IngredientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *IngredientList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// StepList is a custom type for storing the ordered step list in a
// JSONB column.
type StepList []Step

// Value implements the driver.Valuer interface
func (l StepList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *StepList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	return json.Unmarshal(bytes, dest)
}

// Recipe is the canonical record. Ingredient amounts and nutrition
// values are stored unscaled, relative to Servings.
type Recipe struct {
	ID          uint             `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Title       string           `gorm:"size:100;not null" json:"title"`
	Description string           `gorm:"size:500;not null" json:"description"`
	Cuisine     string           `gorm:"size:50;not null" json:"cuisine"`
	MealType    string           `gorm:"size:50;not null" json:"meal_type"`
	SpiceLevel  string           `gorm:"size:20;not null" json:"spice_level"`
	CookTime    int              `gorm:"not null" json:"cook_time"`
	Servings    int              `gorm:"not null" json:"servings"`
	ImageURL    string           `gorm:"size:255" json:"image_url"`
	Creator     uuid.UUID        `gorm:"type:varchar(36);not null" json:"creator"`
	Ingredients IngredientList   `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Steps       StepList         `gorm:"type:jsonb;not null;default:'[]'" json:"steps"`
	Tags        []Tag            `gorm:"many2many:recipe_tags" json:"tags"`
	Nutrition   *RecipeNutrition `gorm:"foreignKey:RecipeID" json:"nutrition,omitempty"`
}

// HasNutrition reports whether nutrition facts were supplied.
// Presence is keyed by calories > 0; a zero-calorie row means
// "not tracked", not "zero calories".
func (r *Recipe) HasNutrition() bool {
	return r.Nutrition != nil && r.Nutrition.Calories > 0
}

// TagIDs returns the linked tag ids in load order.
func (r *Recipe) TagIDs() []uint {
	ids := make([]uint, len(r.Tags))
	for i, t := range r.Tags {
		ids[i] = t.ID
	}
	return ids
}
