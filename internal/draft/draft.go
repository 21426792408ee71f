// Package draft holds the mutable, pre-commit state of a recipe being
// composed or edited. A draft is only ever touched from one editing
// session; once committed the stored record is the source of truth and
// the draft is discarded.
package draft

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/matboka/matboka-backend/internal/catalog"
	"github.com/matboka/matboka-backend/internal/models"
	"github.com/matboka/matboka-backend/internal/types"
)

// Draft is the in-memory recipe aggregate before persistence.
type Draft struct {
	Title       string
	Description string
	Cuisine     string
	MealType    string
	SpiceLevel  string
	CookTime    int
	Servings    int
	Nutrition   types.NutritionInput

	ingredients []models.Ingredient
	steps       []models.Step
	tagIDs      map[uint]struct{}
}

// New returns an empty draft. Nutrition defaults to all-zero, meaning
// "not supplied".
func New() *Draft {
	return &Draft{tagIDs: make(map[uint]struct{})}
}

// AddIngredient appends an ingredient. Rejected when the name is
// blank, the amount is not positive, or the unit is not in the
// catalog. Duplicate names are allowed (divided use is legitimate).
func (d *Draft) AddIngredient(in types.IngredientInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return &types.ValidationError{Fields: []string{"ingredient name must not be blank"}}
	}
	if in.Amount <= 0 {
		return &types.ValidationError{Fields: []string{fmt.Sprintf("ingredient %q amount must be positive", name)}}
	}
	if !catalog.ValidUnit(in.Unit) {
		return &types.ValidationError{Fields: []string{fmt.Sprintf("unknown unit %q", in.Unit)}}
	}
	d.ingredients = append(d.ingredients, models.Ingredient{Name: name, Unit: in.Unit, Amount: in.Amount})
	return nil
}

// RemoveIngredient removes the ingredient at index, keeping the order
// of the rest stable.
func (d *Draft) RemoveIngredient(index int) error {
	if index < 0 || index >= len(d.ingredients) {
		return &types.ValidationError{Fields: []string{"ingredient index out of range"}}
	}
	d.ingredients = append(d.ingredients[:index], d.ingredients[index+1:]...)
	return nil
}

// AddStep appends an instruction numbered after the current last step.
func (d *Draft) AddStep(instruction string) error {
	if strings.TrimSpace(instruction) == "" {
		return &types.ValidationError{Fields: []string{"step instruction must not be blank"}}
	}
	d.steps = append(d.steps, models.Step{Number: len(d.steps) + 1, Instruction: instruction})
	return nil
}

// RemoveStep removes the step at index and renumbers the remainder
// contiguously from 1.
func (d *Draft) RemoveStep(index int) error {
	if index < 0 || index >= len(d.steps) {
		return &types.ValidationError{Fields: []string{"step index out of range"}}
	}
	d.steps = append(d.steps[:index], d.steps[index+1:]...)
	for i := range d.steps {
		d.steps[i].Number = i + 1
	}
	return nil
}

// ToggleTag adds the tag id to the selected set, or removes it when
// already selected.
func (d *Draft) ToggleTag(tagID uint) {
	if _, ok := d.tagIDs[tagID]; ok {
		delete(d.tagIDs, tagID)
		return
	}
	d.tagIDs[tagID] = struct{}{}
}

// Ingredients returns a copy of the ordered ingredient list.
func (d *Draft) Ingredients() []models.Ingredient {
	out := make([]models.Ingredient, len(d.ingredients))
	copy(out, d.ingredients)
	return out
}

// Steps returns a copy of the ordered step list.
func (d *Draft) Steps() []models.Step {
	out := make([]models.Step, len(d.steps))
	copy(out, d.steps)
	return out
}

// TagIDs returns the selected tag ids in ascending order.
func (d *Draft) TagIDs() []uint {
	out := make([]uint, 0, len(d.tagIDs))
	for id := range d.tagIDs {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasNutrition reports whether nutrition facts were supplied, keyed by
// calories > 0.
func (d *Draft) HasNutrition() bool { return d.Nutrition.Calories > 0 }

// Validate is the gate before submission. It returns a ValidationError
// listing every problem, and must pass before any store call is made.
func (d *Draft) Validate() error {
	var problems []string
	if n := utf8.RuneCountInString(strings.TrimSpace(d.Title)); n < 3 || n > 100 {
		problems = append(problems, "title must be between 3 and 100 characters")
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(d.Description)); n < 10 || n > 500 {
		problems = append(problems, "description must be between 10 and 500 characters")
	}
	if !catalog.ValidCuisine(d.Cuisine) {
		problems = append(problems, "cuisine must be selected")
	}
	if !catalog.ValidMealType(d.MealType) {
		problems = append(problems, "meal type must be selected")
	}
	if !catalog.ValidSpiceLevel(d.SpiceLevel) {
		problems = append(problems, "spice level must be selected")
	}
	if d.CookTime < 1 {
		problems = append(problems, "cook time must be at least 1 minute")
	}
	if d.Servings < 1 {
		problems = append(problems, "servings must be at least 1")
	}
	if len(d.ingredients) == 0 {
		problems = append(problems, "at least one ingredient is required")
	}
	if len(d.steps) == 0 {
		problems = append(problems, "at least one step is required")
	}
	if len(problems) > 0 {
		return &types.ValidationError{Fields: problems}
	}
	return nil
}

// FromPayload builds a validated-enough draft from a submitted
// payload. Ingredient and step rules are applied row by row; the
// Validate gate still runs before commit.
func FromPayload(p *types.RecipePayload) (*Draft, error) {
	d := New()
	d.Title = p.Title
	d.Description = p.Description
	d.Cuisine = p.Cuisine
	d.MealType = p.MealType
	d.SpiceLevel = p.SpiceLevel
	d.CookTime = p.CookTime
	d.Servings = p.Servings
	d.Nutrition = p.Nutrition
	for _, in := range p.Ingredients {
		if err := d.AddIngredient(in); err != nil {
			return nil, err
		}
	}
	for _, st := range p.Steps {
		if err := d.AddStep(st.Instruction); err != nil {
			return nil, err
		}
	}
	for _, id := range p.TagIDs {
		d.ToggleTag(id)
	}
	return d, nil
}
