package types

// IngredientInput is one ingredient row as submitted by the form.
type IngredientInput struct {
	Name   string  `json:"name"`
	Unit   string  `json:"unit"`
	Amount float64 `json:"amount"`
}

// StepInput is one instruction as submitted by the form. The server
// re-derives step numbers; any submitted numbering is ignored.
type StepInput struct {
	Instruction string `json:"instruction"`
}

// NutritionInput carries the optional nutrition facts for the whole
// recipe at its base servings. Calories == 0 means "not tracked".
type NutritionInput struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	Fiber         float64 `json:"fiber"`
}

// RecipePayload is the JSON part of a create/update submission. The
// hero image travels beside it as a multipart file.
type RecipePayload struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Cuisine     string            `json:"cuisine"`
	MealType    string            `json:"meal_type"`
	SpiceLevel  string            `json:"spice_level"`
	CookTime    int               `json:"cook_time"`
	Servings    int               `json:"servings"`
	Ingredients []IngredientInput `json:"ingredients"`
	Steps       []StepInput       `json:"steps"`
	TagIDs      []uint            `json:"tag_ids"`
	Nutrition   NutritionInput    `json:"nutrition"`
}

// LoginRequest is the editor login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateTagRequest adds a tag to the shared vocabulary.
type CreateTagRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}
