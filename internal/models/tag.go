package models

// Tag is a shared vocabulary entry. Recipes reference tags through the
// recipe_tags link table; the id is store-assigned and immutable.
type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"size:50;not null" json:"name"`
	Slug string `gorm:"column:slug_text;size:50;not null;uniqueIndex" json:"slug"`
}

// RecipeTag is one link-table row. No payload beyond the two foreign
// keys; the pair is unique.
type RecipeTag struct {
	RecipeID uint `gorm:"primarykey" json:"recipe_id"`
	TagID    uint `gorm:"primarykey" json:"tag_id"`
}

// TableName keeps the link table on the name the many2many relation uses.
func (RecipeTag) TableName() string { return "recipe_tags" }
