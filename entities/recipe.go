package entities

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Name        string    `gorm:"not null" json:"name"`
	ImageURL    string    `json:"image_url,omitempty"`
	Text        string    `gorm:"type:text" json:"text"`
	CookingTime int       `gorm:"not null" json:"cooking_time"`
	PubDate     time.Time `gorm:"type:timestamp;index" json:"pub_date"`

	Author *User              `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Tags   []Tag              `gorm:"many2many:recipe_tags" json:"tags,omitempty"`
	Lines  []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"lines,omitempty"`

	Timestamp
}

// RecipeIngredient is an ingredient line owned exclusively by its recipe.
// Position preserves the insertion order of the submitted draft.
type RecipeIngredient struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID     uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:uuid;not null" json:"ingredient_id"`
	Amount       int       `gorm:"not null" json:"amount"`
	Position     int       `gorm:"not null" json:"position"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}
