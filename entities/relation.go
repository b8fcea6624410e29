package entities

import (
	"time"

	"github.com/google/uuid"
)

// The three toggle relations share one shape: an at-most-one edge between a
// user and a target, enforced by a composite unique index. The index, not a
// prior existence check, is the source of truth under concurrent adds.

type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_pair" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_pair" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID" json:"-"`
}

type ShoppingCart struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_shopping_carts_pair" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_shopping_carts_pair" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID" json:"-"`
}

type Subscription struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_pair" json:"user_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_pair" json:"author_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User `gorm:"foreignKey:UserID" json:"-"`
	Author *User `gorm:"foreignKey:AuthorID" json:"-"`
}
