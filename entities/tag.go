package entities

import (
	"github.com/google/uuid"
)

type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug  string    `gorm:"uniqueIndex;not null" json:"slug"`
	Color string    `gorm:"default:#FAFAFA" json:"color"`

	Timestamp
}
