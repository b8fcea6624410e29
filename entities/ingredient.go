package entities

import (
	"github.com/google/uuid"
)

// Ingredient is static reference data, seeded from a two-column CSV file
// before any recipe may reference it.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"uniqueIndex;not null" json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`

	Timestamp
}
