package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IngredientSubstitution maps an ingredient to a fallback ingredient with a
// conversion ratio: substitute quantity = original quantity × Ratio.
// Lower Priority is tried first. Ratio must be > 0 and both ingredients must
// share a unit class (mass/volume/count) — violations are configuration
// errors and the candidate is skipped at resolution time.
type IngredientSubstitution struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OriginalID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SubstituteID uuid.UUID       `gorm:"type:uuid;not null"`
	Priority     int             `gorm:"not null;default:1"`
	Ratio        decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	Notes        *string
	Active       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time

	Original   *Ingredient `gorm:"foreignKey:OriginalID"`
	Substitute *Ingredient `gorm:"foreignKey:SubstituteID"`
}
