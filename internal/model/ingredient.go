package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ingredient is a stock-tracked raw input consumed by recipes.
// RemainingQty is unit-scoped (kg, l, piece, ...) and never goes negative
// through a committed consumption. Ingredients referenced by recipes are
// soft-deactivated, never hard-deleted.
type Ingredient struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name           string          `gorm:"uniqueIndex;not null"`
	Unit           string          `gorm:"type:varchar(10);not null;default:'kg'"` // kg | g | l | cl | ml | piece
	RemainingQty   decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	AlertThreshold decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"` // BIF per unit
	SupplierID     *uuid.UUID      `gorm:"type:uuid;index"`
	Active         bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

// BelowThreshold reports whether current stock has reached the alert level.
func (i *Ingredient) BelowThreshold() bool {
	return i.RemainingQty.LessThanOrEqual(i.AlertThreshold)
}
