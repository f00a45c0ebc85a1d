package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement reasons. Movements are NEVER modified or deleted — corrections
// create inverse entries.
const (
	MovementConsumption = "consumption"
	MovementPurchase    = "purchase"
	MovementAdjustment  = "adjustment"
	MovementWaste       = "waste"
)

// IngredientMovement is an append-only ledger row recording one stock change.
// Invariant: StockAfter = StockBefore + Quantity, and the next movement's
// StockBefore equals the previous StockAfter for the same ingredient.
type IngredientMovement struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IngredientID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Reason       string          `gorm:"type:varchar(20);not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(12,3);not null"` // signed: positive = in, negative = out
	StockBefore  decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	StockAfter   decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UserID       *uuid.UUID      `gorm:"type:uuid"`
	// ReferenceID links to the originating sale or purchase order, when any.
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	Note        string
	CreatedAt   time.Time

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}

// TableName overrides GORM's pluralization (ingredient_movements is fine, but
// keep it explicit next to the index-heavy queries that name it).
func (IngredientMovement) TableName() string { return "ingredient_movements" }
