package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Recipe is the per-portion ingredient composition of a sellable product.
// A product has at most one active recipe (partial unique index, see infra).
type Recipe struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"not null"`
	Instructions *string
	PrepMinutes  int  `gorm:"not null;default:0"`
	BasePortions int  `gorm:"not null;default:1"`
	Active       bool `gorm:"not null;default:true"`
	CreatedByID  *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Product     *Product           `gorm:"foreignKey:ProductID"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID"`
}

// RecipeIngredient joins a recipe to an ingredient with the quantity
// consumed per portion. Optional rows may be omitted without blocking
// preparation; QtyPerPortion must be > 0 when not optional.
type RecipeIngredient struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RecipeID      uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID  uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient"`
	QtyPerPortion *decimal.Decimal `gorm:"type:decimal(12,3)"`
	Unit          string           `gorm:"type:varchar(10);not null"`
	Optional      bool             `gorm:"not null;default:false"`
	CreatedAt     time.Time

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}
