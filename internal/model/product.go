package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item. PurchasePrice is the derived cost
// basis: only the recipe costing pass and the purchase-receipt flow write it.
// SellingPrice is always set by the bar admin.
type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string          `gorm:"index;not null"`
	Description   *string
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Active        bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
	Recipe   *Recipe   `gorm:"foreignKey:ProductID"`
}

// Margin returns profit per unit and margin percent against the selling
// price. Zero selling price yields a zero margin rather than a division error.
func (p *Product) Margin() (profit, marginPct decimal.Decimal) {
	profit = p.SellingPrice.Sub(p.PurchasePrice)
	if p.SellingPrice.IsZero() {
		return profit, decimal.Zero
	}
	marginPct = profit.Div(p.SellingPrice).Mul(decimal.NewFromInt(100)).Round(2)
	return profit, marginPct
}
