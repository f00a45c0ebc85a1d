package dto

import "github.com/shopspring/decimal"

// ─── Suppliers ───────────────────────────────────────────────────────────────

type CreateSupplierRequest struct {
	Name    string  `json:"name"    validate:"required,min=2,max=120"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Address *string `json:"address"`
}

type UpdateSupplierRequest struct {
	Name    *string `json:"name"    validate:"omitempty,min=2,max=120"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Address *string `json:"address"`
}

type SupplierResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	Active  bool    `json:"active"`
}

// ─── Purchase orders ─────────────────────────────────────────────────────────

type PurchaseItemRequest struct {
	IngredientID string          `json:"ingredient_id" validate:"required,uuid"`
	Quantity     decimal.Decimal `json:"quantity"      validate:"required"`
	UnitPrice    decimal.Decimal `json:"unit_price"    validate:"required"`
}

type ReceivePurchaseRequest struct {
	SupplierID string                `json:"supplier_id" validate:"required,uuid"`
	Items      []PurchaseItemRequest `json:"items"       validate:"required,min=1,dive"`
	Note       *string               `json:"note"`
}

type PurchaseItemResponse struct {
	Ingredient string          `json:"ingredient"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	StockAfter decimal.Decimal `json:"stock_after"`
}

type PurchaseResponse struct {
	ID        string                 `json:"id"`
	Supplier  string                 `json:"supplier"`
	Total     decimal.Decimal        `json:"total"`
	Items     []PurchaseItemResponse `json:"items"`
	CreatedAt string                 `json:"created_at"`
	// RepricedProducts lists products whose purchase price changed because an
	// ingredient price moved with this delivery.
	RepricedProducts []RecalculateCostResponse `json:"repriced_products"`
}
