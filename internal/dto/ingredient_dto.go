package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateIngredientRequest struct {
	Name           string          `json:"name"            validate:"required,min=2,max=120"`
	Unit           string          `json:"unit"            validate:"required,oneof=kg g l cl ml piece"`
	RemainingQty   decimal.Decimal `json:"remaining_qty"`
	AlertThreshold decimal.Decimal `json:"alert_threshold"`
	UnitPrice      decimal.Decimal `json:"unit_price"      validate:"required"`
	SupplierID     *string         `json:"supplier_id"     validate:"omitempty,uuid"`
}

type UpdateIngredientRequest struct {
	Name           *string          `json:"name"            validate:"omitempty,min=2,max=120"`
	AlertThreshold *decimal.Decimal `json:"alert_threshold"`
	UnitPrice      *decimal.Decimal `json:"unit_price"`
	SupplierID     *string          `json:"supplier_id"     validate:"omitempty,uuid"`
}

// AdjustStockRequest covers manual corrections and waste write-offs.
// Quantity is signed: positive receives stock, negative removes it.
type AdjustStockRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
	Reason   string          `json:"reason"   validate:"required,oneof=adjustment waste"`
	Note     string          `json:"note"`
}

type IngredientFilter struct {
	Name       string `form:"name"`
	SupplierID string `form:"supplier_id"`
	Active     string `form:"active"` // "false" | "all" | default active-only
	LowStock   bool   `form:"low_stock"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type MovementFilter struct {
	IngredientID string `form:"ingredient_id" validate:"omitempty,uuid"`
	Reason       string `form:"reason"`
	Page         int    `form:"page,default=1"    validate:"min=1"`
	Limit        int    `form:"limit,default=50"  validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type IngredientResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Unit           string          `json:"unit"`
	RemainingQty   decimal.Decimal `json:"remaining_qty"`
	AlertThreshold decimal.Decimal `json:"alert_threshold"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	SupplierID     *string         `json:"supplier_id"`
	LowStock       bool            `json:"low_stock"`
	Active         bool            `json:"active"`
}

type IngredientListResponse struct {
	Data  []IngredientResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

type MovementResponse struct {
	ID           string          `json:"id"`
	IngredientID string          `json:"ingredient_id"`
	Ingredient   string          `json:"ingredient"`
	Reason       string          `json:"reason"`
	Quantity     decimal.Decimal `json:"quantity"`
	StockBefore  decimal.Decimal `json:"stock_before"`
	StockAfter   decimal.Decimal `json:"stock_after"`
	Note         string          `json:"note"`
	CreatedAt    string          `json:"created_at"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// StockAlertResponse is one low-stock line for the alerts endpoint and the
// low-stock email digest.
type StockAlertResponse struct {
	IngredientID   string          `json:"ingredient_id"`
	Name           string          `json:"name"`
	Unit           string          `json:"unit"`
	RemainingQty   decimal.Decimal `json:"remaining_qty"`
	AlertThreshold decimal.Decimal `json:"alert_threshold"`
}
