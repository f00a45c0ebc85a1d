package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name         string          `json:"name"          validate:"required,min=2,max=120"`
	Description  *string         `json:"description"`
	CategoryID   *string         `json:"category_id"   validate:"omitempty,uuid"`
	SellingPrice decimal.Decimal `json:"selling_price" validate:"required"`
}

type UpdateProductRequest struct {
	Name         *string          `json:"name"          validate:"omitempty,min=2,max=120"`
	Description  *string          `json:"description"`
	CategoryID   *string          `json:"category_id"   validate:"omitempty,uuid"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
}

type ProductFilter struct {
	Name       string `form:"name"`
	CategoryID string `form:"category_id"`
	Active     string `form:"active"` // "false" | "all" | default active-only
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	CategoryID    *string         `json:"category_id"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	ProfitPerUnit decimal.Decimal `json:"profit_per_unit"`
	MarginPct     decimal.Decimal `json:"margin_pct"`
	HasRecipe     bool            `json:"has_recipe"`
	Active        bool            `json:"active"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
