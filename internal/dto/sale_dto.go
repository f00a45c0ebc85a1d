package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type PaymentRequest struct {
	Method string          `json:"method" validate:"required,oneof=cash card mobile"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type RegisterSaleRequest struct {
	Items          []SaleItemRequest `json:"items"           validate:"required,min=1,dive"`
	Payments       []PaymentRequest  `json:"payments"        validate:"required,min=1,dive"`
	UseSubstitutes bool              `json:"use_substitutes"`
	CustomerEmail  *string           `json:"customer_email"  validate:"omitempty,email"`
}

type VoidSaleRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

type SaleFilter struct {
	Date   string `form:"date"` // YYYY-MM-DD, default today
	Status string `form:"status"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID           string               `json:"id"`
	TicketNumber int                  `json:"ticket_number"`
	Items        []SaleItemResponse   `json:"items"`
	Subtotal     decimal.Decimal      `json:"subtotal"`
	Total        decimal.Decimal      `json:"total"`
	Change       decimal.Decimal      `json:"change"`
	Payments     []PaymentRequest     `json:"payments"`
	Status       string               `json:"status"`
	Consumed     []ConsumptionReceipt `json:"consumed"`
	CreatedAt    string               `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
