package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RecipeIngredientInput struct {
	IngredientID  string           `json:"ingredient_id"  validate:"required,uuid"`
	QtyPerPortion *decimal.Decimal `json:"qty_per_portion"`
	Unit          string           `json:"unit"           validate:"required"`
	Optional      bool             `json:"optional"`
}

type CreateRecipeRequest struct {
	ProductID    string                  `json:"product_id"    validate:"required,uuid"`
	Name         string                  `json:"name"          validate:"required,min=2,max=120"`
	Instructions *string                 `json:"instructions"`
	PrepMinutes  int                     `json:"prep_minutes"  validate:"min=0"`
	BasePortions int                     `json:"base_portions" validate:"min=1"`
	Ingredients  []RecipeIngredientInput `json:"ingredients"   validate:"required,min=1,dive"`
}

type UpdateRecipeRequest struct {
	Name         *string                 `json:"name"          validate:"omitempty,min=2,max=120"`
	Instructions *string                 `json:"instructions"`
	PrepMinutes  *int                    `json:"prep_minutes"  validate:"omitempty,min=0"`
	BasePortions *int                    `json:"base_portions" validate:"omitempty,min=1"`
	Ingredients  []RecipeIngredientInput `json:"ingredients"   validate:"omitempty,min=1,dive"`
}

type AvailabilityRequest struct {
	Portions        int  `form:"portions,default=1" validate:"min=1"`
	UseSubstitutes  bool `form:"use_substitutes"`
}

type ConsumeRequest struct {
	Portions       int  `json:"portions"        validate:"required,min=1"`
	UseSubstitutes bool `json:"use_substitutes"`
}

type CreateSubstitutionRequest struct {
	OriginalID   string          `json:"original_id"   validate:"required,uuid"`
	SubstituteID string          `json:"substitute_id" validate:"required,uuid"`
	Priority     int             `json:"priority"      validate:"min=1"`
	Ratio        decimal.Decimal `json:"ratio"         validate:"required"`
	Notes        *string         `json:"notes"`
}

// ─── Availability report (read-only, no writes) ──────────────────────────────

// MissingIngredient is one shortfall line for caller display.
type MissingIngredient struct {
	IngredientID string          `json:"ingredient_id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Needed       decimal.Decimal `json:"needed"`
	Available    decimal.Decimal `json:"available"`
}

// SubstitutionUsed reports one applied substitution: the converted quantity
// equals the original need × ratio.
type SubstitutionUsed struct {
	OriginalID     string          `json:"original_id"`
	OriginalName   string          `json:"original_name"`
	SubstituteID   string          `json:"substitute_id"`
	SubstituteName string          `json:"substitute_name"`
	Ratio          decimal.Decimal `json:"ratio"`
	Needed         decimal.Decimal `json:"needed"`
}

type AvailabilityReport struct {
	CanPrepare        bool                `json:"can_prepare"`
	Portions          int                 `json:"portions"`
	SatisfiedCount    int                 `json:"satisfied_count"`
	TotalCount        int                 `json:"total_count"`
	Missing           []MissingIngredient `json:"missing"`
	SubstitutionsUsed []SubstitutionUsed  `json:"substitutions_used"`
}

// ─── Consumption receipts ────────────────────────────────────────────────────

// ConsumptionReceipt is one per-ingredient line of a successful consumption.
type ConsumptionReceipt struct {
	IngredientID string          `json:"ingredient_id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Consumed     decimal.Decimal `json:"consumed"`
	StockBefore  decimal.Decimal `json:"stock_before"`
	StockAfter   decimal.Decimal `json:"stock_after"`
	Substituted  bool            `json:"substituted"`
}

type ConsumeResponse struct {
	RecipeID  string               `json:"recipe_id"`
	Portions  int                  `json:"portions"`
	Receipts  []ConsumptionReceipt `json:"receipts"`
	TotalCost decimal.Decimal      `json:"total_cost"`
}

// ─── Costing ─────────────────────────────────────────────────────────────────

type RecalculateCostResponse struct {
	ProductID           string          `json:"product_id"`
	OldPurchasePrice    decimal.Decimal `json:"old_purchase_price"`
	NewPurchasePrice    decimal.Decimal `json:"new_purchase_price"`
	ProfitPerUnit       decimal.Decimal `json:"profit_per_unit"`
	ProfitMarginPercent decimal.Decimal `json:"profit_margin_percent"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RecipeIngredientResponse struct {
	IngredientID  string           `json:"ingredient_id"`
	Name          string           `json:"name"`
	QtyPerPortion *decimal.Decimal `json:"qty_per_portion"`
	Unit          string           `json:"unit"`
	Optional      bool             `json:"optional"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
}

type RecipeResponse struct {
	ID           string                     `json:"id"`
	ProductID    string                     `json:"product_id"`
	Name         string                     `json:"name"`
	Instructions *string                    `json:"instructions"`
	PrepMinutes  int                        `json:"prep_minutes"`
	BasePortions int                        `json:"base_portions"`
	Active       bool                       `json:"active"`
	TotalCost    decimal.Decimal            `json:"total_cost"`
	Ingredients  []RecipeIngredientResponse `json:"ingredients"`
}

type SubstitutionResponse struct {
	ID             string          `json:"id"`
	OriginalID     string          `json:"original_id"`
	OriginalName   string          `json:"original_name"`
	SubstituteID   string          `json:"substitute_id"`
	SubstituteName string          `json:"substitute_name"`
	Priority       int             `json:"priority"`
	Ratio          decimal.Decimal `json:"ratio"`
	Notes          *string         `json:"notes"`
	Active         bool            `json:"active"`
}
