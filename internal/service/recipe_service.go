package service

import (
	"context"
	"errors"
	"fmt"

	"barstockwise/internal/dto"
	"barstockwise/internal/model"
	"barstockwise/internal/repository"
	"barstockwise/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RecipeService interface {
	CreateRecipe(ctx context.Context, userID uuid.UUID, req dto.CreateRecipeRequest) (*dto.RecipeResponse, error)
	UpdateRecipe(ctx context.Context, id uuid.UUID, req dto.UpdateRecipeRequest) (*dto.RecipeResponse, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*dto.RecipeResponse, error)
	ListRecipes(ctx context.Context) ([]dto.RecipeResponse, error)
	DeleteRecipe(ctx context.Context, id uuid.UUID) error

	// ValidateAvailability is strictly read-only: no stock is touched no
	// matter what the report says.
	ValidateAvailability(ctx context.Context, recipeID uuid.UUID, portions int, useSubstitutes bool) (*dto.AvailabilityReport, error)

	// Consume decrements stock for every ingredient of the recipe, all or
	// nothing, in a single transaction. Fails with *InsufficientStockError
	// listing every shortfall when the recipe cannot be covered.
	Consume(ctx context.Context, recipeID, userID uuid.UUID, req dto.ConsumeRequest) (*dto.ConsumeResponse, error)

	// ConsumeForSaleTx runs the consumption for one sale item inside the
	// caller's transaction. Products without an active recipe consume nothing.
	ConsumeForSaleTx(ctx context.Context, tx *gorm.DB, productID uuid.UUID, portions int, useSubstitutes bool, userID uuid.UUID, saleRef *uuid.UUID) ([]dto.ConsumptionReceipt, error)

	// RecalculateCost re-derives the product's purchase price from the
	// current ingredient prices of its active recipe and persists it.
	RecalculateCost(ctx context.Context, productID uuid.UUID) (*dto.RecalculateCostResponse, error)

	CreateSubstitution(ctx context.Context, req dto.CreateSubstitutionRequest) (*dto.SubstitutionResponse, error)
	ListSubstitutions(ctx context.Context) ([]dto.SubstitutionResponse, error)
	DeleteSubstitution(ctx context.Context, id uuid.UUID) error
}

type recipeService struct {
	repo           repository.RecipeRepository
	ingredientRepo repository.IngredientRepository
	substRepo      repository.SubstitutionRepository
	movementRepo   repository.MovementRepository
	productRepo    repository.ProductRepository
	dispatcher     *worker.Dispatcher
}

func NewRecipeService(
	repo repository.RecipeRepository,
	ingredientRepo repository.IngredientRepository,
	substRepo repository.SubstitutionRepository,
	movementRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	dispatcher *worker.Dispatcher,
) RecipeService {
	return &recipeService{
		repo:           repo,
		ingredientRepo: ingredientRepo,
		substRepo:      substRepo,
		movementRepo:   movementRepo,
		productRepo:    productRepo,
		dispatcher:     dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Availability resolution ──────────────────────────────────────────────────

// planLine is one resolved consumption: the ingredient that will actually be
// decremented (the substitute when one applies) and the quantity in its unit.
type planLine struct {
	ingredient  *model.Ingredient
	qty         decimal.Decimal
	substituted bool
}

type consumptionPlan struct {
	lines  []planLine
	report dto.AvailabilityReport
}

// buildPlan resolves a recipe against current stock, scaling per-portion
// quantities by portions. Rules:
//   - rows without a quantity ("to taste") never block and consume nothing
//   - optional rows are consumed when covered and silently skipped otherwise,
//     substitutes are never pulled in for an optional row
//   - a required row referencing a missing or deactivated ingredient aborts
//     the whole resolution with *IngredientNotFoundError: that is broken
//     configuration, not a stock shortfall
//   - a required shortfall consults substitutions in ascending priority when
//     useSubstitutes is set; the converted need is original need × ratio
//   - every uncovered required row lands in report.Missing, so the caller
//     sees the complete shortfall list in one pass
func (s *recipeService) buildPlan(ctx context.Context, recipe *model.Recipe, portions int, useSubstitutes bool) (*consumptionPlan, error) {
	plan := &consumptionPlan{
		report: dto.AvailabilityReport{
			Portions:          portions,
			Missing:           []dto.MissingIngredient{},
			SubstitutionsUsed: []dto.SubstitutionUsed{},
		},
	}
	factor := decimal.NewFromInt(int64(portions))

	for _, row := range recipe.Ingredients {
		if row.QtyPerPortion == nil || row.QtyPerPortion.IsZero() {
			continue
		}
		need := row.QtyPerPortion.Mul(factor)

		ing, err := s.ingredientRepo.FindActiveByID(ctx, row.IngredientID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			if row.Optional {
				continue
			}
			return nil, &IngredientNotFoundError{IngredientID: row.IngredientID.String(), Err: err}
		}

		if ing.RemainingQty.GreaterThanOrEqual(need) {
			if !row.Optional {
				plan.report.TotalCount++
				plan.report.SatisfiedCount++
			}
			plan.lines = append(plan.lines, planLine{ingredient: ing, qty: need})
			continue
		}

		if row.Optional {
			continue
		}
		plan.report.TotalCount++

		if useSubstitutes {
			if line, used := s.resolveSubstitute(ctx, ing, need); line != nil {
				plan.report.SatisfiedCount++
				plan.lines = append(plan.lines, *line)
				plan.report.SubstitutionsUsed = append(plan.report.SubstitutionsUsed, *used)
				continue
			}
		}

		plan.report.Missing = append(plan.report.Missing, dto.MissingIngredient{
			IngredientID: ing.ID.String(),
			Name:         ing.Name,
			Unit:         ing.Unit,
			Needed:       need,
			Available:    ing.RemainingQty,
		})
	}

	plan.report.CanPrepare = len(plan.report.Missing) == 0
	return plan, nil
}

// resolveSubstitute walks the active substitution rules for ing in ascending
// priority and returns the first candidate that is valid and has enough
// stock for the converted quantity. Invalid rules (bad ratio, unit class
// mismatch, inactive substitute) are logged and skipped.
func (s *recipeService) resolveSubstitute(ctx context.Context, ing *model.Ingredient, need decimal.Decimal) (*planLine, *dto.SubstitutionUsed) {
	subs, err := s.substRepo.ListActiveByOriginal(ctx, ing.ID)
	if err != nil {
		log.Warn().Err(err).Str("ingredient", ing.Name).Msg("substitution lookup failed")
		return nil, nil
	}

	for _, sub := range subs {
		if sub.Substitute == nil || !sub.Substitute.Active {
			s.skipSubstitution(sub, "substitute ingredient inactive")
			continue
		}
		if !sub.Ratio.IsPositive() {
			s.skipSubstitution(sub, "ratio must be positive")
			continue
		}
		if !compatibleUnits(ing.Unit, sub.Substitute.Unit) {
			s.skipSubstitution(sub, fmt.Sprintf("unit class mismatch: %s vs %s", ing.Unit, sub.Substitute.Unit))
			continue
		}

		converted := need.Mul(sub.Ratio)
		if sub.Substitute.RemainingQty.LessThan(converted) {
			continue
		}

		return &planLine{ingredient: sub.Substitute, qty: converted, substituted: true},
			&dto.SubstitutionUsed{
				OriginalID:     ing.ID.String(),
				OriginalName:   ing.Name,
				SubstituteID:   sub.Substitute.ID.String(),
				SubstituteName: sub.Substitute.Name,
				Ratio:          sub.Ratio,
				Needed:         converted,
			}
	}
	return nil, nil
}

func (s *recipeService) skipSubstitution(sub model.IngredientSubstitution, reason string) {
	serr := &InvalidSubstitutionError{SubstitutionID: sub.ID.String(), Reason: reason}
	log.Warn().Err(serr).Int("priority", sub.Priority).Msg("skipping substitution candidate")
}

// ── ValidateAvailability ─────────────────────────────────────────────────────

func (s *recipeService) ValidateAvailability(ctx context.Context, recipeID uuid.UUID, portions int, useSubstitutes bool) (*dto.AvailabilityReport, error) {
	if portions < 1 {
		portions = 1
	}
	recipe, err := s.repo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, notFound("recipe", err)
	}
	plan, err := s.buildPlan(ctx, recipe, portions, useSubstitutes)
	if err != nil {
		return nil, err
	}
	return &plan.report, nil
}

// ── Consume ──────────────────────────────────────────────────────────────────
// All-or-nothing:
//  1. Resolve the plan outside the transaction (pre-flight).
//  2. Any shortfall aborts before a single row is touched.
//  3. BEGIN TX: per line, read stock, guarded decrement, ledger row.
//     A guard returning zero rows means a concurrent consumption won the
//     race; the whole transaction rolls back.
//  4. COMMIT, then fire low-stock alerts for lines that crossed threshold.

func (s *recipeService) Consume(ctx context.Context, recipeID, userID uuid.UUID, req dto.ConsumeRequest) (*dto.ConsumeResponse, error) {
	recipe, err := s.repo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, notFound("recipe", err)
	}
	if !recipe.Active {
		return nil, errors.New("recipe is inactive")
	}

	plan, err := s.buildPlan(ctx, recipe, req.Portions, req.UseSubstitutes)
	if err != nil {
		return nil, err
	}
	if !plan.report.CanPrepare {
		return nil, &InsufficientStockError{
			RecipeID:   recipe.ID.String(),
			Portions:   req.Portions,
			Shortfalls: plan.report.Missing,
		}
	}

	var receipts []dto.ConsumptionReceipt
	note := fmt.Sprintf("Consumption: %s ×%d", recipe.Name, req.Portions)
	txErr := runTx(ctx, s.ingredientRepo.DB(), func(tx *gorm.DB) error {
		var applyErr error
		receipts, applyErr = s.applyPlanTx(tx, plan, userID, nil, note, req.Portions)
		return applyErr
	})
	if txErr != nil {
		return nil, txErr
	}

	s.alertOnLowStock(ctx, receipts)

	// Keep the stored product cost aligned with current ingredient prices.
	// Best effort: the consumption already committed.
	if _, err := s.RecalculateCost(ctx, recipe.ProductID); err != nil {
		log.Warn().Err(err).Str("recipe", recipe.Name).Msg("cost refresh after consumption failed")
	}

	totalCost := decimal.Zero
	for _, line := range plan.lines {
		totalCost = totalCost.Add(line.qty.Mul(line.ingredient.UnitPrice))
	}

	return &dto.ConsumeResponse{
		RecipeID:  recipe.ID.String(),
		Portions:  req.Portions,
		Receipts:  receipts,
		TotalCost: totalCost.Round(2),
	}, nil
}

// applyPlanTx executes the resolved plan inside tx: one guarded decrement and
// one ledger row per line. Stock-before is re-read inside the transaction so
// the ledger chain stays consistent under concurrency.
func (s *recipeService) applyPlanTx(tx *gorm.DB, plan *consumptionPlan, userID uuid.UUID, refID *uuid.UUID, note string, portions int) ([]dto.ConsumptionReceipt, error) {
	receipts := make([]dto.ConsumptionReceipt, 0, len(plan.lines))

	for _, line := range plan.lines {
		before := line.ingredient.RemainingQty
		if tx != nil {
			cur, err := s.ingredientRepo.FindByIDTx(tx, line.ingredient.ID)
			if err != nil {
				return nil, err
			}
			before = cur.RemainingQty
		}

		if err := s.ingredientRepo.DecrementStockTx(tx, line.ingredient.ID, line.qty); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Lost a race since pre-flight. Roll everything back.
				return nil, &InsufficientStockError{
					Portions: portions,
					Shortfalls: []dto.MissingIngredient{{
						IngredientID: line.ingredient.ID.String(),
						Name:         line.ingredient.Name,
						Unit:         line.ingredient.Unit,
						Needed:       line.qty,
						Available:    before,
					}},
				}
			}
			return nil, err
		}

		after := before.Sub(line.qty)
		uid := userID
		mov := &model.IngredientMovement{
			IngredientID: line.ingredient.ID,
			Reason:       model.MovementConsumption,
			Quantity:     line.qty.Neg(),
			StockBefore:  before,
			StockAfter:   after,
			UserID:       &uid,
			ReferenceID:  refID,
			Note:         note,
		}
		if err := s.movementRepo.CreateTx(tx, mov); err != nil {
			return nil, err
		}

		receipts = append(receipts, dto.ConsumptionReceipt{
			IngredientID: line.ingredient.ID.String(),
			Name:         line.ingredient.Name,
			Unit:         line.ingredient.Unit,
			Consumed:     line.qty,
			StockBefore:  before,
			StockAfter:   after,
			Substituted:  line.substituted,
		})
	}
	return receipts, nil
}

func (s *recipeService) ConsumeForSaleTx(ctx context.Context, tx *gorm.DB, productID uuid.UUID, portions int, useSubstitutes bool, userID uuid.UUID, saleRef *uuid.UUID) ([]dto.ConsumptionReceipt, error) {
	recipe, err := s.repo.FindActiveByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	plan, err := s.buildPlan(ctx, recipe, portions, useSubstitutes)
	if err != nil {
		return nil, err
	}
	if !plan.report.CanPrepare {
		return nil, &InsufficientStockError{
			RecipeID:   recipe.ID.String(),
			Portions:   portions,
			Shortfalls: plan.report.Missing,
		}
	}

	note := fmt.Sprintf("Sale consumption: %s ×%d", recipe.Name, portions)
	return s.applyPlanTx(tx, plan, userID, saleRef, note, portions)
}

// alertOnLowStock enqueues one alert job for the ingredients a consumption
// pushed to or under their threshold. Best effort, post-commit.
func (s *recipeService) alertOnLowStock(ctx context.Context, receipts []dto.ConsumptionReceipt) {
	if s.dispatcher == nil {
		return
	}
	for _, r := range receipts {
		ing, err := s.ingredientRepo.FindByID(ctx, uuid.MustParse(r.IngredientID))
		if err != nil || !ing.BelowThreshold() {
			continue
		}
		payload := map[string]interface{}{
			"ingredient_id":   ing.ID.String(),
			"name":            ing.Name,
			"remaining_qty":   ing.RemainingQty.String(),
			"alert_threshold": ing.AlertThreshold.String(),
			"unit":            ing.Unit,
		}
		if err := s.dispatcher.EnqueueStockAlert(ctx, payload); err != nil {
			log.Warn().Err(err).Str("ingredient", ing.Name).Msg("failed to enqueue stock alert")
		}
	}
}

// ── RecalculateCost ──────────────────────────────────────────────────────────
// Always recomputed from current ingredient unit prices, never cached:
// new purchase price = Σ(qty_per_portion × unit_price) over required and
// optional rows alike, rounded to 2 decimal places.

func (s *recipeService) RecalculateCost(ctx context.Context, productID uuid.UUID) (*dto.RecalculateCostResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, notFound("product", err)
	}
	recipe, err := s.repo.FindActiveByProductID(ctx, productID)
	if err != nil {
		return nil, notFound("active recipe for product", err)
	}

	cost := decimal.Zero
	for _, row := range recipe.Ingredients {
		if row.QtyPerPortion == nil || row.Ingredient == nil {
			continue
		}
		cost = cost.Add(row.QtyPerPortion.Mul(row.Ingredient.UnitPrice))
	}
	cost = cost.Round(2)

	old := product.PurchasePrice
	if err := s.productRepo.UpdatePurchasePrice(ctx, productID, cost); err != nil {
		return nil, err
	}

	product.PurchasePrice = cost
	profit, marginPct := product.Margin()

	log.Info().
		Str("product", product.Name).
		Str("old_price", old.String()).
		Str("new_price", cost.String()).
		Msg("recalculated product cost")

	return &dto.RecalculateCostResponse{
		ProductID:           product.ID.String(),
		OldPurchasePrice:    old,
		NewPurchasePrice:    cost,
		ProfitPerUnit:       profit,
		ProfitMarginPercent: marginPct,
	}, nil
}

// ── Recipe CRUD ──────────────────────────────────────────────────────────────

func (s *recipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, req dto.CreateRecipeRequest) (*dto.RecipeResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product_id: %w", err)
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, notFound("product", err)
	}
	if _, err := s.repo.FindActiveByProductID(ctx, productID); err == nil {
		return nil, errors.New("product already has an active recipe")
	}

	rows, err := s.validateIngredientRows(ctx, req.Ingredients)
	if err != nil {
		return nil, err
	}

	uid := userID
	recipe := model.Recipe{
		ProductID:    productID,
		Name:         req.Name,
		Instructions: req.Instructions,
		PrepMinutes:  req.PrepMinutes,
		BasePortions: req.BasePortions,
		Active:       true,
		CreatedByID:  &uid,
		Ingredients:  rows,
	}
	if recipe.BasePortions < 1 {
		recipe.BasePortions = 1
	}
	if err := s.repo.Create(ctx, &recipe); err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, recipe.ID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, req dto.UpdateRecipeRequest) (*dto.RecipeResponse, error) {
	recipe, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("recipe", err)
	}

	if req.Name != nil {
		recipe.Name = *req.Name
	}
	if req.Instructions != nil {
		recipe.Instructions = req.Instructions
	}
	if req.PrepMinutes != nil {
		recipe.PrepMinutes = *req.PrepMinutes
	}
	if req.BasePortions != nil {
		recipe.BasePortions = *req.BasePortions
	}
	recipe.Ingredients = nil
	if err := s.repo.Update(ctx, recipe); err != nil {
		return nil, err
	}

	if req.Ingredients != nil {
		rows, err := s.validateIngredientRows(ctx, req.Ingredients)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			rows[i].RecipeID = recipe.ID
		}
		if err := s.repo.ReplaceIngredients(ctx, recipe.ID, rows); err != nil {
			return nil, err
		}
	}
	return s.GetRecipe(ctx, id)
}

// validateIngredientRows checks every referenced ingredient exists, is
// active, and carries a unit compatible with the recipe row. Required rows
// must state a positive quantity.
func (s *recipeService) validateIngredientRows(ctx context.Context, inputs []dto.RecipeIngredientInput) ([]model.RecipeIngredient, error) {
	rows := make([]model.RecipeIngredient, 0, len(inputs))
	seen := make(map[uuid.UUID]bool)

	for _, in := range inputs {
		iid, err := uuid.Parse(in.IngredientID)
		if err != nil {
			return nil, fmt.Errorf("invalid ingredient_id: %w", err)
		}
		if seen[iid] {
			return nil, fmt.Errorf("ingredient %s listed twice", in.IngredientID)
		}
		seen[iid] = true

		ing, err := s.ingredientRepo.FindActiveByID(ctx, iid)
		if err != nil {
			return nil, ingredientNotFound(in.IngredientID, err)
		}
		if !compatibleUnits(in.Unit, ing.Unit) {
			return nil, fmt.Errorf("unit %s is not compatible with %s (%s)", in.Unit, ing.Name, ing.Unit)
		}
		if !in.Optional && (in.QtyPerPortion == nil || !in.QtyPerPortion.IsPositive()) {
			return nil, fmt.Errorf("required ingredient %s needs a positive quantity", ing.Name)
		}

		rows = append(rows, model.RecipeIngredient{
			IngredientID:  iid,
			QtyPerPortion: in.QtyPerPortion,
			Unit:          in.Unit,
			Optional:      in.Optional,
		})
	}
	return rows, nil
}

func (s *recipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*dto.RecipeResponse, error) {
	recipe, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("recipe", err)
	}
	return recipeToResponse(recipe), nil
}

func (s *recipeService) ListRecipes(ctx context.Context) ([]dto.RecipeResponse, error) {
	recipes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, *recipeToResponse(&recipes[i]))
	}
	return out, nil
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound("recipe", err)
	}
	return s.repo.Deactivate(ctx, id)
}

// ── Substitution CRUD ────────────────────────────────────────────────────────

func (s *recipeService) CreateSubstitution(ctx context.Context, req dto.CreateSubstitutionRequest) (*dto.SubstitutionResponse, error) {
	origID, err := uuid.Parse(req.OriginalID)
	if err != nil {
		return nil, fmt.Errorf("invalid original_id: %w", err)
	}
	subID, err := uuid.Parse(req.SubstituteID)
	if err != nil {
		return nil, fmt.Errorf("invalid substitute_id: %w", err)
	}
	if origID == subID {
		return nil, errors.New("an ingredient cannot substitute itself")
	}
	if !req.Ratio.IsPositive() {
		return nil, errors.New("ratio must be positive")
	}

	orig, err := s.ingredientRepo.FindActiveByID(ctx, origID)
	if err != nil {
		return nil, ingredientNotFound(req.OriginalID, err)
	}
	sub, err := s.ingredientRepo.FindActiveByID(ctx, subID)
	if err != nil {
		return nil, ingredientNotFound(req.SubstituteID, err)
	}
	if !compatibleUnits(orig.Unit, sub.Unit) {
		return nil, fmt.Errorf("unit class mismatch: %s (%s) vs %s (%s)", orig.Name, orig.Unit, sub.Name, sub.Unit)
	}

	m := model.IngredientSubstitution{
		OriginalID:   origID,
		SubstituteID: subID,
		Priority:     req.Priority,
		Ratio:        req.Ratio,
		Notes:        req.Notes,
		Active:       true,
	}
	if m.Priority < 1 {
		m.Priority = 1
	}
	if err := s.substRepo.Create(ctx, &m); err != nil {
		return nil, err
	}

	return &dto.SubstitutionResponse{
		ID:             m.ID.String(),
		OriginalID:     origID.String(),
		OriginalName:   orig.Name,
		SubstituteID:   subID.String(),
		SubstituteName: sub.Name,
		Priority:       m.Priority,
		Ratio:          m.Ratio,
		Notes:          m.Notes,
		Active:         true,
	}, nil
}

func (s *recipeService) ListSubstitutions(ctx context.Context) ([]dto.SubstitutionResponse, error) {
	subs, err := s.substRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SubstitutionResponse, 0, len(subs))
	for _, m := range subs {
		resp := dto.SubstitutionResponse{
			ID:           m.ID.String(),
			OriginalID:   m.OriginalID.String(),
			SubstituteID: m.SubstituteID.String(),
			Priority:     m.Priority,
			Ratio:        m.Ratio,
			Notes:        m.Notes,
			Active:       m.Active,
		}
		if m.Original != nil {
			resp.OriginalName = m.Original.Name
		}
		if m.Substitute != nil {
			resp.SubstituteName = m.Substitute.Name
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *recipeService) DeleteSubstitution(ctx context.Context, id uuid.UUID) error {
	return s.substRepo.Deactivate(ctx, id)
}

// ── mapping ──────────────────────────────────────────────────────────────────

func recipeToResponse(r *model.Recipe) *dto.RecipeResponse {
	ingredients := make([]dto.RecipeIngredientResponse, 0, len(r.Ingredients))
	totalCost := decimal.Zero
	for _, row := range r.Ingredients {
		resp := dto.RecipeIngredientResponse{
			IngredientID:  row.IngredientID.String(),
			QtyPerPortion: row.QtyPerPortion,
			Unit:          row.Unit,
			Optional:      row.Optional,
		}
		if row.Ingredient != nil {
			resp.Name = row.Ingredient.Name
			resp.UnitPrice = row.Ingredient.UnitPrice
			if row.QtyPerPortion != nil {
				totalCost = totalCost.Add(row.QtyPerPortion.Mul(row.Ingredient.UnitPrice))
			}
		}
		ingredients = append(ingredients, resp)
	}
	return &dto.RecipeResponse{
		ID:           r.ID.String(),
		ProductID:    r.ProductID.String(),
		Name:         r.Name,
		Instructions: r.Instructions,
		PrepMinutes:  r.PrepMinutes,
		BasePortions: r.BasePortions,
		Active:       r.Active,
		TotalCost:    totalCost.Round(2),
		Ingredients:  ingredients,
	}
}
