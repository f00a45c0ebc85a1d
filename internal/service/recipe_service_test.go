package service

import (
	"context"
	"errors"
	"testing"

	"barstockwise/internal/dto"
	"barstockwise/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRecipeServiceForTest(
	recipeRepo *stubRecipeRepo,
	ingRepo *stubIngredientRepo,
	substRepo *stubSubstRepo,
	movRepo *stubMovementRepo,
	prodRepo *stubProductRepo,
) RecipeService {
	return NewRecipeService(recipeRepo, ingRepo, substRepo, movRepo, prodRepo, nil)
}

// twoIngredientRecipe builds a product with an active recipe consuming rice
// and palm oil per portion.
func twoIngredientRecipe(rice, oil *model.Ingredient) (*model.Product, *model.Recipe) {
	product := &model.Product{ID: uuid.New(), Name: "Riz au Poulet", SellingPrice: d("2000"), Active: true}
	recipe := &model.Recipe{
		ID:           uuid.New(),
		ProductID:    product.ID,
		Name:         "Riz au Poulet",
		BasePortions: 1,
		Active:       true,
		Ingredients: []model.RecipeIngredient{
			{IngredientID: rice.ID, QtyPerPortion: dp("0.250"), Unit: "kg", Ingredient: rice},
			{IngredientID: oil.ID, QtyPerPortion: dp("0.030"), Unit: "l", Ingredient: oil},
		},
	}
	return product, recipe
}

func TestValidateAvailabilityCovered(t *testing.T) {
	rice := makeIngredient("Riz", "kg", "10", "2", "2000")
	oil := makeIngredient("Huile de palme", "l", "5", "1", "8000")
	_, recipe := twoIngredientRecipe(rice, oil)

	svc := newRecipeServiceForTest(newStubRecipeRepo(recipe), newStubIngredientRepo(rice, oil), &stubSubstRepo{}, &stubMovementRepo{}, newStubProductRepo())

	report, err := svc.ValidateAvailability(context.Background(), recipe.ID, 4, false)
	require.NoError(t, err)

	assert.True(t, report.CanPrepare)
	assert.Equal(t, 4, report.Portions)
	assert.Equal(t, 2, report.TotalCount)
	assert.Equal(t, 2, report.SatisfiedCount)
	assert.Empty(t, report.Missing)

	// strictly read-only
	assert.True(t, rice.RemainingQty.Equal(d("10")))
	assert.True(t, oil.RemainingQty.Equal(d("5")))
}

func TestValidateAvailabilityListsEveryShortfall(t *testing.T) {
	rice := makeIngredient("Riz", "kg", "0.100", "2", "2000")
	oil := makeIngredient("Huile de palme", "l", "0.010", "1", "8000")
	_, recipe := twoIngredientRecipe(rice, oil)

	svc := newRecipeServiceForTest(newStubRecipeRepo(recipe), newStubIngredientRepo(rice, oil), &stubSubstRepo{}, &stubMovementRepo{}, newStubProductRepo())

	report, err := svc.ValidateAvailability(context.Background(), recipe.ID, 2, false)
	require.NoError(t, err)

	assert.False(t, report.CanPrepare)
	require.Len(t, report.Missing, 2, "every shortfall must be reported, not just the first")

	byName := map[string]dto.MissingIngredient{}
	for _, m := range report.Missing {
		byName[m.Name] = m
	}
	assert.True(t, byName["Riz"].Needed.Equal(d("0.5")))
	assert.True(t, byName["Riz"].Available.Equal(d("0.100")))
	assert.True(t, byName["Huile de palme"].Needed.Equal(d("0.06")))
}

func TestValidateAvailabilityOptionalShortDoesNotBlock(t *testing.T) {
	rice := makeIngredient("Riz", "kg", "10", "2", "2000")
	lemon := makeIngredient("Citron", "piece", "0", "5", "300")
	product := &model.Product{ID: uuid.New(), Name: "Riz simple", SellingPrice: d("1500"), Active: true}
	recipe := &model.Recipe{
		ID:        uuid.New(),
		ProductID: product.ID,
		Name:      "Riz simple",
		Active:    true,
		Ingredients: []model.RecipeIngredient{
			{IngredientID: rice.ID, QtyPerPortion: dp("0.250"), Unit: "kg"},
			{IngredientID: lemon.ID, QtyPerPortion: dp("1"), Unit: "piece", Optional: true},
		},
	}

	svc := newRecipeServiceForTest(newStubRecipeRepo(recipe), newStubIngredientRepo(rice, lemon), &stubSubstRepo{}, &stubMovementRepo{}, newStubProductRepo())

	report, err := svc.ValidateAvailability(context.Background(), recipe.ID, 1, false)
	require.NoError(t, err)
	assert.True(t, report.CanPrepare)
	assert.Equal(t, 1, report.TotalCount, "optional rows do not count toward required coverage")
	assert.Empty(t, report.Missing)
}

func TestValidateAvailabilitySkipsRowsWithoutQuantity(t *testing.T) {
	rice := makeIngredient("Riz", "kg", "10", "2", "2000")
	salt := makeIngredient("Sel", "g", "500", "50", "10")
	product := &model.Product{ID: uuid.New(), Name: "Riz", SellingPrice: d("1500"), Active: true}
	recipe := &model.Recipe{
		ID:        uuid.New(),
		ProductID: product.ID,
		Name:      "Riz",
		Active:    true,
		Ingredients: []model.RecipeIngredient{
			{IngredientID: rice.ID, QtyPerPortion: dp("0.250"), Unit: "kg"},
			// "to taste" row — no quantity recorded
			{IngredientID: salt.ID, QtyPerPortion: nil, Unit: "g"},
		},
	}

	svc := newRecipeServiceForTest(newStubRecipeRepo(recipe), newStubIngredientRepo(rice, salt), &stubSubstRepo{}, &stubMovementRepo{}, newStubProductRepo())

	report, err := svc.ValidateAvailability(context.Background(), recipe.ID, 1, false)
	require.NoError(t, err)
	assert.True(t, report.CanPrepare)
	assert.Equal(t, 1, report.TotalCount)
}

func TestConsumeDecrementsStockAndWritesLedger(t *testing.T) {
	rice := makeIngredient("Riz", "kg", "10", "2", "2000")
	oil := makeIngredient("Huile de palme", "l", "5", "1", "8000")
	_, recipe := twoIngredientRecipe(rice, oil)
	movRepo := &stubMovementRepo{}
	userID := uuid.New()

	svc := newRecipeServiceForTest(newStubRecipeRepo(recipe), newStubIngredientRepo(rice, oil), &stubSubstRepo{}, movRepo, newStubProductRepo())

	resp, err := svc.Consume(context.Background(), recipe.ID, userID, dto.ConsumeRequest{Portions: 2})
	require.NoError(t, err)

	assert.True(t, rice.RemainingQty.Equal(d("9.5")))
	assert.True(t, oil.RemainingQty.Equal(d("4.94")))

	require.Len(t, movRepo.movements, 2)
	riceMov := movRepo.movements[0]
	assert.Equal(t, model.MovementConsumption, riceMov.Reason)
	assert.True(t, riceMov.Quantity.Equal(d("-0.5")), "ledger quantities are signed")
	assert.True(t, riceMov.StockBefore.Equal(d("10")))
	assert.True(t, riceMov.StockAfter.Equal(d("9.5")))
	require.NotNil(t, riceMov.UserID)
	assert.Equal(t, userID, *riceMov.UserID)

	// 0.5 kg × 2000 + 0.06 l × 8000 = 1480
	assert.True(t, resp.TotalCost.Equal(d("1480")), "got %s", resp.TotalCost)
	require.Len(t, resp.Receipts, 2)
	assert.False(t, resp.Receipts[0].Substituted)
}

func TestConsumeRefreshesProductCost(t *testing.T) {
	rice := makeIngredient("Riz", "kg", "10", "2", "2000")
	oil := makeIngredient("Huile de palme", "l", "5", "1", "8000")
	product, recipe := twoIngredientRecipe(rice, oil)
	prodRepo := newStubProductRepo(product)

	svc := newRecipeServiceForTest(newStubRecipeRepo(recipe), newStubIngredientRepo(rice, oil), &stubSubstRepo{}, &stubMovementRepo{}, prodRepo)

	require.True(t, product.PurchasePrice.IsZero())

	_, err := svc.Consume(context.Background(), recipe.ID, uuid.New(), dto.ConsumeRequest{Portions: 1})
	require.NoError(t, err)

	// 0.250 × 2000 + 0.030 × 8000 = 740
	assert.True(t, product.PurchasePrice.Equal(d("740")),
		"cost basis must follow consumption, got %s", product.PurchasePrice)
}

func TestConsumeAbortsWhenRequiredIngredientDeactivated(t *testing.T) {
	rice := makeIngredient("Riz", "kg", "10", "2", "2000")
	oil := makeIngredient("Huile de palme", "l", "5", "1", "8000")
	_, recipe := twoIngredientRecipe(rice, oil)
	oil.Active = false
	movRepo := &stubMovementRepo{}

	svc := newRecipeServiceForTest(newStubRecipeRepo(recipe), newStubIngredientRepo(rice, oil), &stubSubstRepo{}, movRepo, newStubProductRepo())

	_, err := svc.Consume(context.Background(), recipe.ID, uuid.New(), dto.ConsumeRequest{Portions: 1})

	var notFoundErr *IngredientNotFoundError
	require.ErrorAs(t, err, &notFoundErr, "a broken recipe is configuration, not a stock shortfall")
	assert.Equal(t, oil.ID.String(), notFoundErr.IngredientID)

	var stockErr *InsufficientStockError
	assert.False(t, errors.As(err, &stockErr))

	assert.True(t, rice.RemainingQty.Equal(d("10")))
	assert.Empty(t, movRepo.movements)
}

func TestValidateAvailabilityMissingRequiredIngredientFails(t *testing.T) {
	rice := makeIngredient("Riz", "kg", "10", "2", "2000")
	oil := makeIngredient("Huile de palme", "l", "5", "1", "8000")
	_, recipe := twoIngredientRecipe(rice, oil)

	// oil was never registered with the repository
	svc := newRecipeServiceForTest(newStubRecipeRepo(recipe), newStubIngredientRepo(rice), &stubSubstRepo{}, &stubMovementRepo{}, newStubProductRepo())

	_, err := svc.ValidateAvailability(context.Background(), recipe.ID, 1, false)

	var notFoundErr *IngredientNotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, oil.ID.String(), notFoundErr.IngredientID)
}

func TestRecipeLookupErrorsKeepRecordNotFound(t *testing.T) {
	svc := newRecipeServiceForTest(newStubRecipeRepo(), newStubIngredientRepo(), &stubSubstRepo{}, &stubMovementRepo{}, newStubProductRepo())

	_, err := svc.GetRecipe(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound), "handlers map 404s via errors.Is")
	assert.Equal(t, "recipe not found", err.Error())

	_, err = svc.ValidateAvailability(context.Background(), uuid.New(), 1, false)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = svc.RecalculateCost(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.Equal(t, "product not found", err.Error())
}

func TestConsumeAtomicOnShortfall(t *testing.T) {
	rice := makeIngredient("Riz", "kg", "10", "2", "2000")
	oil := makeIngredient("Huile de palme", "l", "0.010", "1", "8000")
	_, recipe := twoIngredientRecipe(rice, oil)
	movRepo := &stubMovementRepo{}

	svc := newRecipeServiceForTest(newStubRecipeRepo(recipe), newStubIngredientRepo(rice, oil), &stubSubstRepo{}, movRepo, newStubProductRepo())

	_, err := svc.Consume(context.Background(), recipe.ID, uuid.New(), dto.ConsumeRequest{Portions: 1})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Shortfalls, 1)
	assert.Equal(t, "Huile de palme", stockErr.Shortfalls[0].Name)

	// nothing was decremented, nothing was logged
	assert.True(t, rice.RemainingQty.Equal(d("10")))
	assert.True(t, oil.RemainingQty.Equal(d("0.010")))
	assert.Empty(t, movRepo.movements)
}

func TestConsumeUsesSubstituteByPriority(t *testing.T) {
	palmOil := makeIngredient("Huile de palme", "l", "0", "1", "6000")
	sunflower := makeIngredient("Huile de tournesol", "l", "5", "1", "8000")
	oliveOil := makeIngredient("Huile d'olive", "l", "5", "1", "15000")
	product := &model.Product{ID: uuid.New(), Name: "Friture", SellingPrice: d("3000"), Active: true}
	recipe := &model.Recipe{
		ID:        uuid.New(),
		ProductID: product.ID,
		Name:      "Friture",
		Active:    true,
		Ingredients: []model.RecipeIngredient{
			{IngredientID: palmOil.ID, QtyPerPortion: dp("0.040"), Unit: "l"},
		},
	}

	substRepo := &stubSubstRepo{}
	// registered out of priority order on purpose
	require.NoError(t, substRepo.Create(context.Background(), &model.IngredientSubstitution{
		OriginalID: palmOil.ID, SubstituteID: oliveOil.ID, Substitute: oliveOil, Priority: 2, Ratio: d("1"), Active: true,
	}))
	require.NoError(t, substRepo.Create(context.Background(), &model.IngredientSubstitution{
		OriginalID: palmOil.ID, SubstituteID: sunflower.ID, Substitute: sunflower, Priority: 1, Ratio: d("1.25"), Active: true,
	}))

	movRepo := &stubMovementRepo{}
	svc := newRecipeServiceForTest(newStubRecipeRepo(recipe), newStubIngredientRepo(palmOil, sunflower, oliveOil), substRepo, movRepo, newStubProductRepo())

	resp, err := svc.Consume(context.Background(), recipe.ID, uuid.New(), dto.ConsumeRequest{Portions: 2, UseSubstitutes: true})
	require.NoError(t, err)

	// priority 1 wins; converted need = 0.08 × 1.25 = 0.1
	assert.True(t, sunflower.RemainingQty.Equal(d("4.9")))
	assert.True(t, oliveOil.RemainingQty.Equal(d("5")))
	assert.True(t, palmOil.RemainingQty.Equal(d("0")))

	require.Len(t, resp.Receipts, 1)
	assert.True(t, resp.Receipts[0].Substituted)
	assert.Equal(t, "Huile de tournesol", resp.Receipts[0].Name)
	assert.True(t, resp.Receipts[0].Consumed.Equal(d("0.1")))
}

func TestConsumeSkipsCrossUnitClassSubstitute(t *testing.T) {
	palmOil := makeIngredient("Huile de palme", "l", "0", "1", "6000")
	lemon := makeIngredient("Citron", "piece", "50", "5", "300")
	sunflower := makeIngredient("Huile de tournesol", "l", "5", "1", "8000")
	product := &model.Product{ID: uuid.New(), Name: "Friture", SellingPrice: d("3000"), Active: true}
	recipe := &model.Recipe{
		ID:        uuid.New(),
		ProductID: product.ID,
		Name:      "Friture",
		Active:    true,
		Ingredients: []model.RecipeIngredient{
			{IngredientID: palmOil.ID, QtyPerPortion: dp("0.040"), Unit: "l"},
		},
	}

	substRepo := &stubSubstRepo{}
	// priority 1 is misconfigured: volume cannot be replaced by count
	require.NoError(t, substRepo.Create(context.Background(), &model.IngredientSubstitution{
		OriginalID: palmOil.ID, SubstituteID: lemon.ID, Substitute: lemon, Priority: 1, Ratio: d("1"), Active: true,
	}))
	require.NoError(t, substRepo.Create(context.Background(), &model.IngredientSubstitution{
		OriginalID: palmOil.ID, SubstituteID: sunflower.ID, Substitute: sunflower, Priority: 2, Ratio: d("1"), Active: true,
	}))

	svc := newRecipeServiceForTest(newStubRecipeRepo(recipe), newStubIngredientRepo(palmOil, lemon, sunflower), substRepo, &stubMovementRepo{}, newStubProductRepo())

	resp, err := svc.Consume(context.Background(), recipe.ID, uuid.New(), dto.ConsumeRequest{Portions: 1, UseSubstitutes: true})
	require.NoError(t, err)

	assert.True(t, lemon.RemainingQty.Equal(d("50")), "cross-class candidate must never be consumed")
	assert.True(t, sunflower.RemainingQty.Equal(d("4.96")))
	require.Len(t, resp.Receipts, 1)
	assert.Equal(t, "Huile de tournesol", resp.Receipts[0].Name)
}

func TestConsumeShortfallWithoutSubstituteFlag(t *testing.T) {
	palmOil := makeIngredient("Huile de palme", "l", "0", "1", "6000")
	sunflower := makeIngredient("Huile de tournesol", "l", "5", "1", "8000")
	product := &model.Product{ID: uuid.New(), Name: "Friture", SellingPrice: d("3000"), Active: true}
	recipe := &model.Recipe{
		ID:        uuid.New(),
		ProductID: product.ID,
		Name:      "Friture",
		Active:    true,
		Ingredients: []model.RecipeIngredient{
			{IngredientID: palmOil.ID, QtyPerPortion: dp("0.040"), Unit: "l"},
		},
	}
	substRepo := &stubSubstRepo{}
	require.NoError(t, substRepo.Create(context.Background(), &model.IngredientSubstitution{
		OriginalID: palmOil.ID, SubstituteID: sunflower.ID, Substitute: sunflower, Priority: 1, Ratio: d("1"), Active: true,
	}))

	svc := newRecipeServiceForTest(newStubRecipeRepo(recipe), newStubIngredientRepo(palmOil, sunflower), substRepo, &stubMovementRepo{}, newStubProductRepo())

	_, err := svc.Consume(context.Background(), recipe.ID, uuid.New(), dto.ConsumeRequest{Portions: 1, UseSubstitutes: false})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr, "substitutions apply only when requested")
	assert.True(t, sunflower.RemainingQty.Equal(d("5")))
}

func TestOptionalRowIsNeverSubstituted(t *testing.T) {
	rice := makeIngredient("Riz", "kg", "10", "2", "2000")
	lemon := makeIngredient("Citron", "piece", "0", "5", "300")
	lime := makeIngredient("Citron vert", "piece", "40", "5", "350")
	product := &model.Product{ID: uuid.New(), Name: "Riz simple", SellingPrice: d("1500"), Active: true}
	recipe := &model.Recipe{
		ID:        uuid.New(),
		ProductID: product.ID,
		Name:      "Riz simple",
		Active:    true,
		Ingredients: []model.RecipeIngredient{
			{IngredientID: rice.ID, QtyPerPortion: dp("0.250"), Unit: "kg"},
			{IngredientID: lemon.ID, QtyPerPortion: dp("1"), Unit: "piece", Optional: true},
		},
	}
	substRepo := &stubSubstRepo{}
	require.NoError(t, substRepo.Create(context.Background(), &model.IngredientSubstitution{
		OriginalID: lemon.ID, SubstituteID: lime.ID, Substitute: lime, Priority: 1, Ratio: d("1"), Active: true,
	}))

	svc := newRecipeServiceForTest(newStubRecipeRepo(recipe), newStubIngredientRepo(rice, lemon, lime), substRepo, &stubMovementRepo{}, newStubProductRepo())

	resp, err := svc.Consume(context.Background(), recipe.ID, uuid.New(), dto.ConsumeRequest{Portions: 1, UseSubstitutes: true})
	require.NoError(t, err)

	assert.True(t, lime.RemainingQty.Equal(d("40")), "optional rows are skipped, never substituted")
	require.Len(t, resp.Receipts, 1)
	assert.Equal(t, "Riz", resp.Receipts[0].Name)
}

func TestConsumeForSaleTxWithoutRecipeConsumesNothing(t *testing.T) {
	svc := newRecipeServiceForTest(newStubRecipeRepo(), newStubIngredientRepo(), &stubSubstRepo{}, &stubMovementRepo{}, newStubProductRepo())

	receipts, err := svc.ConsumeForSaleTx(context.Background(), nil, uuid.New(), 3, false, uuid.New(), nil)
	require.NoError(t, err)
	assert.Nil(t, receipts)
}

func TestLedgerChainsAcrossConsumptions(t *testing.T) {
	rice := makeIngredient("Riz", "kg", "10", "2", "2000")
	oil := makeIngredient("Huile de palme", "l", "5", "1", "8000")
	_, recipe := twoIngredientRecipe(rice, oil)
	movRepo := &stubMovementRepo{}

	svc := newRecipeServiceForTest(newStubRecipeRepo(recipe), newStubIngredientRepo(rice, oil), &stubSubstRepo{}, movRepo, newStubProductRepo())

	_, err := svc.Consume(context.Background(), recipe.ID, uuid.New(), dto.ConsumeRequest{Portions: 1})
	require.NoError(t, err)
	_, err = svc.Consume(context.Background(), recipe.ID, uuid.New(), dto.ConsumeRequest{Portions: 3})
	require.NoError(t, err)

	var riceMovs []model.IngredientMovement
	for _, m := range movRepo.movements {
		if m.IngredientID == rice.ID {
			riceMovs = append(riceMovs, m)
		}
	}
	require.Len(t, riceMovs, 2)
	for _, m := range riceMovs {
		assert.True(t, m.StockAfter.Equal(m.StockBefore.Add(m.Quantity)), "after = before + signed quantity")
	}
	assert.True(t, riceMovs[1].StockBefore.Equal(riceMovs[0].StockAfter), "consecutive rows chain")
	assert.True(t, rice.RemainingQty.Equal(d("9")))
}

func TestRecalculateCostWritesPurchasePrice(t *testing.T) {
	rice := makeIngredient("Riz", "kg", "10", "2", "3500")
	oil := makeIngredient("Huile de palme", "l", "5", "1", "10000")
	product := &model.Product{ID: uuid.New(), Name: "Riz au Poulet", SellingPrice: d("2000"), PurchasePrice: d("900"), Active: true}
	recipe := &model.Recipe{
		ID:        uuid.New(),
		ProductID: product.ID,
		Name:      "Riz au Poulet",
		Active:    true,
		Ingredients: []model.RecipeIngredient{
			{IngredientID: rice.ID, QtyPerPortion: dp("0.200"), Unit: "kg", Ingredient: rice},
			{IngredientID: oil.ID, QtyPerPortion: dp("0.050"), Unit: "l", Ingredient: oil},
		},
	}
	prodRepo := newStubProductRepo(product)

	svc := newRecipeServiceForTest(newStubRecipeRepo(recipe), newStubIngredientRepo(rice, oil), &stubSubstRepo{}, &stubMovementRepo{}, prodRepo)

	resp, err := svc.RecalculateCost(context.Background(), product.ID)
	require.NoError(t, err)

	// 0.200 × 3500 + 0.050 × 10000 = 1200
	assert.True(t, resp.OldPurchasePrice.Equal(d("900")))
	assert.True(t, resp.NewPurchasePrice.Equal(d("1200")))
	assert.True(t, resp.ProfitPerUnit.Equal(d("800")))
	assert.True(t, resp.ProfitMarginPercent.Equal(d("40")), "got %s", resp.ProfitMarginPercent)

	assert.True(t, product.PurchasePrice.Equal(d("1200")), "only the cost basis is written")
	assert.True(t, product.SellingPrice.Equal(d("2000")), "selling price is never touched")
}

func TestCreateSubstitutionRejectsUnitClassMismatch(t *testing.T) {
	oil := makeIngredient("Huile de palme", "l", "5", "1", "6000")
	lemon := makeIngredient("Citron", "piece", "50", "5", "300")

	svc := newRecipeServiceForTest(newStubRecipeRepo(), newStubIngredientRepo(oil, lemon), &stubSubstRepo{}, &stubMovementRepo{}, newStubProductRepo())

	_, err := svc.CreateSubstitution(context.Background(), dto.CreateSubstitutionRequest{
		OriginalID:   oil.ID.String(),
		SubstituteID: lemon.ID.String(),
		Priority:     1,
		Ratio:        d("1"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unit class mismatch")
}

func TestCreateSubstitutionRejectsSelfReference(t *testing.T) {
	oil := makeIngredient("Huile de palme", "l", "5", "1", "6000")
	svc := newRecipeServiceForTest(newStubRecipeRepo(), newStubIngredientRepo(oil), &stubSubstRepo{}, &stubMovementRepo{}, newStubProductRepo())

	_, err := svc.CreateSubstitution(context.Background(), dto.CreateSubstitutionRequest{
		OriginalID:   oil.ID.String(),
		SubstituteID: oil.ID.String(),
		Priority:     1,
		Ratio:        d("1"),
	})
	require.Error(t, err)
}
