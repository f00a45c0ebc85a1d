package service

import (
	"context"
	"testing"

	"barstockwise/internal/dto"
	"barstockwise/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type purchaseFixture struct {
	svc      PurchaseService
	poRepo   *stubPurchaseRepo
	movRepo  *stubMovementRepo
	rice     *model.Ingredient
	oil      *model.Ingredient
	plate    *model.Product
	supplier *model.Supplier
}

func newPurchaseFixture(t *testing.T) *purchaseFixture {
	t.Helper()
	rice := makeIngredient("Riz", "kg", "3", "2", "3500")
	oil := makeIngredient("Huile de palme", "l", "1", "1", "10000")
	plate := &model.Product{ID: uuid.New(), Name: "Riz au Poulet", SellingPrice: d("2000"), PurchasePrice: d("1200"), Active: true}
	recipe := &model.Recipe{
		ID:        uuid.New(),
		ProductID: plate.ID,
		Name:      "Riz au Poulet",
		Active:    true,
		Ingredients: []model.RecipeIngredient{
			{IngredientID: rice.ID, QtyPerPortion: dp("0.200"), Unit: "kg", Ingredient: rice},
			{IngredientID: oil.ID, QtyPerPortion: dp("0.050"), Unit: "l", Ingredient: oil},
		},
	}
	supplier := &model.Supplier{ID: uuid.New(), Name: "Marché Central", Active: true}

	poRepo := &stubPurchaseRepo{}
	movRepo := &stubMovementRepo{}
	ingRepo := newStubIngredientRepo(rice, oil)
	recipeRepo := newStubRecipeRepo(recipe)
	prodRepo := newStubProductRepo(plate)
	recipes := NewRecipeService(recipeRepo, ingRepo, &stubSubstRepo{}, movRepo, prodRepo, nil)

	return &purchaseFixture{
		svc:      NewPurchaseService(poRepo, newStubSupplierRepo(supplier), ingRepo, movRepo, recipeRepo, recipes),
		poRepo:   poRepo,
		movRepo:  movRepo,
		rice:     rice,
		oil:      oil,
		plate:    plate,
		supplier: supplier,
	}
}

func TestReceivePurchaseIncrementsStockAndLogsLedger(t *testing.T) {
	f := newPurchaseFixture(t)

	resp, err := f.svc.ReceivePurchase(context.Background(), uuid.New(), dto.ReceivePurchaseRequest{
		SupplierID: f.supplier.ID.String(),
		Items: []dto.PurchaseItemRequest{
			{IngredientID: f.rice.ID.String(), Quantity: d("20"), UnitPrice: d("3500")},
		},
	})
	require.NoError(t, err)

	assert.True(t, f.rice.RemainingQty.Equal(d("23")))
	assert.True(t, resp.Total.Equal(d("70000")))
	assert.Equal(t, "Marché Central", resp.Supplier)

	require.Len(t, f.movRepo.movements, 1)
	mov := f.movRepo.movements[0]
	assert.Equal(t, model.MovementPurchase, mov.Reason)
	assert.True(t, mov.Quantity.Equal(d("20")))
	assert.True(t, mov.StockBefore.Equal(d("3")))
	assert.True(t, mov.StockAfter.Equal(d("23")))
	assert.Contains(t, mov.Note, "Marché Central")
	require.NotNil(t, mov.ReferenceID)

	// same price as before — no reprice, no recost
	assert.Empty(t, resp.RepricedProducts)
	assert.True(t, f.plate.PurchasePrice.Equal(d("1200")))
}

func TestReceivePurchaseAtNewPriceRepricesAndRecosts(t *testing.T) {
	f := newPurchaseFixture(t)

	resp, err := f.svc.ReceivePurchase(context.Background(), uuid.New(), dto.ReceivePurchaseRequest{
		SupplierID: f.supplier.ID.String(),
		Items: []dto.PurchaseItemRequest{
			{IngredientID: f.rice.ID.String(), Quantity: d("10"), UnitPrice: d("4000")},
		},
	})
	require.NoError(t, err)

	// cost basis moved to the delivery price
	assert.True(t, f.rice.UnitPrice.Equal(d("4000")))

	// affected product recosted: 0.200 × 4000 + 0.050 × 10000 = 1300
	require.Len(t, resp.RepricedProducts, 1)
	recost := resp.RepricedProducts[0]
	assert.Equal(t, f.plate.ID.String(), recost.ProductID)
	assert.True(t, recost.OldPurchasePrice.Equal(d("1200")))
	assert.True(t, recost.NewPurchasePrice.Equal(d("1300")))
	assert.True(t, f.plate.PurchasePrice.Equal(d("1300")))
}

func TestReceivePurchaseRecostsEachProductOnce(t *testing.T) {
	f := newPurchaseFixture(t)

	// both ingredients of the same recipe repriced in one delivery
	resp, err := f.svc.ReceivePurchase(context.Background(), uuid.New(), dto.ReceivePurchaseRequest{
		SupplierID: f.supplier.ID.String(),
		Items: []dto.PurchaseItemRequest{
			{IngredientID: f.rice.ID.String(), Quantity: d("10"), UnitPrice: d("4000")},
			{IngredientID: f.oil.ID.String(), Quantity: d("5"), UnitPrice: d("12000")},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.RepricedProducts, 1, "a product is recosted once per delivery")
	// 0.200 × 4000 + 0.050 × 12000 = 1400
	assert.True(t, f.plate.PurchasePrice.Equal(d("1400")))
}

func TestReceivePurchaseRejectsBadLines(t *testing.T) {
	f := newPurchaseFixture(t)

	_, err := f.svc.ReceivePurchase(context.Background(), uuid.New(), dto.ReceivePurchaseRequest{
		SupplierID: f.supplier.ID.String(),
		Items: []dto.PurchaseItemRequest{
			{IngredientID: f.rice.ID.String(), Quantity: d("0"), UnitPrice: d("3500")},
		},
	})
	require.Error(t, err)
	assert.True(t, f.rice.RemainingQty.Equal(d("3")))
	assert.Empty(t, f.poRepo.orders)

	_, err = f.svc.ReceivePurchase(context.Background(), uuid.New(), dto.ReceivePurchaseRequest{
		SupplierID: f.supplier.ID.String(),
		Items: []dto.PurchaseItemRequest{
			{IngredientID: f.rice.ID.String(), Quantity: d("5"), UnitPrice: d("-10")},
		},
	})
	require.Error(t, err)
}

func TestReceivePurchaseUnknownSupplier(t *testing.T) {
	f := newPurchaseFixture(t)

	_, err := f.svc.ReceivePurchase(context.Background(), uuid.New(), dto.ReceivePurchaseRequest{
		SupplierID: uuid.NewString(),
		Items: []dto.PurchaseItemRequest{
			{IngredientID: f.rice.ID.String(), Quantity: d("5"), UnitPrice: d("3500")},
		},
	})
	require.Error(t, err)
}
