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

func TestAdjustStockPositiveCorrection(t *testing.T) {
	rice := makeIngredient("Riz", "kg", "4", "2", "2000")
	repo := newStubIngredientRepo(rice)
	movRepo := &stubMovementRepo{}
	svc := NewIngredientService(repo, movRepo)
	userID := uuid.New()

	resp, err := svc.AdjustStock(context.Background(), rice.ID, userID, dto.AdjustStockRequest{
		Quantity: d("1.5"),
		Reason:   model.MovementAdjustment,
		Note:     "Inventory recount",
	})
	require.NoError(t, err)

	assert.True(t, rice.RemainingQty.Equal(d("5.5")))
	assert.True(t, resp.RemainingQty.Equal(d("5.5")))

	require.Len(t, movRepo.movements, 1)
	mov := movRepo.movements[0]
	assert.Equal(t, model.MovementAdjustment, mov.Reason)
	assert.True(t, mov.Quantity.Equal(d("1.5")))
	assert.True(t, mov.StockBefore.Equal(d("4")))
	assert.True(t, mov.StockAfter.Equal(d("5.5")))
	assert.Equal(t, "Inventory recount", mov.Note)
}

func TestAdjustStockWasteMustBeNegative(t *testing.T) {
	rice := makeIngredient("Riz", "kg", "4", "2", "2000")
	svc := NewIngredientService(newStubIngredientRepo(rice), &stubMovementRepo{})

	_, err := svc.AdjustStock(context.Background(), rice.ID, uuid.New(), dto.AdjustStockRequest{
		Quantity: d("1"),
		Reason:   model.MovementWaste,
	})
	require.Error(t, err)
	assert.True(t, rice.RemainingQty.Equal(d("4")))
}

func TestAdjustStockCannotGoBelowZero(t *testing.T) {
	rice := makeIngredient("Riz", "kg", "2", "1", "2000")
	movRepo := &stubMovementRepo{}
	svc := NewIngredientService(newStubIngredientRepo(rice), movRepo)

	_, err := svc.AdjustStock(context.Background(), rice.ID, uuid.New(), dto.AdjustStockRequest{
		Quantity: d("-3"),
		Reason:   model.MovementWaste,
	})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, rice.RemainingQty.Equal(d("2")))
	assert.Empty(t, movRepo.movements)
}

func TestAdjustStockRejectsZeroQuantity(t *testing.T) {
	rice := makeIngredient("Riz", "kg", "2", "1", "2000")
	svc := NewIngredientService(newStubIngredientRepo(rice), &stubMovementRepo{})

	_, err := svc.AdjustStock(context.Background(), rice.ID, uuid.New(), dto.AdjustStockRequest{
		Quantity: d("0"),
		Reason:   model.MovementAdjustment,
	})
	require.Error(t, err)
}

func TestListAlertsReturnsOnlyBreachedIngredients(t *testing.T) {
	low := makeIngredient("Huile de palme", "l", "0.5", "1", "6000")
	ok := makeIngredient("Riz", "kg", "10", "2", "2000")
	atThreshold := makeIngredient("Tomate", "kg", "1", "1", "2500")
	svc := NewIngredientService(newStubIngredientRepo(low, ok, atThreshold), &stubMovementRepo{})

	alerts, err := svc.ListAlerts(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(alerts))
	for _, a := range alerts {
		names = append(names, a.Name)
	}
	assert.ElementsMatch(t, []string{"Huile de palme", "Tomate"}, names, "at-threshold counts as breached")
}

func TestDeactivateIsSoft(t *testing.T) {
	rice := makeIngredient("Riz", "kg", "10", "2", "2000")
	repo := newStubIngredientRepo(rice)
	svc := NewIngredientService(repo, &stubMovementRepo{})

	require.NoError(t, svc.Deactivate(context.Background(), rice.ID))
	assert.False(t, rice.Active)

	// still findable for historical data
	got, err := svc.GetByID(context.Background(), rice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Riz", got.Name)

	require.NoError(t, svc.Reactivate(context.Background(), rice.ID))
	assert.True(t, rice.Active)
}
