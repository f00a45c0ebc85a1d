package service

import (
	"context"
	"fmt"

	"barstockwise/internal/dto"
	"barstockwise/internal/model"
	"barstockwise/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseService interface {
	// ReceivePurchase books a supplier delivery in one transaction:
	// increment stock, write purchase ledger rows, refresh ingredient unit
	// prices. After commit, every product whose recipe contains a repriced
	// ingredient gets its purchase price recalculated.
	ReceivePurchase(ctx context.Context, userID uuid.UUID, req dto.ReceivePurchaseRequest) (*dto.PurchaseResponse, error)
	GetPurchase(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error)
	ListPurchases(ctx context.Context, page, limit int) ([]dto.PurchaseResponse, int64, error)
}

type purchaseService struct {
	repo         repository.PurchaseRepository
	supplierRepo repository.SupplierRepository
	ingRepo      repository.IngredientRepository
	movementRepo repository.MovementRepository
	recipeRepo   repository.RecipeRepository
	recipes      RecipeService
}

func NewPurchaseService(
	repo repository.PurchaseRepository,
	supplierRepo repository.SupplierRepository,
	ingRepo repository.IngredientRepository,
	movementRepo repository.MovementRepository,
	recipeRepo repository.RecipeRepository,
	recipes RecipeService,
) PurchaseService {
	return &purchaseService{
		repo:         repo,
		supplierRepo: supplierRepo,
		ingRepo:      ingRepo,
		movementRepo: movementRepo,
		recipeRepo:   recipeRepo,
		recipes:      recipes,
	}
}

func (s *purchaseService) ReceivePurchase(ctx context.Context, userID uuid.UUID, req dto.ReceivePurchaseRequest) (*dto.PurchaseResponse, error) {
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("invalid supplier_id: %w", err)
	}
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, notFound("supplier", err)
	}

	// Pre-flight: resolve every ingredient before opening the transaction.
	type resolvedLine struct {
		ingredient *model.Ingredient
		qty        decimal.Decimal
		price      decimal.Decimal
	}
	var resolved []resolvedLine
	total := decimal.Zero

	for _, item := range req.Items {
		iid, err := uuid.Parse(item.IngredientID)
		if err != nil {
			return nil, fmt.Errorf("invalid ingredient_id: %w", err)
		}
		ing, err := s.ingRepo.FindActiveByID(ctx, iid)
		if err != nil {
			return nil, ingredientNotFound(item.IngredientID, err)
		}
		if !item.Quantity.IsPositive() {
			return nil, fmt.Errorf("quantity for %s must be positive", ing.Name)
		}
		if item.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("unit price for %s cannot be negative", ing.Name)
		}
		resolved = append(resolved, resolvedLine{ingredient: ing, qty: item.Quantity, price: item.UnitPrice})
		total = total.Add(item.Quantity.Mul(item.UnitPrice))
	}
	total = total.Round(2)

	var po model.PurchaseOrder
	itemResponses := make([]dto.PurchaseItemResponse, 0, len(resolved))
	repriced := make(map[uuid.UUID]bool)

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		po = model.PurchaseOrder{
			SupplierID: supplierID,
			UserID:     userID,
			Total:      total,
			Status:     "received",
			Note:       req.Note,
		}
		for _, line := range resolved {
			po.Items = append(po.Items, model.PurchaseOrderItem{
				IngredientID: line.ingredient.ID,
				Quantity:     line.qty,
				UnitPrice:    line.price,
			})
		}
		if err := s.repo.CreateTx(tx, &po); err != nil {
			return err
		}

		poRef := po.ID
		for _, line := range resolved {
			cur, err := s.ingRepo.FindByIDTx(tx, line.ingredient.ID)
			if err != nil {
				return err
			}
			before := cur.RemainingQty

			if err := s.ingRepo.IncrementStockTx(tx, line.ingredient.ID, line.qty); err != nil {
				return err
			}

			uid := userID
			mov := &model.IngredientMovement{
				IngredientID: line.ingredient.ID,
				Reason:       model.MovementPurchase,
				Quantity:     line.qty,
				StockBefore:  before,
				StockAfter:   before.Add(line.qty),
				UserID:       &uid,
				ReferenceID:  &poRef,
				Note:         fmt.Sprintf("Delivery from %s", supplier.Name),
			}
			if err := s.movementRepo.CreateTx(tx, mov); err != nil {
				return err
			}

			// A delivery at a new price moves the ingredient's cost basis.
			if !line.price.Equal(line.ingredient.UnitPrice) {
				if err := s.ingRepo.UpdateUnitPriceTx(tx, line.ingredient.ID, line.price); err != nil {
					return err
				}
				repriced[line.ingredient.ID] = true
			}

			itemResponses = append(itemResponses, dto.PurchaseItemResponse{
				Ingredient: line.ingredient.Name,
				Quantity:   line.qty,
				UnitPrice:  line.price,
				StockAfter: before.Add(line.qty),
			})
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Post-commit: cascade repricing into recipe costing.
	recostResults := s.recostAffectedProducts(ctx, repriced)

	return &dto.PurchaseResponse{
		ID:               po.ID.String(),
		Supplier:         supplier.Name,
		Total:            total,
		Items:            itemResponses,
		CreatedAt:        po.CreatedAt.Format("2006-01-02T15:04:05Z"),
		RepricedProducts: recostResults,
	}, nil
}

// recostAffectedProducts recalculates the purchase price of every product
// whose active recipe contains one of the repriced ingredients. Each product
// is recosted once even when several of its ingredients moved.
func (s *purchaseService) recostAffectedProducts(ctx context.Context, repriced map[uuid.UUID]bool) []dto.RecalculateCostResponse {
	if len(repriced) == 0 {
		return []dto.RecalculateCostResponse{}
	}

	seen := make(map[uuid.UUID]bool)
	results := []dto.RecalculateCostResponse{}

	for ingredientID := range repriced {
		recipes, err := s.recipeRepo.ListByIngredientID(ctx, ingredientID)
		if err != nil {
			log.Warn().Err(err).Str("ingredient_id", ingredientID.String()).Msg("recost lookup failed")
			continue
		}
		for _, recipe := range recipes {
			if seen[recipe.ProductID] {
				continue
			}
			seen[recipe.ProductID] = true

			res, err := s.recipes.RecalculateCost(ctx, recipe.ProductID)
			if err != nil {
				log.Warn().Err(err).Str("product_id", recipe.ProductID.String()).Msg("recost failed")
				continue
			}
			results = append(results, *res)
		}
	}
	return results
}

func (s *purchaseService) GetPurchase(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error) {
	po, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("purchase order", err)
	}
	resp := purchaseToResponse(po)
	return &resp, nil
}

func (s *purchaseService) ListPurchases(ctx context.Context, page, limit int) ([]dto.PurchaseResponse, int64, error) {
	orders, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.PurchaseResponse, 0, len(orders))
	for i := range orders {
		out = append(out, purchaseToResponse(&orders[i]))
	}
	return out, total, nil
}

func purchaseToResponse(po *model.PurchaseOrder) dto.PurchaseResponse {
	items := make([]dto.PurchaseItemResponse, 0, len(po.Items))
	for _, item := range po.Items {
		name := ""
		if item.Ingredient != nil {
			name = item.Ingredient.Name
		}
		items = append(items, dto.PurchaseItemResponse{
			Ingredient: name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		})
	}
	supplierName := ""
	if po.Supplier != nil {
		supplierName = po.Supplier.Name
	}
	return dto.PurchaseResponse{
		ID:               po.ID.String(),
		Supplier:         supplierName,
		Total:            po.Total,
		Items:            items,
		CreatedAt:        po.CreatedAt.Format("2006-01-02T15:04:05Z"),
		RepricedProducts: []dto.RecalculateCostResponse{},
	}
}
