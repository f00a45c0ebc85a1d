package service

import (
	"context"
	"errors"
	"fmt"

	"barstockwise/internal/dto"
	"barstockwise/internal/model"
	"barstockwise/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IngredientService interface {
	Create(ctx context.Context, req dto.CreateIngredientRequest) (*dto.IngredientResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.IngredientResponse, error)
	List(ctx context.Context, filter dto.IngredientFilter) (*dto.IngredientListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateIngredientRequest) (*dto.IngredientResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error

	// AdjustStock applies a signed manual correction or waste write-off and
	// records it in the movement ledger. Negative adjustments are guarded the
	// same way consumption is: stock can never go below zero.
	AdjustStock(ctx context.Context, id, userID uuid.UUID, req dto.AdjustStockRequest) (*dto.IngredientResponse, error)

	ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)
	ListAlerts(ctx context.Context) ([]dto.StockAlertResponse, error)
}

type ingredientService struct {
	repo         repository.IngredientRepository
	movementRepo repository.MovementRepository
}

func NewIngredientService(repo repository.IngredientRepository, movementRepo repository.MovementRepository) IngredientService {
	return &ingredientService{repo: repo, movementRepo: movementRepo}
}

func (s *ingredientService) Create(ctx context.Context, req dto.CreateIngredientRequest) (*dto.IngredientResponse, error) {
	if req.RemainingQty.IsNegative() {
		return nil, errors.New("remaining_qty cannot be negative")
	}
	ing := &model.Ingredient{
		Name:           req.Name,
		Unit:           req.Unit,
		RemainingQty:   req.RemainingQty,
		AlertThreshold: req.AlertThreshold,
		UnitPrice:      req.UnitPrice,
		Active:         true,
	}
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, fmt.Errorf("invalid supplier_id: %w", err)
		}
		ing.SupplierID = &sid
	}
	if err := s.repo.Create(ctx, ing); err != nil {
		return nil, err
	}
	resp := ingredientToResponse(ing)
	return &resp, nil
}

func (s *ingredientService) GetByID(ctx context.Context, id uuid.UUID) (*dto.IngredientResponse, error) {
	ing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ingredientNotFound(id.String(), err)
	}
	resp := ingredientToResponse(ing)
	return &resp, nil
}

func (s *ingredientService) List(ctx context.Context, filter dto.IngredientFilter) (*dto.IngredientListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	ingredients, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.IngredientResponse, 0, len(ingredients))
	for i := range ingredients {
		data = append(data, ingredientToResponse(&ingredients[i]))
	}
	return &dto.IngredientListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *ingredientService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateIngredientRequest) (*dto.IngredientResponse, error) {
	ing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ingredientNotFound(id.String(), err)
	}
	if req.Name != nil {
		ing.Name = *req.Name
	}
	if req.AlertThreshold != nil {
		ing.AlertThreshold = *req.AlertThreshold
	}
	if req.UnitPrice != nil {
		ing.UnitPrice = *req.UnitPrice
	}
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, fmt.Errorf("invalid supplier_id: %w", err)
		}
		ing.SupplierID = &sid
	}
	if err := s.repo.Update(ctx, ing); err != nil {
		return nil, err
	}
	resp := ingredientToResponse(ing)
	return &resp, nil
}

func (s *ingredientService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ingredientNotFound(id.String(), err)
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *ingredientService) Reactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivate(ctx, id)
}

func (s *ingredientService) AdjustStock(ctx context.Context, id, userID uuid.UUID, req dto.AdjustStockRequest) (*dto.IngredientResponse, error) {
	if req.Quantity.IsZero() {
		return nil, errors.New("quantity cannot be zero")
	}
	ing, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, ingredientNotFound(id.String(), err)
	}
	if req.Reason == model.MovementWaste && req.Quantity.IsPositive() {
		return nil, errors.New("waste must remove stock")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		cur, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return err
		}
		before := cur.RemainingQty

		if req.Quantity.IsNegative() {
			if err := s.repo.DecrementStockTx(tx, id, req.Quantity.Neg()); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &InsufficientStockError{
						Shortfalls: []dto.MissingIngredient{{
							IngredientID: ing.ID.String(),
							Name:         ing.Name,
							Unit:         ing.Unit,
							Needed:       req.Quantity.Neg(),
							Available:    before,
						}},
					}
				}
				return err
			}
		} else {
			if err := s.repo.IncrementStockTx(tx, id, req.Quantity); err != nil {
				return err
			}
		}

		uid := userID
		mov := &model.IngredientMovement{
			IngredientID: id,
			Reason:       req.Reason,
			Quantity:     req.Quantity,
			StockBefore:  before,
			StockAfter:   before.Add(req.Quantity),
			UserID:       &uid,
			Note:         req.Note,
		}
		return s.movementRepo.CreateTx(tx, mov)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.GetByID(ctx, id)
}

func (s *ingredientService) ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	movements, total, err := s.movementRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		name := ""
		if m.Ingredient != nil {
			name = m.Ingredient.Name
		}
		data = append(data, dto.MovementResponse{
			ID:           m.ID.String(),
			IngredientID: m.IngredientID.String(),
			Ingredient:   name,
			Reason:       m.Reason,
			Quantity:     m.Quantity,
			StockBefore:  m.StockBefore,
			StockAfter:   m.StockAfter,
			Note:         m.Note,
			CreatedAt:    m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return &dto.MovementListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *ingredientService) ListAlerts(ctx context.Context) ([]dto.StockAlertResponse, error) {
	ingredients, err := s.repo.ListBelowThreshold(ctx)
	if err != nil {
		return nil, err
	}
	alerts := make([]dto.StockAlertResponse, 0, len(ingredients))
	for _, ing := range ingredients {
		alerts = append(alerts, dto.StockAlertResponse{
			IngredientID:   ing.ID.String(),
			Name:           ing.Name,
			Unit:           ing.Unit,
			RemainingQty:   ing.RemainingQty,
			AlertThreshold: ing.AlertThreshold,
		})
	}
	return alerts, nil
}

func ingredientToResponse(i *model.Ingredient) dto.IngredientResponse {
	var supplierID *string
	if i.SupplierID != nil {
		sid := i.SupplierID.String()
		supplierID = &sid
	}
	return dto.IngredientResponse{
		ID:             i.ID.String(),
		Name:           i.Name,
		Unit:           i.Unit,
		RemainingQty:   i.RemainingQty,
		AlertThreshold: i.AlertThreshold,
		UnitPrice:      i.UnitPrice,
		SupplierID:     supplierID,
		LowStock:       i.BelowThreshold(),
		Active:         i.Active,
	}
}
