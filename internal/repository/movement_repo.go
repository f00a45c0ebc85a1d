package repository

import (
	"context"

	"barstockwise/internal/dto"
	"barstockwise/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovementRepository interface {
	Create(ctx context.Context, m *model.IngredientMovement) error
	CreateTx(tx *gorm.DB, m *model.IngredientMovement) error
	List(ctx context.Context, filter dto.MovementFilter) ([]model.IngredientMovement, int64, error)
	// ListByReference returns the ledger rows tied to one sale or purchase,
	// oldest first. Used to build the inverse entries when voiding.
	ListByReference(ctx context.Context, refID uuid.UUID, reason string) ([]model.IngredientMovement, error)
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository { return &movementRepo{db: db} }

func (r *movementRepo) Create(ctx context.Context, m *model.IngredientMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movementRepo) CreateTx(tx *gorm.DB, m *model.IngredientMovement) error {
	return tx.Create(m).Error
}

func (r *movementRepo) List(ctx context.Context, filter dto.MovementFilter) ([]model.IngredientMovement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.IngredientMovement{}).
		Preload("Ingredient")
	if filter.IngredientID != "" {
		q = q.Where("ingredient_id = ?", filter.IngredientID)
	}
	if filter.Reason != "" {
		q = q.Where("reason = ?", filter.Reason)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var movements []model.IngredientMovement
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&movements).Error
	return movements, total, err
}

func (r *movementRepo) ListByReference(ctx context.Context, refID uuid.UUID, reason string) ([]model.IngredientMovement, error) {
	var movements []model.IngredientMovement
	q := r.db.WithContext(ctx).Where("reference_id = ?", refID)
	if reason != "" {
		q = q.Where("reason = ?", reason)
	}
	err := q.Order("created_at ASC").Find(&movements).Error
	return movements, err
}
