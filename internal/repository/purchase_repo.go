package repository

import (
	"context"

	"barstockwise/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	CreateTx(tx *gorm.DB, po *model.PurchaseOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	List(ctx context.Context, page, limit int) ([]model.PurchaseOrder, int64, error)

	DB() *gorm.DB
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) CreateTx(tx *gorm.DB, po *model.PurchaseOrder) error {
	return tx.Create(po).Error
}

func (r *purchaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Ingredient").
		Preload("Supplier").
		First(&po, id).Error
	return &po, err
}

func (r *purchaseRepo) List(ctx context.Context, page, limit int) ([]model.PurchaseOrder, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.PurchaseOrder{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.PurchaseOrder
	err := q.Preload("Items").Preload("Items.Ingredient").Preload("Supplier").
		Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&orders).Error
	return orders, total, err
}

func (r *purchaseRepo) DB() *gorm.DB { return r.db }
