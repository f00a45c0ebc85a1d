package repository

import (
	"context"
	"time"

	"barstockwise/internal/dto"
	"barstockwise/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
	NextTicketNumber(ctx context.Context, tx *gorm.DB) (int, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error

	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Payments").
		Preload("User").
		First(&s, id).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Sale{})

	day := time.Now()
	if filter.Date != "" {
		if parsed, err := time.Parse("2006-01-02", filter.Date); err == nil {
			day = parsed
		}
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	q = q.Where("created_at >= ? AND created_at < ?", start, start.Add(24*time.Hour))

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var sales []model.Sale
	err := q.Preload("Items").Preload("Items.Product").Preload("Payments").
		Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&sales).Error
	return sales, total, err
}

// NextTicketNumber allocates a monotonically increasing ticket number. Runs
// inside the sale transaction so two concurrent sales cannot share a number.
func (r *saleRepo) NextTicketNumber(ctx context.Context, tx *gorm.DB) (int, error) {
	var max int
	err := tx.WithContext(ctx).Model(&model.Sale{}).
		Select("COALESCE(MAX(ticket_number), 0)").Scan(&max).Error
	return max + 1, err
}

func (r *saleRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Sale{}).Where("id = ?", id).Update("status", status).Error
}

func (r *saleRepo) DB() *gorm.DB { return r.db }
