package repository

import (
	"context"

	"barstockwise/internal/dto"
	"barstockwise/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IngredientRepository defines the data access contract for ingredients.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type IngredientRepository interface {
	Create(ctx context.Context, i *model.Ingredient) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error)
	List(ctx context.Context, filter dto.IngredientFilter) ([]model.Ingredient, int64, error)
	ListBelowThreshold(ctx context.Context) ([]model.Ingredient, error)
	Update(ctx context.Context, i *model.Ingredient) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Ingredient, error)

	// DecrementStockTx applies a guarded decrement:
	//   UPDATE ... SET remaining_qty = remaining_qty - qty
	//   WHERE id = ? AND remaining_qty >= qty
	// It returns gorm.ErrRecordNotFound when no row qualified, which the
	// consumption transactor translates into an insufficient-stock failure
	// and a full rollback. The guard is what makes concurrent oversell
	// impossible at read-committed isolation.
	DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty decimal.Decimal) error

	// IncrementStockTx adds qty unconditionally (purchases, restores).
	IncrementStockTx(tx *gorm.DB, id uuid.UUID, qty decimal.Decimal) error

	// UpdateUnitPriceTx refreshes the cost basis after a purchase receipt.
	UpdateUnitPriceTx(tx *gorm.DB, id uuid.UUID, price decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type ingredientRepo struct{ db *gorm.DB }

func NewIngredientRepository(db *gorm.DB) IngredientRepository { return &ingredientRepo{db: db} }

func (r *ingredientRepo) Create(ctx context.Context, i *model.Ingredient) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *ingredientRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	var i model.Ingredient
	err := r.db.WithContext(ctx).First(&i, id).Error
	return &i, err
}

func (r *ingredientRepo) FindActiveByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	var i model.Ingredient
	err := r.db.WithContext(ctx).Where("id = ? AND active = true", id).First(&i).Error
	return &i, err
}

func (r *ingredientRepo) List(ctx context.Context, filter dto.IngredientFilter) ([]model.Ingredient, int64, error) {
	var ingredients []model.Ingredient
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Ingredient{})

	// Active filter: "false" = inactive, "all" = everything, default = active
	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}

	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.LowStock {
		q = q.Where("remaining_qty <= alert_threshold")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&ingredients).Error
	return ingredients, total, err
}

func (r *ingredientRepo) ListBelowThreshold(ctx context.Context) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	err := r.db.WithContext(ctx).
		Where("active = true AND remaining_qty <= alert_threshold").
		Order("name ASC").
		Find(&ingredients).Error
	return ingredients, err
}

func (r *ingredientRepo) Update(ctx context.Context, i *model.Ingredient) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *ingredientRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Ingredient{}).Where("id = ?", id).Update("active", false).Error
}

func (r *ingredientRepo) Reactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Ingredient{}).Where("id = ?", id).Update("active", true).Error
}

func (r *ingredientRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Ingredient, error) {
	var i model.Ingredient
	err := tx.First(&i, id).Error
	return &i, err
}

func (r *ingredientRepo) DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty decimal.Decimal) error {
	res := tx.Model(&model.Ingredient{}).
		Where("id = ? AND remaining_qty >= ?", id, qty).
		Update("remaining_qty", gorm.Expr("remaining_qty - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ingredientRepo) IncrementStockTx(tx *gorm.DB, id uuid.UUID, qty decimal.Decimal) error {
	return tx.Model(&model.Ingredient{}).Where("id = ?", id).
		Update("remaining_qty", gorm.Expr("remaining_qty + ?", qty)).Error
}

func (r *ingredientRepo) UpdateUnitPriceTx(tx *gorm.DB, id uuid.UUID, price decimal.Decimal) error {
	return tx.Model(&model.Ingredient{}).Where("id = ?", id).
		Update("unit_price", price).Error
}

func (r *ingredientRepo) DB() *gorm.DB { return r.db }
