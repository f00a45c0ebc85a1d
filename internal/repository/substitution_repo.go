package repository

import (
	"context"

	"barstockwise/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubstitutionRepository interface {
	Create(ctx context.Context, s *model.IngredientSubstitution) error
	// ListActiveByOriginal returns active substitutions for an ingredient,
	// ascending priority — the resolver tries them in this order.
	ListActiveByOriginal(ctx context.Context, originalID uuid.UUID) ([]model.IngredientSubstitution, error)
	List(ctx context.Context) ([]model.IngredientSubstitution, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type substitutionRepo struct{ db *gorm.DB }

func NewSubstitutionRepository(db *gorm.DB) SubstitutionRepository {
	return &substitutionRepo{db: db}
}

func (r *substitutionRepo) Create(ctx context.Context, s *model.IngredientSubstitution) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *substitutionRepo) ListActiveByOriginal(ctx context.Context, originalID uuid.UUID) ([]model.IngredientSubstitution, error) {
	var subs []model.IngredientSubstitution
	err := r.db.WithContext(ctx).
		Preload("Substitute").
		Where("original_id = ? AND active = true", originalID).
		Order("priority ASC").
		Find(&subs).Error
	return subs, err
}

func (r *substitutionRepo) List(ctx context.Context) ([]model.IngredientSubstitution, error) {
	var subs []model.IngredientSubstitution
	err := r.db.WithContext(ctx).
		Preload("Original").
		Preload("Substitute").
		Order("priority ASC").
		Find(&subs).Error
	return subs, err
}

func (r *substitutionRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.IngredientSubstitution{}).
		Where("id = ?", id).Update("active", false).Error
}
