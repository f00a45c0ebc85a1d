package repository

import (
	"context"

	"barstockwise/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecipeRepository interface {
	Create(ctx context.Context, rec *model.Recipe) error
	// FindByID preloads ingredient rows and their ingredients.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Recipe, error)
	FindActiveByProductID(ctx context.Context, productID uuid.UUID) (*model.Recipe, error)
	List(ctx context.Context) ([]model.Recipe, error)
	// ListByIngredientID returns active recipes containing the ingredient —
	// used to re-cost products after an ingredient price change.
	ListByIngredientID(ctx context.Context, ingredientID uuid.UUID) ([]model.Recipe, error)
	Update(ctx context.Context, rec *model.Recipe) error
	ReplaceIngredients(ctx context.Context, recipeID uuid.UUID, rows []model.RecipeIngredient) error
	Deactivate(ctx context.Context, id uuid.UUID) error

	DB() *gorm.DB
}

type recipeRepo struct{ db *gorm.DB }

func NewRecipeRepository(db *gorm.DB) RecipeRepository { return &recipeRepo{db: db} }

func (r *recipeRepo) Create(ctx context.Context, rec *model.Recipe) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *recipeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	var rec model.Recipe
	err := r.db.WithContext(ctx).
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		Preload("Product").
		First(&rec, id).Error
	return &rec, err
}

func (r *recipeRepo) FindActiveByProductID(ctx context.Context, productID uuid.UUID) (*model.Recipe, error) {
	var rec model.Recipe
	err := r.db.WithContext(ctx).
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		Where("product_id = ? AND active = true", productID).
		First(&rec).Error
	return &rec, err
}

func (r *recipeRepo) List(ctx context.Context) ([]model.Recipe, error) {
	var recipes []model.Recipe
	err := r.db.WithContext(ctx).
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		Where("active = true").
		Order("name ASC").
		Find(&recipes).Error
	return recipes, err
}

func (r *recipeRepo) ListByIngredientID(ctx context.Context, ingredientID uuid.UUID) ([]model.Recipe, error) {
	var recipes []model.Recipe
	err := r.db.WithContext(ctx).
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		Joins("JOIN recipe_ingredients ri ON ri.recipe_id = recipes.id").
		Where("ri.ingredient_id = ? AND recipes.active = true", ingredientID).
		Find(&recipes).Error
	return recipes, err
}

func (r *recipeRepo) Update(ctx context.Context, rec *model.Recipe) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

// ReplaceIngredients swaps the full ingredient list atomically.
func (r *recipeRepo) ReplaceIngredients(ctx context.Context, recipeID uuid.UUID, rows []model.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *recipeRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", id).Update("active", false).Error
}

func (r *recipeRepo) DB() *gorm.DB { return r.db }
