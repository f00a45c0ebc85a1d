package infra

import (
	"fmt"

	"barstockwise/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate,
// then applies idempotent SQL patches for the bits GORM cannot express
// (partial unique indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates or updates all tables. Shared with integration tests
// so a throwaway container gets the exact production schema.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Supplier{},
		&model.Product{},
		&model.Ingredient{},
		&model.Recipe{},
		&model.RecipeIngredient{},
		&model.IngredientSubstitution{},
		&model.IngredientMovement{},
		&model.Sale{},
		&model.SaleItem{},
		&model.SalePayment{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot produce.
// Each statement is guarded so re-running on a patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one ACTIVE recipe per product. A plain unique index on
		// product_id would block keeping deactivated revisions around.
		{"partial unique index: one active recipe per product", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uniq_active_recipe_per_product') THEN
    CREATE UNIQUE INDEX uniq_active_recipe_per_product
        ON recipes (product_id)
        WHERE active = true;
  END IF;
END $$`},
		// The movement ledger is read almost exclusively as "latest rows for
		// one ingredient"; the composite index serves that ordering directly.
		{"index: movement ledger per-ingredient history", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movements_ingredient_created') THEN
    CREATE INDEX idx_movements_ingredient_created
        ON ingredient_movements (ingredient_id, created_at DESC);
  END IF;
END $$`},
		// Substitution resolution always filters by original + active and
		// orders by priority.
		{"index: substitution resolution order", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_substitutions_original_priority') THEN
    CREATE INDEX idx_substitutions_original_priority
        ON ingredient_substitutions (original_id, priority)
        WHERE active = true;
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
