package service

import (
	"context"
	"sync"

	"barstockwise/internal/dto"
	"barstockwise/internal/model"
	"barstockwise/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory repository stubs ────────────────────────────────────────────────
// Services run their transactors with a nil *gorm.DB in unit tests, so every
// Tx method here operates directly on the in-memory state. The guarded
// decrement mirrors the SQL guard: no row is touched when stock is short.

type stubIngredientRepo struct {
	mu          sync.Mutex
	ingredients map[uuid.UUID]*model.Ingredient
}

func newStubIngredientRepo(ings ...*model.Ingredient) *stubIngredientRepo {
	r := &stubIngredientRepo{ingredients: make(map[uuid.UUID]*model.Ingredient)}
	for _, ing := range ings {
		if ing.ID == uuid.Nil {
			ing.ID = uuid.New()
		}
		r.ingredients[ing.ID] = ing
	}
	return r
}

func (r *stubIngredientRepo) Create(_ context.Context, i *model.Ingredient) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	r.ingredients[i.ID] = i
	return nil
}

func (r *stubIngredientRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Ingredient, error) {
	ing, ok := r.ingredients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ing, nil
}

func (r *stubIngredientRepo) FindActiveByID(_ context.Context, id uuid.UUID) (*model.Ingredient, error) {
	ing, ok := r.ingredients[id]
	if !ok || !ing.Active {
		return nil, gorm.ErrRecordNotFound
	}
	return ing, nil
}

func (r *stubIngredientRepo) List(_ context.Context, _ dto.IngredientFilter) ([]model.Ingredient, int64, error) {
	out := make([]model.Ingredient, 0, len(r.ingredients))
	for _, ing := range r.ingredients {
		out = append(out, *ing)
	}
	return out, int64(len(out)), nil
}

func (r *stubIngredientRepo) ListBelowThreshold(_ context.Context) ([]model.Ingredient, error) {
	var out []model.Ingredient
	for _, ing := range r.ingredients {
		if ing.Active && ing.BelowThreshold() {
			out = append(out, *ing)
		}
	}
	return out, nil
}

func (r *stubIngredientRepo) Update(_ context.Context, i *model.Ingredient) error {
	r.ingredients[i.ID] = i
	return nil
}

func (r *stubIngredientRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if ing, ok := r.ingredients[id]; ok {
		ing.Active = false
	}
	return nil
}

func (r *stubIngredientRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if ing, ok := r.ingredients[id]; ok {
		ing.Active = true
	}
	return nil
}

func (r *stubIngredientRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Ingredient, error) {
	ing, ok := r.ingredients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ing, nil
}

func (r *stubIngredientRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, qty decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ing, ok := r.ingredients[id]
	if !ok || ing.RemainingQty.LessThan(qty) {
		return gorm.ErrRecordNotFound
	}
	ing.RemainingQty = ing.RemainingQty.Sub(qty)
	return nil
}

func (r *stubIngredientRepo) IncrementStockTx(_ *gorm.DB, id uuid.UUID, qty decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ing, ok := r.ingredients[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ing.RemainingQty = ing.RemainingQty.Add(qty)
	return nil
}

func (r *stubIngredientRepo) UpdateUnitPriceTx(_ *gorm.DB, id uuid.UUID, price decimal.Decimal) error {
	ing, ok := r.ingredients[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ing.UnitPrice = price
	return nil
}

func (r *stubIngredientRepo) DB() *gorm.DB { return nil }

var _ repository.IngredientRepository = (*stubIngredientRepo)(nil)

// stubRecipeRepo serves recipes by ID and product.
type stubRecipeRepo struct {
	recipes map[uuid.UUID]*model.Recipe
}

func newStubRecipeRepo(recipes ...*model.Recipe) *stubRecipeRepo {
	r := &stubRecipeRepo{recipes: make(map[uuid.UUID]*model.Recipe)}
	for _, rec := range recipes {
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		r.recipes[rec.ID] = rec
	}
	return r
}

func (r *stubRecipeRepo) Create(_ context.Context, rec *model.Recipe) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	r.recipes[rec.ID] = rec
	return nil
}

func (r *stubRecipeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Recipe, error) {
	rec, ok := r.recipes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rec, nil
}

func (r *stubRecipeRepo) FindActiveByProductID(_ context.Context, productID uuid.UUID) (*model.Recipe, error) {
	for _, rec := range r.recipes {
		if rec.ProductID == productID && rec.Active {
			return rec, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRecipeRepo) List(_ context.Context) ([]model.Recipe, error) {
	out := make([]model.Recipe, 0, len(r.recipes))
	for _, rec := range r.recipes {
		out = append(out, *rec)
	}
	return out, nil
}

func (r *stubRecipeRepo) ListByIngredientID(_ context.Context, ingredientID uuid.UUID) ([]model.Recipe, error) {
	var out []model.Recipe
	for _, rec := range r.recipes {
		if !rec.Active {
			continue
		}
		for _, row := range rec.Ingredients {
			if row.IngredientID == ingredientID {
				out = append(out, *rec)
				break
			}
		}
	}
	return out, nil
}

func (r *stubRecipeRepo) Update(_ context.Context, rec *model.Recipe) error {
	r.recipes[rec.ID] = rec
	return nil
}

func (r *stubRecipeRepo) ReplaceIngredients(_ context.Context, recipeID uuid.UUID, rows []model.RecipeIngredient) error {
	if rec, ok := r.recipes[recipeID]; ok {
		rec.Ingredients = rows
	}
	return nil
}

func (r *stubRecipeRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	if rec, ok := r.recipes[id]; ok {
		rec.Active = false
	}
	return nil
}

func (r *stubRecipeRepo) DB() *gorm.DB { return nil }

var _ repository.RecipeRepository = (*stubRecipeRepo)(nil)

// stubSubstRepo serves substitution rules sorted by priority at insert time.
type stubSubstRepo struct {
	subs []model.IngredientSubstitution
}

func (r *stubSubstRepo) Create(_ context.Context, s *model.IngredientSubstitution) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.subs = append(r.subs, *s)
	return nil
}

func (r *stubSubstRepo) ListActiveByOriginal(_ context.Context, originalID uuid.UUID) ([]model.IngredientSubstitution, error) {
	var out []model.IngredientSubstitution
	for _, s := range r.subs {
		if s.OriginalID == originalID && s.Active {
			out = append(out, s)
		}
	}
	// ascending priority, stable for equal priorities
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Priority < out[j-1].Priority; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (r *stubSubstRepo) List(_ context.Context) ([]model.IngredientSubstitution, error) {
	return r.subs, nil
}

func (r *stubSubstRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	for i := range r.subs {
		if r.subs[i].ID == id {
			r.subs[i].Active = false
		}
	}
	return nil
}

var _ repository.SubstitutionRepository = (*stubSubstRepo)(nil)

// stubMovementRepo records ledger rows in order.
type stubMovementRepo struct {
	movements []model.IngredientMovement
}

func (r *stubMovementRepo) Create(_ context.Context, m *model.IngredientMovement) error {
	return r.CreateTx(nil, m)
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.IngredientMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, _ dto.MovementFilter) ([]model.IngredientMovement, int64, error) {
	return r.movements, int64(len(r.movements)), nil
}

func (r *stubMovementRepo) ListByReference(_ context.Context, refID uuid.UUID, reason string) ([]model.IngredientMovement, error) {
	var out []model.IngredientMovement
	for _, m := range r.movements {
		if m.ReferenceID != nil && *m.ReferenceID == refID && m.Reason == reason {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repository.MovementRepository = (*stubMovementRepo)(nil)

// stubProductRepo is an in-memory ProductRepository.
type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo(products ...*model.Product) *stubProductRepo {
	r := &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.products[p.ID] = p
	}
	return r
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.Active = false
	}
	return nil
}

func (r *stubProductRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.Active = true
	}
	return nil
}

func (r *stubProductRepo) UpdatePurchasePrice(_ context.Context, id uuid.UUID, price decimal.Decimal) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.PurchasePrice = price
	return nil
}

func (r *stubProductRepo) UpdatePurchasePriceTx(_ *gorm.DB, id uuid.UUID, price decimal.Decimal) error {
	return r.UpdatePurchasePrice(context.Background(), id, price)
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubSaleRepo assigns sequential tickets and stores sales by ID.
type stubSaleRepo struct {
	sales     map[uuid.UUID]*model.Sale
	ticketSeq int
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	out := make([]model.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) NextTicketNumber(_ context.Context, _ *gorm.DB) (int, error) {
	r.ticketSeq++
	return r.ticketSeq, nil
}

func (r *stubSaleRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	s, ok := r.sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	return nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// stubPurchaseRepo stores purchase orders in order of creation.
type stubPurchaseRepo struct {
	orders []*model.PurchaseOrder
}

func (r *stubPurchaseRepo) CreateTx(_ *gorm.DB, po *model.PurchaseOrder) error {
	if po.ID == uuid.Nil {
		po.ID = uuid.New()
	}
	r.orders = append(r.orders, po)
	return nil
}

func (r *stubPurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	for _, po := range r.orders {
		if po.ID == id {
			return po, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPurchaseRepo) List(_ context.Context, _, _ int) ([]model.PurchaseOrder, int64, error) {
	out := make([]model.PurchaseOrder, 0, len(r.orders))
	for _, po := range r.orders {
		out = append(out, *po)
	}
	return out, int64(len(out)), nil
}

func (r *stubPurchaseRepo) DB() *gorm.DB { return nil }

var _ repository.PurchaseRepository = (*stubPurchaseRepo)(nil)

// stubSupplierRepo is a minimal SupplierRepository.
type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

func newStubSupplierRepo(suppliers ...*model.Supplier) *stubSupplierRepo {
	r := &stubSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
	for _, s := range suppliers {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		r.suppliers[s.ID] = s
	}
	return r
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	out := make([]model.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if s, ok := r.suppliers[id]; ok {
		s.Active = false
	}
	return nil
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

// stubUserRepo backs the auth tests.
type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo(users ...*model.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Active && (u.Username == username || (u.Email != nil && *u.Email == username)) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = false
	}
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = true
	}
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── fixture helpers ───────────────────────────────────────────────────────────

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func makeIngredient(name, unit, qty, threshold, price string) *model.Ingredient {
	return &model.Ingredient{
		ID:             uuid.New(),
		Name:           name,
		Unit:           unit,
		RemainingQty:   d(qty),
		AlertThreshold: d(threshold),
		UnitPrice:      d(price),
		Active:         true,
	}
}
