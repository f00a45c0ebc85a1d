package service

import (
	"context"
	"errors"
	"fmt"

	"barstockwise/internal/dto"
	"barstockwise/internal/model"
	"barstockwise/internal/repository"
	"barstockwise/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	RegisterSale(ctx context.Context, userID uuid.UUID, req dto.RegisterSaleRequest) (*dto.SaleResponse, error)
	VoidSale(ctx context.Context, id uuid.UUID, reason string) error
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	repo         repository.SaleRepository
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	ingRepo      repository.IngredientRepository
	recipes      RecipeService
	dispatcher   *worker.Dispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
	ingRepo repository.IngredientRepository,
	recipes RecipeService,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		repo:         repo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		ingRepo:      ingRepo,
		recipes:      recipes,
		dispatcher:   dispatcher,
	}
}

// ── RegisterSale ──────────────────────────────────────────────────────────────
// One ACID transaction covers the whole order:
//  1. Resolve products and line totals (pre-flight, outside TX)
//  2. Validate payment sufficiency
//  3. BEGIN TX: next ticket number, create sale+items+payments, run the
//     recipe consumption for every item. Any shortfall rolls everything
//     back, including items that had already consumed.
//  4. COMMIT
//  5. (async) enqueue receipt job

func (s *saleService) RegisterSale(ctx context.Context, userID uuid.UUID, req dto.RegisterSaleRequest) (*dto.SaleResponse, error) {
	type resolvedItem struct {
		productID uuid.UUID
		name      string
		price     decimal.Decimal
		quantity  int
		subtotal  decimal.Decimal
	}

	var resolved []resolvedItem
	subtotal := decimal.Zero

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id: %w", err)
		}
		p, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("product %s not found", item.ProductID)
		}
		if !p.Active {
			return nil, fmt.Errorf("product %s is inactive and cannot be sold", p.Name)
		}
		lineSubtotal := p.SellingPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineSubtotal)
		resolved = append(resolved, resolvedItem{
			productID: pid,
			name:      p.Name,
			price:     p.SellingPrice,
			quantity:  item.Quantity,
			subtotal:  lineSubtotal,
		})
	}

	total := subtotal

	totalPaid := decimal.Zero
	for _, pay := range req.Payments {
		totalPaid = totalPaid.Add(pay.Amount)
	}
	if totalPaid.LessThan(total) {
		return nil, errors.New("total payments do not cover the sale amount")
	}
	change := totalPaid.Sub(total)

	var sale model.Sale
	var consumed []dto.ConsumptionReceipt
	var consumedProducts []uuid.UUID
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ticketNum, err := s.repo.NextTicketNumber(ctx, tx)
		if err != nil {
			return err
		}

		sale = model.Sale{
			TicketNumber: ticketNum,
			UserID:       userID,
			Subtotal:     subtotal,
			Total:        total,
			Status:       "completed",
		}
		for _, r := range resolved {
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID: r.productID,
				Quantity:  r.quantity,
				UnitPrice: r.price,
				Subtotal:  r.subtotal,
			})
		}
		for _, pay := range req.Payments {
			sale.Payments = append(sale.Payments, model.SalePayment{
				Method: pay.Method,
				Amount: pay.Amount,
			})
		}

		if err := s.repo.Create(ctx, tx, &sale); err != nil {
			return err
		}

		// Consume ingredients per item. Products without an active recipe
		// (bottled beer, sodas) are sold without touching ingredient stock.
		saleRef := sale.ID
		seen := make(map[uuid.UUID]bool)
		for _, r := range resolved {
			receipts, err := s.recipes.ConsumeForSaleTx(ctx, tx, r.productID, r.quantity, req.UseSubstitutes, userID, &saleRef)
			if err != nil {
				return err
			}
			consumed = append(consumed, receipts...)
			if len(receipts) > 0 && !seen[r.productID] {
				seen[r.productID] = true
				consumedProducts = append(consumedProducts, r.productID)
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifyLowStock(ctx, consumed)

	// Refresh the stored cost of every product that consumed. Best effort:
	// the sale already committed.
	for _, pid := range consumedProducts {
		if _, err := s.recipes.RecalculateCost(ctx, pid); err != nil {
			log.Warn().Err(err).Str("product_id", pid.String()).Msg("cost refresh after sale failed")
		}
	}

	// Async receipt job, best effort
	if s.dispatcher != nil {
		payload := worker.ReceiptJobPayload{SaleID: sale.ID.String(), CustomerEmail: req.CustomerEmail}
		if err := s.dispatcher.EnqueueReceipt(ctx, payload); err != nil {
			log.Warn().Err(err).Int("ticket", sale.TicketNumber).Msg("failed to enqueue receipt job")
		}
	}

	resp := saleToResponse(&sale)
	resp.Change = change
	resp.Consumed = consumed
	for i, r := range resolved {
		resp.Items[i].Product = r.name
	}
	return resp, nil
}

// notifyLowStock enqueues one alert per consumed ingredient that ended the
// sale at or below its threshold. Post-commit, never blocks the response.
func (s *saleService) notifyLowStock(ctx context.Context, consumed []dto.ConsumptionReceipt) {
	if s.dispatcher == nil {
		return
	}
	seen := make(map[string]bool)
	for _, r := range consumed {
		if seen[r.IngredientID] {
			continue
		}
		seen[r.IngredientID] = true

		id, err := uuid.Parse(r.IngredientID)
		if err != nil {
			continue
		}
		ing, err := s.ingRepo.FindByID(ctx, id)
		if err != nil || !ing.BelowThreshold() {
			continue
		}
		payload := worker.StockAlertPayload{
			IngredientID:   ing.ID.String(),
			Name:           ing.Name,
			RemainingQty:   ing.RemainingQty.String(),
			AlertThreshold: ing.AlertThreshold.String(),
			Unit:           ing.Unit,
		}
		if err := s.dispatcher.EnqueueStockAlert(ctx, payload); err != nil {
			log.Warn().Err(err).Str("ingredient", ing.Name).Msg("failed to enqueue stock alert")
		}
	}
}

// ── VoidSale ──────────────────────────────────────────────────────────────────
// Restores every consumption this sale caused by writing inverse ledger rows.
// The original movements stay untouched; the ledger is append-only.

func (s *saleService) VoidSale(ctx context.Context, id uuid.UUID, reason string) error {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFound("sale", err)
	}
	if sale.Status == "void" {
		return errors.New("sale is already void")
	}

	movements, err := s.movementRepo.ListByReference(ctx, sale.ID, model.MovementConsumption)
	if err != nil {
		return err
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for i := range movements {
			mov := &movements[i]

			restore := mov.Quantity.Neg() // consumption rows are negative
			cur, err := s.ingRepo.FindByIDTx(tx, mov.IngredientID)
			if err != nil {
				return err
			}
			before := cur.RemainingQty
			if err := s.ingRepo.IncrementStockTx(tx, mov.IngredientID, restore); err != nil {
				return err
			}

			saleRef := sale.ID
			inverse := &model.IngredientMovement{
				IngredientID: mov.IngredientID,
				Reason:       model.MovementAdjustment,
				Quantity:     restore,
				StockBefore:  before,
				StockAfter:   before.Add(restore),
				ReferenceID:  &saleRef,
				Note:         fmt.Sprintf("Void sale #%d: %s", sale.TicketNumber, reason),
			}
			if err := s.movementRepo.CreateTx(tx, inverse); err != nil {
				return err
			}
		}
		return s.repo.UpdateStatusTx(tx, id, "void")
	})
}

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("sale", err)
	}
	return saleToResponse(sale), nil
}

// ListSales returns a paginated list filtered by date and status.
// Default filter: today's completed sales.
func (s *saleService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Status == "" {
		filter.Status = "completed"
	}
	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func saleToResponse(s *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.SaleItemResponse{
			Product:   name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	payments := make([]dto.PaymentRequest, 0, len(s.Payments))
	for _, p := range s.Payments {
		payments = append(payments, dto.PaymentRequest{Method: p.Method, Amount: p.Amount})
	}
	return &dto.SaleResponse{
		ID:           s.ID.String(),
		TicketNumber: s.TicketNumber,
		Items:        items,
		Subtotal:     s.Subtotal,
		Total:        s.Total,
		Payments:     payments,
		Status:       s.Status,
		CreatedAt:    s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
