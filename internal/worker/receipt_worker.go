package worker

// Processes receipt jobs from QueueReceipt:
//  1. Fetch the sale (items + payments) from the DB
//  2. Generate the PDF ticket
//  3. Email it to the customer when an address was captured at the till

import (
	"context"
	"encoding/json"
	"fmt"

	"barstockwise/internal/infra"
	"barstockwise/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	SaleID        string  `json:"sale_id"`
	CustomerEmail *string `json:"customer_email,omitempty"`
}

type ReceiptWorker struct {
	saleRepo       repository.SaleRepository
	mailer         *infra.Mailer
	cb             *infra.CircuitBreaker
	pdfStoragePath string
}

func NewReceiptWorker(saleRepo repository.SaleRepository, mailer *infra.Mailer, cb *infra.CircuitBreaker, pdfStoragePath string) *ReceiptWorker {
	return &ReceiptWorker{saleRepo: saleRepo, mailer: mailer, cb: cb, pdfStoragePath: pdfStoragePath}
}

func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return nil
	}

	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("receipt_worker: invalid sale_id")
		return nil
	}

	sale, err := w.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: sale not found")
		return err
	}

	pdfPath, err := infra.GenerateReceiptPDF(sale, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: PDF generation failed")
		return err
	}
	log.Info().Str("pdf", pdfPath).Int("ticket", sale.TicketNumber).Msg("receipt_worker: PDF generated")

	if payload.CustomerEmail == nil || *payload.CustomerEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("BarStockWise receipt — ticket #%d", sale.TicketNumber)
	body := fmt.Sprintf("Your receipt is attached.\nTotal: %s FBu", sale.Total.StringFixed(0))

	err = w.cb.Execute(func() error {
		return w.mailer.SendReceipt(*payload.CustomerEmail, subject, body, pdfPath)
	})
	if err != nil {
		log.Error().Err(err).Str("to", *payload.CustomerEmail).Msg("receipt_worker: email send failed")
		return err
	}

	log.Info().Str("to", *payload.CustomerEmail).Int("ticket", sale.TicketNumber).Msg("receipt_worker: receipt emailed")
	return nil
}
