package worker

// Processes low-stock alert jobs from QueueStockAlert: formats and sends a
// notification email to the configured staff address. Sends go through the
// circuit breaker so a dead SMTP relay fast-fails instead of blocking a
// worker for the full dial timeout on every job.

import (
	"context"
	"encoding/json"
	"fmt"

	"barstockwise/internal/infra"

	"github.com/rs/zerolog/log"
)

// StockAlertPayload is the job envelope sent to QueueStockAlert.
type StockAlertPayload struct {
	IngredientID   string `json:"ingredient_id"`
	Name           string `json:"name"`
	RemainingQty   string `json:"remaining_qty"`
	AlertThreshold string `json:"alert_threshold"`
	Unit           string `json:"unit"`
}

type AlertWorker struct {
	mailer  *infra.Mailer
	cb      *infra.CircuitBreaker
	alertTo string
}

func NewAlertWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, alertTo string) *AlertWorker {
	return &AlertWorker{mailer: mailer, cb: cb, alertTo: alertTo}
}

func (w *AlertWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload StockAlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alert_worker: invalid payload")
		return nil // malformed payloads are not retryable
	}
	if w.alertTo == "" {
		log.Warn().Msg("alert_worker: no alert recipient configured, dropping")
		return nil
	}

	subject := fmt.Sprintf("Low stock: %s", payload.Name)
	body := fmt.Sprintf(
		"Ingredient %s is at %s %s, at or below the alert threshold of %s %s.\nRestock before the next service.",
		payload.Name, payload.RemainingQty, payload.Unit, payload.AlertThreshold, payload.Unit,
	)

	err := w.cb.Execute(func() error {
		return w.mailer.SendAlert(w.alertTo, subject, body)
	})
	if err != nil {
		log.Error().Err(err).Str("ingredient", payload.Name).Msg("alert_worker: send failed")
		return err
	}

	log.Info().Str("ingredient", payload.Name).Str("to", w.alertTo).Msg("alert_worker: alert sent")
	return nil
}
