package worker

// Background goroutine that periodically scans for ingredients at or below
// their alert threshold and enqueues one alert job per ingredient. A Redis
// key with a 24h TTL deduplicates alerts so staff are not mailed on every
// tick while an ingredient stays low.

import (
	"context"
	"time"

	"barstockwise/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const lowStockDedupTTL = 24 * time.Hour

// LowStockCronConfig holds all dependencies for the scan goroutine.
type LowStockCronConfig struct {
	IngredientRepo repository.IngredientRepository
	Dispatcher     *Dispatcher
	RDB            *redis.Client
	Interval       time.Duration
}

// StartLowStockCron launches a background goroutine that ticks on the
// configured interval and respects the context for graceful shutdown.
func StartLowStockCron(ctx context.Context, cfg LowStockCronConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("lowstock_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("lowstock_cron: shutting down")
				return
			case <-ticker.C:
				scanLowStock(ctx, cfg)
			}
		}
	}()
}

func scanLowStock(ctx context.Context, cfg LowStockCronConfig) {
	ingredients, err := cfg.IngredientRepo.ListBelowThreshold(ctx)
	if err != nil {
		log.Error().Err(err).Msg("lowstock_cron: threshold scan failed")
		return
	}
	if len(ingredients) == 0 {
		return
	}

	for i := range ingredients {
		ing := &ingredients[i]

		// SET NX acts as the dedup lock: only the first tick in the TTL
		// window for this ingredient enqueues an alert.
		key := "alerted:" + ing.ID.String()
		ok, err := cfg.RDB.SetNX(ctx, key, 1, lowStockDedupTTL).Result()
		if err != nil {
			log.Warn().Err(err).Str("ingredient", ing.Name).Msg("lowstock_cron: dedup check failed")
			continue
		}
		if !ok {
			continue // already alerted within the window
		}

		payload := StockAlertPayload{
			IngredientID:   ing.ID.String(),
			Name:           ing.Name,
			RemainingQty:   ing.RemainingQty.String(),
			AlertThreshold: ing.AlertThreshold.String(),
			Unit:           ing.Unit,
		}
		if err := cfg.Dispatcher.EnqueueStockAlert(ctx, payload); err != nil {
			log.Error().Err(err).Str("ingredient", ing.Name).Msg("lowstock_cron: enqueue failed")
			// Drop the dedup key so the next tick retries.
			cfg.RDB.Del(ctx, key)
		}
	}
	log.Info().Int("count", len(ingredients)).Msg("lowstock_cron: scan complete")
}
