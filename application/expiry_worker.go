package application

import (
	"context"
	"errors"
	"time"

	"meltyfi/domain/entities"

	log "github.com/sirupsen/logrus"
)

// ExpiryWorker drives the repay-or-forfeit deadline. On every tick it
// resolves expired lotteries one at a time and then tries to complete any
// draw whose randomness has arrived.
type ExpiryWorker struct {
	app      *LotteryApp
	interval time.Duration
}

// NewExpiryWorker creates a new expiry worker
func NewExpiryWorker(app *LotteryApp, interval time.Duration) *ExpiryWorker {
	return &ExpiryWorker{
		app:      app,
		interval: interval,
	}
}

// Start begins the worker and returns a cleanup function to stop it gracefully
func (w *ExpiryWorker) Start(ctx context.Context) func() {
	ticker := time.NewTicker(w.interval)
	stopChan := make(chan struct{})

	go func() {
		log.Info("Lottery expiry worker started")

		// Run immediately on startup
		w.processTick(ctx)

		for {
			select {
			case <-ctx.Done():
				log.Info("Lottery expiry worker shutting down (context cancelled)...")
				ticker.Stop()
				return
			case <-stopChan:
				log.Info("Lottery expiry worker shutting down (stop requested)...")
				ticker.Stop()
				return
			case <-ticker.C:
				w.processTick(ctx)
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

func (w *ExpiryWorker) processTick(ctx context.Context) {
	w.resolveExpired(ctx)
	w.completePendingDraws(ctx)
}

// resolveExpired drains the queue of expired active lotteries. Each
// resolution runs in its own transaction so one failure does not block the
// rest of the queue.
func (w *ExpiryWorker) resolveExpired(ctx context.Context) {
	for {
		id, err := w.app.CheckExpired(ctx)
		if err != nil {
			log.WithError(err).Error("Failed to check for expired lotteries")
			return
		}
		if id == nil {
			return
		}

		result, err := w.app.Resolve(ctx, *id)
		if err != nil {
			log.WithError(err).WithField("lotteryID", *id).Error("Failed to resolve expired lottery")
			return
		}

		if result.Trashed {
			log.WithField("lotteryID", *id).Info("Expired lottery had no sales, prize returned to owner")
		} else {
			log.WithFields(log.Fields{
				"lotteryID": *id,
				"handle":    result.DrawHandle,
			}).Info("Requested randomness for expired lottery")
		}
	}
}

// completePendingDraws attempts every pending draw request. Requests whose
// randomness has not arrived yet stay pending for the next tick.
func (w *ExpiryWorker) completePendingDraws(ctx context.Context) {
	requests, err := w.app.ListPendingDraws(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list pending draw requests")
		return
	}

	for _, request := range requests {
		result, err := w.app.CompleteDraw(ctx, request.LotteryID, request.Handle)
		if errors.Is(err, entities.ErrRandomnessNotReady) {
			continue
		}
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"lotteryID": request.LotteryID,
				"handle":    request.Handle,
			}).Error("Failed to complete pending draw")
			continue
		}

		log.WithFields(log.Fields{
			"lotteryID":   request.LotteryID,
			"winner":      result.Winner,
			"outstanding": result.OutstandingSupply,
		}).Info("Lottery concluded with weighted draw")
	}
}
