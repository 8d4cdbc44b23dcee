package services

import (
	"context"
	"fmt"

	"meltyfi/domain/entities"
	"meltyfi/domain/events"
	"meltyfi/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// drawService completes pending draws once the oracle has delivered
type drawService struct {
	lotteryRepo     interfaces.LotteryRepository
	wonkaBarRepo    interfaces.WonkaBarRepository
	drawRequestRepo interfaces.DrawRequestRepository
	randomness      interfaces.RandomnessSource
	eventPublisher  interfaces.EventPublisher
}

// NewDrawService creates a new draw service
func NewDrawService(
	lotteryRepo interfaces.LotteryRepository,
	wonkaBarRepo interfaces.WonkaBarRepository,
	drawRequestRepo interfaces.DrawRequestRepository,
	randomness interfaces.RandomnessSource,
	eventPublisher interfaces.EventPublisher,
) interfaces.DrawService {
	return &drawService{
		lotteryRepo:     lotteryRepo,
		wonkaBarRepo:    wonkaBarRepo,
		drawRequestRepo: drawRequestRepo,
		randomness:      randomness,
		eventPublisher:  eventPublisher,
	}
}

// CompleteDraw consumes a fulfilled randomness request and concludes the
// lottery with a supply-weighted winner
func (s *drawService) CompleteDraw(ctx context.Context, lotteryID int64, handle string) (*interfaces.DrawResult, error) {
	lottery, err := s.lotteryRepo.GetByIDForUpdate(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery: %w", err)
	}
	if lottery == nil {
		return nil, fmt.Errorf("%w: lottery %d", entities.ErrNotFound, lotteryID)
	}
	// Completing twice fails harmlessly: the request row is gone
	if !lottery.IsActive() {
		return nil, fmt.Errorf("%w: lottery %d already resolved", entities.ErrInvalidState, lotteryID)
	}

	request, err := s.drawRequestRepo.GetByLotteryID(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw request: %w", err)
	}
	if request == nil || request.Handle != handle {
		return nil, fmt.Errorf("%w: no pending draw request with handle %s", entities.ErrNotFound, handle)
	}

	fulfilled, err := s.randomness.Fulfilled(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("failed to check randomness fulfillment: %w", err)
	}
	if !fulfilled {
		return nil, fmt.Errorf("%w: handle %s", entities.ErrRandomnessNotReady, handle)
	}

	value, err := s.randomness.Value(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("failed to read randomness value: %w", err)
	}

	holdings, err := s.wonkaBarRepo.ListHoldings(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}

	winner, outstanding, err := pickWinner(holdings, value)
	if err != nil {
		return nil, err
	}

	lottery.Conclude(winner)
	if err := s.lotteryRepo.Update(ctx, lottery); err != nil {
		return nil, fmt.Errorf("failed to update lottery: %w", err)
	}
	if err := s.drawRequestRepo.Delete(ctx, request.ID); err != nil {
		return nil, fmt.Errorf("failed to consume draw request: %w", err)
	}

	log.WithFields(log.Fields{
		"lotteryID":   lotteryID,
		"winner":      winner,
		"outstanding": outstanding,
	}).Info("Lottery concluded")

	if err := s.eventPublisher.Publish(events.LotteryConcludedEvent{
		LotteryID:         lotteryID,
		Winner:            winner,
		WinningValue:      value,
		OutstandingSupply: outstanding,
	}); err != nil {
		log.WithError(err).Error("Failed to publish lottery concluded event")
	}

	return &interfaces.DrawResult{
		Lottery:           lottery,
		Winner:            winner,
		WinningValue:      value,
		OutstandingSupply: outstanding,
	}, nil
}

// pickWinner selects the holder owning the (value mod outstanding)+1-th
// WonkaBar, walking holdings in insertion order. Every un-burned WonkaBar
// carries equal weight.
func pickWinner(holdings []*entities.WonkaBarHolding, value int64) (string, int64, error) {
	var outstanding int64
	for _, h := range holdings {
		outstanding += h.Amount
	}
	if outstanding <= 0 {
		return "", 0, fmt.Errorf("%w: no outstanding wonka bars to draw from", entities.ErrInvalidState)
	}

	target := value%outstanding + 1

	var cumulative int64
	for _, h := range holdings {
		cumulative += h.Amount
		if cumulative >= target {
			return h.Holder, outstanding, nil
		}
	}

	// Unreachable while holdings sum to outstanding
	return "", 0, fmt.Errorf("%w: draw walked past the holder set", entities.ErrInvalidState)
}
