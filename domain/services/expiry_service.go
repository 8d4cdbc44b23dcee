package services

import (
	"context"
	"fmt"

	"meltyfi/domain/entities"
	"meltyfi/domain/events"
	"meltyfi/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// expiryService implements the poll/act pair the automation loop drives
type expiryService struct {
	settings        interfaces.LotterySettings
	lotteryRepo     interfaces.LotteryRepository
	wonkaBarRepo    interfaces.WonkaBarRepository
	drawRequestRepo interfaces.DrawRequestRepository
	prizeCustodian  interfaces.PrizeCustodian
	randomness      interfaces.RandomnessSource
	eventPublisher  interfaces.EventPublisher
}

// NewExpiryService creates a new expiry service
func NewExpiryService(
	settings interfaces.LotterySettings,
	lotteryRepo interfaces.LotteryRepository,
	wonkaBarRepo interfaces.WonkaBarRepository,
	drawRequestRepo interfaces.DrawRequestRepository,
	prizeCustodian interfaces.PrizeCustodian,
	randomness interfaces.RandomnessSource,
	eventPublisher interfaces.EventPublisher,
) interfaces.ExpiryService {
	return &expiryService{
		settings:        settings,
		lotteryRepo:     lotteryRepo,
		wonkaBarRepo:    wonkaBarRepo,
		drawRequestRepo: drawRequestRepo,
		prizeCustodian:  prizeCustodian,
		randomness:      randomness,
		eventPublisher:  eventPublisher,
	}
}

// CheckExpired reports the first active lottery past its deadline with no
// pending draw request, or nil when none is due
func (s *expiryService) CheckExpired(ctx context.Context) (*int64, error) {
	lottery, err := s.lotteryRepo.GetFirstExpiredActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for expired lotteries: %w", err)
	}
	if lottery == nil {
		return nil, nil
	}
	return &lottery.ID, nil
}

// Resolve transitions an expired active lottery. Zero sales: prize back to
// the owner, straight to trashed. Otherwise a randomness request is issued
// and the lottery waits for CompleteDraw; this call never blocks on the
// oracle.
func (s *expiryService) Resolve(ctx context.Context, lotteryID int64) (*interfaces.ResolveResult, error) {
	lottery, err := s.lotteryRepo.GetByIDForUpdate(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery: %w", err)
	}
	if lottery == nil {
		return nil, fmt.Errorf("%w: lottery %d", entities.ErrNotFound, lotteryID)
	}
	// Repeat calls on a resolved lottery fail harmlessly here
	if !lottery.IsActive() {
		return nil, fmt.Errorf("%w: lottery %d already resolved", entities.ErrInvalidState, lotteryID)
	}
	if !lottery.IsExpired() {
		return nil, fmt.Errorf("%w: lottery %d has not expired", entities.ErrInvalidState, lotteryID)
	}

	pending, err := s.drawRequestRepo.GetByLotteryID(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw request: %w", err)
	}
	if pending != nil {
		return nil, fmt.Errorf("%w: draw already requested for lottery %d", entities.ErrInvalidState, lotteryID)
	}

	// No tickets sold: nobody to draw for, forfeit straight back to the owner
	if lottery.SoldSupply == 0 {
		if err := s.prizeCustodian.TransferPrize(ctx, lottery.PrizeContract, lottery.PrizeTokenID,
			s.settings.Vault, lottery.Owner); err != nil {
			return nil, fmt.Errorf("%w: prize return: %v", entities.ErrCustodyTransferFailed, err)
		}

		lottery.State = entities.LotteryStateTrashed
		if err := s.lotteryRepo.Update(ctx, lottery); err != nil {
			return nil, fmt.Errorf("failed to update lottery: %w", err)
		}

		if err := s.eventPublisher.Publish(events.LotteryTrashedEvent{LotteryID: lotteryID}); err != nil {
			log.WithError(err).Error("Failed to publish lottery trashed event")
		}

		return &interfaces.ResolveResult{Lottery: lottery, Trashed: true}, nil
	}

	handle, err := s.randomness.RequestRandom(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to request randomness: %w", err)
	}

	if err := s.drawRequestRepo.Create(ctx, &entities.DrawRequest{
		LotteryID: lotteryID,
		Handle:    handle,
	}); err != nil {
		return nil, fmt.Errorf("failed to store draw request: %w", err)
	}

	log.WithFields(log.Fields{
		"lotteryID": lotteryID,
		"handle":    handle,
	}).Info("Draw requested for expired lottery")

	if err := s.eventPublisher.Publish(events.DrawRequestedEvent{
		LotteryID: lotteryID,
		Handle:    handle,
	}); err != nil {
		log.WithError(err).Error("Failed to publish draw requested event")
	}

	return &interfaces.ResolveResult{Lottery: lottery, DrawHandle: handle}, nil
}
