package services

import (
	"context"
	"fmt"

	"meltyfi/domain/entities"
	"meltyfi/domain/events"
	"meltyfi/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// meltService implements post-resolution settlement
type meltService struct {
	settings        interfaces.LotterySettings
	lotteryRepo     interfaces.LotteryRepository
	wonkaBarRepo    interfaces.WonkaBarRepository
	prizeCustodian  interfaces.PrizeCustodian
	chocoChipMinter interfaces.ChocoChipMinter
	paymentGateway  interfaces.PaymentGateway
	eventPublisher  interfaces.EventPublisher
}

// NewMeltService creates a new melt service
func NewMeltService(
	settings interfaces.LotterySettings,
	lotteryRepo interfaces.LotteryRepository,
	wonkaBarRepo interfaces.WonkaBarRepository,
	prizeCustodian interfaces.PrizeCustodian,
	chocoChipMinter interfaces.ChocoChipMinter,
	paymentGateway interfaces.PaymentGateway,
	eventPublisher interfaces.EventPublisher,
) interfaces.MeltService {
	return &meltService{
		settings:        settings,
		lotteryRepo:     lotteryRepo,
		wonkaBarRepo:    wonkaBarRepo,
		prizeCustodian:  prizeCustodian,
		chocoChipMinter: chocoChipMinter,
		paymentGateway:  paymentGateway,
		eventPublisher:  eventPublisher,
	}
}

// Melt burns WonkaBars for ChocoChips plus, depending on the outcome, a
// refund (cancelled) or the prize asset (concluded, winner only)
func (s *meltService) Melt(ctx context.Context, lotteryID int64, caller string, amount int64) (*interfaces.MeltResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", entities.ErrInvalidState)
	}

	lottery, err := s.lotteryRepo.GetByIDForUpdate(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery: %w", err)
	}
	if lottery == nil {
		return nil, fmt.Errorf("%w: lottery %d", entities.ErrNotFound, lotteryID)
	}
	if !lottery.IsMeltable() {
		return nil, fmt.Errorf("%w: lottery %d is not settled yet", entities.ErrInvalidState, lotteryID)
	}

	holding, err := s.wonkaBarRepo.GetHolding(ctx, lotteryID, caller)
	if err != nil {
		return nil, fmt.Errorf("failed to get holding: %w", err)
	}
	if holding == nil || holding.Amount < amount {
		return nil, fmt.Errorf("%w: caller holds fewer than %d wonka bars", entities.ErrUnauthorized, amount)
	}

	// The escrow guard must run before the burn, mint or transfer so a
	// rejected melt leaves no external effect behind
	var refund int64
	if lottery.State == entities.LotteryStateCancelled {
		refund = amount * lottery.WonkaBarPrice
		if lottery.RefundedAmount+refund > lottery.RepaidAmount {
			return nil, fmt.Errorf("%w: refund would exceed escrowed repayment", entities.ErrInvalidState)
		}
	}

	if err := s.wonkaBarRepo.BurnFromHolding(ctx, lotteryID, caller, amount); err != nil {
		return nil, fmt.Errorf("failed to burn wonka bars: %w", err)
	}

	chocoChips := amount * lottery.WonkaBarPrice * s.settings.ChocoChipRate
	if chocoChips > 0 {
		if err := s.chocoChipMinter.Mint(ctx, caller, chocoChips); err != nil {
			return nil, fmt.Errorf("%w: choco chip mint: %v", entities.ErrCustodyTransferFailed, err)
		}
	}

	var prizeClaimed bool

	switch lottery.State {
	case entities.LotteryStateCancelled:
		// Refund comes out of the owner's escrowed repayment
		if err := s.paymentGateway.Transfer(ctx, caller, refund); err != nil {
			return nil, fmt.Errorf("%w: refund transfer: %v", entities.ErrCustodyTransferFailed, err)
		}
		lottery.RefundedAmount += refund

	case entities.LotteryStateConcluded:
		// First melt by the winner carries the prize out of the vault
		if lottery.IsWinner(caller) && !lottery.PrizeTransferred {
			if err := s.prizeCustodian.TransferPrize(ctx, lottery.PrizeContract, lottery.PrizeTokenID,
				s.settings.Vault, caller); err != nil {
				return nil, fmt.Errorf("%w: prize transfer: %v", entities.ErrCustodyTransferFailed, err)
			}
			lottery.PrizeTransferred = true
			prizeClaimed = true
		}
	}

	outstanding, err := s.wonkaBarRepo.OutstandingSupply(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get outstanding supply: %w", err)
	}
	if outstanding == 0 {
		lottery.State = entities.LotteryStateTrashed
	}

	if err := s.lotteryRepo.Update(ctx, lottery); err != nil {
		return nil, fmt.Errorf("failed to update lottery: %w", err)
	}

	if err := s.eventPublisher.Publish(events.WonkaBarsMeltedEvent{
		LotteryID:      lotteryID,
		Holder:         caller,
		Amount:         amount,
		Refund:         refund,
		ChocoChips:     chocoChips,
		PrizeClaimed:   prizeClaimed,
		RemainingTotal: outstanding,
	}); err != nil {
		log.WithError(err).Error("Failed to publish wonka bars melted event")
	}
	if lottery.State == entities.LotteryStateTrashed {
		if err := s.eventPublisher.Publish(events.LotteryTrashedEvent{LotteryID: lotteryID}); err != nil {
			log.WithError(err).Error("Failed to publish lottery trashed event")
		}
	}

	return &interfaces.MeltResult{
		Lottery:      lottery,
		Burned:       amount,
		Refund:       refund,
		ChocoChips:   chocoChips,
		PrizeClaimed: prizeClaimed,
	}, nil
}
