package services

import (
	"context"
	"fmt"
	"time"

	"meltyfi/domain/entities"
	"meltyfi/domain/events"
	"meltyfi/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// lotteryService implements business logic for lottery creation and sales
type lotteryService struct {
	settings        interfaces.LotterySettings
	lotteryRepo     interfaces.LotteryRepository
	wonkaBarRepo    interfaces.WonkaBarRepository
	prizeCustodian  interfaces.PrizeCustodian
	chocoChipMinter interfaces.ChocoChipMinter
	paymentGateway  interfaces.PaymentGateway
	eventPublisher  interfaces.EventPublisher
}

// NewLotteryService creates a new lottery service
func NewLotteryService(
	settings interfaces.LotterySettings,
	lotteryRepo interfaces.LotteryRepository,
	wonkaBarRepo interfaces.WonkaBarRepository,
	prizeCustodian interfaces.PrizeCustodian,
	chocoChipMinter interfaces.ChocoChipMinter,
	paymentGateway interfaces.PaymentGateway,
	eventPublisher interfaces.EventPublisher,
) interfaces.LotteryService {
	return &lotteryService{
		settings:        settings,
		lotteryRepo:     lotteryRepo,
		wonkaBarRepo:    wonkaBarRepo,
		prizeCustodian:  prizeCustodian,
		chocoChipMinter: chocoChipMinter,
		paymentGateway:  paymentGateway,
		eventPublisher:  eventPublisher,
	}
}

// Create escrows the prize asset and opens a new active lottery
func (s *lotteryService) Create(ctx context.Context, owner, prizeContract string, prizeTokenID int64,
	expiresAt time.Time, wonkaBarPrice, maxSupply int64) (*entities.Lottery, error) {

	if !expiresAt.After(time.Now()) {
		return nil, fmt.Errorf("%w: expiration must be in the future", entities.ErrInvalidState)
	}
	if wonkaBarPrice <= 0 {
		return nil, fmt.Errorf("%w: wonka bar price must be positive", entities.ErrInvalidState)
	}
	if maxSupply <= 0 || maxSupply > s.settings.MaxSupplyCap {
		return nil, fmt.Errorf("%w: max supply must be in (0, %d]", entities.ErrSupplyExceeded, s.settings.MaxSupplyCap)
	}
	// The per-holder cap must leave room for at least one WonkaBar, otherwise
	// nobody could ever purchase
	if maxSupply*s.settings.LimitPercent/100 < 1 {
		return nil, fmt.Errorf("%w: max supply too small for %d%% holder cap",
			entities.ErrConcentrationLimit, s.settings.LimitPercent)
	}

	// Move the prize into the vault; the caller must own it
	if err := s.prizeCustodian.TransferPrize(ctx, prizeContract, prizeTokenID, owner, s.settings.Vault); err != nil {
		return nil, fmt.Errorf("%w: escrow of prize %s/%d: %v",
			entities.ErrCustodyTransferFailed, prizeContract, prizeTokenID, err)
	}

	lottery := &entities.Lottery{
		Owner:         owner,
		PrizeContract: prizeContract,
		PrizeTokenID:  prizeTokenID,
		ExpiresAt:     expiresAt,
		State:         entities.LotteryStateActive,
		WonkaBarPrice: wonkaBarPrice,
		MaxSupply:     maxSupply,
	}
	if err := s.lotteryRepo.Create(ctx, lottery); err != nil {
		return nil, fmt.Errorf("failed to create lottery: %w", err)
	}

	if err := s.eventPublisher.Publish(events.LotteryCreatedEvent{
		LotteryID:     lottery.ID,
		Owner:         owner,
		PrizeContract: prizeContract,
		PrizeTokenID:  prizeTokenID,
		WonkaBarPrice: wonkaBarPrice,
		MaxSupply:     maxSupply,
		ExpiresAt:     expiresAt.Unix(),
	}); err != nil {
		log.WithError(err).Error("Failed to publish lottery created event")
	}

	return lottery, nil
}

// Purchase sells WonkaBars against an attached payment
func (s *lotteryService) Purchase(ctx context.Context, lotteryID int64, buyer string, amount, payment int64) (*interfaces.PurchaseResult, error) {
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
	if !lottery.CanSellWonkaBars() {
		return nil, fmt.Errorf("%w: lottery %d is not selling wonka bars", entities.ErrInvalidState, lotteryID)
	}
	if lottery.SoldSupply+amount > lottery.MaxSupply {
		return nil, fmt.Errorf("%w: %d of %d wonka bars already sold",
			entities.ErrSupplyExceeded, lottery.SoldSupply, lottery.MaxSupply)
	}

	var balance int64
	holding, err := s.wonkaBarRepo.GetHolding(ctx, lotteryID, buyer)
	if err != nil {
		return nil, fmt.Errorf("failed to get holding: %w", err)
	}
	if holding != nil {
		balance = holding.Amount
	}
	if lottery.ExceedsConcentration(balance+amount, s.settings.LimitPercent) {
		return nil, fmt.Errorf("%w: holder would exceed %d%% of max supply",
			entities.ErrConcentrationLimit, s.settings.LimitPercent)
	}

	cost := amount * lottery.WonkaBarPrice
	if payment < cost {
		return nil, fmt.Errorf("%w: need %d, got %d", entities.ErrInsufficientPayment, cost, payment)
	}

	// Split proceeds: fixed royalty to the treasury, rest straight to the
	// owner. The engine never escrows sale proceeds.
	royalty := payment * s.settings.RoyaltyPercent / 100
	proceeds := payment - royalty

	if royalty > 0 {
		if err := s.paymentGateway.Transfer(ctx, s.settings.Treasury, royalty); err != nil {
			return nil, fmt.Errorf("%w: royalty transfer: %v", entities.ErrCustodyTransferFailed, err)
		}
	}
	if err := s.paymentGateway.Transfer(ctx, lottery.Owner, proceeds); err != nil {
		return nil, fmt.Errorf("%w: owner proceeds transfer: %v", entities.ErrCustodyTransferFailed, err)
	}

	if err := s.wonkaBarRepo.AddToHolding(ctx, lotteryID, buyer, amount); err != nil {
		return nil, fmt.Errorf("failed to add wonka bars: %w", err)
	}

	lottery.SoldSupply += amount
	if err := s.lotteryRepo.Update(ctx, lottery); err != nil {
		return nil, fmt.Errorf("failed to update lottery: %w", err)
	}

	if err := s.eventPublisher.Publish(events.WonkaBarsPurchasedEvent{
		LotteryID:     lotteryID,
		Buyer:         buyer,
		Amount:        amount,
		Payment:       payment,
		RoyaltyPaid:   royalty,
		OwnerProceeds: proceeds,
		SoldSupply:    lottery.SoldSupply,
	}); err != nil {
		log.WithError(err).Error("Failed to publish wonka bars purchased event")
	}

	return &interfaces.PurchaseResult{
		Lottery:       lottery,
		Buyer:         buyer,
		Amount:        amount,
		Payment:       payment,
		RoyaltyPaid:   royalty,
		OwnerProceeds: proceeds,
		NewBalance:    balance + amount,
	}, nil
}

// Repay cancels an active lottery against the full historical raise
func (s *lotteryService) Repay(ctx context.Context, lotteryID int64, caller string, payment int64) (*interfaces.RepayResult, error) {
	lottery, err := s.lotteryRepo.GetByIDForUpdate(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery: %w", err)
	}
	if lottery == nil {
		return nil, fmt.Errorf("%w: lottery %d", entities.ErrNotFound, lotteryID)
	}
	if caller != lottery.Owner {
		return nil, fmt.Errorf("%w: only the owner may repay", entities.ErrUnauthorized)
	}
	// Past the deadline the lottery belongs to the resolution path
	if !lottery.IsActive() || lottery.IsExpired() {
		return nil, fmt.Errorf("%w: lottery %d is not repayable", entities.ErrInvalidState, lotteryID)
	}

	due := lottery.RepaymentDue()
	if payment < due {
		return nil, fmt.Errorf("%w: repayment requires %d in full, got %d",
			entities.ErrInsufficientPayment, due, payment)
	}

	// The repayment stays with the engine as melt escrow; only the prize
	// leaves the vault here
	if err := s.prizeCustodian.TransferPrize(ctx, lottery.PrizeContract, lottery.PrizeTokenID,
		s.settings.Vault, lottery.Owner); err != nil {
		return nil, fmt.Errorf("%w: prize return: %v", entities.ErrCustodyTransferFailed, err)
	}

	chocoChips := due * s.settings.ChocoChipRate
	if chocoChips > 0 {
		if err := s.chocoChipMinter.Mint(ctx, lottery.Owner, chocoChips); err != nil {
			return nil, fmt.Errorf("%w: choco chip mint: %v", entities.ErrCustodyTransferFailed, err)
		}
	}

	lottery.State = entities.LotteryStateCancelled
	lottery.RepaidAmount = due

	outstanding, err := s.wonkaBarRepo.OutstandingSupply(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get outstanding supply: %w", err)
	}
	// Nothing to melt means nothing keeps the lottery alive
	if outstanding == 0 {
		lottery.State = entities.LotteryStateTrashed
	}

	if err := s.lotteryRepo.Update(ctx, lottery); err != nil {
		return nil, fmt.Errorf("failed to update lottery: %w", err)
	}

	if err := s.eventPublisher.Publish(events.LotteryCancelledEvent{
		LotteryID:    lotteryID,
		Owner:        lottery.Owner,
		RepaidAmount: due,
		ChocoChips:   chocoChips,
	}); err != nil {
		log.WithError(err).Error("Failed to publish lottery cancelled event")
	}
	if lottery.State == entities.LotteryStateTrashed {
		if err := s.eventPublisher.Publish(events.LotteryTrashedEvent{LotteryID: lotteryID}); err != nil {
			log.WithError(err).Error("Failed to publish lottery trashed event")
		}
	}

	return &interfaces.RepayResult{
		Lottery:    lottery,
		Repaid:     due,
		ChocoChips: chocoChips,
	}, nil
}

// GetLottery returns a lottery by id
func (s *lotteryService) GetLottery(ctx context.Context, lotteryID int64) (*entities.Lottery, error) {
	lottery, err := s.lotteryRepo.GetByID(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery: %w", err)
	}
	if lottery == nil {
		return nil, fmt.Errorf("%w: lottery %d", entities.ErrNotFound, lotteryID)
	}
	return lottery, nil
}

// ListActive returns all lotteries still selling or awaiting resolution
func (s *lotteryService) ListActive(ctx context.Context) ([]*entities.Lottery, error) {
	return s.lotteryRepo.ListActive(ctx)
}

// ListByOwner returns all lotteries created by an owner
func (s *lotteryService) ListByOwner(ctx context.Context, owner string) ([]*entities.Lottery, error) {
	return s.lotteryRepo.ListByOwner(ctx, owner)
}

// ListByHolder returns all lotteries a holder owns WonkaBars in
func (s *lotteryService) ListByHolder(ctx context.Context, holder string) ([]*entities.Lottery, error) {
	return s.lotteryRepo.ListByHolder(ctx, holder)
}

// ListHolders returns a lottery's holdings in draw iteration order
func (s *lotteryService) ListHolders(ctx context.Context, lotteryID int64) ([]*entities.WonkaBarHolding, error) {
	return s.wonkaBarRepo.ListHoldings(ctx, lotteryID)
}

// BalanceOf returns a holder's WonkaBar balance for a lottery
func (s *lotteryService) BalanceOf(ctx context.Context, lotteryID int64, holder string) (int64, error) {
	holding, err := s.wonkaBarRepo.GetHolding(ctx, lotteryID, holder)
	if err != nil {
		return 0, fmt.Errorf("failed to get holding: %w", err)
	}
	if holding == nil {
		return 0, nil
	}
	return holding.Amount, nil
}

// OutstandingSupply returns the un-burned WonkaBar total for a lottery
func (s *lotteryService) OutstandingSupply(ctx context.Context, lotteryID int64) (int64, error) {
	return s.wonkaBarRepo.OutstandingSupply(ctx, lotteryID)
}
