package application

import (
	"context"
	"fmt"
	"time"

	"meltyfi/domain/entities"
	"meltyfi/domain/interfaces"
	"meltyfi/domain/services"
)

// LotteryApp wraps the domain services in transaction management. Every
// operation runs inside its own unit of work; the repositories the services
// see are scoped to that transaction and events flush only on commit.
type LotteryApp struct {
	uowFactory UnitOfWorkFactory
	settings   interfaces.LotterySettings
	custodian  interfaces.PrizeCustodian
	minter     interfaces.ChocoChipMinter
	gateway    interfaces.PaymentGateway
	randomness interfaces.RandomnessSource
}

// NewLotteryApp creates the application facade
func NewLotteryApp(
	uowFactory UnitOfWorkFactory,
	settings interfaces.LotterySettings,
	custodian interfaces.PrizeCustodian,
	minter interfaces.ChocoChipMinter,
	gateway interfaces.PaymentGateway,
	randomness interfaces.RandomnessSource,
) *LotteryApp {
	return &LotteryApp{
		uowFactory: uowFactory,
		settings:   settings,
		custodian:  custodian,
		minter:     minter,
		gateway:    gateway,
		randomness: randomness,
	}
}

// withUnitOfWork runs fn inside a transaction, committing on success
func (a *LotteryApp) withUnitOfWork(ctx context.Context, fn func(uow UnitOfWork) error) error {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(uow); err != nil {
		uow.Rollback()
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// withReadOnly runs fn inside a transaction that is always rolled back
func (a *LotteryApp) withReadOnly(ctx context.Context, fn func(uow UnitOfWork) error) error {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return fn(uow)
}

func (a *LotteryApp) lotteryService(uow UnitOfWork) interfaces.LotteryService {
	return services.NewLotteryService(
		a.settings,
		uow.LotteryRepository(),
		uow.WonkaBarRepository(),
		a.custodian,
		a.minter,
		a.gateway,
		uow.EventBus(),
	)
}

func (a *LotteryApp) expiryService(uow UnitOfWork) interfaces.ExpiryService {
	return services.NewExpiryService(
		a.settings,
		uow.LotteryRepository(),
		uow.WonkaBarRepository(),
		uow.DrawRequestRepository(),
		a.custodian,
		a.randomness,
		uow.EventBus(),
	)
}

func (a *LotteryApp) drawService(uow UnitOfWork) interfaces.DrawService {
	return services.NewDrawService(
		uow.LotteryRepository(),
		uow.WonkaBarRepository(),
		uow.DrawRequestRepository(),
		a.randomness,
		uow.EventBus(),
	)
}

func (a *LotteryApp) meltService(uow UnitOfWork) interfaces.MeltService {
	return services.NewMeltService(
		a.settings,
		uow.LotteryRepository(),
		uow.WonkaBarRepository(),
		a.custodian,
		a.minter,
		a.gateway,
		uow.EventBus(),
	)
}

// CreateLottery escrows the prize asset and opens a new active lottery
func (a *LotteryApp) CreateLottery(ctx context.Context, owner, prizeContract string, prizeTokenID int64,
	expiresAt time.Time, wonkaBarPrice, maxSupply int64) (*entities.Lottery, error) {
	var lottery *entities.Lottery
	err := a.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		lottery, err = a.lotteryService(uow).Create(ctx, owner, prizeContract, prizeTokenID,
			expiresAt, wonkaBarPrice, maxSupply)
		return err
	})
	if err != nil {
		return nil, err
	}
	return lottery, nil
}

// Purchase sells WonkaBars against an attached payment
func (a *LotteryApp) Purchase(ctx context.Context, lotteryID int64, buyer string, amount, payment int64) (*interfaces.PurchaseResult, error) {
	var result *interfaces.PurchaseResult
	err := a.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		result, err = a.lotteryService(uow).Purchase(ctx, lotteryID, buyer, amount, payment)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Repay cancels an active lottery and returns the prize to its owner
func (a *LotteryApp) Repay(ctx context.Context, lotteryID int64, caller string, payment int64) (*interfaces.RepayResult, error) {
	var result *interfaces.RepayResult
	err := a.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		result, err = a.lotteryService(uow).Repay(ctx, lotteryID, caller, payment)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CheckExpired reports the first lottery due for resolution, nil when none
func (a *LotteryApp) CheckExpired(ctx context.Context) (*int64, error) {
	var id *int64
	err := a.withReadOnly(ctx, func(uow UnitOfWork) error {
		var err error
		id, err = a.expiryService(uow).CheckExpired(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return id, nil
}

// Resolve transitions an expired active lottery
func (a *LotteryApp) Resolve(ctx context.Context, lotteryID int64) (*interfaces.ResolveResult, error) {
	var result *interfaces.ResolveResult
	err := a.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		result, err = a.expiryService(uow).Resolve(ctx, lotteryID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CompleteDraw consumes a fulfilled randomness request and concludes the lottery
func (a *LotteryApp) CompleteDraw(ctx context.Context, lotteryID int64, handle string) (*interfaces.DrawResult, error) {
	var result *interfaces.DrawResult
	err := a.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		result, err = a.drawService(uow).CompleteDraw(ctx, lotteryID, handle)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Melt burns WonkaBars and pays out the holder's settlement
func (a *LotteryApp) Melt(ctx context.Context, lotteryID int64, caller string, amount int64) (*interfaces.MeltResult, error) {
	var result *interfaces.MeltResult
	err := a.withUnitOfWork(ctx, func(uow UnitOfWork) error {
		var err error
		result, err = a.meltService(uow).Melt(ctx, lotteryID, caller, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetLottery returns a lottery by id, nil if unknown
func (a *LotteryApp) GetLottery(ctx context.Context, lotteryID int64) (*entities.Lottery, error) {
	var lottery *entities.Lottery
	err := a.withReadOnly(ctx, func(uow UnitOfWork) error {
		var err error
		lottery, err = a.lotteryService(uow).GetLottery(ctx, lotteryID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return lottery, nil
}

// ListActive returns all active lotteries
func (a *LotteryApp) ListActive(ctx context.Context) ([]*entities.Lottery, error) {
	var lotteries []*entities.Lottery
	err := a.withReadOnly(ctx, func(uow UnitOfWork) error {
		var err error
		lotteries, err = a.lotteryService(uow).ListActive(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return lotteries, nil
}

// ListByOwner returns all lotteries created by an owner
func (a *LotteryApp) ListByOwner(ctx context.Context, owner string) ([]*entities.Lottery, error) {
	var lotteries []*entities.Lottery
	err := a.withReadOnly(ctx, func(uow UnitOfWork) error {
		var err error
		lotteries, err = a.lotteryService(uow).ListByOwner(ctx, owner)
		return err
	})
	if err != nil {
		return nil, err
	}
	return lotteries, nil
}

// ListByHolder returns all lotteries a holder owns WonkaBars in
func (a *LotteryApp) ListByHolder(ctx context.Context, holder string) ([]*entities.Lottery, error) {
	var lotteries []*entities.Lottery
	err := a.withReadOnly(ctx, func(uow UnitOfWork) error {
		var err error
		lotteries, err = a.lotteryService(uow).ListByHolder(ctx, holder)
		return err
	})
	if err != nil {
		return nil, err
	}
	return lotteries, nil
}

// ListHolders returns all holdings of a lottery in draw order
func (a *LotteryApp) ListHolders(ctx context.Context, lotteryID int64) ([]*entities.WonkaBarHolding, error) {
	var holdings []*entities.WonkaBarHolding
	err := a.withReadOnly(ctx, func(uow UnitOfWork) error {
		var err error
		holdings, err = a.lotteryService(uow).ListHolders(ctx, lotteryID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return holdings, nil
}

// BalanceOf returns a holder's WonkaBar balance in a lottery
func (a *LotteryApp) BalanceOf(ctx context.Context, lotteryID int64, holder string) (int64, error) {
	var balance int64
	err := a.withReadOnly(ctx, func(uow UnitOfWork) error {
		var err error
		balance, err = a.lotteryService(uow).BalanceOf(ctx, lotteryID, holder)
		return err
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// OutstandingSupply returns the un-burned WonkaBar supply of a lottery
func (a *LotteryApp) OutstandingSupply(ctx context.Context, lotteryID int64) (int64, error) {
	var supply int64
	err := a.withReadOnly(ctx, func(uow UnitOfWork) error {
		var err error
		supply, err = a.lotteryService(uow).OutstandingSupply(ctx, lotteryID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return supply, nil
}

// ListPendingDraws returns all draw requests awaiting oracle fulfillment
func (a *LotteryApp) ListPendingDraws(ctx context.Context) ([]*entities.DrawRequest, error) {
	var requests []*entities.DrawRequest
	err := a.withReadOnly(ctx, func(uow UnitOfWork) error {
		var err error
		requests, err = uow.DrawRequestRepository().ListPending(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return requests, nil
}
