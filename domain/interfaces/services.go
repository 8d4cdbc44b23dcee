package interfaces

import (
	"context"
	"time"

	"meltyfi/domain/entities"
)

// LotterySettings carries the engine parameters the services need. Values
// come from config at wiring time so the domain never reads the environment.
type LotterySettings struct {
	RoyaltyPercent int64
	LimitPercent   int64
	MaxSupplyCap   int64
	ChocoChipRate  int64
	Treasury       string
	Vault          string
}

// PurchaseResult describes a committed WonkaBar purchase
type PurchaseResult struct {
	Lottery       *entities.Lottery
	Buyer         string
	Amount        int64
	Payment       int64
	RoyaltyPaid   int64
	OwnerProceeds int64
	NewBalance    int64
}

// RepayResult describes a committed owner repayment
type RepayResult struct {
	Lottery    *entities.Lottery
	Repaid     int64
	ChocoChips int64
}

// ResolveResult describes what happened when an expired lottery was resolved
type ResolveResult struct {
	Lottery *entities.Lottery
	// Trashed is true for the zero-sale path: prize returned, lottery terminal
	Trashed bool
	// DrawHandle is set when a randomness request was issued instead
	DrawHandle string
}

// DrawResult describes a completed weighted draw
type DrawResult struct {
	Lottery           *entities.Lottery
	Winner            string
	WinningValue      int64
	OutstandingSupply int64
}

// MeltResult describes a committed settlement burn
type MeltResult struct {
	Lottery      *entities.Lottery
	Burned       int64
	Refund       int64
	ChocoChips   int64
	PrizeClaimed bool
}

// LotteryService owns lottery creation and the money-in operations
type LotteryService interface {
	// Create escrows the prize asset and opens a new active lottery
	Create(ctx context.Context, owner, prizeContract string, prizeTokenID int64,
		expiresAt time.Time, wonkaBarPrice, maxSupply int64) (*entities.Lottery, error)

	// Purchase sells WonkaBars against an attached payment, splitting the
	// proceeds between treasury royalty and the lottery owner
	Purchase(ctx context.Context, lotteryID int64, buyer string, amount, payment int64) (*PurchaseResult, error)

	// Repay cancels an active lottery against the full historical raise and
	// returns the prize to the owner
	Repay(ctx context.Context, lotteryID int64, caller string, payment int64) (*RepayResult, error)

	// Read accessors
	GetLottery(ctx context.Context, lotteryID int64) (*entities.Lottery, error)
	ListActive(ctx context.Context) ([]*entities.Lottery, error)
	ListByOwner(ctx context.Context, owner string) ([]*entities.Lottery, error)
	ListByHolder(ctx context.Context, holder string) ([]*entities.Lottery, error)
	ListHolders(ctx context.Context, lotteryID int64) ([]*entities.WonkaBarHolding, error)
	BalanceOf(ctx context.Context, lotteryID int64, holder string) (int64, error)
	OutstandingSupply(ctx context.Context, lotteryID int64) (int64, error)
}

// ExpiryService is the poll/act pair driven by the automation loop
type ExpiryService interface {
	// CheckExpired reports the first active lottery past its deadline with no
	// pending draw, or nil when none is due. Read-only and cheap.
	CheckExpired(ctx context.Context) (*int64, error)

	// Resolve transitions an expired active lottery: zero sales go straight
	// to trashed with the prize returned; otherwise a randomness request is
	// issued and the lottery waits for CompleteDraw
	Resolve(ctx context.Context, lotteryID int64) (*ResolveResult, error)
}

// DrawService completes pending draws once the oracle has delivered
type DrawService interface {
	// CompleteDraw consumes a fulfilled randomness request and concludes the
	// lottery with a supply-weighted winner
	CompleteDraw(ctx context.Context, lotteryID int64, handle string) (*DrawResult, error)
}

// MeltService settles holders after resolution
type MeltService interface {
	// Melt burns WonkaBars for ChocoChips plus, depending on the outcome,
	// a refund (cancelled) or the prize asset (concluded, winner only)
	Melt(ctx context.Context, lotteryID int64, caller string, amount int64) (*MeltResult, error)
}
