package interfaces

import (
	"context"

	"meltyfi/domain/entities"
	"meltyfi/domain/events"
)

// LotteryRepository defines the interface for lottery data access
type LotteryRepository interface {
	// Create inserts a new active lottery and assigns its id
	Create(ctx context.Context, lottery *entities.Lottery) error

	// GetByID retrieves a lottery by its ID, nil if unknown
	GetByID(ctx context.Context, id int64) (*entities.Lottery, error)

	// GetByIDForUpdate retrieves a lottery by ID with a row lock for update
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Lottery, error)

	// Update persists mutable lottery fields (state, supply, winner, escrow)
	Update(ctx context.Context, lottery *entities.Lottery) error

	// GetFirstExpiredActive returns the first active lottery past its deadline
	// that has no pending draw request, or nil when none is due
	GetFirstExpiredActive(ctx context.Context) (*entities.Lottery, error)

	// ListActive returns all lotteries currently in the active state
	ListActive(ctx context.Context) ([]*entities.Lottery, error)

	// ListByOwner returns all lotteries created by an owner
	ListByOwner(ctx context.Context, owner string) ([]*entities.Lottery, error)

	// ListByHolder returns all lotteries a holder owns WonkaBars in
	ListByHolder(ctx context.Context, holder string) ([]*entities.Lottery, error)
}

// WonkaBarRepository defines the interface for claim-token balance access
type WonkaBarRepository interface {
	// GetHolding returns the holding for (lottery, holder), nil if absent
	GetHolding(ctx context.Context, lotteryID int64, holder string) (*entities.WonkaBarHolding, error)

	// AddToHolding increments (creating if needed) a holder's balance
	AddToHolding(ctx context.Context, lotteryID int64, holder string, amount int64) error

	// BurnFromHolding decrements a holder's balance, deleting the row at zero
	BurnFromHolding(ctx context.Context, lotteryID int64, holder string, amount int64) error

	// ListHoldings returns all holdings of a lottery in insertion order,
	// which is the iteration order of the weighted draw
	ListHoldings(ctx context.Context, lotteryID int64) ([]*entities.WonkaBarHolding, error)

	// OutstandingSupply returns the sum of un-burned WonkaBars for a lottery
	OutstandingSupply(ctx context.Context, lotteryID int64) (int64, error)
}

// DrawRequestRepository defines the interface for pending randomness requests
type DrawRequestRepository interface {
	// Create stores a pending request; fails if one already exists for the lottery
	Create(ctx context.Context, request *entities.DrawRequest) error

	// GetByLotteryID returns the pending request for a lottery, nil if none
	GetByLotteryID(ctx context.Context, lotteryID int64) (*entities.DrawRequest, error)

	// ListPending returns all pending requests, oldest first
	ListPending(ctx context.Context) ([]*entities.DrawRequest, error)

	// Delete removes a consumed request
	Delete(ctx context.Context, id int64) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}
