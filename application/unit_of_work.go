package application

import (
	"context"

	"meltyfi/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations.
// Events published through EventBus are buffered and only reach the outside
// world after Commit succeeds.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes buffered events
	Commit() error

	// Rollback rolls back the transaction and discards buffered events
	Rollback() error

	// Repository getters
	LotteryRepository() interfaces.LotteryRepository
	WonkaBarRepository() interfaces.WonkaBarRepository
	DrawRequestRepository() interfaces.DrawRequestRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
