package repository

import (
	"context"
	"fmt"

	"meltyfi/application"
	"meltyfi/database"
	"meltyfi/domain/events"
	"meltyfi/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the application.UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	lotteryRepo      interfaces.LotteryRepository
	wonkaBarRepo     interfaces.WonkaBarRepository
	drawRequestRepo  interfaces.DrawRequestRepository
}

type unitOfWorkFactory struct {
	db   *database.DB
	sink events.Sink
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. Events published
// inside a unit of work reach the sink only after the transaction commits.
func NewUnitOfWorkFactory(db *database.DB, sink events.Sink) application.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:   db,
		sink: sink,
	}
}

func (f *unitOfWorkFactory) Create() application.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.sink),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.lotteryRepo = NewLotteryRepository(tx)
	u.wonkaBarRepo = NewWonkaBarRepository(tx)
	u.drawRequestRepo = NewDrawRequestRepository(tx)

	return nil
}

// Commit commits the transaction and flushes buffered events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Flush()
	}

	return nil
}

// Rollback rolls back the transaction and discards buffered events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// LotteryRepository returns the lottery repository for this unit of work
func (u *unitOfWork) LotteryRepository() interfaces.LotteryRepository {
	if u.lotteryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.lotteryRepo
}

// WonkaBarRepository returns the holding repository for this unit of work
func (u *unitOfWork) WonkaBarRepository() interfaces.WonkaBarRepository {
	if u.wonkaBarRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.wonkaBarRepo
}

// DrawRequestRepository returns the draw request repository for this unit of work
func (u *unitOfWork) DrawRequestRepository() interfaces.DrawRequestRepository {
	if u.drawRequestRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.drawRequestRepo
}

// EventBus returns the transaction-scoped event publisher
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	return u.transactionalBus
}
