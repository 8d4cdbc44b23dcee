package repository

import (
	"context"
	"testing"

	"meltyfi/domain/events"
	"meltyfi/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSink records every event that survived its transaction
type captureSink struct {
	published []events.Event
}

func (s *captureSink) Publish(event events.Event) error {
	s.published = append(s.published, event)
	return nil
}

func TestUnitOfWork_CommitPersistsAndFlushesEvents(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	sink := &captureSink{}
	factory := NewUnitOfWorkFactory(testDB.DB, sink)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	lottery := testutil.CreateTestLottery("0xowner")
	require.NoError(t, uow.LotteryRepository().Create(ctx, lottery))
	require.NoError(t, uow.EventBus().Publish(events.LotteryCreatedEvent{LotteryID: lottery.ID}))

	// Nothing leaves the transaction before commit
	assert.Empty(t, sink.published)

	require.NoError(t, uow.Commit())

	require.Len(t, sink.published, 1)
	assert.Equal(t, events.EventTypeLotteryCreated, sink.published[0].Type())

	saved, err := NewLotteryRepository(testDB.DB).GetByID(ctx, lottery.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)
}

func TestUnitOfWork_RollbackDiscardsWritesAndEvents(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	sink := &captureSink{}
	factory := NewUnitOfWorkFactory(testDB.DB, sink)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	lottery := testutil.CreateTestLottery("0xowner")
	require.NoError(t, uow.LotteryRepository().Create(ctx, lottery))
	require.NoError(t, uow.EventBus().Publish(events.LotteryCreatedEvent{LotteryID: lottery.ID}))

	require.NoError(t, uow.Rollback())

	assert.Empty(t, sink.published)

	saved, err := NewLotteryRepository(testDB.DB).GetByID(ctx, lottery.ID)
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestUnitOfWork_DoubleBeginFails(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := NewUnitOfWorkFactory(testDB.DB, &captureSink{})

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	assert.Error(t, uow.Begin(ctx))
}
