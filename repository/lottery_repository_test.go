package repository

import (
	"context"
	"testing"
	"time"

	"meltyfi/domain/entities"
	"meltyfi/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLotteryRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewLotteryRepository(testDB.DB)

	lottery := testutil.CreateTestLottery("0xowner")
	err := repo.Create(ctx, lottery)
	require.NoError(t, err)
	require.NotEqual(t, int64(0), lottery.ID)
	require.False(t, lottery.CreatedAt.IsZero())

	saved, err := repo.GetByID(ctx, lottery.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, "0xowner", saved.Owner)
	assert.Equal(t, "0xprizes", saved.PrizeContract)
	assert.Equal(t, int64(42), saved.PrizeTokenID)
	assert.Equal(t, entities.LotteryStateActive, saved.State)
	assert.Equal(t, int64(10), saved.WonkaBarPrice)
	assert.Equal(t, int64(100), saved.MaxSupply)
	assert.Equal(t, int64(0), saved.SoldSupply)
	assert.Nil(t, saved.Winner)
	assert.False(t, saved.PrizeTransferred)
}

func TestLotteryRepository_GetByID_Unknown(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewLotteryRepository(testDB.DB)

	lottery, err := repo.GetByID(ctx, 99999)
	require.NoError(t, err)
	assert.Nil(t, lottery)
}

func TestLotteryRepository_Update(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewLotteryRepository(testDB.DB)

	lottery := testutil.CreateTestLottery("0xowner")
	require.NoError(t, repo.Create(ctx, lottery))

	winner := "0xwinner"
	lottery.State = entities.LotteryStateConcluded
	lottery.SoldSupply = 50
	lottery.Winner = &winner
	lottery.PrizeTransferred = true

	require.NoError(t, repo.Update(ctx, lottery))

	saved, err := repo.GetByID(ctx, lottery.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, entities.LotteryStateConcluded, saved.State)
	assert.Equal(t, int64(50), saved.SoldSupply)
	require.NotNil(t, saved.Winner)
	assert.Equal(t, winner, *saved.Winner)
	assert.True(t, saved.PrizeTransferred)
}

func TestLotteryRepository_ConcludedToTrashedKeepsWinner(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewLotteryRepository(testDB.DB)

	lottery := testutil.CreateExpiredTestLottery("0xowner", 50)
	require.NoError(t, repo.Create(ctx, lottery))

	winner := "0xwinner"
	lottery.State = entities.LotteryStateConcluded
	lottery.Winner = &winner
	require.NoError(t, repo.Update(ctx, lottery))

	// Exhausting the outstanding supply trashes the lottery; the winner
	// column stays populated so the schema must accept the combination
	lottery.State = entities.LotteryStateTrashed
	lottery.PrizeTransferred = true
	require.NoError(t, repo.Update(ctx, lottery))

	saved, err := repo.GetByID(ctx, lottery.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, entities.LotteryStateTrashed, saved.State)
	require.NotNil(t, saved.Winner)
	assert.Equal(t, winner, *saved.Winner)
	assert.True(t, saved.PrizeTransferred)
}

func TestLotteryRepository_GetFirstExpiredActive(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewLotteryRepository(testDB.DB)

	// No lotteries at all
	due, err := repo.GetFirstExpiredActive(ctx)
	require.NoError(t, err)
	assert.Nil(t, due)

	// A healthy active lottery is not due
	healthy := testutil.CreateTestLottery("0xowner")
	require.NoError(t, repo.Create(ctx, healthy))

	due, err = repo.GetFirstExpiredActive(ctx)
	require.NoError(t, err)
	assert.Nil(t, due)

	// An expired one is
	expired := testutil.CreateExpiredTestLottery("0xowner", 10)
	require.NoError(t, repo.Create(ctx, expired))

	due, err = repo.GetFirstExpiredActive(ctx)
	require.NoError(t, err)
	require.NotNil(t, due)
	assert.Equal(t, expired.ID, due.ID)

	// A pending draw request parks it until the draw completes
	drawRepo := NewDrawRequestRepository(testDB.DB)
	request := &entities.DrawRequest{LotteryID: expired.ID, Handle: "handle-1"}
	require.NoError(t, drawRepo.Create(ctx, request))

	due, err = repo.GetFirstExpiredActive(ctx)
	require.NoError(t, err)
	assert.Nil(t, due)
}

func TestLotteryRepository_GetFirstExpiredActive_OldestFirst(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewLotteryRepository(testDB.DB)

	newer := testutil.CreateTestLottery("0xowner")
	newer.ExpiresAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, newer))

	older := testutil.CreateTestLottery("0xowner")
	older.ExpiresAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, repo.Create(ctx, older))

	due, err := repo.GetFirstExpiredActive(ctx)
	require.NoError(t, err)
	require.NotNil(t, due)
	assert.Equal(t, older.ID, due.ID)
}

func TestLotteryRepository_Listing(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewLotteryRepository(testDB.DB)
	wonkaBarRepo := NewWonkaBarRepository(testDB.DB)

	first := testutil.CreateTestLottery("0xalice")
	require.NoError(t, repo.Create(ctx, first))

	second := testutil.CreateTestLottery("0xbob")
	require.NoError(t, repo.Create(ctx, second))

	third := testutil.CreateTestLottery("0xalice")
	third.State = entities.LotteryStateTrashed
	require.NoError(t, repo.Create(ctx, third))

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, first.ID, active[0].ID)
	assert.Equal(t, second.ID, active[1].ID)

	byOwner, err := repo.ListByOwner(ctx, "0xalice")
	require.NoError(t, err)
	require.Len(t, byOwner, 2)
	assert.Equal(t, first.ID, byOwner[0].ID)
	assert.Equal(t, third.ID, byOwner[1].ID)

	// Holder listing follows wonka bar holdings
	require.NoError(t, wonkaBarRepo.AddToHolding(ctx, second.ID, "0xcarol", 5))

	byHolder, err := repo.ListByHolder(ctx, "0xcarol")
	require.NoError(t, err)
	require.Len(t, byHolder, 1)
	assert.Equal(t, second.ID, byHolder[0].ID)

	none, err := repo.ListByHolder(ctx, "0xnobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}
