package repository

import (
	"context"
	"testing"

	"meltyfi/domain/entities"
	"meltyfi/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWonkaBarRepository_AddAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	lotteryRepo := NewLotteryRepository(testDB.DB)
	repo := NewWonkaBarRepository(testDB.DB)

	lottery := testutil.CreateTestLottery("0xowner")
	require.NoError(t, lotteryRepo.Create(ctx, lottery))

	// Absent holding reads as nil
	holding, err := repo.GetHolding(ctx, lottery.ID, "0xbuyer")
	require.NoError(t, err)
	assert.Nil(t, holding)

	// First purchase creates the row, later ones accumulate
	require.NoError(t, repo.AddToHolding(ctx, lottery.ID, "0xbuyer", 5))
	require.NoError(t, repo.AddToHolding(ctx, lottery.ID, "0xbuyer", 3))

	holding, err = repo.GetHolding(ctx, lottery.ID, "0xbuyer")
	require.NoError(t, err)
	require.NotNil(t, holding)
	assert.Equal(t, int64(8), holding.Amount)
	assert.Equal(t, lottery.ID, holding.LotteryID)
	assert.Equal(t, "0xbuyer", holding.Holder)
}

func TestWonkaBarRepository_Burn(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	lotteryRepo := NewLotteryRepository(testDB.DB)
	repo := NewWonkaBarRepository(testDB.DB)

	lottery := testutil.CreateTestLottery("0xowner")
	require.NoError(t, lotteryRepo.Create(ctx, lottery))
	require.NoError(t, repo.AddToHolding(ctx, lottery.ID, "0xbuyer", 10))

	// Partial burn leaves the remainder
	require.NoError(t, repo.BurnFromHolding(ctx, lottery.ID, "0xbuyer", 4))

	holding, err := repo.GetHolding(ctx, lottery.ID, "0xbuyer")
	require.NoError(t, err)
	require.NotNil(t, holding)
	assert.Equal(t, int64(6), holding.Amount)

	// Burning more than the balance fails without touching the row
	err = repo.BurnFromHolding(ctx, lottery.ID, "0xbuyer", 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrUnauthorized)

	holding, err = repo.GetHolding(ctx, lottery.ID, "0xbuyer")
	require.NoError(t, err)
	require.NotNil(t, holding)
	assert.Equal(t, int64(6), holding.Amount)

	// Burning to zero removes the row entirely
	require.NoError(t, repo.BurnFromHolding(ctx, lottery.ID, "0xbuyer", 6))

	holding, err = repo.GetHolding(ctx, lottery.ID, "0xbuyer")
	require.NoError(t, err)
	assert.Nil(t, holding)
}

func TestWonkaBarRepository_ListHoldingsKeepsInsertionOrder(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	lotteryRepo := NewLotteryRepository(testDB.DB)
	repo := NewWonkaBarRepository(testDB.DB)

	lottery := testutil.CreateTestLottery("0xowner")
	require.NoError(t, lotteryRepo.Create(ctx, lottery))

	require.NoError(t, repo.AddToHolding(ctx, lottery.ID, "0xalice", 3))
	require.NoError(t, repo.AddToHolding(ctx, lottery.ID, "0xbob", 1))
	// A top-up keeps alice in first position
	require.NoError(t, repo.AddToHolding(ctx, lottery.ID, "0xalice", 2))

	holdings, err := repo.ListHoldings(ctx, lottery.ID)
	require.NoError(t, err)
	require.Len(t, holdings, 2)

	assert.Equal(t, "0xalice", holdings[0].Holder)
	assert.Equal(t, int64(5), holdings[0].Amount)
	assert.Equal(t, "0xbob", holdings[1].Holder)
	assert.Equal(t, int64(1), holdings[1].Amount)
}

func TestWonkaBarRepository_OutstandingSupply(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	lotteryRepo := NewLotteryRepository(testDB.DB)
	repo := NewWonkaBarRepository(testDB.DB)

	lottery := testutil.CreateTestLottery("0xowner")
	require.NoError(t, lotteryRepo.Create(ctx, lottery))

	supply, err := repo.OutstandingSupply(ctx, lottery.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), supply)

	require.NoError(t, repo.AddToHolding(ctx, lottery.ID, "0xalice", 3))
	require.NoError(t, repo.AddToHolding(ctx, lottery.ID, "0xbob", 4))
	require.NoError(t, repo.BurnFromHolding(ctx, lottery.ID, "0xbob", 2))

	supply, err = repo.OutstandingSupply(ctx, lottery.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), supply)
}
