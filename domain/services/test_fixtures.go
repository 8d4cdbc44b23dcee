package services

import (
	"time"

	"meltyfi/domain/entities"
	"meltyfi/domain/interfaces"
)

// Shared fixtures for service tests.

const (
	testOwner    = "0xowner"
	testBuyer    = "0xbuyer"
	testTreasury = "treasury-test"
	testVault    = "vault-test"
)

// testSettings returns the engine parameters used across service tests
func testSettings() interfaces.LotterySettings {
	return interfaces.LotterySettings{
		RoyaltyPercent: 5,
		LimitPercent:   25,
		MaxSupplyCap:   10000,
		ChocoChipRate:  1,
		Treasury:       testTreasury,
		Vault:          testVault,
	}
}

// createTestLottery builds an active lottery with sane defaults
func createTestLottery(id int64, opts ...func(*entities.Lottery)) *entities.Lottery {
	lottery := &entities.Lottery{
		ID:            id,
		Owner:         testOwner,
		PrizeContract: "0xprizes",
		PrizeTokenID:  42,
		ExpiresAt:     time.Now().Add(1 * time.Hour),
		State:         entities.LotteryStateActive,
		WonkaBarPrice: 10,
		MaxSupply:     100,
		SoldSupply:    0,
		CreatedAt:     time.Now(),
	}
	for _, opt := range opts {
		opt(lottery)
	}
	return lottery
}

func expired(l *entities.Lottery) {
	l.ExpiresAt = time.Now().Add(-1 * time.Minute)
}

func withState(state entities.LotteryState) func(*entities.Lottery) {
	return func(l *entities.Lottery) {
		l.State = state
	}
}

func withSold(sold int64) func(*entities.Lottery) {
	return func(l *entities.Lottery) {
		l.SoldSupply = sold
	}
}

func withWinner(winner string) func(*entities.Lottery) {
	return func(l *entities.Lottery) {
		l.Winner = &winner
	}
}

func holding(lotteryID int64, holder string, amount int64) *entities.WonkaBarHolding {
	return &entities.WonkaBarHolding{
		LotteryID: lotteryID,
		Holder:    holder,
		Amount:    amount,
	}
}
