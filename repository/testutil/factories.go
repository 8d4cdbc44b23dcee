package testutil

import (
	"time"

	"meltyfi/domain/entities"
)

// CreateTestLottery creates an active lottery with sensible defaults
func CreateTestLottery(owner string) *entities.Lottery {
	return &entities.Lottery{
		Owner:         owner,
		PrizeContract: "0xprizes",
		PrizeTokenID:  42,
		ExpiresAt:     time.Now().Add(24 * time.Hour),
		State:         entities.LotteryStateActive,
		WonkaBarPrice: 10,
		MaxSupply:     100,
	}
}

// CreateExpiredTestLottery creates an active lottery already past its deadline
func CreateExpiredTestLottery(owner string, soldSupply int64) *entities.Lottery {
	lottery := CreateTestLottery(owner)
	lottery.ExpiresAt = time.Now().Add(-time.Hour)
	lottery.SoldSupply = soldSupply
	return lottery
}
