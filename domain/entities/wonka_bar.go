package entities

import "time"

// WonkaBarHolding is the claim-token balance one holder owns in one lottery.
// Row insertion order (the serial id) fixes the iteration order of the
// weighted draw, so it must never be rewritten in place.
type WonkaBarHolding struct {
	ID        int64     `db:"id"`
	LotteryID int64     `db:"lottery_id"`
	Holder    string    `db:"holder_address"`
	Amount    int64     `db:"amount"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
