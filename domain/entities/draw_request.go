package entities

import "time"

// DrawRequest tracks an in-flight randomness request for a lottery. While a
// row exists the lottery is pinned between resolve and draw completion;
// the row is deleted once the draw completes.
type DrawRequest struct {
	ID          int64     `db:"id"`
	LotteryID   int64     `db:"lottery_id"`
	Handle      string    `db:"handle"`
	RequestedAt time.Time `db:"requested_at"`
}
