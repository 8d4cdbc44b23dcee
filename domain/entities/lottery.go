package entities

import (
	"time"
)

// LotteryState represents the lifecycle state of a lottery
type LotteryState string

const (
	// LotteryStateActive - WonkaBars on sale, prize in the vault
	LotteryStateActive LotteryState = "active"
	// LotteryStateCancelled - owner repaid in full, prize returned, holders refundable
	LotteryStateCancelled LotteryState = "cancelled"
	// LotteryStateConcluded - expired with sales, winner drawn
	LotteryStateConcluded LotteryState = "concluded"
	// LotteryStateTrashed - terminal, no outstanding WonkaBars remain
	LotteryStateTrashed LotteryState = "trashed"
)

// Lottery represents a single custodial lottery backed by an escrowed prize asset
type Lottery struct {
	ID               int64        `db:"id"`
	Owner            string       `db:"owner_address"`
	PrizeContract    string       `db:"prize_contract"`
	PrizeTokenID     int64        `db:"prize_token_id"`
	ExpiresAt        time.Time    `db:"expires_at"`
	State            LotteryState `db:"state"`
	WonkaBarPrice    int64        `db:"wonka_bar_price"` // Payment units per WonkaBar
	MaxSupply        int64        `db:"max_supply"`
	SoldSupply       int64        `db:"sold_supply"` // Historical sales, never decreases
	Winner           *string      `db:"winner_address"` // Set iff concluded
	RepaidAmount     int64        `db:"repaid_amount"`   // Escrowed owner repayment
	RefundedAmount   int64        `db:"refunded_amount"` // Paid back out through melts
	PrizeTransferred bool         `db:"prize_transferred"`
	CreatedAt        time.Time    `db:"created_at"`
}

// IsActive returns true while WonkaBars can still be sold
func (l *Lottery) IsActive() bool {
	return l.State == LotteryStateActive
}

// IsExpired returns true once the deadline has passed
func (l *Lottery) IsExpired() bool {
	return time.Now().After(l.ExpiresAt)
}

// IsResolved returns true once the lottery has left the active state
func (l *Lottery) IsResolved() bool {
	return l.State != LotteryStateActive
}

// CanSellWonkaBars returns true if a purchase is currently legal
func (l *Lottery) CanSellWonkaBars() bool {
	return l.IsActive() && !l.IsExpired()
}

// IsMeltable returns true if holders may burn WonkaBars against this lottery
func (l *Lottery) IsMeltable() bool {
	return l.State == LotteryStateCancelled || l.State == LotteryStateConcluded
}

// CanTransitionTo reports whether moving to the target state is a legal
// transition. The graph is one-directional and nothing leaves trashed.
func (l *Lottery) CanTransitionTo(target LotteryState) bool {
	switch l.State {
	case LotteryStateActive:
		return target == LotteryStateCancelled ||
			target == LotteryStateConcluded ||
			target == LotteryStateTrashed
	case LotteryStateCancelled, LotteryStateConcluded:
		return target == LotteryStateTrashed
	default:
		return false
	}
}

// RepaymentDue returns the full amount the owner must repay to cancel
func (l *Lottery) RepaymentDue() int64 {
	return l.SoldSupply * l.WonkaBarPrice
}

// ExceedsConcentration reports whether a holder balance would break the
// anti-whale cap. Pure integer comparison, so it never rounds toward
// acceptance: balance*100 must stay within limitPercent*maxSupply.
func (l *Lottery) ExceedsConcentration(balanceAfter, limitPercent int64) bool {
	return balanceAfter*100 > limitPercent*l.MaxSupply
}

// Conclude records the drawn winner
func (l *Lottery) Conclude(winner string) {
	l.State = LotteryStateConcluded
	l.Winner = &winner
}

// IsWinner returns true if the address is the recorded winner
func (l *Lottery) IsWinner(address string) bool {
	return l.Winner != nil && *l.Winner == address
}
