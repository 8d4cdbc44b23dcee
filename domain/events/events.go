package events

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeLotteryCreated     EventType = "lottery_created"
	EventTypeWonkaBarsPurchased EventType = "wonka_bars_purchased"
	EventTypeLotteryCancelled   EventType = "lottery_cancelled"
	EventTypeDrawRequested      EventType = "draw_requested"
	EventTypeLotteryConcluded   EventType = "lottery_concluded"
	EventTypeLotteryTrashed     EventType = "lottery_trashed"
	EventTypeWonkaBarsMelted    EventType = "wonka_bars_melted"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// LotteryCreatedEvent fires when a prize asset enters the vault and its
// lottery opens for WonkaBar sales
type LotteryCreatedEvent struct {
	LotteryID     int64
	Owner         string
	PrizeContract string
	PrizeTokenID  int64
	WonkaBarPrice int64
	MaxSupply     int64
	ExpiresAt     int64 // Unix seconds
}

func (e LotteryCreatedEvent) Type() EventType {
	return EventTypeLotteryCreated
}

// WonkaBarsPurchasedEvent fires on every successful purchase
type WonkaBarsPurchasedEvent struct {
	LotteryID     int64
	Buyer         string
	Amount        int64
	Payment       int64
	RoyaltyPaid   int64
	OwnerProceeds int64
	SoldSupply    int64
}

func (e WonkaBarsPurchasedEvent) Type() EventType {
	return EventTypeWonkaBarsPurchased
}

// LotteryCancelledEvent fires when the owner repays and reclaims the prize
type LotteryCancelledEvent struct {
	LotteryID    int64
	Owner        string
	RepaidAmount int64
	ChocoChips   int64
}

func (e LotteryCancelledEvent) Type() EventType {
	return EventTypeLotteryCancelled
}

// DrawRequestedEvent fires when an expired lottery asks the oracle for randomness
type DrawRequestedEvent struct {
	LotteryID int64
	Handle    string
}

func (e DrawRequestedEvent) Type() EventType {
	return EventTypeDrawRequested
}

// LotteryConcludedEvent fires when the weighted draw completes
type LotteryConcludedEvent struct {
	LotteryID         int64
	Winner            string
	WinningValue      int64
	OutstandingSupply int64
}

func (e LotteryConcludedEvent) Type() EventType {
	return EventTypeLotteryConcluded
}

// LotteryTrashedEvent fires when a lottery reaches its terminal state
type LotteryTrashedEvent struct {
	LotteryID int64
}

func (e LotteryTrashedEvent) Type() EventType {
	return EventTypeLotteryTrashed
}

// WonkaBarsMeltedEvent fires on every settlement burn
type WonkaBarsMeltedEvent struct {
	LotteryID      int64
	Holder         string
	Amount         int64
	Refund         int64
	ChocoChips     int64
	PrizeClaimed   bool
	RemainingTotal int64
}

func (e WonkaBarsMeltedEvent) Type() EventType {
	return EventTypeWonkaBarsMelted
}
