package interfaces

import "context"

// PrizeCustodian moves prize assets between the external registry's owners.
// The engine calls it at creation (owner -> vault), repayment and zero-sale
// expiry (vault -> owner), and winner settlement (vault -> winner). A denial
// aborts the whole engine operation.
type PrizeCustodian interface {
	TransferPrize(ctx context.Context, prizeContract string, prizeTokenID int64, from, to string) error
}

// ChocoChipMinter mints reward tokens on the external reward ledger
type ChocoChipMinter interface {
	Mint(ctx context.Context, to string, amount int64) error
}

// PaymentGateway sends payment currency out of the engine: sale royalties,
// owner proceeds, and melt refunds. Incoming payments arrive attached to the
// engine call, so the gateway only ever pays out.
type PaymentGateway interface {
	Transfer(ctx context.Context, to string, amount int64) error
}

// RandomnessSource is the two-phase randomness oracle. RequestRandom returns
// immediately with a handle; fulfillment happens out-of-band, so callers poll
// Fulfilled before reading Value.
type RandomnessSource interface {
	RequestRandom(ctx context.Context) (handle string, err error)
	Fulfilled(ctx context.Context, handle string) (bool, error)
	Value(ctx context.Context, handle string) (int64, error)
}
