package entities

import "errors"

// Sentinel errors for every failure kind the engine reports. Services wrap
// these with fmt.Errorf("%w: ...") context; callers branch with errors.Is.
var (
	// ErrInvalidState - operation illegal for the lottery's current state
	ErrInvalidState = errors.New("invalid lottery state")

	// ErrSupplyExceeded - purchase would exceed max supply
	ErrSupplyExceeded = errors.New("wonka bar supply exceeded")

	// ErrConcentrationLimit - purchase would give one holder too large a share
	ErrConcentrationLimit = errors.New("concentration limit exceeded")

	// ErrInsufficientPayment - attached payment does not cover the operation
	ErrInsufficientPayment = errors.New("insufficient payment")

	// ErrUnauthorized - caller is not the required owner or winner
	ErrUnauthorized = errors.New("unauthorized")

	// ErrCustodyTransferFailed - a collaborator denied an asset or fund movement
	ErrCustodyTransferFailed = errors.New("custody transfer failed")

	// ErrRandomnessNotReady - draw completion attempted before fulfillment
	ErrRandomnessNotReady = errors.New("randomness not ready")

	// ErrNotFound - unknown lottery id or mismatched draw handle
	ErrNotFound = errors.New("not found")
)
