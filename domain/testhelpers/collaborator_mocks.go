package testhelpers

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPrizeCustodian is a mock implementation of PrizeCustodian
type MockPrizeCustodian struct {
	mock.Mock
}

func (m *MockPrizeCustodian) TransferPrize(ctx context.Context, prizeContract string, prizeTokenID int64, from, to string) error {
	args := m.Called(ctx, prizeContract, prizeTokenID, from, to)
	return args.Error(0)
}

// MockChocoChipMinter is a mock implementation of ChocoChipMinter
type MockChocoChipMinter struct {
	mock.Mock
}

func (m *MockChocoChipMinter) Mint(ctx context.Context, to string, amount int64) error {
	args := m.Called(ctx, to, amount)
	return args.Error(0)
}

// MockPaymentGateway is a mock implementation of PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) Transfer(ctx context.Context, to string, amount int64) error {
	args := m.Called(ctx, to, amount)
	return args.Error(0)
}

// MockRandomnessSource is a mock implementation of RandomnessSource
type MockRandomnessSource struct {
	mock.Mock
}

func (m *MockRandomnessSource) RequestRandom(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockRandomnessSource) Fulfilled(ctx context.Context, handle string) (bool, error) {
	args := m.Called(ctx, handle)
	return args.Bool(0), args.Error(1)
}

func (m *MockRandomnessSource) Value(ctx context.Context, handle string) (int64, error) {
	args := m.Called(ctx, handle)
	return args.Get(0).(int64), args.Error(1)
}
