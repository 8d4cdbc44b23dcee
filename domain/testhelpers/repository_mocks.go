package testhelpers

import (
	"context"

	"meltyfi/domain/entities"
	"meltyfi/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockLotteryRepository is a mock implementation of LotteryRepository
type MockLotteryRepository struct {
	mock.Mock
}

func (m *MockLotteryRepository) Create(ctx context.Context, lottery *entities.Lottery) error {
	args := m.Called(ctx, lottery)
	return args.Error(0)
}

func (m *MockLotteryRepository) GetByID(ctx context.Context, id int64) (*entities.Lottery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Lottery), args.Error(1)
}

func (m *MockLotteryRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Lottery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Lottery), args.Error(1)
}

func (m *MockLotteryRepository) Update(ctx context.Context, lottery *entities.Lottery) error {
	args := m.Called(ctx, lottery)
	return args.Error(0)
}

func (m *MockLotteryRepository) GetFirstExpiredActive(ctx context.Context) (*entities.Lottery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Lottery), args.Error(1)
}

func (m *MockLotteryRepository) ListActive(ctx context.Context) ([]*entities.Lottery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Lottery), args.Error(1)
}

func (m *MockLotteryRepository) ListByOwner(ctx context.Context, owner string) ([]*entities.Lottery, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Lottery), args.Error(1)
}

func (m *MockLotteryRepository) ListByHolder(ctx context.Context, holder string) ([]*entities.Lottery, error) {
	args := m.Called(ctx, holder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Lottery), args.Error(1)
}

// MockWonkaBarRepository is a mock implementation of WonkaBarRepository
type MockWonkaBarRepository struct {
	mock.Mock
}

func (m *MockWonkaBarRepository) GetHolding(ctx context.Context, lotteryID int64, holder string) (*entities.WonkaBarHolding, error) {
	args := m.Called(ctx, lotteryID, holder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WonkaBarHolding), args.Error(1)
}

func (m *MockWonkaBarRepository) AddToHolding(ctx context.Context, lotteryID int64, holder string, amount int64) error {
	args := m.Called(ctx, lotteryID, holder, amount)
	return args.Error(0)
}

func (m *MockWonkaBarRepository) BurnFromHolding(ctx context.Context, lotteryID int64, holder string, amount int64) error {
	args := m.Called(ctx, lotteryID, holder, amount)
	return args.Error(0)
}

func (m *MockWonkaBarRepository) ListHoldings(ctx context.Context, lotteryID int64) ([]*entities.WonkaBarHolding, error) {
	args := m.Called(ctx, lotteryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WonkaBarHolding), args.Error(1)
}

func (m *MockWonkaBarRepository) OutstandingSupply(ctx context.Context, lotteryID int64) (int64, error) {
	args := m.Called(ctx, lotteryID)
	return args.Get(0).(int64), args.Error(1)
}

// MockDrawRequestRepository is a mock implementation of DrawRequestRepository
type MockDrawRequestRepository struct {
	mock.Mock
}

func (m *MockDrawRequestRepository) Create(ctx context.Context, request *entities.DrawRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockDrawRequestRepository) GetByLotteryID(ctx context.Context, lotteryID int64) (*entities.DrawRequest, error) {
	args := m.Called(ctx, lotteryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DrawRequest), args.Error(1)
}

func (m *MockDrawRequestRepository) ListPending(ctx context.Context) ([]*entities.DrawRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.DrawRequest), args.Error(1)
}

func (m *MockDrawRequestRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
