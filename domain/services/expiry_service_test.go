package services

import (
	"context"
	"errors"
	"testing"

	"meltyfi/domain/entities"
	"meltyfi/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupExpiryServiceMocks() (
	*testhelpers.MockLotteryRepository,
	*testhelpers.MockWonkaBarRepository,
	*testhelpers.MockDrawRequestRepository,
	*testhelpers.MockPrizeCustodian,
	*testhelpers.MockRandomnessSource,
	*testhelpers.MockEventPublisher,
) {
	return new(testhelpers.MockLotteryRepository),
		new(testhelpers.MockWonkaBarRepository),
		new(testhelpers.MockDrawRequestRepository),
		new(testhelpers.MockPrizeCustodian),
		new(testhelpers.MockRandomnessSource),
		new(testhelpers.MockEventPublisher)
}

func TestExpiryService_CheckExpired(t *testing.T) {
	t.Parallel()

	t.Run("none due", func(t *testing.T) {
		t.Parallel()

		lotteryRepo, wonkaBarRepo, drawRepo, custodian, randomness, publisher := setupExpiryServiceMocks()
		lotteryRepo.On("GetFirstExpiredActive", mock.Anything).Return(nil, nil)

		service := NewExpiryService(testSettings(), lotteryRepo, wonkaBarRepo, drawRepo, custodian, randomness, publisher)
		id, err := service.CheckExpired(context.Background())

		require.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("reports first expired lottery", func(t *testing.T) {
		t.Parallel()

		lotteryRepo, wonkaBarRepo, drawRepo, custodian, randomness, publisher := setupExpiryServiceMocks()
		lotteryRepo.On("GetFirstExpiredActive", mock.Anything).Return(createTestLottery(7, expired), nil)

		service := NewExpiryService(testSettings(), lotteryRepo, wonkaBarRepo, drawRepo, custodian, randomness, publisher)
		id, err := service.CheckExpired(context.Background())

		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, int64(7), *id)
	})
}

func TestExpiryService_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		setup       func(*testhelpers.MockLotteryRepository, *testhelpers.MockDrawRequestRepository, *testhelpers.MockPrizeCustodian, *testhelpers.MockRandomnessSource, *testhelpers.MockEventPublisher)
		wantErr     error
		wantTrashed bool
		wantHandle  string
	}{
		{
			name: "zero sales goes straight to trashed with prize returned",
			setup: func(lotteryRepo *testhelpers.MockLotteryRepository, drawRepo *testhelpers.MockDrawRequestRepository, custodian *testhelpers.MockPrizeCustodian, randomness *testhelpers.MockRandomnessSource, publisher *testhelpers.MockEventPublisher) {
				lotteryRepo.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(createTestLottery(1, expired), nil)
				drawRepo.On("GetByLotteryID", mock.Anything, int64(1)).Return(nil, nil)
				custodian.On("TransferPrize", mock.Anything, "0xprizes", int64(42), testVault, testOwner).Return(nil)
				lotteryRepo.On("Update", mock.Anything, mock.MatchedBy(func(l *entities.Lottery) bool {
					return l.State == entities.LotteryStateTrashed
				})).Return(nil)
				publisher.On("Publish", mock.Anything).Return(nil)
			},
			wantTrashed: true,
		},
		{
			name: "sales trigger a randomness request, no blocking draw",
			setup: func(lotteryRepo *testhelpers.MockLotteryRepository, drawRepo *testhelpers.MockDrawRequestRepository, custodian *testhelpers.MockPrizeCustodian, randomness *testhelpers.MockRandomnessSource, publisher *testhelpers.MockEventPublisher) {
				lotteryRepo.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(createTestLottery(1, expired, withSold(40)), nil)
				drawRepo.On("GetByLotteryID", mock.Anything, int64(1)).Return(nil, nil)
				randomness.On("RequestRandom", mock.Anything).Return("handle-1", nil)
				drawRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *entities.DrawRequest) bool {
					return r.LotteryID == 1 && r.Handle == "handle-1"
				})).Return(nil)
				publisher.On("Publish", mock.Anything).Return(nil)
			},
			wantHandle: "handle-1",
		},
		{
			name: "already resolved lottery fails harmlessly",
			setup: func(lotteryRepo *testhelpers.MockLotteryRepository, drawRepo *testhelpers.MockDrawRequestRepository, custodian *testhelpers.MockPrizeCustodian, randomness *testhelpers.MockRandomnessSource, publisher *testhelpers.MockEventPublisher) {
				lotteryRepo.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(createTestLottery(1, expired, withState(entities.LotteryStateConcluded), withWinner(testBuyer)), nil)
			},
			wantErr: entities.ErrInvalidState,
		},
		{
			name: "not yet expired",
			setup: func(lotteryRepo *testhelpers.MockLotteryRepository, drawRepo *testhelpers.MockDrawRequestRepository, custodian *testhelpers.MockPrizeCustodian, randomness *testhelpers.MockRandomnessSource, publisher *testhelpers.MockEventPublisher) {
				lotteryRepo.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(createTestLottery(1, withSold(40)), nil)
			},
			wantErr: entities.ErrInvalidState,
		},
		{
			name: "pending draw request blocks a second resolve",
			setup: func(lotteryRepo *testhelpers.MockLotteryRepository, drawRepo *testhelpers.MockDrawRequestRepository, custodian *testhelpers.MockPrizeCustodian, randomness *testhelpers.MockRandomnessSource, publisher *testhelpers.MockEventPublisher) {
				lotteryRepo.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(createTestLottery(1, expired, withSold(40)), nil)
				drawRepo.On("GetByLotteryID", mock.Anything, int64(1)).Return(&entities.DrawRequest{ID: 9, LotteryID: 1, Handle: "handle-1"}, nil)
			},
			wantErr: entities.ErrInvalidState,
		},
		{
			name: "unknown lottery",
			setup: func(lotteryRepo *testhelpers.MockLotteryRepository, drawRepo *testhelpers.MockDrawRequestRepository, custodian *testhelpers.MockPrizeCustodian, randomness *testhelpers.MockRandomnessSource, publisher *testhelpers.MockEventPublisher) {
				lotteryRepo.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(nil, nil)
			},
			wantErr: entities.ErrNotFound,
		},
		{
			name: "custody denial aborts the zero-sale path",
			setup: func(lotteryRepo *testhelpers.MockLotteryRepository, drawRepo *testhelpers.MockDrawRequestRepository, custodian *testhelpers.MockPrizeCustodian, randomness *testhelpers.MockRandomnessSource, publisher *testhelpers.MockEventPublisher) {
				lotteryRepo.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(createTestLottery(1, expired), nil)
				drawRepo.On("GetByLotteryID", mock.Anything, int64(1)).Return(nil, nil)
				custodian.On("TransferPrize", mock.Anything, "0xprizes", int64(42), testVault, testOwner).
					Return(errors.New("registry unavailable"))
			},
			wantErr: entities.ErrCustodyTransferFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lotteryRepo, wonkaBarRepo, drawRepo, custodian, randomness, publisher := setupExpiryServiceMocks()
			tt.setup(lotteryRepo, drawRepo, custodian, randomness, publisher)

			service := NewExpiryService(testSettings(), lotteryRepo, wonkaBarRepo, drawRepo, custodian, randomness, publisher)
			result, err := service.Resolve(context.Background(), 1)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, tt.wantTrashed, result.Trashed)
				assert.Equal(t, tt.wantHandle, result.DrawHandle)
				if tt.wantTrashed {
					// Zero-sale resolution never touches the oracle
					randomness.AssertNotCalled(t, "RequestRandom", mock.Anything)
				}
			}

			lotteryRepo.AssertExpectations(t)
			drawRepo.AssertExpectations(t)
			custodian.AssertExpectations(t)
			randomness.AssertExpectations(t)
		})
	}
}

func TestExpiryService_ResolveTwiceIsIdempotent(t *testing.T) {
	t.Parallel()

	lotteryRepo, wonkaBarRepo, drawRepo, custodian, randomness, publisher := setupExpiryServiceMocks()

	lottery := createTestLottery(1, expired)
	lotteryRepo.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(lottery, nil)
	drawRepo.On("GetByLotteryID", mock.Anything, int64(1)).Return(nil, nil)
	custodian.On("TransferPrize", mock.Anything, "0xprizes", int64(42), testVault, testOwner).Return(nil).Once()
	lotteryRepo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
	publisher.On("Publish", mock.Anything).Return(nil)

	service := NewExpiryService(testSettings(), lotteryRepo, wonkaBarRepo, drawRepo, custodian, randomness, publisher)

	result, err := service.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, result.Trashed)

	// Second resolve sees the trashed state and fails with no state change
	_, err = service.Resolve(context.Background(), 1)
	assert.ErrorIs(t, err, entities.ErrInvalidState)

	custodian.AssertNumberOfCalls(t, "TransferPrize", 1)
	lotteryRepo.AssertNumberOfCalls(t, "Update", 1)
}
