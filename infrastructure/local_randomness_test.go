package infrastructure

import (
	"context"
	"testing"
	"time"

	"meltyfi/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRandomnessSource_InstantFulfillment(t *testing.T) {
	ctx := context.Background()
	source := NewLocalRandomnessSource(0)

	handle, err := source.RequestRandom(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, handle)

	fulfilled, err := source.Fulfilled(ctx, handle)
	require.NoError(t, err)
	assert.True(t, fulfilled)

	value, err := source.Value(ctx, handle)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, value, int64(0))
}

func TestLocalRandomnessSource_DelayedFulfillment(t *testing.T) {
	ctx := context.Background()
	source := NewLocalRandomnessSource(time.Hour)

	handle, err := source.RequestRandom(ctx)
	require.NoError(t, err)

	fulfilled, err := source.Fulfilled(ctx, handle)
	require.NoError(t, err)
	assert.False(t, fulfilled)

	_, err = source.Value(ctx, handle)
	assert.ErrorIs(t, err, entities.ErrRandomnessNotReady)
}

func TestLocalRandomnessSource_UnknownHandle(t *testing.T) {
	ctx := context.Background()
	source := NewLocalRandomnessSource(0)

	_, err := source.Fulfilled(ctx, "no-such-handle")
	assert.ErrorIs(t, err, entities.ErrNotFound)

	_, err = source.Value(ctx, "no-such-handle")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestLocalRandomnessSource_HandlesAreUnique(t *testing.T) {
	ctx := context.Background()
	source := NewLocalRandomnessSource(0)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		handle, err := source.RequestRandom(ctx)
		require.NoError(t, err)
		require.False(t, seen[handle])
		seen[handle] = true
	}
}
