package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/marketplace-indexer/internal/domain"
)

func TestPGCheckpointStore(t *testing.T) {
	if testDB == nil {
		t.Fatal("Test database not initialized")
	}

	ctx := context.Background()
	checkpoints := NewPGCheckpointStore(initPGTestTx(t))
	key := domain.NewStreamKey(domain.EventCategoryBuy, "ethereum", "0x1111111111111111111111111111111111111111", domain.ContractTypeExchange)

	t.Run("missing checkpoint", func(t *testing.T) {
		_, found, err := checkpoints.GetCheckpoint(ctx, key)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("set and advance", func(t *testing.T) {
		require.NoError(t, checkpoints.SetCheckpoint(ctx, key, 100))

		height, found, err := checkpoints.GetCheckpoint(ctx, key)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, uint64(100), height)

		require.NoError(t, checkpoints.SetCheckpoint(ctx, key, 250))
		height, _, err = checkpoints.GetCheckpoint(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, uint64(250), height)
	})

	t.Run("never moves backwards", func(t *testing.T) {
		require.NoError(t, checkpoints.SetCheckpoint(ctx, key, 120))

		height, _, err := checkpoints.GetCheckpoint(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, uint64(250), height)
	})

	t.Run("streams are independent", func(t *testing.T) {
		other := domain.NewStreamKey(domain.EventCategoryApprove, "ethereum", "0x1111111111111111111111111111111111111111", domain.ContractTypeERC20)
		require.NoError(t, checkpoints.SetCheckpoint(ctx, other, 7))

		height, _, err := checkpoints.GetCheckpoint(ctx, other)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), height)

		height, _, err = checkpoints.GetCheckpoint(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, uint64(250), height)
	})
}
