package redisclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextSequence(t *testing.T) {
	t.Skip("Integration test - requires Redis")

	client, err := NewClient("localhost:6379", "", 0, "shop-service-test")
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	client.GetClient().Del(ctx, "shop-service-test")

	seq, err := client.NextSequence(ctx, "20260829")
	require.NoError(t, err)
	assert.Equal(t, 0, seq)

	seq, err = client.NextSequence(ctx, "20260829")
	require.NoError(t, err)
	assert.Equal(t, 1, seq)

	// Date change resets the counter.
	seq, err = client.NextSequence(ctx, "20260830")
	require.NoError(t, err)
	assert.Equal(t, 0, seq)

	dateStr, id, err := client.CounterState(ctx)
	require.NoError(t, err)
	assert.Equal(t, "20260830", dateStr)
	assert.Equal(t, 0, id)
}
