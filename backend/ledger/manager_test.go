package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"project/backend/ledger"
	"project/backend/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerStartRegistersOnlyAfterHydration(t *testing.T) {
	s := store.NewMemoryProgressStore()
	s.QueryErr = errors.New("remote down")
	manager := ledger.NewManager(s, time.Second)

	_, err := manager.Start(context.Background(), testUser, windowStart, []string{"a"})
	require.Error(t, err)
	_, ok := manager.Get(testUser)
	assert.False(t, ok)

	s.QueryErr = nil
	tracker, err := manager.Start(context.Background(), testUser, windowStart, []string{"a"})
	require.NoError(t, err)
	assert.True(t, tracker.Ready())

	got, ok := manager.Get(testUser)
	require.True(t, ok)
	assert.Same(t, tracker, got)
}

func TestManagerStartReplacesSession(t *testing.T) {
	s := store.NewMemoryProgressStore()
	manager := ledger.NewManager(s, time.Second)
	ctx := context.Background()

	first, err := manager.Start(ctx, testUser, windowStart, []string{"a"})
	require.NoError(t, err)
	_, err = first.Toggle(ctx, "2024-01-01", "a")
	require.NoError(t, err)

	// A fresh session re-hydrates from the remote store
	second, err := manager.Start(ctx, testUser, windowStart, []string{"a"})
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.True(t, second.Completed("2024-01-01", "a"))
}
