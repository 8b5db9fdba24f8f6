package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetgen/domain/core"
	"sheetgen/internal/workbook"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	id := core.NewSessionID()

	_, err := store.Get(ctx, id)
	assert.True(t, core.IsNotFound(err))

	require.NoError(t, store.Save(ctx, id, nil))
	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.Snapshot)
	assert.False(t, got.UpdatedAt.IsZero())

	snap := workbook.BuildFromGrid([][]any{{"a"}}, workbook.DefaultOptions())
	require.NoError(t, store.Save(ctx, id, snap))
	got, err = store.Get(ctx, id)
	require.NoError(t, err)
	assert.Same(t, snap, got.Snapshot)

	require.NoError(t, store.Delete(ctx, id))
	require.NoError(t, store.Delete(ctx, id))
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := core.NewSessionID()
			assert.NoError(t, store.Save(ctx, id, nil))
			_, err := store.Get(ctx, id)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 32, store.Len())
}

func TestMemoryStoreHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewMemoryStore().Save(ctx, core.NewSessionID(), nil), context.Canceled)
}
