package runlog

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	log := NewMemory()

	_, ok, err := log.Latest(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	run, err := log.Append(ctx, Entry{Report: "error_summary.csv", Meshes: 3, Failed: 1})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), run)

	run, err = log.Append(ctx, Entry{Report: "error_summary.csv", Meshes: 2})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), run)

	latest, ok, err := log.Latest(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(2), latest.Run)
	assert.Equal(t, 2, latest.Meshes)
}

func TestMemory_ConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	log := NewMemory()

	var wg sync.WaitGroup
	runs := make([]uint64, 16)
	for i := range runs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runs[i], _ = log.Append(ctx, Entry{})
		}()
	}
	wg.Wait()

	seen := make(map[uint64]bool)
	for _, r := range runs {
		assert.False(t, seen[r], "run %d handed out twice", r)
		seen[r] = true
	}
	assert.Len(t, log.Entries(), 16)
}
