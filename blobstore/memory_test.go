package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	src := []byte("hello")
	require.NoError(t, store.Put(ctx, "a/one", src))
	require.NoError(t, store.Put(ctx, "b/two", []byte("world")))
	src[0] = 'j'

	got, err := ReadAll(ctx, store, "a/one")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	names, err := store.List(ctx, "a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/one"}, names)
	assert.Equal(t, 2, store.Len())

	require.NoError(t, store.Delete(ctx, "a/one"))
	_, err = store.Open(ctx, "a/one")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFaultyStore(t *testing.T) {
	ctx := context.Background()
	store := NewFaultyStore(NewMemoryStore())
	store.AddRule("_us_", Fault{FailPut: true})
	store.AddRule("locked", Fault{FailOpen: true, FailDelete: true})

	require.NoError(t, store.Put(ctx, "cube_mm_quant.obj", []byte("ok")))
	assert.ErrorIs(t, store.Put(ctx, "cube_us_quant.obj", []byte("no")), ErrInjected)
	assert.Equal(t, 1, store.Puts())

	require.NoError(t, store.Put(ctx, "locked.obj", []byte("x")))
	_, err := store.Open(ctx, "locked.obj")
	assert.ErrorIs(t, err, ErrInjected)
	assert.ErrorIs(t, store.Delete(ctx, "locked.obj"), ErrInjected)
}
