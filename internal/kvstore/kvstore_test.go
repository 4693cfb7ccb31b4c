package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryKVStore_SetGetDelete(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	kv := NewMemoryKVStore(time.Minute)
	defer kv.Close()

	val, err := kv.Get(ctx, "missing")
	require.NoError(err)
	require.Nil(val)

	require.NoError(kv.Set(ctx, "k", []byte("v1"), 0))
	val, err = kv.Get(ctx, "k")
	require.NoError(err)
	require.Equal([]byte("v1"), val)

	// Last write wins.
	require.NoError(kv.Set(ctx, "k", []byte("v2"), 0))
	val, err = kv.Get(ctx, "k")
	require.NoError(err)
	require.Equal([]byte("v2"), val)

	require.NoError(kv.Delete(ctx, "k"))
	val, err = kv.Get(ctx, "k")
	require.NoError(err)
	require.Nil(val)

	// Deleting an absent key is not an error.
	require.NoError(kv.Delete(ctx, "k"))
}

func TestMemoryKVStore_TTLExpiry(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	kv := NewMemoryKVStore(time.Minute)
	defer kv.Close()

	require.NoError(kv.Set(ctx, "short", []byte("x"), 20*time.Millisecond))

	require.Eventually(func() bool {
		val, err := kv.Get(ctx, "short")
		return err == nil && val == nil
	}, time.Second, 10*time.Millisecond, "entry should expire")
}
