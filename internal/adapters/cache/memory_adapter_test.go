package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yab-g4u/IDA-sub000/internal/domain/providers"
)

func TestMemoryAdapter_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryAdapter(time.Minute, time.Minute)

	_, err := a.Get(ctx, "missing")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)

	value := []byte(`{"name":"Tabor Pharmacy"}`)
	require.NoError(t, a.Set(ctx, "k", value, 60))
	value[0] = 'X'

	got, err := a.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Tabor Pharmacy"}`, string(got))

	ok, err := a.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, a.Delete(ctx, "k"))
	ok, err = a.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryAdapter_Expiry(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryAdapter(20*time.Millisecond, time.Minute)

	require.NoError(t, a.Set(ctx, "short", []byte("v"), 0))
	assert.Eventually(t, func() bool {
		_, err := a.Get(ctx, "short")
		return err == providers.ErrCacheMiss
	}, time.Second, 10*time.Millisecond)
}

func TestMemoryAdapter_Flush(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryAdapter(time.Minute, time.Minute)
	require.NoError(t, a.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, a.Set(ctx, "b", []byte("2"), 0))
	assert.Equal(t, 2, a.ItemCount())

	a.Flush()
	assert.Zero(t, a.ItemCount())
}
