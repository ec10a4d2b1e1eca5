// internal/store/memory_test.go
package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	require.NoError(t, m.Set(ctx, "k", []byte(`{"a":1}`)))

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), got)

	require.NoError(t, m.Delete(ctx, "k"))
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStoreGetMissingKey(t *testing.T) {
	m := NewMemoryStore()
	_, err := m.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	payload := []byte("original")
	require.NoError(t, m.Set(ctx, "k", payload))
	payload[0] = 'X'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got)

	got[0] = 'Y'
	again, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}

func TestMemoryStoreQuota(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStoreWithQuota(10)

	require.NoError(t, m.Set(ctx, "a", []byte("12345")))
	assert.ErrorIs(t, m.Set(ctx, "b", []byte("1234567890")), ErrQuotaExceeded)

	// Overwriting the existing key is measured against the new size.
	assert.NoError(t, m.Set(ctx, "a", []byte("1234567890")))
}
