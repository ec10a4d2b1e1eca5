// internal/store/collections_test.go
package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestLoadInitializesDefaults(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	s := New(kv)

	defaults := []widget{{ID: "w-1", Name: "first"}}
	got := Load(ctx, s, "widgets", defaults)
	assert.Equal(t, defaults, got)

	// The default must now be persisted under the key.
	raw, err := kv.Get(ctx, "widgets")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"w-1","name":"first"}]`, string(raw))
}

func TestLoadRecoversFromCorruptPayload(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	require.NoError(t, kv.Set(ctx, "widgets", []byte("{not json")))
	s := New(kv)

	defaults := []widget{{ID: "w-1"}}
	got := Load(ctx, s, "widgets", defaults)
	assert.Equal(t, defaults, got)

	raw, err := kv.Get(ctx, "widgets")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"w-1","name":""}]`, string(raw))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryStore())

	in := []widget{{ID: "w-1", Name: "a"}, {ID: "w-2", Name: "b"}}
	require.NoError(t, Save(ctx, s, "widgets", in))

	out := Load(ctx, s, "widgets", []widget{})
	assert.Equal(t, in, out)
}

func TestSaveTruncatesOnQuotaExceeded(t *testing.T) {
	ctx := context.Background()
	// Big enough for ten small widgets, too small for forty.
	s := New(NewMemoryStoreWithQuota(400))

	var many []widget
	for i := 0; i < 40; i++ {
		many = append(many, widget{ID: "w", Name: "padding-padding"})
	}
	require.NoError(t, Save(ctx, s, "widgets", many))

	out := Load(ctx, s, "widgets", []widget{})
	assert.Len(t, out, truncateLimit)
}

func TestSaveQuotaExceededNonSlice(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryStoreWithQuota(8))

	big := map[string]widget{"a": {ID: "w-1", Name: "too large to fit"}}
	err := Save(ctx, s, "widgets", big)
	assert.ErrorIs(t, err, ErrStorageFailure)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	s := New(kv)

	require.NoError(t, Save(ctx, s, "widgets", []widget{{ID: "w-1"}}))
	require.NoError(t, s.Remove(ctx, "widgets"))

	_, err := kv.Get(ctx, "widgets")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
