package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAbsentKey(t *testing.T) {
	s := NewMemoryStore()

	value, ok, err := s.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestMemoryStoreSetOverwrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "models", `[{"id":"a"}]`))
	require.NoError(t, s.Set(ctx, "models", `[{"id":"b"}]`))

	value, ok, err := s.Get(ctx, "models")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"b"}]`, value)
}

func TestMemoryStoreKeysAreIndependent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "models", "[]"))

	_, ok, err := s.Get(ctx, "dealers")
	require.NoError(t, err)
	assert.False(t, ok)
}
