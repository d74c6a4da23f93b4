package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := &memoryStore{revoked: map[string]time.Time{}, now: func() time.Time { return now }}

	require.NoError(t, store.Revoke(ctx, "s1", now.Add(time.Hour)))
	require.NoError(t, store.Revoke(ctx, "expirada", now.Add(-time.Minute)))

	revoked, err := store.IsRevoked(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "expirada")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = store.IsRevoked(ctx, "desconhecida")
	require.NoError(t, err)
	assert.False(t, revoked)

	// depois da expiração a sessão some do armazenamento
	now = now.Add(2 * time.Hour)
	revoked, err = store.IsRevoked(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Empty(t, store.revoked)
}
