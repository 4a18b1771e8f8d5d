package chunkstore

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func miniredisClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisStoreRoundTrip(t *testing.T) {
	client := miniredisClient(t)
	store := NewRedisStore(client, 12345)
	chunk := generatedChunk(t, 12345)

	require.NoError(t, store.Save(chunk))

	loaded, err := store.Load(chunk.WorldX, chunk.WorldY)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.True(t, chunk.Equal(loaded))
}

func TestRedisStoreMissingIsNil(t *testing.T) {
	client := miniredisClient(t)
	store := NewRedisStore(client, 1)

	chunk, err := store.Load(9, 9)
	require.NoError(t, err)
	assert.Nil(t, chunk)
}

func TestRedisStoreKeySeparatesSeeds(t *testing.T) {
	client := miniredisClient(t)
	a := NewRedisStore(client, 1)
	b := NewRedisStore(client, 2)
	chunk := generatedChunk(t, 12345)

	require.NoError(t, a.Save(chunk))

	loaded, err := b.Load(chunk.WorldX, chunk.WorldY)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
