package chunkstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"darktower-backend/internal/errors"
	"darktower-backend/internal/localgen"
)

// RedisStore persists chunks in redis under chunk:{seed}:{wx}:{wy}.
// Useful when several explorer processes share one generated world.
type RedisStore struct {
	client  *redis.Client
	seed    uint64
	timeout time.Duration
}

// NewRedisStore creates a redis-backed store.
func NewRedisStore(client *redis.Client, seed uint64) *RedisStore {
	return &RedisStore{client: client, seed: seed, timeout: 5 * time.Second}
}

func (s *RedisStore) key(wx, wy int) string {
	return fmt.Sprintf("chunk:%d:%d:%d", s.seed, wx, wy)
}

// Load reads the chunk at (wx, wy), or returns (nil, nil) when absent.
func (s *RedisStore) Load(wx, wy int) (*localgen.LocalChunk, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	data, err := s.client.Get(ctx, s.key(wx, wy)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrChunkIO, "failed to load chunk from redis", err)
	}
	chunk, err := Decode(s.seed, data)
	if err != nil {
		return nil, nil
	}
	return chunk, nil
}

// Save persists a chunk without expiry; generated chunks stay valid for
// the lifetime of the world.
func (s *RedisStore) Save(chunk *localgen.LocalChunk) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	data := Encode(s.seed, chunk)
	if err := s.client.Set(ctx, s.key(chunk.WorldX, chunk.WorldY), data, 0).Err(); err != nil {
		return errors.Wrap(errors.ErrChunkIO, "failed to save chunk to redis", err)
	}
	return nil
}
