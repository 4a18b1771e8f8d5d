package chunkstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darktower-backend/internal/localgen"
	"darktower-backend/internal/overworld"
)

func generatedChunk(t *testing.T, seed uint64) *localgen.LocalChunk {
	t.Helper()
	w := overworld.Generate(64, 32, seed)
	for y := 2; y < w.Height-2; y++ {
		for x := 0; x < w.Width; x++ {
			if !w.Biomes.Get(x, y).IsWater() {
				return localgen.Generate(w, nil, x, y, nil)
			}
		}
	}
	t.Fatal("no land tile")
	return nil
}

func TestCodecRoundTrip(t *testing.T) {
	chunk := generatedChunk(t, 12345)

	data := Encode(12345, chunk)
	decoded, err := Decode(12345, data)
	require.NoError(t, err)

	assert.True(t, chunk.Equal(decoded), "load after save must be identity")
}

func TestDecodeRejectsWrongSeed(t *testing.T) {
	chunk := generatedChunk(t, 12345)

	data := Encode(12345, chunk)
	_, err := Decode(999, data)
	assert.Error(t, err)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(1, []byte{1, 2, 3})
	assert.Error(t, err)

	_, err = Decode(1, make([]byte, 64))
	assert.Error(t, err)
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, 12345)
	chunk := generatedChunk(t, 12345)

	require.NoError(t, store.Save(chunk))

	loaded, err := store.Load(chunk.WorldX, chunk.WorldY)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.True(t, chunk.Equal(loaded))
}

func TestFileStoreMissingIsNil(t *testing.T) {
	store := NewFileStore(t.TempDir(), 1)

	chunk, err := store.Load(5, 5)
	require.NoError(t, err)
	assert.Nil(t, chunk)
}

func TestFileStoreSeparatesSeeds(t *testing.T) {
	dir := t.TempDir()
	a := NewFileStore(dir, 1)
	b := NewFileStore(dir, 2)
	chunk := generatedChunk(t, 12345)

	require.NoError(t, a.Save(chunk))

	loaded, err := b.Load(chunk.WorldX, chunk.WorldY)
	require.NoError(t, err)
	assert.Nil(t, loaded, "a chunk saved for one seed must not load for another")
}
