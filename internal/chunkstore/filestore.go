package chunkstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"darktower-backend/internal/errors"
	"darktower-backend/internal/localgen"
)

// FileStore persists chunks under baseDir, one file per chunk, in a
// per-seed subdirectory.
type FileStore struct {
	baseDir string
	seed    uint64
}

// NewFileStore creates a file-backed store rooted at baseDir.
func NewFileStore(baseDir string, seed uint64) *FileStore {
	return &FileStore{baseDir: baseDir, seed: seed}
}

func (s *FileStore) path(wx, wy int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("world-%d", s.seed), fmt.Sprintf("chunk_%d_%d.dat", wx, wy))
}

// Load reads the chunk at (wx, wy), or returns (nil, nil) when absent.
func (s *FileStore) Load(wx, wy int) (*localgen.LocalChunk, error) {
	data, err := os.ReadFile(s.path(wx, wy))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrChunkIO, "failed to read chunk file", err)
	}
	chunk, err := Decode(s.seed, data)
	if err != nil {
		// A corrupt or foreign file is treated as absent; the chunk will
		// be regenerated and the file overwritten.
		log.Warn().Err(err).Int("wx", wx).Int("wy", wy).Msg("Discarding unreadable chunk file")
		return nil, nil
	}
	return chunk, nil
}

// Save writes the chunk atomically (temp file, then rename).
func (s *FileStore) Save(chunk *localgen.LocalChunk) error {
	path := s.path(chunk.WorldX, chunk.WorldY)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrChunkIO, "failed to create chunk directory", err)
	}

	data := Encode(s.seed, chunk)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrChunkIO, "failed to write chunk file", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(errors.ErrChunkIO, "failed to move chunk file into place", err)
	}
	return nil
}
