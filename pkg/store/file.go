package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/CTAG07/wordchain/pkg/markov"
	"github.com/natefinch/atomic"
)

// FileStore stores each chain in its own file. Names are paths relative to
// the store's directory; absolute names are used as is.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore returns a FileStore rooted at dir. An empty dir resolves
// names against the working directory.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		dir:    dir,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger for the store. By default, all logs are discarded.
func (s *FileStore) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Path returns the file a chain name maps to.
func (s *FileStore) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// Load reads and decodes the snapshot stored under name.
func (s *FileStore) Load(ctx context.Context, name string) (*markov.Chain, error) {
	path := s.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read chain file: %w", err)
	}

	c, err := markov.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	s.logger.DebugContext(ctx, "Chain loaded", "path", path, slog.Int("bytes", len(data)), slog.Int("words", c.Len()))
	return c, nil
}

// Save encodes c and atomically replaces the file stored under name. Readers
// see either the previous snapshot or the new one, never a partial write.
func (s *FileStore) Save(ctx context.Context, name string, c *markov.Chain) error {
	path := s.Path(name)
	data := markov.ToBytes(c)
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write chain file: %w", err)
	}
	s.logger.DebugContext(ctx, "Chain saved", "path", path, slog.Int("bytes", len(data)), slog.Int("words", c.Len()))
	return nil
}

// Remove deletes the file stored under name.
func (s *FileStore) Remove(_ context.Context, name string) error {
	path := s.Path(name)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("failed to remove chain file: %w", err)
	}
	return nil
}

// Close is a no-op; it exists so FileStore satisfies Store.
func (s *FileStore) Close() error { return nil }
