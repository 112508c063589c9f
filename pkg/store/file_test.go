package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/CTAG07/wordchain/pkg/markov"
)

func TestFileStore(t *testing.T) {
	s := NewFileStore(t.TempDir())
	t.Cleanup(func() { _ = s.Close() })
	exerciseStore(t, s)
}

func TestFileStorePaths(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	if got, want := s.Path("chain.bin"), filepath.Join(dir, "chain.bin"); got != want {
		t.Errorf("Path(chain.bin) = %q, want %q", got, want)
	}
	abs := filepath.Join(t.TempDir(), "elsewhere.bin")
	if got := s.Path(abs); got != abs {
		t.Errorf("Path(%q) = %q, want it unchanged", abs, got)
	}

	c := newChain("a b. c")
	if err := s.Save(context.Background(), abs, c); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}
	if !bytes.Equal(data, markov.ToBytes(c)) {
		t.Error("saved file does not hold the chain snapshot")
	}
}

func TestFileStoreRejectsForeignFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("just some notes"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	_, err := NewFileStore(dir).Load(context.Background(), "notes.txt")
	if !errors.Is(err, markov.ErrInvalidSnapshot) {
		t.Errorf("Load() error = %v, want %v", err, markov.ErrInvalidSnapshot)
	}
}

func TestFileStoreRemove(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(t.TempDir())

	if err := s.Remove(ctx, "gone.bin"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove() on a missing file error = %v, want %v", err, ErrNotFound)
	}
	if err := s.Save(ctx, "gone.bin", newChain("a b")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Remove(ctx, "gone.bin"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := s.Load(ctx, "gone.bin"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() after Remove error = %v, want %v", err, ErrNotFound)
	}
}
