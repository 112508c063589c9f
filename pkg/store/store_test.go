package store

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/CTAG07/wordchain/pkg/markov"
)

func newChain(texts ...string) *markov.Chain {
	c := markov.NewChain()
	for _, text := range texts {
		c.Feed(text)
	}
	return c
}

// assertSameChain compares chains through their canonical snapshot bytes.
func assertSameChain(t *testing.T, got, want *markov.Chain) {
	t.Helper()
	if !bytes.Equal(markov.ToBytes(got), markov.ToBytes(want)) {
		t.Errorf("chains differ: got %d words, want %d words", got.Len(), want.Len())
	}
}

// exerciseStore runs the behavior every Store must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load(missing) error = %v, want %v", err, ErrNotFound)
	}

	fish := newChain("one fish two fish. red fish blue fish.")
	if err := s.Save(ctx, "fish", fish); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := s.Load(ctx, "fish")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	assertSameChain(t, loaded, fish)

	// Loaded chains are independent copies.
	loaded.Feed("fish. more fish")
	again, err := s.Load(ctx, "fish")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	assertSameChain(t, again, fish)

	// Saving again replaces the stored chain.
	fish.Feed("red herring.")
	if err = s.Save(ctx, "fish", fish); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err = s.Load(ctx, "fish")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	assertSameChain(t, loaded, fish)
	if w, ok := loaded.WeightBetween("red", "herring."); !ok || w != 1 {
		t.Errorf("WeightBetween(red, herring.) = %d, %v; want 1, true", w, ok)
	}

	if out, err := loaded.Generate(); err != nil || out == "" {
		t.Errorf("Generate() = %q, %v; want a sentence", out, err)
	}
}

var _ Store = (*FileStore)(nil)
var _ Store = (*SQLStore)(nil)
