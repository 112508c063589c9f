package markov

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"unicode"
)

// ErrNoStarters is returned when generation has no usable starting word and
// the chain has never observed a word following a sentence terminator.
var ErrNoStarters = errors.New("markov: chain has no starter words")

// isSentenceEnd reports whether word terminates a sentence.
func isSentenceEnd(word string) bool {
	return strings.HasSuffix(word, ".")
}

// isWord reports whether w could have come out of Feed: non-empty and free of
// whitespace.
func isWord(w string) bool {
	return w != "" && strings.IndexFunc(w, unicode.IsSpace) < 0
}

// Chain is a first-order Markov chain over words. It owns the word
// vocabulary, one Node per word, and the set of words that may start a
// generated sentence.
//
// Feed must not be called concurrently with any other method. All other
// methods only read the chain and may run concurrently with each other.
type Chain struct {
	vocab      vocabulary
	starters   []int
	starterSet map[int]struct{}
	logger     *slog.Logger
}

// NewChain returns an empty chain. By default all logs are discarded; see
// SetLogger.
func NewChain() *Chain {
	return &Chain{
		vocab:      newVocabulary(),
		starterSet: make(map[int]struct{}),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger for the Chain. Providing a `log/slog.Logger`
// enables logging for feeding, generation and decoding.
func (c *Chain) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// addStarter records idx as a starter word. Duplicates are ignored.
func (c *Chain) addStarter(idx int) {
	if _, ok := c.starterSet[idx]; ok {
		return
	}
	c.starterSet[idx] = struct{}{}
	c.starters = append(c.starters, idx)
}

// Len returns the number of distinct words in the chain.
func (c *Chain) Len() int {
	return c.vocab.len()
}

// IndexOf returns the stable index assigned to word.
func (c *Chain) IndexOf(word string) (int, bool) {
	return c.vocab.lookup(word)
}

// Word returns the word stored at index.
func (c *Chain) Word(index int) (string, bool) {
	word, _, ok := c.vocab.get(index)
	return word, ok
}

// Node returns the transition table of the word at index.
func (c *Chain) Node(index int) (*Node, bool) {
	_, node, ok := c.vocab.get(index)
	return node, ok
}

// WeightBetween returns how many times second was observed directly after
// first. The boolean is false if either word is unknown or the transition
// was never observed, so a reported weight is always at least one.
func (c *Chain) WeightBetween(first, second string) (int, bool) {
	from, ok := c.vocab.lookup(first)
	if !ok {
		return 0, false
	}
	to, ok := c.vocab.lookup(second)
	if !ok {
		return 0, false
	}
	return c.vocab.nodes[from].WeightOf(to)
}

// IsStarter reports whether word may begin a generated sentence.
func (c *Chain) IsStarter(word string) bool {
	idx, ok := c.vocab.lookup(word)
	if !ok {
		return false
	}
	_, ok = c.starterSet[idx]
	return ok
}

// Starters returns the starter words in the order they were first observed.
func (c *Chain) Starters() []string {
	out := make([]string, len(c.starters))
	for i, idx := range c.starters {
		out[i] = c.vocab.words[idx]
	}
	return out
}

// randomStarter picks uniformly among the distinct starter indices.
func (c *Chain) randomStarter(src Source) (int, error) {
	if len(c.starters) == 0 {
		return 0, ErrNoStarters
	}
	return c.starters[src.IntN(len(c.starters))], nil
}
