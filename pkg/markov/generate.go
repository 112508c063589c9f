package markov

import (
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
)

// DefaultMaxLength is the number of words after which a walk stops if it has
// not reached a terminator or a dead end.
const DefaultMaxLength = 100

// generateOptions is used by the generate functions to configure default options.
type generateOptions struct {
	maxLength int
	src       Source
}

// GenerateOption is a function that configures generation parameters. It's used
// as a variadic argument in Generate, GenerateFrom and WalkFrom.
type GenerateOption func(*generateOptions)

// WithMaxLength sets the maximum number of words a walk yields. Chains whose
// cycles never reach a terminator would otherwise walk forever. Values below
// one keep the default.
func WithMaxLength(n int) GenerateOption {
	return func(o *generateOptions) {
		if n > 0 {
			o.maxLength = n
		}
	}
}

// WithSource sets the random source used for starter selection and weighted
// sampling. The default is the process-wide generator.
func WithSource(src Source) GenerateOption {
	return func(o *generateOptions) {
		if src != nil {
			o.src = src
		}
	}
}

// WithSeed is a convenience wrapper around WithSource that uses a PCG
// generator seeded with seed, making generation reproducible.
func WithSeed(seed uint64) GenerateOption {
	return WithSource(rand.New(rand.NewPCG(seed, seed)))
}

func newGenerateOptions(opts []GenerateOption) *generateOptions {
	options := &generateOptions{
		maxLength: DefaultMaxLength,
		src:       globalSource{},
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Generate builds a sentence starting from a starter word chosen uniformly at
// random. It returns ErrNoStarters if the chain has none.
func (c *Chain) Generate(opts ...GenerateOption) (string, error) {
	return c.GenerateFrom("", opts...)
}

// GenerateFrom builds a sentence starting at word. If word is empty or
// unknown it behaves like Generate.
func (c *Chain) GenerateFrom(word string, opts ...GenerateOption) (string, error) {
	options := newGenerateOptions(opts)

	start, ok := c.vocab.lookup(word)
	if !ok {
		var err error
		if start, err = c.randomStarter(options.src); err != nil {
			return "", err
		}
	}

	walk := c.newWalk(start, options)
	words := slices.Collect(walk.All())

	c.logger.Debug("Sentence generated",
		slog.String("start_word", c.vocab.words[start]),
		slog.Int("generated_length", walk.count),
		slog.String("stop_reason", walk.stop.String()),
	)
	return strings.Join(words, " "), nil
}
