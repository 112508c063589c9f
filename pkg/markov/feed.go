package markov

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Feed trains the chain on text. The text is split on whitespace and every
// adjacent pair of words adds one to the weight of the edge between them.
// A word that directly follows a sentence terminator becomes a starter.
// Text with fewer than two words leaves the chain unchanged.
func (c *Chain) Feed(text string) {
	words := strings.Fields(text)
	for i := 0; i+1 < len(words); i++ {
		c.observe(words[i], words[i+1])
	}
	c.logger.Debug("Feed completed",
		slog.Int("words_seen", len(words)),
		slog.Int("vocab_size", c.vocab.len()),
		slog.Int("starter_words", len(c.starters)),
	)
}

// FeedReader trains the chain on the words read from r. Pairs may span line
// breaks, so feeding a reader is equivalent to feeding its whole content as
// one string. On a read error the pairs consumed so far stay applied.
func (c *Chain) FeedReader(r io.Reader) error {
	// maxWordLength keeps a single runaway token from failing the whole feed
	const maxWordLength = 1 << 20

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxWordLength)
	scanner.Split(bufio.ScanWords)

	var prev string
	var havePrev bool
	var pairs int64
	for scanner.Scan() {
		word := scanner.Text()
		if havePrev {
			c.observe(prev, word)
			pairs++
		}
		prev, havePrev = word, true
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reader error after %d pairs: %w", pairs, err)
	}

	c.logger.Info("Training completed",
		slog.Int64("pairs_processed", pairs),
		slog.Int("vocab_size", c.vocab.len()),
		slog.Int("starter_words", len(c.starters)),
	)
	return nil
}

// observe records a single transition current -> next.
func (c *Chain) observe(current, next string) {
	currentIsEnd := isSentenceEnd(current)

	nextIdx, _ := c.vocab.getOrCreate(next)
	if currentIsEnd {
		c.addStarter(nextIdx)
	}

	_, node := c.vocab.getOrCreate(current)
	if currentIsEnd {
		node.sentenceEnd = true
	}
	node.Add(nextIdx)
}
