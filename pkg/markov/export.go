package markov

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
)

// ExportedChain is the human-readable representation of a chain, used for
// JSON-based export and import. Indices in edges and starters refer to
// positions in Words.
type ExportedChain struct {
	Words    []ExportedWord `json:"words"`
	Starters []int          `json:"starters"`
}

// ExportedWord is a single vocabulary entry and its outgoing transitions.
type ExportedWord struct {
	Text        string         `json:"text"`
	SentenceEnd bool           `json:"sentence_end,omitempty"`
	Total       int            `json:"total"`
	Edges       []ExportedEdge `json:"edges,omitempty"`
}

// ExportedEdge is the serializable representation of a single transition.
type ExportedEdge struct {
	Target int `json:"target"`
	Weight int `json:"weight"`
}

// Exported returns the exported representation of c.
func (c *Chain) Exported() ExportedChain {
	exported := ExportedChain{
		Words:    make([]ExportedWord, len(c.vocab.words)),
		Starters: make([]int, len(c.starters)),
	}
	for i, word := range c.vocab.words {
		node := c.vocab.nodes[i]
		ew := ExportedWord{
			Text:        word,
			SentenceEnd: node.sentenceEnd,
			Total:       node.total,
		}
		for _, e := range node.edges {
			ew.Edges = append(ew.Edges, ExportedEdge{Target: e.Target, Weight: e.Weight})
		}
		exported.Words[i] = ew
	}
	copy(exported.Starters, c.starters)
	return exported
}

// Export writes c to w as indented JSON. This is useful for inspecting a
// chain or moving it between tools; use MarshalBinary for compact storage.
func (c *Chain) Export(w io.Writer) error {
	exported := c.Exported()

	c.logger.Info("Chain exported",
		slog.Int("words_exported", len(exported.Words)),
		slog.Int("starters_exported", len(exported.Starters)),
	)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exported)
}

// Import reads a chain previously written by Export. Indices are preserved.
// The input is validated as a whole before a chain is returned.
func Import(r io.Reader) (*Chain, error) {
	var imported ExportedChain
	if err := json.NewDecoder(r).Decode(&imported); err != nil {
		return nil, fmt.Errorf("failed to decode json chain: %w", err)
	}
	return imported.Chain()
}

// Chain rebuilds a Chain from the exported representation.
func (e ExportedChain) Chain() (*Chain, error) {
	c := NewChain()
	n := len(e.Words)

	for i, w := range e.Words {
		if !isWord(w.Text) {
			return nil, fmt.Errorf("import consistency error: invalid word %q at index %d", w.Text, i)
		}
		if _, dup := c.vocab.lookup(w.Text); dup {
			return nil, fmt.Errorf("import consistency error: duplicate word %q at index %d", w.Text, i)
		}
		if w.SentenceEnd && !isSentenceEnd(w.Text) {
			return nil, fmt.Errorf("import consistency error: word %q marked as sentence end", w.Text)
		}
		_, node := c.vocab.getOrCreate(w.Text)
		node.sentenceEnd = w.SentenceEnd
		for _, edge := range w.Edges {
			if edge.Target < 0 || edge.Target >= n {
				return nil, fmt.Errorf("import consistency error: edge target %d of %q out of range", edge.Target, w.Text)
			}
			if edge.Weight <= 0 {
				return nil, fmt.Errorf("import consistency error: non-positive weight %d on %q", edge.Weight, w.Text)
			}
			if edge.Weight > math.MaxInt-node.total {
				return nil, fmt.Errorf("import consistency error: weight overflow on %q", w.Text)
			}
			if _, dup := node.pos[edge.Target]; dup {
				return nil, fmt.Errorf("import consistency error: duplicate edge %d on %q", edge.Target, w.Text)
			}
			node.addWeight(edge.Target, edge.Weight)
		}
		if node.total != w.Total {
			return nil, fmt.Errorf("import consistency error: total of %q is %d, edges sum to %d", w.Text, w.Total, node.total)
		}
	}

	for _, idx := range e.Starters {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("import consistency error: starter index %d out of range", idx)
		}
		if _, dup := c.starterSet[idx]; dup {
			return nil, fmt.Errorf("import consistency error: duplicate starter index %d", idx)
		}
		c.addStarter(idx)
	}
	return c, nil
}
