package markov

// Stats holds aggregated statistics for a chain.
type Stats struct {
	Words       int // The number of distinct words
	Edges       int // The number of distinct word->word transitions
	TotalWeight int // The sum of all transition weights; the number of pairs fed
	Starters    int // The number of words that can start a sentence
	Terminators int // The number of words flagged as ending a sentence
	DeadEnds    int // The number of words with no outgoing transitions
}

// Stats returns a snapshot of statistics for the chain.
func (c *Chain) Stats() Stats {
	s := Stats{
		Words:    c.vocab.len(),
		Starters: len(c.starters),
	}
	for _, node := range c.vocab.nodes {
		s.Edges += len(node.edges)
		s.TotalWeight += node.total
		if node.sentenceEnd {
			s.Terminators++
		}
		if node.total == 0 {
			s.DeadEnds++
		}
	}
	return s
}
