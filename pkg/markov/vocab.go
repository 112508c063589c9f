package markov

// vocabulary interns words. Indices are assigned in insertion order and are
// never reused, so nodes[i] always belongs to words[i].
type vocabulary struct {
	words []string
	nodes []*Node
	index map[string]int
}

func newVocabulary() vocabulary {
	return vocabulary{index: make(map[string]int)}
}

// lookup returns the index of word without inserting it.
func (v *vocabulary) lookup(word string) (int, bool) {
	i, ok := v.index[word]
	return i, ok
}

// getOrCreate returns the index of word, appending it with an empty node if
// it has not been seen before.
func (v *vocabulary) getOrCreate(word string) (int, *Node) {
	if i, ok := v.index[word]; ok {
		return i, v.nodes[i]
	}
	i := len(v.words)
	node := newNode()
	v.words = append(v.words, word)
	v.nodes = append(v.nodes, node)
	v.index[word] = i
	return i, node
}

// get returns the word and node stored at index i.
func (v *vocabulary) get(i int) (string, *Node, bool) {
	if i < 0 || i >= len(v.words) {
		return "", nil, false
	}
	return v.words[i], v.nodes[i], true
}

func (v *vocabulary) len() int { return len(v.words) }
