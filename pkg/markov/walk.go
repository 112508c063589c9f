package markov

import "iter"

// stopReason records why a walk ended.
type stopReason int

const (
	stopNone stopReason = iota
	stopTerminator
	stopDeadEnd
	stopMaxLength
	stopUnknownIndex
)

func (s stopReason) String() string {
	switch s {
	case stopTerminator:
		return "terminator"
	case stopDeadEnd:
		return "dead_end"
	case stopMaxLength:
		return "max_length"
	case stopUnknownIndex:
		return "unknown_index"
	default:
		return "running"
	}
}

// Walk lazily produces the words of one generated sentence. Each call to Next
// yields the current word and then samples its successor. A walk ends after
// yielding a terminator, at a word with no successors, or after its maximum
// length. A Walk cannot be restarted and is not safe for concurrent use.
type Walk struct {
	chain     *Chain
	idx       int
	ended     bool
	count     int
	maxLength int
	src       Source
	stop      stopReason
}

// WalkFrom returns a walk starting at word. If word is unknown the walk is
// already exhausted.
func (c *Chain) WalkFrom(word string, opts ...GenerateOption) *Walk {
	options := newGenerateOptions(opts)
	idx, ok := c.vocab.lookup(word)
	w := c.newWalk(idx, options)
	if !ok {
		w.finish(stopUnknownIndex)
	}
	return w
}

func (c *Chain) newWalk(idx int, options *generateOptions) *Walk {
	return &Walk{
		chain:     c,
		idx:       idx,
		maxLength: options.maxLength,
		src:       options.src,
	}
}

func (w *Walk) finish(reason stopReason) {
	w.ended = true
	w.stop = reason
}

// Next returns the next word of the walk. The boolean is false once the walk
// has ended.
func (w *Walk) Next() (string, bool) {
	if w.ended {
		return "", false
	}
	if w.count >= w.maxLength {
		w.finish(stopMaxLength)
		return "", false
	}
	word, node, ok := w.chain.vocab.get(w.idx)
	if !ok {
		w.finish(stopUnknownIndex)
		return "", false
	}
	w.count++

	if isSentenceEnd(word) {
		w.finish(stopTerminator)
		return word, true
	}

	next, ok := node.Sample(w.src)
	if !ok {
		// Dead end: the sentence is cut short here.
		w.finish(stopDeadEnd)
		return word, true
	}
	w.idx = next
	return word, true
}

// All returns an iterator over the remaining words of the walk.
func (w *Walk) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for word, ok := w.Next(); ok; word, ok = w.Next() {
			if !yield(word) {
				return
			}
		}
	}
}

// Len returns how many words the walk has yielded so far.
func (w *Walk) Len() int { return w.count }
