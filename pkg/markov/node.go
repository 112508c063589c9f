package markov

import "math/rand/v2"

// Source is the random source used for weighted sampling and starter
// selection. *rand.Rand from math/rand/v2 satisfies it. A *rand.Rand is not
// safe for concurrent use, so concurrent generators need one each.
type Source interface {
	IntN(n int) int
}

// globalSource draws from the process-wide generator of math/rand/v2.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Edge is a single outgoing transition of a Node.
type Edge struct {
	Target int
	Weight int
}

// Node holds the outgoing transitions observed after a single word, the sum
// of their weights, and whether the word terminates a sentence.
//
// Edges are kept in the order they were first observed. Weights only ever
// grow; nothing is removed.
type Node struct {
	edges       []Edge
	pos         map[int]int // target -> position in edges
	total       int
	sentenceEnd bool
}

func newNode() *Node {
	return &Node{pos: make(map[int]int)}
}

// Add increments the weight of the edge to target by one, creating it with
// weight one if it does not exist yet.
func (n *Node) Add(target int) {
	n.addWeight(target, 1)
}

func (n *Node) addWeight(target, weight int) {
	n.total += weight
	if i, ok := n.pos[target]; ok {
		n.edges[i].Weight += weight
		return
	}
	n.pos[target] = len(n.edges)
	n.edges = append(n.edges, Edge{Target: target, Weight: weight})
}

// WeightOf returns the weight of the edge to target. The boolean is false if
// no such edge was ever observed.
func (n *Node) WeightOf(target int) (int, bool) {
	i, ok := n.pos[target]
	if !ok {
		return 0, false
	}
	return n.edges[i].Weight, true
}

// Total returns the sum of all edge weights.
func (n *Node) Total() int { return n.total }

// Len returns the number of distinct successors.
func (n *Node) Len() int { return len(n.edges) }

// SentenceEnd reports whether the word owning this node ends a sentence.
func (n *Node) SentenceEnd() bool { return n.sentenceEnd }

// Edges returns a copy of the outgoing edges in first-seen order.
func (n *Node) Edges() []Edge {
	out := make([]Edge, len(n.edges))
	copy(out, n.edges)
	return out
}

// Sample picks a successor with probability weight/total. It returns false
// when the node has no outgoing edges.
func (n *Node) Sample(src Source) (int, bool) {
	if n.total <= 0 {
		return 0, false
	}
	if src == nil {
		src = globalSource{}
	}
	return n.pick(src.IntN(n.total))
}

// pick maps r in [0, total) onto the edge whose sub-interval contains it.
func (n *Node) pick(r int) (int, bool) {
	for _, e := range n.edges {
		r -= e.Weight
		if r < 0 {
			return e.Target, true
		}
	}
	return 0, false
}
