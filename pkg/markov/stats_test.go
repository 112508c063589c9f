package markov

import "testing"

func TestStats(t *testing.T) {
	if got := NewChain().Stats(); got != (Stats{}) {
		t.Errorf("empty chain Stats() = %+v, want zero", got)
	}

	c := newTestChain(t, "one fish two fish. red fish blue fish.")
	want := Stats{
		Words:       6, // one fish two fish. red blue
		Edges:       7,
		TotalWeight: 7,
		Starters:    1,
		Terminators: 1,
		DeadEnds:    0,
	}
	if got := c.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}

	c.Feed("blue whale")
	want.Words++
	want.Edges++
	want.TotalWeight++
	want.DeadEnds++
	if got := c.Stats(); got != want {
		t.Errorf("after feed Stats() = %+v, want %+v", got, want)
	}
}
