package markov

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"
)

func TestFeed(t *testing.T) {
	c := NewChain()
	for _, w := range []string{"hello", "world", "lizer"} {
		if _, ok := c.IndexOf(w); ok {
			t.Fatalf("IndexOf(%q) on an empty chain: expected not found", w)
		}
	}

	c.Feed("hello world")

	if idx, ok := c.IndexOf("world"); !ok || idx != 0 {
		t.Errorf("IndexOf(world) = %d, %v; want 0, true (next word is interned first)", idx, ok)
	}
	if idx, ok := c.IndexOf("hello"); !ok || idx != 1 {
		t.Errorf("IndexOf(hello) = %d, %v; want 1, true", idx, ok)
	}
	if _, ok := c.IndexOf("lizer"); ok {
		t.Error("IndexOf(lizer): expected not found")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestFeedIndicesAreStable(t *testing.T) {
	c := newTestChain(t, "a b c")
	before := map[string]int{}
	for _, w := range []string{"a", "b", "c"} {
		before[w], _ = c.IndexOf(w)
	}

	c.Feed("c d a b e")

	for w, idx := range before {
		if got, _ := c.IndexOf(w); got != idx {
			t.Errorf("index of %q changed from %d to %d", w, idx, got)
		}
	}
	for i := 0; i < c.Len(); i++ {
		w, ok := c.Word(i)
		if !ok {
			t.Fatalf("Word(%d): expected a word", i)
		}
		if idx, _ := c.IndexOf(w); idx != i {
			t.Errorf("IndexOf(Word(%d)) = %d", i, idx)
		}
	}
	if _, ok := c.Word(c.Len()); ok {
		t.Error("Word(Len()): expected not found")
	}
}

func TestWeights(t *testing.T) {
	c := newTestChain(t,
		"henlo stinky",
		"henlo stinky",
		"henlo lizer",
		"henlo boy",
		"stinky lizer",
		"stinky stinky boy",
		"stinky stinky stinky stinky stinky",
	)
	mustWeight(t, c, "henlo", "stinky", 2)
	mustWeight(t, c, "henlo", "lizer", 1)
	mustWeight(t, c, "henlo", "boy", 1)
	mustWeight(t, c, "stinky", "boy", 1)
	mustWeight(t, c, "stinky", "lizer", 1)
	mustWeight(t, c, "stinky", "stinky", 5)

	node, _ := c.Node(mustIndex(t, c, "stinky"))
	if node.Total() != 7 {
		t.Errorf("stinky total = %d, want 7", node.Total())
	}
}

func TestWeightBetweenAbsent(t *testing.T) {
	c := newTestChain(t, "a b")
	testCases := []struct{ first, second string }{
		{"a", "x"},
		{"x", "b"},
		{"x", "y"},
		{"b", "a"},
		{"a", "a"},
	}
	for _, tc := range testCases {
		if w, ok := c.WeightBetween(tc.first, tc.second); ok {
			t.Errorf("WeightBetween(%q, %q) = %d; expected absent", tc.first, tc.second, w)
		}
	}
}

func TestFeedTwiceDoublesWeights(t *testing.T) {
	text := "the cat sat. the cat ran. a dog sat on the cat."
	once := newTestChain(t, text)
	twice := newTestChain(t, text, text)

	words := strings.Fields(text)
	for i := 0; i+1 < len(words); i++ {
		w1, ok1 := once.WeightBetween(words[i], words[i+1])
		w2, ok2 := twice.WeightBetween(words[i], words[i+1])
		if !ok1 || !ok2 {
			t.Fatalf("pair (%q, %q) missing", words[i], words[i+1])
		}
		if w2 != 2*w1 {
			t.Errorf("pair (%q, %q): twice = %d, want 2*%d", words[i], words[i+1], w2, w1)
		}
	}
}

func TestFeedIncrementsEachPair(t *testing.T) {
	c := newTestChain(t, "x y z. y z")
	before, _ := c.WeightBetween("y", "z")

	c.Feed("y z q")

	after, _ := c.WeightBetween("y", "z")
	if after != before+1 {
		t.Errorf("WeightBetween(y, z) went from %d to %d, want +1", before, after)
	}
	mustWeight(t, c, "z", "q", 1)
}

func TestFeedNoPairs(t *testing.T) {
	for _, text := range []string{"", "   ", "single", "lonely.", "\n\tword\n"} {
		c := newTestChain(t, text)
		if c.Len() != 0 {
			t.Errorf("Feed(%q): Len() = %d, want 0", text, c.Len())
		}
		if len(c.Starters()) != 0 {
			t.Errorf("Feed(%q): expected no starters", text)
		}
	}
}

func TestStarterWords(t *testing.T) {
	c := newTestChain(t, "Hi there. Bob ate.", "Tom ran.")

	want := []string{"Bob"}
	if got := c.Starters(); !reflect.DeepEqual(got, want) {
		t.Errorf("Starters() = %v, want %v", got, want)
	}

	// "ate." and "Tom" are adjacent only when texts are fed together.
	c = newTestChain(t, "Hi there. Bob ate. Tom ran.")
	want = []string{"Bob", "Tom"}
	if got := c.Starters(); !reflect.DeepEqual(got, want) {
		t.Errorf("Starters() = %v, want %v", got, want)
	}
	for _, w := range []string{"Bob", "Tom"} {
		if !c.IsStarter(w) {
			t.Errorf("IsStarter(%q) = false, want true", w)
		}
	}
	for _, w := range []string{"Hi", "there.", "ate.", "ran.", "missing"} {
		if c.IsStarter(w) {
			t.Errorf("IsStarter(%q) = true, want false", w)
		}
	}
}

func TestStartersAreASet(t *testing.T) {
	c := newTestChain(t, "a. b. a. b. a. b.")
	got := c.Starters()
	want := []string{"b.", "a."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Starters() = %v, want %v", got, want)
	}
}

func TestSentenceEndFlag(t *testing.T) {
	c := newTestChain(t, "one two. three")

	node, _ := c.Node(mustIndex(t, c, "two."))
	if !node.SentenceEnd() {
		t.Error("two.: expected sentence end flag")
	}
	node, _ = c.Node(mustIndex(t, c, "one"))
	if node.SentenceEnd() {
		t.Error("one: unexpected sentence end flag")
	}

	c.Feed("two. more")
	node, _ = c.Node(mustIndex(t, c, "two."))
	if !node.SentenceEnd() {
		t.Error("two.: sentence end flag was cleared")
	}
}

func TestNoTerminatorNoStarters(t *testing.T) {
	c := newTestChain(t, "henlo stinky")
	if len(c.Starters()) != 0 {
		t.Errorf("Starters() = %v, want none", c.Starters())
	}
}

func TestFeedReaderMatchesFeed(t *testing.T) {
	text := "one fish two fish.\nred fish\n\nblue fish. one more"
	want := newTestChain(t, text)

	got := NewChain()
	if err := got.FeedReader(strings.NewReader(text)); err != nil {
		t.Fatalf("FeedReader() error = %v", err)
	}

	if !reflect.DeepEqual(got.Exported(), want.Exported()) {
		t.Errorf("FeedReader produced %+v, Feed produced %+v", got.Exported(), want.Exported())
	}
}

func TestFeedReaderError(t *testing.T) {
	boom := errors.New("boom")
	r := io.MultiReader(strings.NewReader("a b c "), iotest.ErrReader(boom))

	c := NewChain()
	err := c.FeedReader(r)
	if !errors.Is(err, boom) {
		t.Fatalf("FeedReader() error = %v, want %v", err, boom)
	}
	mustWeight(t, c, "a", "b", 1)
}

func mustIndex(t testing.TB, c *Chain, word string) int {
	t.Helper()
	idx, ok := c.IndexOf(word)
	if !ok {
		t.Fatalf("IndexOf(%q): expected word to be known", word)
	}
	return idx
}

func BenchmarkFeed(b *testing.B) {
	corpus := createBenchmarkCorpus()
	for _, repeats := range []int{1, 4} {
		b.Run(fmt.Sprintf("Repeat%d", repeats), func(b *testing.B) {
			b.SetBytes(int64(len(corpus) * repeats))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				c := NewChain()
				for range repeats {
					c.Feed(corpus)
				}
			}
		})
	}
}
