package markov

import (
	"go/build"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// newTestChain creates a chain and feeds it every text in order.
func newTestChain(t testing.TB, texts ...string) *Chain {
	t.Helper()
	c := NewChain()
	for _, text := range texts {
		c.Feed(text)
	}
	return c
}

// mustWeight fails the test unless first -> second has exactly want weight.
func mustWeight(t *testing.T, c *Chain, first, second string, want int) {
	t.Helper()
	got, ok := c.WeightBetween(first, second)
	if !ok {
		t.Fatalf("WeightBetween(%q, %q): expected an edge, got none", first, second)
	}
	if got != want {
		t.Errorf("WeightBetween(%q, %q) = %d, want %d", first, second, got, want)
	}
}

var (
	benchmarkCorpus string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a corpus for benchmarking.
func createBenchmarkCorpus() string {
	corpusOnce.Do(func() {
		var sb strings.Builder
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = "this is a fallback corpus for benchmarking. it is not very long but will prevent a crash. "
				return
			}
			sb.Write(content)
			sb.WriteString("\n")
		}
		benchmarkCorpus = sb.String()
	})
	return benchmarkCorpus
}
