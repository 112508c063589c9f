// Command wordchain trains word-transition chains from text files and
// generates sentences from them.
package main

import (
	"os"

	"github.com/charmbracelet/log"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error("wordchain failed", "error", err)
		os.Exit(1)
	}
}
