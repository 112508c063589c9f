package main

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"text/tabwriter"
	"time"

	"github.com/CTAG07/wordchain/pkg/markov"
	"github.com/CTAG07/wordchain/pkg/store"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

func newNewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Create an empty chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(s store.Store, key string) error {
				if err := s.Save(cmd.Context(), key, markov.NewChain()); err != nil {
					return err
				}
				a.logger.Info("Created empty chain", "chain", key)
				return nil
			})
		},
	}
}

func newLoadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>...",
		Short: "Feed text files to the chain",
		Long: `
Feed the words of each file to the chain and save it. Word pairs never
span two files.
	`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withStore(func(s store.Store, key string) error {
				c, err := a.loadChain(ctx, s, key)
				if err != nil {
					return err
				}
				for _, name := range args {
					if err = feedFile(c, name); err != nil {
						return err
					}
				}
				if err = s.Save(ctx, key, c); err != nil {
					return err
				}
				a.logger.Info("Chain updated", "chain", key, "files", len(args), "words", c.Len())
				return nil
			})
		},
	}
}

func feedFile(c *markov.Chain, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	if err = c.FeedReader(f); err != nil {
		return fmt.Errorf("failed to feed %s: %w", name, err)
	}
	return nil
}

func newGenerateCmd(a *app) *cobra.Command {
	var (
		number    int
		output    string
		seed      uint64
		maxLength int
	)
	cmd := &cobra.Command{
		Use:   "generate [starting word]",
		Short: "Generate random sentences from the chain",
		Long: `
Generate sentences by walking the chain. Each sentence starts from the
given word when the chain knows it, otherwise from a random word that
was seen after the end of a sentence.
	`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("number") {
				a.cfg.Sentences = number
			}
			if cmd.Flags().Changed("max-length") {
				a.cfg.MaxLength = maxLength
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			opts := []markov.GenerateOption{markov.WithMaxLength(a.cfg.MaxLength)}
			if cmd.Flags().Changed("seed") {
				// One source for the whole run, so sentences differ but the run is repeatable.
				opts = append(opts, markov.WithSource(rand.New(rand.NewPCG(seed, seed))))
			}
			var word string
			if len(args) == 1 {
				word = args[0]
			}

			var buf bytes.Buffer
			err := a.viewChain(cmd.Context(), func(c *markov.Chain) error {
				for range a.cfg.Sentences {
					sentence, err := c.GenerateFrom(word, opts...)
					if err != nil {
						return err
					}
					buf.WriteString(sentence)
					buf.WriteByte('\n')
				}
				return nil
			})
			if err != nil {
				return err
			}

			if output != "" {
				if err = atomic.WriteFile(output, &buf); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				a.logger.Info("Sentences written", "path", output, "count", a.cfg.Sentences)
				return nil
			}
			_, err = buf.WriteTo(cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().IntVarP(&number, "number", "n", DefaultConfig().Sentences, "how many sentences to generate")
	cmd.Flags().StringVarP(&output, "output", "o", "", "save the output to a file")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for a reproducible run")
	cmd.Flags().IntVar(&maxLength, "max-length", markov.DefaultMaxLength, "maximum words per sentence")
	return cmd
}

func newDebugCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "debug",
		Short: "Print the whole chain as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.viewChain(cmd.Context(), func(c *markov.Chain) error {
				return c.Export(cmd.OutOrStdout())
			})
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show chain statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.viewChain(cmd.Context(), func(c *markov.Chain) error {
				st := c.Stats()
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(tw, "words\t%d\n", st.Words)
				fmt.Fprintf(tw, "transitions\t%d\n", st.Edges)
				fmt.Fprintf(tw, "pairs fed\t%d\n", st.TotalWeight)
				fmt.Fprintf(tw, "starters\t%d\n", st.Starters)
				fmt.Fprintf(tw, "terminators\t%d\n", st.Terminators)
				fmt.Fprintf(tw, "dead ends\t%d\n", st.DeadEnds)
				return tw.Flush()
			})
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the chain to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.viewChain(cmd.Context(), func(c *markov.Chain) error {
				var buf bytes.Buffer
				if err := c.Export(&buf); err != nil {
					return err
				}
				if err := atomic.WriteFile(args[0], &buf); err != nil {
					return fmt.Errorf("failed to write export: %w", err)
				}
				return nil
			})
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the chain with one read from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open import: %w", err)
			}
			defer func(f *os.File) {
				_ = f.Close()
			}(f)

			c, err := markov.Import(f)
			if err != nil {
				return err
			}
			return a.withStore(func(s store.Store, key string) error {
				if err := s.Save(cmd.Context(), key, c); err != nil {
					return err
				}
				a.logger.Info("Chain imported", "chain", key, "words", c.Len())
				return nil
			})
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the chains stored in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(s store.Store, _ string) error {
				sq, ok := s.(*store.SQLStore)
				if !ok {
					return errors.New("list needs a database, set --db")
				}
				entries, err := sq.List(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tWORDS\tREVISION\tUPDATED")
				for _, e := range entries {
					fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", e.Name, e.Words, e.Revision, e.UpdatedAt.Format(time.RFC3339))
				}
				return tw.Flush()
			})
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Delete the chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(s store.Store, key string) error {
				if err := s.Remove(cmd.Context(), key); err != nil {
					return err
				}
				a.logger.Info("Chain removed", "chain", key)
				return nil
			})
		},
	}
}
