package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/CTAG07/wordchain/pkg/markov"
	"github.com/CTAG07/wordchain/pkg/store"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	configPath string
	chainFile  string
	dbPath     string
	chainName  string
	logLevel   string
	clean      bool

	cfg    *Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "wordchain",
		Short: "Train word chains from text and generate sentences",
		Long: `
Wordchain learns which words follow which in the text you feed it and
generates new sentences by walking those transitions at random.

Chains are kept in a snapshot file (--file) or, by name, in a SQLite
database (--db, --name).
	`,
		Version:           fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "JSON config file, created with defaults if missing")
	flags.StringVarP(&a.chainFile, "file", "f", "", "where to load/store the chain")
	flags.StringVar(&a.dbPath, "db", "", "SQLite database holding named chains; takes precedence over --file")
	flags.StringVar(&a.chainName, "name", "", "chain name inside the database")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.BoolVarP(&a.clean, "clean", "c", false, "start from an empty chain instead of loading one")

	cmd.AddCommand(
		newNewCmd(a),
		newLoadCmd(a),
		newGenerateCmd(a),
		newDebugCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newListCmd(a),
		newRemoveCmd(a),
	)
	return cmd
}

// setup resolves the configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := DefaultConfig()
	if a.configPath != "" {
		var err error
		if cfg, err = LoadConfig(a.configPath); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.ChainFile = a.chainFile
	}
	if flags.Changed("db") {
		cfg.DatabasePath = a.dbPath
	}
	if flags.Changed("name") {
		cfg.ChainName = a.chainName
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := log.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	handler := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "wordchain",
	})

	a.cfg = cfg
	a.logger = slog.New(handler)
	return nil
}

// openStore returns the configured store and the key the chain lives under.
func (a *app) openStore() (store.Store, string, error) {
	if a.cfg.DatabasePath != "" {
		s, err := store.OpenSQLStore(a.cfg.DatabasePath)
		if err != nil {
			return nil, "", err
		}
		s.SetLogger(a.logger)
		return s, a.cfg.ChainName, nil
	}
	s := store.NewFileStore("")
	s.SetLogger(a.logger)
	return s, a.cfg.ChainFile, nil
}

// withStore opens the store for the duration of fn.
func (a *app) withStore(fn func(s store.Store, key string) error) error {
	s, key, err := a.openStore()
	if err != nil {
		return err
	}
	defer func(s store.Store) {
		if err := s.Close(); err != nil {
			a.logger.Warn("Failed to close store", "error", err)
		}
	}(s)
	return fn(s, key)
}

// loadChain loads the configured chain, or returns an empty one with --clean.
func (a *app) loadChain(ctx context.Context, s store.Store, key string) (*markov.Chain, error) {
	var c *markov.Chain
	if a.clean {
		c = markov.NewChain()
	} else {
		var err error
		c, err = s.Load(ctx, key)
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w (run \"wordchain new\" or pass --clean)", err)
		}
		if err != nil {
			return nil, err
		}
	}
	c.SetLogger(a.logger)
	return c, nil
}

// viewChain loads the configured chain read-only and passes it to fn.
func (a *app) viewChain(ctx context.Context, fn func(c *markov.Chain) error) error {
	return a.withStore(func(s store.Store, key string) error {
		c, err := a.loadChain(ctx, s, key)
		if err != nil {
			return err
		}
		return fn(c)
	})
}
