package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/CTAG07/wordchain/pkg/markov"
	"github.com/natefinch/atomic"
)

// Config holds the CLI defaults. Explicitly set flags take precedence.
type Config struct {
	ChainFile    string `json:"chain_file"`
	DatabasePath string `json:"database_path"` // Empty means chains live in ChainFile
	ChainName    string `json:"chain_name"`
	LogLevel     string `json:"log_level"`
	Sentences    int    `json:"sentences"`
	MaxLength    int    `json:"max_length"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		ChainFile:    "wordchain.bin",
		DatabasePath: "",
		ChainName:    "default",
		LogLevel:     "warn",
		Sentences:    5,
		MaxLength:    markov.DefaultMaxLength,
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Defaults are still usable without the file.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.DatabasePath == "" && c.ChainFile == "":
		return errors.New("invalid config: one of chain_file or database_path is required")
	case c.DatabasePath != "" && c.ChainName == "":
		return errors.New("invalid config: chain_name is required with database_path")
	case c.Sentences < 1:
		return fmt.Errorf("invalid config: sentences must be positive, got %d", c.Sentences)
	case c.MaxLength < 1:
		return fmt.Errorf("invalid config: max_length must be positive, got %d", c.MaxLength)
	}
	return nil
}
