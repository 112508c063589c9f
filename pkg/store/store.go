// Package store persists markov chains as opaque snapshots.
//
// Two backends are provided: FileStore keeps one snapshot file per chain and
// SQLStore keeps named chains in a SQLite database. Both store the bytes
// produced by markov.ToBytes and reject anything markov.FromBytes rejects.
package store

import (
	"context"
	"errors"

	"github.com/CTAG07/wordchain/pkg/markov"
)

// ErrNotFound is returned by Load and Remove when no chain is stored under
// the requested name.
var ErrNotFound = errors.New("store: chain not found")

// Store loads and saves chains by name.
type Store interface {
	Load(ctx context.Context, name string) (*markov.Chain, error)
	Save(ctx context.Context, name string, c *markov.Chain) error
	Remove(ctx context.Context, name string) error
	Close() error
}
