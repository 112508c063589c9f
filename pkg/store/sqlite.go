package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/CTAG07/wordchain/pkg/markov"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of encoded snapshots an SQLStore
// keeps in memory.
const DefaultCacheSize = 32

// SetupSchema creates the snapshot table in the provided database. It is
// idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	const schemaSnapshots = `
CREATE TABLE IF NOT EXISTS chain_snapshots (
    name TEXT PRIMARY KEY,
    revision TEXT NOT NULL,
    data BLOB NOT NULL,
    word_count INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
`
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaSnapshots); err != nil {
		return fmt.Errorf("could not create schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// Entry describes a stored chain without loading it.
type Entry struct {
	Name      string
	Revision  string // Changes on every Save
	Words     int
	UpdatedAt time.Time
}

// SQLStore keeps named chains in a SQLite database. It is safe for
// concurrent use. Recently loaded or saved snapshots are served from an LRU
// cache, so rows modified behind the store's back may not be observed until
// they are evicted or saved again through the store.
type SQLStore struct {
	db         *sql.DB
	ownsDB     bool
	cache      *lru.Cache[string, []byte]
	stmtLoad   *sql.Stmt
	stmtSave   *sql.Stmt
	stmtList   *sql.Stmt
	stmtRemove *sql.Stmt
	logger     *slog.Logger

	// mu serializes Save and Remove. gen counts them; a Load that missed the
	// cache only fills it if no write happened while it was querying.
	mu  sync.Mutex
	gen uint64

	// afterQuery runs between a cache-miss query and the cache fill in tests.
	afterQuery func()
}

// NewSQLStore returns a store backed by db, which must already have the
// schema from SetupSchema. The caller keeps ownership of db.
func NewSQLStore(db *sql.DB, cacheSize int) (*SQLStore, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("could not create snapshot cache: %w", err)
	}

	stmtLoad, err := db.Prepare(`SELECT data FROM chain_snapshots WHERE name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtSave, err := db.Prepare(`
INSERT INTO chain_snapshots (name, revision, data, word_count, updated_at) VALUES (?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
    revision = excluded.revision,
    data = excluded.data,
    word_count = excluded.word_count,
    updated_at = excluded.updated_at;`)
	if err != nil {
		_ = stmtLoad.Close()
		return nil, err
	}

	stmtList, err := db.Prepare(`SELECT name, revision, word_count, updated_at FROM chain_snapshots ORDER BY name;`)
	if err != nil {
		_ = stmtLoad.Close()
		_ = stmtSave.Close()
		return nil, err
	}

	stmtRemove, err := db.Prepare(`DELETE FROM chain_snapshots WHERE name = ?;`)
	if err != nil {
		_ = stmtLoad.Close()
		_ = stmtSave.Close()
		_ = stmtList.Close()
		return nil, err
	}

	return &SQLStore{
		db:         db,
		cache:      cache,
		stmtLoad:   stmtLoad,
		stmtSave:   stmtSave,
		stmtList:   stmtList,
		stmtRemove: stmtRemove,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// OpenSQLStore opens the database at dataSource, sets up the schema and
// returns a store that closes the database when it is closed.
func OpenSQLStore(dataSource string) (*SQLStore, error) {
	db, err := OpenSQLite(dataSource)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	s, err := NewSQLStore(db, DefaultCacheSize)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}
	s.ownsDB = true
	return s, nil
}

// SetLogger sets the logger for the store. By default, all logs are discarded.
func (s *SQLStore) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Close releases the prepared statements, and the database if the store
// opened it.
func (s *SQLStore) Close() error {
	_ = s.stmtLoad.Close()
	_ = s.stmtSave.Close()
	_ = s.stmtList.Close()
	_ = s.stmtRemove.Close()
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}

// Load returns a fresh copy of the chain stored under name.
func (s *SQLStore) Load(ctx context.Context, name string) (*markov.Chain, error) {
	if data, ok := s.cache.Get(name); ok {
		s.logger.DebugContext(ctx, "Snapshot cache hit", "name", name)
		return markov.FromBytes(data)
	}

	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	var data []byte
	err := s.stmtLoad.QueryRowContext(ctx, name).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to query chain %q: %w", name, err)
	}

	c, err := markov.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode chain %q: %w", name, err)
	}
	if s.afterQuery != nil {
		s.afterQuery()
	}

	s.mu.Lock()
	if s.gen == gen {
		s.cache.Add(name, data)
	}
	s.mu.Unlock()
	s.logger.DebugContext(ctx, "Chain loaded", "name", name, slog.Int("bytes", len(data)), slog.Int("words", c.Len()))
	return c, nil
}

// Save stores c under name, replacing any previous chain with that name.
func (s *SQLStore) Save(ctx context.Context, name string, c *markov.Chain) error {
	data := markov.ToBytes(c)
	revision := uuid.NewString()

	s.mu.Lock()
	_, err := s.stmtSave.ExecContext(ctx, name, revision, data, c.Len(), time.Now().UnixNano())
	s.gen++
	if err != nil {
		s.cache.Remove(name)
		s.mu.Unlock()
		return fmt.Errorf("failed to save chain %q: %w", name, err)
	}
	s.cache.Add(name, data)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Chain saved",
		"name", name,
		"revision", revision,
		slog.Int("bytes", len(data)),
		slog.Int("words", c.Len()),
	)
	return nil
}

// List returns every stored chain, ordered by name.
func (s *SQLStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.stmtList.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list chains: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var entries []Entry
	for rows.Next() {
		var e Entry
		var updated int64
		if err = rows.Scan(&e.Name, &e.Revision, &e.Words, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan chain entry: %w", err)
		}
		e.UpdatedAt = time.Unix(0, updated)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Remove deletes the chain stored under name.
func (s *SQLStore) Remove(ctx context.Context, name string) error {
	s.mu.Lock()
	res, err := s.stmtRemove.ExecContext(ctx, name)
	s.gen++
	s.cache.Remove(name)
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to remove chain %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to remove chain %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	s.logger.InfoContext(ctx, "Chain removed", "name", name)
	return nil
}
