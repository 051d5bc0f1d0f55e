package snippet

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS snippets (
	id            TEXT PRIMARY KEY,
	token_blocks  TEXT NOT NULL,
	verifier_code TEXT NOT NULL,
	query         TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snippets_created_at ON snippets(created_at);
`

// SQLiteConfig contains configuration for the SQLite store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// SQLiteStore implements Store on a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewSQLiteStore opens (creating if needed) the snippet database at
// the configured path and initializes the schema.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "snippet.sqlite")

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening snippet database: %w", err)
	}

	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}

	s := &SQLiteStore{db: db, logger: logger, now: time.Now}
	if err := s.initialize(busy); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("snippet store initialized", "path", cfg.Path)
	return s, nil
}

func (s *SQLiteStore) initialize(busy time.Duration) error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busy.Milliseconds())); err != nil {
		return fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Create stores a snippet and returns it with ID and CreatedAt set.
func (s *SQLiteStore) Create(ctx context.Context, in *Snippet) (*Snippet, error) {
	blocks, err := json.Marshal(in.TokenBlocks)
	if err != nil {
		return nil, fmt.Errorf("encoding token blocks: %w", err)
	}

	stored := *in
	stored.ID = uuid.NewString()
	stored.CreatedAt = s.now().UTC()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snippets (id, token_blocks, verifier_code, query, created_at) VALUES (?, ?, ?, ?, ?)`,
		stored.ID, string(blocks), stored.VerifierCode, stored.Query, stored.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("storing snippet: %w", err)
	}
	return &stored, nil
}

// Get retrieves a snippet by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Snippet, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, token_blocks, verifier_code, query, created_at FROM snippets WHERE id = ?`, id)

	var out Snippet
	var blocks string
	err := row.Scan(&out.ID, &blocks, &out.VerifierCode, &out.Query, &out.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading snippet: %w", err)
	}
	if err := json.Unmarshal([]byte(blocks), &out.TokenBlocks); err != nil {
		return nil, fmt.Errorf("decoding token blocks: %w", err)
	}
	return &out, nil
}

// Prune deletes snippets created before the cutoff.
func (s *SQLiteStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snippets WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning snippets: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("pruned expired snippets", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
