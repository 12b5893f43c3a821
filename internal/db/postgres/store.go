// Package postgres implements db.Store as a single key/value table in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/kailas-cloud/strdex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS strdex_kv (
	key   TEXT PRIMARY KEY,
	value BYTEA NOT NULL
);`

var errCharClass = errors.New("character classes are not supported")

// Store implements db.Store over database/sql with the lib/pq driver.
type Store struct {
	db *sql.DB
}

// NewStore opens a connection pool for dsn. The schema is created by EnsureSchema.
func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(20)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(30 * time.Minute)
	return &Store{db: conn}, nil
}

// NewStoreForTest wraps an existing pool, typically a sqlmock connection.
func NewStoreForTest(conn *sql.DB) *Store {
	return &Store{db: conn}
}

// EnsureSchema creates the key/value table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return &db.Error{Op: db.OpSchema, Err: err}
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close closes the pool.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady polls Ping until the database responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT value FROM strdex_kv WHERE key = $1`
	var v []byte
	if err := s.db.QueryRowContext(ctx, q, key).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return v, nil
}

// GetMulti fetches many keys in one query.
func (s *Store) GetMulti(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	const q = `SELECT key, value FROM strdex_kv WHERE key = ANY($1)`
	rows, err := s.db.QueryContext(ctx, q, pq.Array(keys))
	if err != nil {
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	defer rows.Close()

	found := make(map[string][]byte, len(keys))
	for rows.Next() {
		var k string
		var v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return nil, &db.Error{Op: db.OpGet, Err: err}
		}
		found[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}

	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = found[k]
	}
	return out, nil
}

// SetNX inserts the key unless it already exists.
func (s *Store) SetNX(ctx context.Context, key string, value []byte) (bool, error) {
	const q = `INSERT INTO strdex_kv (key, value) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`
	res, err := s.db.ExecContext(ctx, q, key, value)
	if err != nil {
		return false, &db.Error{Op: db.OpSet, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, &db.Error{Op: db.OpSet, Err: err}
	}
	return n == 1, nil
}

// Del deletes a key.
func (s *Store) Del(ctx context.Context, key string) error {
	const q = `DELETE FROM strdex_kv WHERE key = $1`
	if _, err := s.db.ExecContext(ctx, q, key); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// Exists checks if a key exists.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM strdex_kv WHERE key = $1)`
	var ok bool
	if err := s.db.QueryRowContext(ctx, q, key).Scan(&ok); err != nil {
		return false, &db.Error{Op: db.OpExists, Err: err}
	}
	return ok, nil
}

// Scan returns keys matching a glob pattern, translated to LIKE.
func (s *Store) Scan(ctx context.Context, pattern string) ([]string, error) {
	like, err := globToLike(pattern)
	if err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
	}

	const q = `SELECT key FROM strdex_kv WHERE key LIKE $1 ESCAPE '\' ORDER BY key`
	rows, err := s.db.QueryContext(ctx, q, like)
	if err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
	}
	return keys, nil
}

// globToLike converts * and ? to LIKE wildcards and escapes LIKE metacharacters.
func globToLike(pattern string) (string, error) {
	var b strings.Builder
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			writeLiteral(&b, r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '*':
			b.WriteByte('%')
		case r == '?':
			b.WriteByte('_')
		case r == '[':
			return "", errCharClass
		default:
			writeLiteral(&b, r)
		}
	}
	if escaped {
		writeLiteral(&b, '\\')
	}
	return b.String(), nil
}

func writeLiteral(b *strings.Builder, r rune) {
	if r == '%' || r == '_' || r == '\\' {
		b.WriteByte('\\')
	}
	b.WriteRune(r)
}
