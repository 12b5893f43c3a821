// Package memory implements db.Store in process memory for local runs and tests.
package memory

import (
	"context"
	"errors"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/kailas-cloud/strdex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

var errClosed = errors.New("store closed")

// Store keeps all keys in a map guarded by a RWMutex. Values are copied on
// the way in and out.
type Store struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Ping reports an error once the store is closed.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return &db.Error{Op: db.OpPing, Err: errClosed}
	}
	return nil
}

// Close marks the store closed. Data stays readable.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// WaitForReady returns immediately; an open in-memory store is always ready.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// Get retrieves a value by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return clone(v), nil
}

// GetMulti fetches many keys under one read lock.
func (s *Store) GetMulti(_ context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([][]byte, len(keys))
	for i, k := range keys {
		if v, ok := s.data[k]; ok {
			out[i] = clone(v)
		}
	}
	return out, nil
}

// SetNX stores value only if key is absent.
func (s *Store) SetNX(_ context.Context, key string, value []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	s.data[key] = clone(value)
	return true, nil
}

// Del deletes a key. Deleting a missing key is not an error.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// Exists checks if a key exists.
func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	_, ok := s.data[key]
	s.mu.RUnlock()
	return ok, nil
}

// Scan returns keys matching a glob pattern in lexical order.
func (s *Store) Scan(_ context.Context, pattern string) ([]string, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
	}

	s.mu.RLock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if ok, _ := path.Match(pattern, k); ok {
			keys = append(keys, k)
		}
	}
	s.mu.RUnlock()

	sort.Strings(keys)
	return keys, nil
}

func clone(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
