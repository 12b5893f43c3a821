package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/strdex/internal/db"
	"github.com/kailas-cloud/strdex/internal/domain"
	domrec "github.com/kailas-cloud/strdex/internal/domain/record"
)

const scanBatch = 100

// store is the consumer interface for string records (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	GetMulti(ctx context.Context, keys []string) ([][]byte, error)
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/record.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a record repository. An empty prefix falls back to domain.DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Create stores rec unless a record with the same id already exists.
func (r *Repo) Create(ctx context.Context, rec *domrec.Record) error {
	data, err := json.Marshal(toDTO(rec))
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	key := r.key(rec.ID())
	stored, err := r.store.SetNX(ctx, key, data)
	if err != nil {
		return fmt.Errorf("setnx %s: %w", key, err)
	}
	if !stored {
		return domain.ErrAlreadyExists
	}
	return nil
}

// Get returns the record stored under id.
func (r *Repo) Get(ctx context.Context, id string) (domrec.Record, error) {
	key := r.key(id)
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domrec.Record{}, domain.ErrNotFound
		}
		return domrec.Record{}, fmt.Errorf("get %s: %w", key, err)
	}
	return decode(key, raw)
}

// Delete removes the record stored under id.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.key(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// Scan returns every stored record for which match returns true. Records
// deleted between listing keys and fetching them are skipped.
func (r *Repo) Scan(ctx context.Context, match func(domrec.Record) bool) ([]domrec.Record, error) {
	pattern := r.prefix + "string:*"
	keys, err := r.store.Scan(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", pattern, err)
	}

	var out []domrec.Record
	for start := 0; start < len(keys); start += scanBatch {
		end := min(start+scanBatch, len(keys))
		batch := keys[start:end]

		values, err := r.store.GetMulti(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("get batch: %w", err)
		}
		for i, raw := range values {
			if raw == nil {
				continue
			}
			rec, err := decode(batch[i], raw)
			if err != nil {
				return nil, err
			}
			if match == nil || match(rec) {
				out = append(out, rec)
			}
		}
	}
	return out, nil
}

func (r *Repo) key(id string) string {
	return r.prefix + "string:" + id
}

func decode(key string, raw []byte) (domrec.Record, error) {
	var d recordDTO
	if err := json.Unmarshal(raw, &d); err != nil {
		return domrec.Record{}, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return fromDTO(d), nil
}
