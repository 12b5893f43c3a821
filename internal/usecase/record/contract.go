package record

import (
	"context"
	"time"

	"github.com/kailas-cloud/strdex/internal/domain/filter"
	domrec "github.com/kailas-cloud/strdex/internal/domain/record"
)

// Repository defines the storage contract for string records.
type Repository interface {
	Create(ctx context.Context, rec *domrec.Record) error
	Get(ctx context.Context, id string) (domrec.Record, error)
	Delete(ctx context.Context, id string) error
	Scan(ctx context.Context, match func(domrec.Record) bool) ([]domrec.Record, error)
}

// Translator turns free text into a filter spec.
type Translator interface {
	Translate(text string) (filter.Spec, error)
}

// Clock supplies creation timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
