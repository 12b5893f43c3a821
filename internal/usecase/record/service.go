package record

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/strdex/internal/domain"
	"github.com/kailas-cloud/strdex/internal/domain/filter"
	domrec "github.com/kailas-cloud/strdex/internal/domain/record"
	"github.com/kailas-cloud/strdex/internal/logger"
	"github.com/kailas-cloud/strdex/internal/metrics"
)

// Service stores strings, answers lookups and runs filtered listings.
type Service struct {
	repo          Repository
	translator    Translator
	clock         Clock
	maxValueBytes int
}

// New creates a record service.
func New(repo Repository, translator Translator) *Service {
	return &Service{
		repo:          repo,
		translator:    translator,
		clock:         systemClock{},
		maxValueBytes: domrec.MaxValueSize,
	}
}

// WithClock replaces the wall clock used for created_at.
func (s *Service) WithClock(c Clock) *Service {
	if c != nil {
		s.clock = c
	}
	return s
}

// WithMaxValueBytes lowers the accepted value size. Values above
// domrec.MaxValueSize are ignored.
func (s *Service) WithMaxValueBytes(n int) *Service {
	if n > 0 && n < domrec.MaxValueSize {
		s.maxValueBytes = n
	}
	return s
}

// Create analyzes value and stores it. A value already stored fails with
// domain.ErrAlreadyExists.
func (s *Service) Create(ctx context.Context, value string) (domrec.Record, error) {
	if len(value) > s.maxValueBytes {
		metrics.StringsCreatedTotal.WithLabelValues("invalid").Inc()
		return domrec.Record{}, domain.NewValidationError("value", fmt.Sprintf("exceeds %d bytes", s.maxValueBytes))
	}

	rec, err := domrec.New(value, s.clock.Now())
	if err != nil {
		metrics.StringsCreatedTotal.WithLabelValues("invalid").Inc()
		return domrec.Record{}, err
	}

	if err := s.repo.Create(ctx, &rec); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			metrics.StringsCreatedTotal.WithLabelValues("duplicate").Inc()
		} else {
			metrics.StringsCreatedTotal.WithLabelValues("error").Inc()
		}
		return domrec.Record{}, fmt.Errorf("create record: %w", err)
	}

	metrics.StringsCreatedTotal.WithLabelValues("created").Inc()
	return rec, nil
}

// Get returns the record for value.
func (s *Service) Get(ctx context.Context, value string) (domrec.Record, error) {
	rec, err := s.repo.Get(ctx, domrec.ID(value))
	if err != nil {
		return domrec.Record{}, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// Delete removes the record for value.
func (s *Service) Delete(ctx context.Context, value string) error {
	if err := s.repo.Delete(ctx, domrec.ID(value)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.StringsDeletedTotal.WithLabelValues("not_found").Inc()
		} else {
			metrics.StringsDeletedTotal.WithLabelValues("error").Inc()
		}
		return fmt.Errorf("delete record: %w", err)
	}
	metrics.StringsDeletedTotal.WithLabelValues("deleted").Inc()
	return nil
}

// List returns the records matching spec, oldest first. An empty spec lists everything.
func (s *Service) List(ctx context.Context, spec filter.Spec) ([]domrec.Record, error) {
	if err := spec.Validate(); err != nil {
		metrics.StringQueriesTotal.WithLabelValues(metrics.KindList, outcome(err)).Inc()
		return nil, err
	}
	return s.scan(ctx, metrics.KindList, spec)
}

// Search translates text into a spec and lists the matching records. The
// interpreted spec is returned alongside so callers can echo it.
func (s *Service) Search(ctx context.Context, text string) ([]domrec.Record, filter.Spec, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(text) == "" {
		metrics.StringQueriesTotal.WithLabelValues(metrics.KindNaturalLanguage, "invalid").Inc()
		return nil, filter.Spec{}, domain.NewValidationError("query", "is required")
	}

	spec, err := s.translator.Translate(text)
	if err != nil {
		log.Debug("query not translated", zap.String("query", text), zap.Error(err))
		metrics.StringQueriesTotal.WithLabelValues(metrics.KindNaturalLanguage, outcome(err)).Inc()
		return nil, filter.Spec{}, fmt.Errorf("translate query: %w", err)
	}
	log.Debug("query translated", zap.String("query", text), zap.Any("filters", spec.Map()))

	recs, err := s.scan(ctx, metrics.KindNaturalLanguage, spec)
	if err != nil {
		return nil, filter.Spec{}, err
	}
	return recs, spec, nil
}

func (s *Service) scan(ctx context.Context, kind string, spec filter.Spec) ([]domrec.Record, error) {
	recs, err := s.repo.Scan(ctx, func(r domrec.Record) bool {
		return spec.Matches(r.Value(), r.Properties())
	})
	if err != nil {
		metrics.StringQueriesTotal.WithLabelValues(kind, "error").Inc()
		return nil, fmt.Errorf("scan records: %w", err)
	}

	slices.SortFunc(recs, func(a, b domrec.Record) int {
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID(), b.ID())
	})

	metrics.StringQueriesTotal.WithLabelValues(kind, "ok").Inc()
	metrics.StringQueryResults.WithLabelValues(kind).Observe(float64(len(recs)))
	return recs, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrConflictingFilters):
		return "conflicting"
	case errors.Is(err, domain.ErrUnparseableQuery):
		return "unparseable"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
