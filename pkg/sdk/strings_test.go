package strdex

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/strdex/internal/domain"
	"github.com/kailas-cloud/strdex/internal/domain/filter"
	domrec "github.com/kailas-cloud/strdex/internal/domain/record"
)

func mustRecord(t *testing.T, value string) domrec.Record {
	t.Helper()
	rec, err := domrec.New(value, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("record.New(%q): %v", value, err)
	}
	return rec
}

func TestStringService_Create(t *testing.T) {
	rec := mustRecord(t, "level")
	mock := &mockStringUC{
		createFn: func(_ context.Context, value string) (domrec.Record, error) {
			if value != "level" {
				t.Errorf("value = %q, want level", value)
			}
			return rec, nil
		},
	}

	svc := &StringService{svc: mock}
	s, err := svc.Create(context.Background(), "level")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID != rec.ID() || s.Value != "level" {
		t.Errorf("String = %+v", s)
	}
	if !s.Properties.IsPalindrome || s.Properties.Length != 5 {
		t.Errorf("Properties = %+v", s.Properties)
	}
	if !s.CreatedAt.Equal(rec.CreatedAt()) {
		t.Errorf("CreatedAt = %v", s.CreatedAt)
	}
}

func TestStringService_Create_Error(t *testing.T) {
	mock := &mockStringUC{
		createFn: func(context.Context, string) (domrec.Record, error) {
			return domrec.Record{}, domain.ErrAlreadyExists
		},
	}

	svc := &StringService{svc: mock}
	if _, err := svc.Create(context.Background(), "x"); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestStringService_Get_NotFound(t *testing.T) {
	mock := &mockStringUC{
		getFn: func(context.Context, string) (domrec.Record, error) {
			return domrec.Record{}, domain.ErrNotFound
		},
	}

	svc := &StringService{svc: mock}
	if _, err := svc.Get(context.Background(), "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStringService_Delete(t *testing.T) {
	var deleted string
	mock := &mockStringUC{
		deleteFn: func(_ context.Context, value string) error {
			deleted = value
			return nil
		},
	}

	svc := &StringService{svc: mock}
	if err := svc.Delete(context.Background(), "bye"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "bye" {
		t.Errorf("deleted = %q", deleted)
	}
}

func TestStringService_List_TranslatesFilter(t *testing.T) {
	var got filter.Spec
	mock := &mockStringUC{
		listFn: func(_ context.Context, spec filter.Spec) ([]domrec.Record, error) {
			got = spec
			return []domrec.Record{mustRecord(t, "banana")}, nil
		},
	}

	svc := &StringService{svc: mock}
	out, err := svc.List(context.Background(), Filter{
		IsPalindrome:      Bool(false),
		MinLength:         Int(6),
		ContainsCharacter: Char("n"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].Value != "banana" {
		t.Errorf("List() = %+v", out)
	}

	m := got.Map()
	if len(m) != 3 || m[filter.KeyIsPalindrome] != false || m[filter.KeyMinLength] != 6 || m[filter.KeyContainsCharacter] != "n" {
		t.Errorf("spec = %v", m)
	}
}

func TestStringService_List_EmptyFilter(t *testing.T) {
	mock := &mockStringUC{
		listFn: func(_ context.Context, spec filter.Spec) ([]domrec.Record, error) {
			if !spec.IsEmpty() {
				t.Errorf("expected empty spec, got %v", spec.Map())
			}
			return nil, nil
		},
	}

	svc := &StringService{svc: mock}
	out, err := svc.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("List() = %v", out)
	}
}

func TestStringService_Search(t *testing.T) {
	mock := &mockStringUC{
		searchFn: func(_ context.Context, text string) ([]domrec.Record, filter.Spec, error) {
			var spec filter.Spec
			spec.SetIsPalindrome(true)
			return []domrec.Record{mustRecord(t, "racecar")}, spec, nil
		},
	}

	svc := &StringService{svc: mock}
	res, err := svc.Search(context.Background(), "palindromes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Strings) != 1 || res.Strings[0].Value != "racecar" {
		t.Errorf("Strings = %+v", res.Strings)
	}
	if res.Filters[filter.KeyIsPalindrome] != true {
		t.Errorf("Filters = %v", res.Filters)
	}
}

func TestStringService_Search_Error(t *testing.T) {
	mock := &mockStringUC{
		searchFn: func(context.Context, string) ([]domrec.Record, filter.Spec, error) {
			return nil, filter.Spec{}, domain.ErrUnparseableQuery
		},
	}

	svc := &StringService{svc: mock}
	if _, err := svc.Search(context.Background(), "???"); !errors.Is(err, ErrUnparseableQuery) {
		t.Fatalf("expected ErrUnparseableQuery, got %v", err)
	}
}
