package strdex

import (
	"context"
	"time"

	"github.com/kailas-cloud/strdex/internal/domain/filter"
	domrec "github.com/kailas-cloud/strdex/internal/domain/record"
)

// String is a stored value with the properties computed when it was created.
type String struct {
	ID         string
	Value      string
	Properties Properties
	CreatedAt  time.Time
}

// Properties are the analysis results for a value.
type Properties struct {
	Length           int
	IsPalindrome     bool
	UniqueCharacters int
	WordCount        int
	SHA256Hash       string
	CharacterFreq    map[string]int
	IsNaturalWord    bool
	VowelCount       int
	ConsonantCount   int
}

// Filter narrows List. Nil fields are not applied; set fields combine with AND.
type Filter struct {
	IsPalindrome      *bool
	IsNatural         *bool
	MinLength         *int
	MaxLength         *int
	WordCount         *int
	ContainsCharacter *string
}

// SearchResult is the outcome of a natural-language query.
type SearchResult struct {
	Strings []String
	Filters map[string]any // the filters the query was understood as
}

// Bool returns a pointer to b, for Filter literals.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n, for Filter literals.
func Int(n int) *int { return &n }

// Char returns a pointer to s, for Filter literals.
func Char(s string) *string { return &s }

// StringService stores, reads and queries strings.
type StringService struct {
	svc stringUseCase
	obs *observer
}

// Create analyzes and stores value. Returns ErrAlreadyExists for a repeat.
func (s *StringService) Create(ctx context.Context, value string) (_ String, err error) {
	start := time.Now()
	defer func() { s.obs.observe("create", start, err) }()

	rec, err := s.svc.Create(ctx, value)
	if err != nil {
		return String{}, err
	}
	return toString(&rec), nil
}

// Get returns the stored record for value.
func (s *StringService) Get(ctx context.Context, value string) (_ String, err error) {
	start := time.Now()
	defer func() { s.obs.observe("get", start, err) }()

	rec, err := s.svc.Get(ctx, value)
	if err != nil {
		return String{}, err
	}
	return toString(&rec), nil
}

// Delete removes value. Returns ErrNotFound if it was never stored.
func (s *StringService) Delete(ctx context.Context, value string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("delete", start, err) }()

	return s.svc.Delete(ctx, value)
}

// List returns strings matching f in creation order.
func (s *StringService) List(ctx context.Context, f Filter) (_ []String, err error) {
	start := time.Now()
	defer func() { s.obs.observe("list", start, err) }()

	recs, err := s.svc.List(ctx, f.spec())
	if err != nil {
		return nil, err
	}
	return toStrings(recs), nil
}

// Search interprets text as filters and returns the matching strings.
func (s *StringService) Search(ctx context.Context, text string) (_ SearchResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search", start, err) }()

	recs, spec, err := s.svc.Search(ctx, text)
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{Strings: toStrings(recs), Filters: spec.Map()}, nil
}

func (f Filter) spec() filter.Spec {
	var spec filter.Spec
	if f.IsPalindrome != nil {
		spec.SetIsPalindrome(*f.IsPalindrome)
	}
	if f.IsNatural != nil {
		spec.SetIsNatural(*f.IsNatural)
	}
	if f.MinLength != nil {
		spec.SetMinLength(*f.MinLength)
	}
	if f.MaxLength != nil {
		spec.SetMaxLength(*f.MaxLength)
	}
	if f.WordCount != nil {
		spec.SetWordCount(*f.WordCount)
	}
	if f.ContainsCharacter != nil {
		spec.SetContainsCharacter(*f.ContainsCharacter)
	}
	return spec
}

func toString(rec *domrec.Record) String {
	p := rec.Properties()
	return String{
		ID:    rec.ID(),
		Value: rec.Value(),
		Properties: Properties{
			Length:           p.Length,
			IsPalindrome:     p.IsPalindrome,
			UniqueCharacters: p.UniqueCharacters,
			WordCount:        p.WordCount,
			SHA256Hash:       p.SHA256Hash,
			CharacterFreq:    p.CharacterFreq,
			IsNaturalWord:    p.IsNaturalWord,
			VowelCount:       p.VowelCount,
			ConsonantCount:   p.ConsonantCount,
		},
		CreatedAt: rec.CreatedAt(),
	}
}

func toStrings(recs []domrec.Record) []String {
	out := make([]String, len(recs))
	for i := range recs {
		out[i] = toString(&recs[i])
	}
	return out
}
