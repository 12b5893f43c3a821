// Package filter holds the structured constraints applied when listing strings.
package filter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/strdex/internal/domain"
	"github.com/kailas-cloud/strdex/internal/domain/analysis"
)

// Filter names as they appear in query parameters and echoed responses.
const (
	KeyIsPalindrome      = "is_palindrome"
	KeyIsNatural         = "is_natural"
	KeyMinLength         = "min_length"
	KeyMaxLength         = "max_length"
	KeyWordCount         = "word_count"
	KeyContainsCharacter = "contains_character"
)

// Spec is a set of optional constraints. A nil field places no constraint on
// that dimension; it is never read as false or zero.
type Spec struct {
	isPalindrome      *bool
	isNatural         *bool
	minLength         *int
	maxLength         *int
	wordCount         *int
	containsCharacter *string
}

// SetIsPalindrome constrains the palindrome flag. Setting a key twice keeps the last value.
func (s *Spec) SetIsPalindrome(v bool) { s.isPalindrome = &v }

// SetIsNatural constrains the natural-word flag.
func (s *Spec) SetIsNatural(v bool) { s.isNatural = &v }

// SetMinLength sets an inclusive lower bound on length.
func (s *Spec) SetMinLength(n int) { s.minLength = &n }

// SetMaxLength sets an inclusive upper bound on length.
func (s *Spec) SetMaxLength(n int) { s.maxLength = &n }

// SetWordCount requires an exact word count.
func (s *Spec) SetWordCount(n int) { s.wordCount = &n }

// SetContainsCharacter requires the value to contain c (case-sensitive).
func (s *Spec) SetContainsCharacter(c string) { s.containsCharacter = &c }

// IsPalindrome returns the palindrome constraint.
func (s Spec) IsPalindrome() *bool { return s.isPalindrome }

// IsNatural returns the natural-word constraint.
func (s Spec) IsNatural() *bool { return s.isNatural }

// MinLength returns the lower length bound.
func (s Spec) MinLength() *int { return s.minLength }

// MaxLength returns the upper length bound.
func (s Spec) MaxLength() *int { return s.maxLength }

// WordCount returns the exact word count constraint.
func (s Spec) WordCount() *int { return s.wordCount }

// ContainsCharacter returns the required character.
func (s Spec) ContainsCharacter() *string { return s.containsCharacter }

// IsEmpty reports whether the spec has no constraints.
func (s Spec) IsEmpty() bool {
	return s.isPalindrome == nil && s.isNatural == nil && s.minLength == nil &&
		s.maxLength == nil && s.wordCount == nil && s.containsCharacter == nil
}

// Validate checks the spec for values that can never be satisfied.
func (s Spec) Validate() error {
	for _, c := range []struct {
		key string
		v   *int
	}{
		{KeyMinLength, s.minLength},
		{KeyMaxLength, s.maxLength},
		{KeyWordCount, s.wordCount},
	} {
		if c.v != nil && *c.v < 0 {
			return domain.NewValidationError(c.key, "must be non-negative")
		}
	}
	if s.containsCharacter != nil && utf8.RuneCountInString(*s.containsCharacter) != 1 {
		return domain.NewValidationError(KeyContainsCharacter, "must be exactly one character")
	}
	if s.minLength != nil && s.maxLength != nil && *s.minLength > *s.maxLength {
		return fmt.Errorf("%s %d exceeds %s %d: %w",
			KeyMinLength, *s.minLength, KeyMaxLength, *s.maxLength, domain.ErrConflictingFilters)
	}
	return nil
}

// Matches evaluates every present constraint against value and its stored
// properties, combined with logical AND.
func (s Spec) Matches(value string, p analysis.Properties) bool {
	if s.isPalindrome != nil && p.IsPalindrome != *s.isPalindrome {
		return false
	}
	if s.isNatural != nil && p.IsNaturalWord != *s.isNatural {
		return false
	}
	if s.minLength != nil && p.Length < *s.minLength {
		return false
	}
	if s.maxLength != nil && p.Length > *s.maxLength {
		return false
	}
	if s.wordCount != nil && p.WordCount != *s.wordCount {
		return false
	}
	if s.containsCharacter != nil && !strings.Contains(value, *s.containsCharacter) {
		return false
	}
	return true
}

// Map returns the present constraints keyed by filter name.
func (s Spec) Map() map[string]any {
	m := make(map[string]any)
	if s.isPalindrome != nil {
		m[KeyIsPalindrome] = *s.isPalindrome
	}
	if s.isNatural != nil {
		m[KeyIsNatural] = *s.isNatural
	}
	if s.minLength != nil {
		m[KeyMinLength] = *s.minLength
	}
	if s.maxLength != nil {
		m[KeyMaxLength] = *s.maxLength
	}
	if s.wordCount != nil {
		m[KeyWordCount] = *s.wordCount
	}
	if s.containsCharacter != nil {
		m[KeyContainsCharacter] = *s.containsCharacter
	}
	return m
}
