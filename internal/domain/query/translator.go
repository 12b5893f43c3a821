// Package query translates free-text queries into structured filters using a
// small fixed table of phrase rules.
package query

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/kailas-cloud/strdex/internal/domain"
	"github.com/kailas-cloud/strdex/internal/domain/filter"
)

var firstInt = regexp.MustCompile(`\d+`)

// clause is the text following a matched trigger, both as typed and folded.
type clause struct {
	raw    string
	folded string
}

// rule fires when one of its triggers occurs as a run of words in the folded
// text. With wordEnd unset the last trigger word may be a prefix, so
// "palindrome" also matches "palindromes". apply receives the words after the
// first matching trigger and reports whether it set a filter.
type rule struct {
	name     string
	triggers []string
	wordEnd  bool
	apply    func(rest clause, s *filter.Spec) bool
}

// Translator maps query text to a filter.Spec. The zero value is not usable; use New.
type Translator struct {
	rules []rule
}

// New creates a Translator with the built-in rule table.
func New() *Translator {
	return &Translator{rules: defaultRules()}
}

// Rules returns the rule names in evaluation order.
func (t *Translator) Rules() []string {
	names := make([]string, len(t.rules))
	for i, r := range t.rules {
		names[i] = r.name
	}
	return names
}

// Translate interprets text. Every rule is evaluated independently and fired
// rules compose into one spec; a later rule overwrites a key set by an earlier one.
func (t *Translator) Translate(text string) (filter.Spec, error) {
	var spec filter.Spec

	raw := strings.Fields(text)
	folded := make([]string, len(raw))
	for i, w := range raw {
		f, err := fold(w)
		if err != nil {
			return spec, fmt.Errorf("normalize query: %w", domain.ErrUnparseableQuery)
		}
		folded[i] = f
	}

	fired := false
	for _, r := range t.rules {
		rest, ok := r.match(raw, folded)
		if !ok {
			continue
		}
		if r.apply(rest, &spec) {
			fired = true
		}
	}
	if !fired {
		return spec, fmt.Errorf("%q: %w", text, domain.ErrUnparseableQuery)
	}
	if err := spec.Validate(); err != nil {
		return spec, err
	}
	return spec, nil
}

// Normalize folds text for phrase matching: compatibility decomposition,
// combining marks dropped, recomposed, lower-cased, whitespace collapsed.
func Normalize(text string) (string, error) {
	folded, err := fold(text)
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(folded), " "), nil
}

func fold(text string) (string, error) {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		return "", err
	}
	return strings.ToLower(folded), nil
}

func (r rule) match(raw, folded []string) (clause, bool) {
	for _, tr := range r.triggers {
		tw := strings.Fields(tr)
		for i := 0; i+len(tw) <= len(folded); i++ {
			if !r.matchAt(folded[i:i+len(tw)], tw) {
				continue
			}
			end := i + len(tw)
			return clause{
				raw:    strings.Join(raw[end:], " "),
				folded: strings.Join(folded[end:], " "),
			}, true
		}
	}
	return clause{}, false
}

func (r rule) matchAt(words, trigger []string) bool {
	last := len(trigger) - 1
	for j, w := range trigger {
		switch {
		case j < last || r.wordEnd:
			if words[j] != w {
				return false
			}
		case !strings.HasPrefix(words[j], w):
			return false
		}
	}
	return true
}

func defaultRules() []rule {
	return []rule{
		{
			name:     "palindrome",
			triggers: []string{"palindrome", "palindromic"},
			apply: func(_ clause, s *filter.Spec) bool {
				s.SetIsPalindrome(true)
				return true
			},
		},
		{
			name:     "single word",
			triggers: []string{"single word", "one word"},
			apply: func(_ clause, s *filter.Spec) bool {
				s.SetWordCount(1)
				return true
			},
		},
		{
			name:     "longer than",
			triggers: []string{"longer than"},
			wordEnd:  true,
			apply: func(rest clause, s *filter.Spec) bool {
				n, ok := extractInt(rest.folded)
				if !ok || n == math.MaxInt {
					return false
				}
				s.SetMinLength(n + 1)
				return true
			},
		},
		{
			name:     "shorter than",
			triggers: []string{"shorter than"},
			wordEnd:  true,
			apply: func(rest clause, s *filter.Spec) bool {
				n, ok := extractInt(rest.folded)
				if !ok || n <= 0 {
					return false
				}
				s.SetMaxLength(n - 1)
				return true
			},
		},
		{
			name:     "first vowel",
			triggers: []string{"first vowel"},
			apply: func(_ clause, s *filter.Spec) bool {
				s.SetContainsCharacter("a")
				return true
			},
		},
		{
			name: "contains letter",
			triggers: []string{
				"containing the letter",
				"contain the letter",
				"contains the letter",
				"with the letter",
			},
			wordEnd: true,
			apply: func(rest clause, s *filter.Spec) bool {
				c, ok := extractChar(rest.raw)
				if !ok {
					return false
				}
				s.SetContainsCharacter(c)
				return true
			},
		},
	}
}

func extractInt(rest string) (int, bool) {
	digits := firstInt.FindString(rest)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

func extractChar(rest string) (string, bool) {
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	if rest == "" {
		return "", false
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return string(r), true
}
