// Package analysis computes the descriptive properties stored alongside every string.
//
// A "character" is a Unicode code point. Invalid UTF-8 bytes decode to U+FFFD,
// one replacement character per invalid byte, exactly as a range loop does.
package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// Properties is the fixed set of values derived from a string at creation time.
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

// Analyze derives Properties from value. It is total and has no side effects.
//
// Palindromes are checked by raw case-insensitive reversal: spaces and
// punctuation take part in the comparison, so "A man, a plan" is not one.
func Analyze(value string) Properties {
	runes := []rune(value)

	freq := make(map[string]int)
	allLetters := len(runes) > 0
	var vowels, consonants int

	for _, r := range runes {
		freq[string(r)]++

		if !unicode.IsLetter(r) {
			allLetters = false
			continue
		}
		if isVowel(r) {
			vowels++
		} else {
			consonants++
		}
	}

	return Properties{
		Length:           len(runes),
		IsPalindrome:     isPalindrome(runes),
		UniqueCharacters: len(freq),
		WordCount:        len(strings.Fields(value)),
		SHA256Hash:       Hash(value),
		CharacterFreq:    freq,
		IsNaturalWord:    allLetters,
		VowelCount:       vowels,
		ConsonantCount:   consonants,
	}
}

// Hash returns the lowercase hex SHA-256 digest of the UTF-8 bytes of value.
func Hash(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

func isPalindrome(runes []rune) bool {
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		if unicode.ToLower(runes[i]) != unicode.ToLower(runes[j]) {
			return false
		}
	}
	return true
}

func isVowel(r rune) bool {
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	default:
		return false
	}
}
