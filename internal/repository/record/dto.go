package record

import (
	"time"

	"github.com/kailas-cloud/strdex/internal/domain/analysis"
	domrec "github.com/kailas-cloud/strdex/internal/domain/record"
)

// recordDTO is the stored JSON layout of a record.
type recordDTO struct {
	ID         string        `json:"id"`
	Value      string        `json:"value"`
	Properties propertiesDTO `json:"properties"`
	CreatedAt  time.Time     `json:"created_at"`
}

type propertiesDTO struct {
	Length           int            `json:"length"`
	IsPalindrome     bool           `json:"is_palindrome"`
	UniqueCharacters int            `json:"unique_characters"`
	WordCount        int            `json:"word_count"`
	SHA256Hash       string         `json:"sha256_hash"`
	CharacterFreq    map[string]int `json:"character_frequency_map"`
	IsNaturalWord    bool           `json:"is_natural_word"`
	VowelCount       int            `json:"vowel_count"`
	ConsonantCount   int            `json:"consonant_count"`
}

func toDTO(r *domrec.Record) recordDTO {
	p := r.Properties()
	return recordDTO{
		ID:    r.ID(),
		Value: r.Value(),
		Properties: propertiesDTO{
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
		CreatedAt: r.CreatedAt(),
	}
}

func fromDTO(d recordDTO) domrec.Record {
	freq := d.Properties.CharacterFreq
	if freq == nil {
		freq = map[string]int{}
	}
	return domrec.Reconstruct(d.ID, d.Value, analysis.Properties{
		Length:           d.Properties.Length,
		IsPalindrome:     d.Properties.IsPalindrome,
		UniqueCharacters: d.Properties.UniqueCharacters,
		WordCount:        d.Properties.WordCount,
		SHA256Hash:       d.Properties.SHA256Hash,
		CharacterFreq:    freq,
		IsNaturalWord:    d.Properties.IsNaturalWord,
		VowelCount:       d.Properties.VowelCount,
		ConsonantCount:   d.Properties.ConsonantCount,
	}, d.CreatedAt.UTC())
}
