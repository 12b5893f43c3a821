package chi

import "time"

// ErrorCode is the machine-readable error identifier in every error body.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeValidationFailed   ErrorCode = "validation_failed"
	ErrorCodeAlreadyExists      ErrorCode = "already_exists"
	ErrorCodeNotFound           ErrorCode = "not_found"
	ErrorCodeUnparseableQuery   ErrorCode = "unparseable_query"
	ErrorCodeConflictingFilters ErrorCode = "conflicting_filters"
	ErrorCodeRateLimited        ErrorCode = "rate_limited"
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// CreateStringRequest is the body of POST /strings.
type CreateStringRequest struct {
	Value *string `json:"value"`
}

// Properties mirrors analysis.Properties on the wire.
type Properties struct {
	Length                int            `json:"length"`
	IsPalindrome          bool           `json:"is_palindrome"`
	UniqueCharacters      int            `json:"unique_characters"`
	WordCount             int            `json:"word_count"`
	SHA256Hash            string         `json:"sha256_hash"`
	CharacterFrequencyMap map[string]int `json:"character_frequency_map"`
	IsNaturalWord         bool           `json:"is_natural_word"`
	VowelCount            int            `json:"vowel_count"`
	ConsonantCount        int            `json:"consonant_count"`
}

// StringResponse is a stored string with its properties.
type StringResponse struct {
	ID         string     `json:"id"`
	Value      string     `json:"value"`
	Properties Properties `json:"properties"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ListStringsResponse is the body of GET /strings.
type ListStringsResponse struct {
	Data           []StringResponse `json:"data"`
	Count          int              `json:"count"`
	FiltersApplied map[string]any   `json:"filters_applied"`
}

// InterpretedQuery echoes how free text was understood.
type InterpretedQuery struct {
	Original      string         `json:"original"`
	ParsedFilters map[string]any `json:"parsed_filters"`
}

// NaturalLanguageResponse is the body of GET /strings/filter-by-natural-language.
type NaturalLanguageResponse struct {
	Data             []StringResponse `json:"data"`
	Count            int              `json:"count"`
	InterpretedQuery InterpretedQuery `json:"interpreted_query"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ListStringsParams are the optional structured filters of GET /strings.
type ListStringsParams struct {
	IsPalindrome      *bool
	IsNatural         *bool
	MinLength         *int
	MaxLength         *int
	WordCount         *int
	ContainsCharacter *string
}

// FilterByNaturalLanguageParams are the parameters of GET /strings/filter-by-natural-language.
type FilterByNaturalLanguageParams struct {
	Query string
}
