package record

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kailas-cloud/strdex/internal/domain"
	"github.com/kailas-cloud/strdex/internal/domain/analysis"
)

// MaxValueSize is the maximum value size in bytes.
const MaxValueSize = 163840 // 160KB

// Record is the stored string aggregate (immutable value object).
type Record struct {
	id         string
	value      string
	properties analysis.Properties
	createdAt  time.Time
}

// New validates value and creates a Record with freshly computed properties.
// The value is kept byte-for-byte; surrounding whitespace is significant, but
// a value of only whitespace counts as missing.
func New(value string, now time.Time) (Record, error) {
	if strings.TrimSpace(value) == "" {
		return Record{}, domain.NewValidationError("value", "is required")
	}
	if len(value) > MaxValueSize {
		return Record{}, domain.NewValidationError("value", "is too large")
	}
	if !utf8.ValidString(value) {
		return Record{}, domain.NewValidationError("value", "must be valid UTF-8")
	}

	props := analysis.Analyze(value)
	return Record{
		id:         props.SHA256Hash,
		value:      value,
		properties: props,
		createdAt:  now.UTC(),
	}, nil
}

// Reconstruct creates a Record without validation or re-analysis (storage hydration).
func Reconstruct(id, value string, props analysis.Properties, createdAt time.Time) Record {
	return Record{id: id, value: value, properties: props, createdAt: createdAt}
}

// ID returns the identity a value would be stored under.
func ID(value string) string { return analysis.Hash(value) }

// ID returns the record identifier, the SHA-256 hex of the value.
func (r *Record) ID() string { return r.id }

// Value returns the original string.
func (r *Record) Value() string { return r.value }

// Properties returns the properties computed at creation time.
func (r *Record) Properties() analysis.Properties { return r.properties }

// CreatedAt returns the creation timestamp in UTC.
func (r *Record) CreatedAt() time.Time { return r.createdAt }
