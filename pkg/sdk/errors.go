package strdex

import "github.com/kailas-cloud/strdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound           = domain.ErrNotFound
	ErrAlreadyExists      = domain.ErrAlreadyExists
	ErrValidation         = domain.ErrValidation
	ErrUnparseableQuery   = domain.ErrUnparseableQuery
	ErrConflictingFilters = domain.ErrConflictingFilters
)
