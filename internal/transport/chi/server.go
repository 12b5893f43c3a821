package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/strdex/internal/domain"
	"github.com/kailas-cloud/strdex/internal/domain/filter"
	domrec "github.com/kailas-cloud/strdex/internal/domain/record"
	"github.com/kailas-cloud/strdex/internal/logger"
	healthuc "github.com/kailas-cloud/strdex/internal/usecase/health"
	recorduc "github.com/kailas-cloud/strdex/internal/usecase/record"
)

// maxBodyOverhead leaves room for JSON framing and escapes around a maximal value.
const maxBodyOverhead = 4096

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements ServerInterface.
type Server struct {
	records       *recorduc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	maxBodyBytes  int64
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(records *recorduc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		records:      records,
		health:       health,
		logger:       logger,
		maxBodyBytes: 6*domrec.MaxValueSize + maxBodyOverhead,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, ErrorCodeAlreadyExists),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrUnparseableQuery, http.StatusBadRequest, ErrorCodeUnparseableQuery),
		sentinelHandler(domain.ErrConflictingFilters, http.StatusUnprocessableEntity, ErrorCodeConflictingFilters),
	}
	return s
}

// CreateString handles POST /strings.
func (s *Server) CreateString(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)

	var req CreateStringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		var sizeErr *http.MaxBytesError
		switch {
		case errors.As(err, &typeErr):
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "value must be a string")
		case errors.As(err, &sizeErr):
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "request body too large")
		default:
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		}
		return
	}

	if req.Value == nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "value is required")
		return
	}

	rec, err := s.records.Create(r.Context(), *req.Value)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, recordToResponse(&rec))
}

// ListStrings handles GET /strings.
func (s *Server) ListStrings(w http.ResponseWriter, r *http.Request, params ListStringsParams) {
	spec := specFromParams(params)

	recs, err := s.records.List(r.Context(), spec)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ListStringsResponse{
		Data:           recordsToResponse(recs),
		Count:          len(recs),
		FiltersApplied: spec.Map(),
	})
}

// FilterByNaturalLanguage handles GET /strings/filter-by-natural-language.
func (s *Server) FilterByNaturalLanguage(
	w http.ResponseWriter, r *http.Request, params FilterByNaturalLanguageParams,
) {
	recs, spec, err := s.records.Search(r.Context(), params.Query)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, NaturalLanguageResponse{
		Data:  recordsToResponse(recs),
		Count: len(recs),
		InterpretedQuery: InterpretedQuery{
			Original:      params.Query,
			ParsedFilters: spec.Map(),
		},
	})
}

// GetString handles GET /strings/{value}.
func (s *Server) GetString(w http.ResponseWriter, r *http.Request, value string) {
	rec, err := s.records.Get(r.Context(), value)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recordToResponse(&rec))
}

// DeleteString handles DELETE /strings/{value}.
func (s *Server) DeleteString(w http.ResponseWriter, r *http.Request, value string) {
	if err := s.records.Delete(r.Context(), value); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// BindErrorHandler answers parameter binding failures with 400 bad_request.
func BindErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	var pe *InvalidParamFormatError
	if errors.As(err, &pe) {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid parameter "+pe.ParamName)
		return
	}
	writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid request")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message without exposing internals.
// Validation errors carry the offending field, which is safe to echo.
func safeDomainMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrAlreadyExists,
		domain.ErrNotFound,
		domain.ErrUnparseableQuery,
		domain.ErrConflictingFilters,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Debug("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func specFromParams(p ListStringsParams) filter.Spec {
	var spec filter.Spec
	if p.IsPalindrome != nil {
		spec.SetIsPalindrome(*p.IsPalindrome)
	}
	if p.IsNatural != nil {
		spec.SetIsNatural(*p.IsNatural)
	}
	if p.MinLength != nil {
		spec.SetMinLength(*p.MinLength)
	}
	if p.MaxLength != nil {
		spec.SetMaxLength(*p.MaxLength)
	}
	if p.WordCount != nil {
		spec.SetWordCount(*p.WordCount)
	}
	if p.ContainsCharacter != nil {
		spec.SetContainsCharacter(*p.ContainsCharacter)
	}
	return spec
}

func recordToResponse(rec *domrec.Record) StringResponse {
	p := rec.Properties()
	freq := p.CharacterFreq
	if freq == nil {
		freq = map[string]int{}
	}
	return StringResponse{
		ID:    rec.ID(),
		Value: rec.Value(),
		Properties: Properties{
			Length:                p.Length,
			IsPalindrome:          p.IsPalindrome,
			UniqueCharacters:      p.UniqueCharacters,
			WordCount:             p.WordCount,
			SHA256Hash:            p.SHA256Hash,
			CharacterFrequencyMap: freq,
			IsNaturalWord:         p.IsNaturalWord,
			VowelCount:            p.VowelCount,
			ConsonantCount:        p.ConsonantCount,
		},
		CreatedAt: rec.CreatedAt(),
	}
}

func recordsToResponse(recs []domrec.Record) []StringResponse {
	out := make([]StringResponse, len(recs))
	for i := range recs {
		out[i] = recordToResponse(&recs[i])
	}
	return out
}
