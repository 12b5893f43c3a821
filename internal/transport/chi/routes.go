package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/strdex/internal/domain/filter"
)

// ServerInterface is the set of HTTP operations the API exposes.
type ServerInterface interface {
	// POST /strings
	CreateString(w http.ResponseWriter, r *http.Request)
	// GET /strings
	ListStrings(w http.ResponseWriter, r *http.Request, params ListStringsParams)
	// GET /strings/filter-by-natural-language
	FilterByNaturalLanguage(w http.ResponseWriter, r *http.Request, params FilterByNaturalLanguageParams)
	// GET /strings/{value}
	GetString(w http.ResponseWriter, r *http.Request, value string)
	// DELETE /strings/{value}
	DeleteString(w http.ResponseWriter, r *http.Request, value string)
	// GET /health
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// GET /metrics
	Metrics(w http.ResponseWriter, r *http.Request)
}

// InvalidParamFormatError reports a parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// ChiServerOptions configures route registration.
type ChiServerOptions struct {
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// serverInterfaceWrapper binds parameters before dispatching to the ServerInterface.
type serverInterfaceWrapper struct {
	handler          ServerInterface
	errorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *serverInterfaceWrapper) listStrings(w http.ResponseWriter, r *http.Request) {
	var params ListStringsParams
	query := r.URL.Query()

	binds := []struct {
		name string
		dest any
	}{
		{filter.KeyIsPalindrome, &params.IsPalindrome},
		{filter.KeyIsNatural, &params.IsNatural},
		{filter.KeyMinLength, &params.MinLength},
		{filter.KeyMaxLength, &params.MaxLength},
		{filter.KeyWordCount, &params.WordCount},
		{filter.KeyContainsCharacter, &params.ContainsCharacter},
	}
	for _, b := range binds {
		if err := runtime.BindQueryParameter("form", true, false, b.name, query, b.dest); err != nil {
			siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: b.name, Err: err})
			return
		}
	}

	siw.handler.ListStrings(w, r, params)
}

func (siw *serverInterfaceWrapper) filterByNaturalLanguage(w http.ResponseWriter, r *http.Request) {
	var params FilterByNaturalLanguageParams

	err := runtime.BindQueryParameter("form", true, true, "query", r.URL.Query(), &params.Query)
	if err != nil {
		siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "query", Err: err})
		return
	}

	siw.handler.FilterByNaturalLanguage(w, r, params)
}

func (siw *serverInterfaceWrapper) bindValue(w http.ResponseWriter, r *http.Request) (string, bool) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", "value", chi.URLParam(r, "value"), &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "value", Err: err})
		return "", false
	}
	return value, true
}

func (siw *serverInterfaceWrapper) getString(w http.ResponseWriter, r *http.Request) {
	if value, ok := siw.bindValue(w, r); ok {
		siw.handler.GetString(w, r, value)
	}
}

func (siw *serverInterfaceWrapper) deleteString(w http.ResponseWriter, r *http.Request) {
	if value, ok := siw.bindValue(w, r); ok {
		siw.handler.DeleteString(w, r, value)
	}
}

// escapedRoutePath makes chi route on the escaped path, so URL parameters
// arrive percent-encoded and decode exactly once during binding.
func escapedRoutePath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePath == "" {
			rctx.RoutePath = r.URL.EscapedPath()
		}
		next.ServeHTTP(w, r)
	})
}

// HandlerWithOptions registers all routes on options.BaseRouter (or a new router).
// The base router must not have routes registered yet.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		}
	}
	wrapper := serverInterfaceWrapper{handler: si, errorHandlerFunc: options.ErrorHandlerFunc}

	r.Use(escapedRoutePath)
	r.Post("/strings", si.CreateString)
	r.Get("/strings", wrapper.listStrings)
	r.Get("/strings/filter-by-natural-language", wrapper.filterByNaturalLanguage)
	r.Get("/strings/{value}", wrapper.getString)
	r.Delete("/strings/{value}", wrapper.deleteString)
	r.Get("/health", si.HealthCheck)
	r.Get("/metrics", si.Metrics)

	return r
}
