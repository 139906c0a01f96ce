package jerify

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Generic details, used when the cause must not reach the client.
const (
	DetailInternal         = "The server encountered an internal error and was unable to complete your request."
	DetailNotFound         = "The requested URL was not found on the server."
	DetailMethodNotAllowed = "The method is not allowed for the requested URL."
)

// HTTPError is an error with a transport status. Code and Name are the
// numeric and textual status; Detail is shown to the client. Err, when set,
// is the cause and is only logged.
type HTTPError struct {
	Code   int
	Name   string
	Detail string
	Err    error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %s: %v", e.Code, e.Name, e.Detail, e.Err)
	}
	return fmt.Sprintf("%d %s: %s", e.Code, e.Name, e.Detail)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError returns an HTTPError named after the standard status text of code.
func NewHTTPError(code int, detail string) *HTTPError {
	return &HTTPError{Code: code, Name: http.StatusText(code), Detail: detail}
}

// BadRequest returns a 400 carrying detail to the client.
func BadRequest(detail string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, detail)
}

// NotFound returns a 404 carrying detail to the client.
func NotFound(detail string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, detail)
}

// InternalError wraps err in a 500 which does not reveal it.
func InternalError(err error) *HTTPError {
	he := NewHTTPError(http.StatusInternalServerError, DetailInternal)
	he.Err = err
	return he
}

type errorBody struct {
	Errors []errorObject `json:"errors"`
}

type errorObject struct {
	Status string `json:"status"`
	Code   int    `json:"code"`
	Detail string `json:"detail"`
}

// ErrorReporter renders errors as
//
//	{"errors": [{"status": "Bad Request", "code": 400, "detail": "invalid json"}]}
//
// with the matching status code.
type ErrorReporter struct {
	logger *slog.Logger
}

// NewErrorReporter returns an ErrorReporter which logs server faults to logger.
func NewErrorReporter(logger *slog.Logger) *ErrorReporter {
	return &ErrorReporter{logger: logger}
}

// Report writes err to w. An *HTTPError anywhere in the chain is rendered
// as-is unless its Code is not an error status. Such errors, and any other
// error, are logged and reported as a generic 500.
func (e *ErrorReporter) Report(w http.ResponseWriter, r *http.Request, err error) {
	var he *HTTPError
	if !errors.As(err, &he) {
		e.logger.Error("Unexpected error", "method", r.Method, "path", r.URL.Path, "error", err)
		he = InternalError(err)
	} else if he.Code < http.StatusBadRequest || he.Code > 599 {
		e.logger.Error("Malformed HTTP error", "method", r.Method, "path", r.URL.Path, "error", err)
		he = InternalError(err)
	} else if he.Code >= http.StatusInternalServerError && he.Err != nil {
		e.logger.Error(he.Detail, "method", r.Method, "path", r.URL.Path, "error", he.Err)
	}

	name := he.Name
	if name == "" {
		name = http.StatusText(he.Code)
	}
	body, mErr := json.Marshal(errorBody{Errors: []errorObject{{Status: name, Code: he.Code, Detail: he.Detail}}})
	if mErr != nil {
		http.Error(w, DetailInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(he.Code)
	_, _ = w.Write(body)
}

// NotFoundHandler reports a 404. Register it as the router's not found handler.
func (e *ErrorReporter) NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.Report(w, r, NotFound(DetailNotFound))
	})
}

// MethodNotAllowedHandler reports a 405. Register it as the router's method
// not allowed handler.
func (e *ErrorReporter) MethodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.Report(w, r, NewHTTPError(http.StatusMethodNotAllowed, DetailMethodNotAllowed))
	})
}

// Recoverer reports a panic in next as a 500.
func (e *ErrorReporter) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler { //nolint:errorlint // sentinel compared as chi does
				panic(rvr)
			}
			e.logger.Error("Recovered from panic", "method", r.Method, "path", r.URL.Path,
				"panic", fmt.Sprint(rvr), "stack", string(debug.Stack()))
			e.Report(w, r, NewHTTPError(http.StatusInternalServerError, DetailInternal))
		}()
		next.ServeHTTP(w, r)
	})
}
