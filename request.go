package jerify

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/andyballingall/jerify/internal/validator"
)

// HandlerFunc is an http.HandlerFunc which returns its error instead of
// writing it. Handle renders the error with the ErrorReporter.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts h to an http.Handler, reporting any error it returns.
func (j *Jerify) Handle(h HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			j.reporter.Report(w, r, err)
		}
	})
}

// Request returns a decorator which only calls the handler when the request
// body is a JSON document and, when schemaName is not empty, the document
// satisfies that schema.
//
//   - a missing or malformed body yields a 400 *HTTPError with detail "invalid json";
//   - a document violating the schema yields a 400 *HTTPError describing the violation;
//   - an unregistered schemaName yields an *UnknownSchemaError, which reports as a 500.
//
// The handler sees the original body on r.Body and the parsed document via Body.
func (j *Jerify) Request(schemaName string) func(HandlerFunc) HandlerFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) error {
			guarded, err := j.guard(w, r, schemaName)
			if err != nil {
				return err
			}
			return next(w, guarded)
		}
	}
}

// Middleware is Request for plain http.Handler chains. Rejections are
// written with the ErrorReporter.
func (j *Jerify) Middleware(schemaName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			guarded, err := j.guard(w, r, schemaName)
			if err != nil {
				j.reporter.Report(w, r, err)
				return
			}
			next.ServeHTTP(w, guarded)
		})
	}
}

func (j *Jerify) guard(w http.ResponseWriter, r *http.Request, schemaName string) (*http.Request, error) {
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(http.MaxBytesReader(w, r.Body, j.maxBody))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				j.logger.Info(fmt.Sprintf("Request body too large for schema '%s'", schemaName),
					"schema", schemaName, "limit", tooLarge.Limit)
				j.recorder.RequestRejected(schemaName, ReasonTooLarge)
				return nil, NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
			}
			j.logger.Info(fmt.Sprintf("Received invalid JSON for schema '%s'", schemaName),
				"schema", schemaName, "error", err)
			j.recorder.RequestRejected(schemaName, ReasonInvalidJSON)
			return nil, BadRequest("invalid json")
		}
	}

	doc, err := validator.ParseDocument(bytes.NewReader(body))
	if err != nil {
		j.logger.Info(fmt.Sprintf("Received invalid JSON for schema '%s': %s", schemaName, body),
			"schema", schemaName, "body", string(body))
		j.recorder.RequestRejected(schemaName, ReasonInvalidJSON)
		return nil, BadRequest("invalid json")
	}

	if schemaName != "" {
		if vErr := j.store.Validate(doc, schemaName); vErr != nil {
			return nil, j.rejectDocument(schemaName, body, vErr)
		}
	}

	j.recorder.RequestAccepted(schemaName)
	guarded := r.WithContext(withBody(r.Context(), doc))
	guarded.Body = io.NopCloser(bytes.NewReader(body))
	guarded.ContentLength = int64(len(body))
	return guarded, nil
}

func (j *Jerify) rejectDocument(schemaName string, body []byte, err error) error {
	var invalid *ValidationError
	var unknown *UnknownSchemaError
	switch {
	case errors.As(err, &invalid):
		j.logger.Info(fmt.Sprintf("JSON failed validation against schema '%s': %s", schemaName, body),
			"schema", schemaName, "body", string(body), "error", invalid.Detail())
		j.recorder.RequestRejected(schemaName, ReasonSchemaViolation)
		he := BadRequest(invalid.Detail())
		he.Err = err
		return he
	case errors.As(err, &unknown):
		j.logger.Error("Unknown schema", "schema", schemaName)
		j.recorder.RequestRejected(schemaName, ReasonUnknownSchema)
		return err
	default:
		return err
	}
}
