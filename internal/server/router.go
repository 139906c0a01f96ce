// Package server is the HTTP host run by jerify serve. It exposes the schemas
// of a store through a small validation API and demonstrates the request and
// response guards on an example endpoint.
package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/andyballingall/jerify"
)

// TestSchema guards the example endpoint. Its response must satisfy it too.
const TestSchema = "test"

type validateResponse struct {
	Valid    bool   `json:"valid"`
	Location string `json:"location,omitempty"`
	Message  string `json:"message,omitempty"`
}

type schemasResponse struct {
	Schemas []string `json:"schemas"`
}

// NewRouter constructs the HTTP router for j. metrics serves /metrics and may be nil.
func NewRouter(j *jerify.Jerify, metrics http.Handler) http.Handler {
	r := chi.NewRouter()
	errs := j.Errors()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(errs.Recoverer)

	r.NotFound(errs.NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(errs.MethodNotAllowedHandler().ServeHTTP)

	// Health endpoints
	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", func(w http.ResponseWriter, _ *http.Request) {
		if len(j.Schemas()) == 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("no schemas loaded"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	// API routes
	r.Method(http.MethodGet, "/v1/schemas", j.Handle(func(w http.ResponseWriter, _ *http.Request) error {
		return j.Respond(w, http.StatusOK, schemasResponse{Schemas: j.Schemas()}, "")
	}))
	r.With(j.Middleware("")).Method(http.MethodPost, "/v1/schemas/{name}/validate", j.Handle(validateHandler(j)))

	r.Method(http.MethodPost, "/test", j.Handle(j.Request(TestSchema)(func(w http.ResponseWriter, _ *http.Request) error {
		return j.Respond(w, http.StatusOK, map[string]string{"target": "world"}, TestSchema)
	})))

	return r
}

// validateHandler checks the already parsed request body against the schema
// named in the path. An invalid document is a successful call which reports
// the violation with a 422.
func validateHandler(j *jerify.Jerify) jerify.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		name := chi.URLParam(r, "name")
		doc, _ := jerify.Body(r.Context())

		err := j.Validate(doc, name)
		var invalid *jerify.ValidationError
		var unknown *jerify.UnknownSchemaError
		switch {
		case err == nil:
			return j.Respond(w, http.StatusOK, validateResponse{Valid: true}, "")
		case errors.As(err, &invalid):
			return j.Respond(w, http.StatusUnprocessableEntity,
				validateResponse{Location: invalid.Location, Message: invalid.Message}, "")
		case errors.As(err, &unknown):
			return jerify.NotFound(unknown.Error())
		default:
			return err
		}
	}
}
