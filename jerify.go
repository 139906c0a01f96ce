// Package jerify validates the JSON bodies of net/http requests and responses
// against JSON Schemas loaded from a directory.
//
// Every *.schema.json file below the schema directory is checked against its
// meta-schema at start-up and registered under its file name without the
// suffix. Handlers are then wrapped with Request or Middleware to reject
// malformed or non-conforming request bodies with a 400, and use Response or
// Respond to make sure they only ever send documents that match a schema.
package jerify

import (
	"log/slog"

	"github.com/andyballingall/jerify/internal/logging"
	"github.com/andyballingall/jerify/internal/schema"
	"github.com/andyballingall/jerify/internal/validator"
)

// DefaultMaxBodyBytes bounds the request bodies read by the guard.
const DefaultMaxBodyBytes int64 = 1 << 20

// Rejection reasons passed to a Recorder.
const (
	ReasonInvalidJSON     = "invalid_json"
	ReasonSchemaViolation = "schema_violation"
	ReasonUnknownSchema   = "unknown_schema"
	ReasonTooLarge        = "too_large"
)

type (
	// ValidationError reports the first constraint a document violated.
	ValidationError = schema.ValidationError
	// UnknownSchemaError reports a schema name with no registered schema.
	UnknownSchemaError = schema.UnknownSchemaError
)

// Recorder is told about every validation decision. The Prometheus metrics
// in jerify's serve command implement it.
type Recorder interface {
	RequestAccepted(schema string)
	RequestRejected(schema, reason string)
	ResponseRejected(schema, reason string)
}

type nopRecorder struct{}

func (nopRecorder) RequestAccepted(string)          {}
func (nopRecorder) RequestRejected(string, string)  {}
func (nopRecorder) ResponseRejected(string, string) {}

// Jerify guards handlers with the schemas of one schema directory.
type Jerify struct {
	store    *schema.Store
	logger   *slog.Logger
	recorder Recorder
	reporter *ErrorReporter
	maxBody  int64

	engine validator.Engine
	draft  validator.Draft
}

// Option configures a Jerify.
type Option func(*Jerify)

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(j *Jerify) { j.logger = l }
}

// WithRecorder sets the Recorder told about every validation decision.
func WithRecorder(r Recorder) Option {
	return func(j *Jerify) { j.recorder = r }
}

// WithMaxBodyBytes bounds the size of request bodies. Larger bodies are
// rejected with a 413.
func WithMaxBodyBytes(n int64) Option {
	return func(j *Jerify) { j.maxBody = n }
}

// WithEngine selects the JSON Schema implementation ("santhosh" or
// "gojsonschema") and the draft used for schemas which do not declare
// $schema. Empty values keep the defaults: santhosh and Draft 4.
func WithEngine(engine, defaultDraft string) Option {
	return func(j *Jerify) {
		j.engine = validator.Engine(engine)
		j.draft = validator.Draft(defaultDraft)
	}
}

func newJerify(opts []Option) *Jerify {
	j := &Jerify{
		logger:   logging.Discard(),
		recorder: nopRecorder{},
		maxBody:  DefaultMaxBodyBytes,
		engine:   validator.EngineSanthosh,
		draft:    validator.Draft4,
	}
	for _, opt := range opts {
		opt(j)
	}
	j.reporter = NewErrorReporter(j.logger)
	return j
}

// New loads the schemas in schemaDir. Files which are not valid schemas are
// skipped with a warning and a missing directory yields no schemas, so the
// only errors come from an unknown engine or draft.
func New(schemaDir string, opts ...Option) (*Jerify, error) {
	j := newJerify(opts)
	c, err := validator.New(j.engine, j.draft)
	if err != nil {
		return nil, err
	}
	j.store = schema.NewStore(schemaDir, c, j.logger)
	j.store.Load()
	return j, nil
}

// NewWithStore guards handlers with the schemas of an existing store, which
// the caller loads and reloads. schema.Store is internal, so this is only for
// code inside this module that shares one store between several guards.
// Other hosts use New and Reload.
func NewWithStore(store *schema.Store, opts ...Option) *Jerify {
	j := newJerify(opts)
	j.store = store
	return j
}

// Store returns the schema store for use inside this module.
func (j *Jerify) Store() *schema.Store {
	return j.store
}

// Reload rereads the schema directory and swaps in the result. Requests
// already being checked finish against the schemas they started with.
func (j *Jerify) Reload() (loaded, skipped int) {
	_, r := j.store.Load()
	return len(r.Loaded), len(r.Skipped)
}

// Schemas returns the names of the registered schemas in sorted order.
func (j *Jerify) Schemas() []string {
	return j.store.Registry().Names()
}

// Validate checks doc against the named schema. It returns nil when doc is
// valid, a *ValidationError describing the first violation when it is not,
// and an *UnknownSchemaError when no schema has that name.
func (j *Jerify) Validate(doc any, schemaName string) error {
	return j.store.Validate(doc, schemaName)
}

// Errors returns the ErrorReporter used for rejected requests.
func (j *Jerify) Errors() *ErrorReporter {
	return j.reporter
}
