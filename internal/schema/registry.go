package schema

import (
	"errors"
	"slices"

	"github.com/andyballingall/jerify/internal/validator"
)

// Entry is a compiled schema in a Registry.
type Entry struct {
	Name string // file name without SchemaSuffix
	Path string // absolute path of the schema file

	validator validator.Validator
}

// Registry maps schema names to compiled schemas. A Registry is never
// modified once Load has returned it, so it may be shared between goroutines.
type Registry struct {
	schemas map[string]*Entry
}

func newRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Entry)}
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	e, ok := r.schemas[name]
	return e, ok
}

// Names returns the registered schema names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.schemas))
	for n := range r.schemas {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered schemas.
func (r *Registry) Len() int {
	return len(r.schemas)
}

// Validate checks doc against the schema registered under name.
// It returns nil if the document is valid, a *ValidationError describing the
// first violation if it is not, and an *UnknownSchemaError if no schema is
// registered under name.
func (r *Registry) Validate(doc validator.JSONDocument, name string) error {
	e, ok := r.schemas[name]
	if !ok {
		return &UnknownSchemaError{Name: name}
	}

	err := e.validator.Validate(doc)
	if err == nil {
		return nil
	}

	var v *validator.Violation
	if errors.As(err, &v) {
		return &ValidationError{Schema: name, Location: v.Location, Message: v.Message}
	}
	return &ValidationError{Schema: name, Message: err.Error()}
}
