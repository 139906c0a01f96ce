package schema

import (
	"fmt"
)

// UnknownSchemaError reports a lookup of a schema name that is not in the registry.
// It indicates a configuration error in the calling code, not a bad document.
type UnknownSchemaError struct {
	Name string
}

func (e *UnknownSchemaError) Error() string {
	return fmt.Sprintf("Unknown schema: %s", e.Name)
}

// ValidationError reports the first constraint a document violated.
type ValidationError struct {
	Schema   string
	Location string
	Message  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("JSON failed validation against schema '%s': %s", e.Schema, e.Detail())
}

// Detail describes the violation without naming the schema.
func (e *ValidationError) Detail() string {
	return fmt.Sprintf("at '%s': %s", e.Location, e.Message)
}

type SchemaDirNotFoundError struct {
	Path string
}

func (e *SchemaDirNotFoundError) Error() string {
	return fmt.Sprintf("schema directory not found: %s", e.Path)
}

type ReadSchemaError struct {
	Path    string
	Wrapped error
}

func (e *ReadSchemaError) Error() string {
	return fmt.Sprintf("Failed to load: %s: %v", e.Path, e.Wrapped)
}

func (e *ReadSchemaError) Unwrap() error {
	return e.Wrapped
}

type InvalidJSONError struct {
	Path    string
	Wrapped error
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("Failed to decode: %s: %v", e.Path, e.Wrapped)
}

func (e *InvalidJSONError) Unwrap() error {
	return e.Wrapped
}

type InvalidJSONSchemaError struct {
	Path    string
	Wrapped error
}

func (e *InvalidJSONSchemaError) Error() string {
	return fmt.Sprintf("Invalid schema: %s: %v", e.Path, e.Wrapped)
}

func (e *InvalidJSONSchemaError) Unwrap() error {
	return e.Wrapped
}

type DuplicateSchemaNameError struct {
	Name     string
	Path     string
	Existing string
}

func (e *DuplicateSchemaNameError) Error() string {
	return fmt.Sprintf("schema name '%s' from %s is already provided by %s", e.Name, e.Path, e.Existing)
}
