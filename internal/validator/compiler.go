// Package validator provides interfaces and types for JSON Schema validation.
package validator

import (
	"fmt"
	"io"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Draft represents a JSON Schema draft version.
type Draft string

const (
	// Draft4 represents JSON Schema Draft 4.
	Draft4 Draft = "http://json-schema.org/draft-04/schema#"
	// Draft6 represents JSON Schema Draft 6.
	Draft6 Draft = "http://json-schema.org/draft-06/schema#"
	// Draft7 represents JSON Schema Draft 7.
	Draft7 Draft = "http://json-schema.org/draft-07/schema#"
	// Draft2019_09 represents JSON Schema Draft 2019-09.
	Draft2019_09 Draft = "https://json-schema.org/draft/2019-09/schema"
	// Draft2020_12 represents JSON Schema Draft 2020-12.
	Draft2020_12 Draft = "https://json-schema.org/draft/2020-12/schema"
)

// Engine names a JSON Schema implementation.
type Engine string

const (
	// EngineSanthosh uses github.com/santhosh-tekuri/jsonschema/v6.
	EngineSanthosh Engine = "santhosh"
	// EngineGoJSONSchema uses github.com/xeipuuv/gojsonschema.
	EngineGoJSONSchema Engine = "gojsonschema"
)

// Engines returns the names of all supported engines.
func Engines() []Engine {
	return []Engine{EngineSanthosh, EngineGoJSONSchema}
}

// A JSONDocument is a valid parsed JSON Document - i.e. the result of ParseDocument().
type JSONDocument interface{}

// A JSONSchema is a valid parsed JSON Document representing a JSON Schema.
// Note that a Compiler must compile the JSONSchema before use which will identify any JSON Schema issues.
type JSONSchema JSONDocument

// Validator represents something which can be used to validate a JSON document.
type Validator interface {
	// Validate validates JSON document. An invalid document produces a *Violation
	// describing the first constraint it failed.
	Validate(v JSONDocument) error
}

// Compiler defines a JSON Schema compiler. Because JSON schemas can reference
// other schemas via the $ref property, a Compiler first must register all the
// JSON Schemas that it will need to compile.
type Compiler interface {
	// AddSchema registers a JSONSchema with the compiler.
	// An error is produced if the JSONSchema cannot be added.
	AddSchema(id string, data JSONSchema) error

	// Compile creates a Validator from the JSONSchema previously added with the given ID.
	// Compilation checks the schema against its meta-schema, so an error is produced
	// if the JSONSchema is not a valid JSON Schema.
	Compile(id string) (Validator, error)

	// SupportedSchemaVersions returns a slice of Draft representing the supported schema versions.
	SupportedSchemaVersions() []Draft

	// Clear resets the compiler state, removing all registered schemas.
	Clear()
}

// New returns a Compiler for the given engine. Schemas which do not declare
// $schema are compiled against defaultDraft.
func New(engine Engine, defaultDraft Draft) (Compiler, error) {
	if defaultDraft == "" {
		defaultDraft = Draft4
	}
	var c Compiler
	switch engine {
	case EngineSanthosh, "":
		c = NewSanthoshCompiler(defaultDraft)
	case EngineGoJSONSchema:
		c = NewGoJSONSchemaCompiler(defaultDraft)
	default:
		return nil, &UnknownEngineError{Engine: engine}
	}
	if !supports(c, defaultDraft) {
		return nil, &UnsupportedDraftError{Draft: defaultDraft, Supported: c.SupportedSchemaVersions()}
	}
	return c, nil
}

func supports(c Compiler, d Draft) bool {
	for _, s := range c.SupportedSchemaVersions() {
		if s == d {
			return true
		}
	}
	return false
}

// ParseDocument reads exactly one JSON value from r. Numbers are kept as
// json.Number so that no precision is lost before validation. Empty input
// and trailing data are errors.
func ParseDocument(r io.Reader) (JSONDocument, error) {
	return jsonschema.UnmarshalJSON(r)
}

// Violation is the first constraint a document failed.
type Violation struct {
	// Location is the JSON pointer of the offending value; empty for the document root.
	Location string
	Message  string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("at '%s': %s", v.Location, v.Message)
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// jsonPointer renders instance location tokens as an RFC 6901 pointer.
func jsonPointer(tokens []string) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteByte('/')
		sb.WriteString(pointerEscaper.Replace(tok))
	}
	return sb.String()
}

type UnknownEngineError struct {
	Engine Engine
}

func (e *UnknownEngineError) Error() string {
	return fmt.Sprintf("unknown schema engine '%s'. Supported engines are: %v", e.Engine, Engines())
}

type UnsupportedDraftError struct {
	Draft     Draft
	Supported []Draft
}

func (e *UnsupportedDraftError) Error() string {
	return fmt.Sprintf("JSON Schema version '%s' is not supported. Supported versions are: %v", e.Draft, e.Supported)
}
