package validator

import (
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

var goJSONSchemaDrafts = map[Draft]gojsonschema.Draft{
	Draft4: gojsonschema.Draft4,
	Draft6: gojsonschema.Draft6,
	Draft7: gojsonschema.Draft7,
}

// NewGoJSONSchemaCompiler returns a Compiler backed by xeipuuv/gojsonschema.
// Each schema is compiled on its own, so $ref between schema files is not resolved.
func NewGoJSONSchemaCompiler(defaultDraft Draft) Compiler {
	return &goJSONSchemaCompiler{
		draft:   defaultDraft,
		schemas: make(map[string]JSONSchema),
	}
}

type goJSONSchemaValidator struct {
	s *gojsonschema.Schema
}

func (gv *goJSONSchemaValidator) Validate(doc JSONDocument) error {
	res, err := gv.s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	first := res.Errors()[0]
	return &Violation{Location: contextPointer(first.Context()), Message: first.Description()}
}

// contextSep joins context tokens. Property names may contain dots, so the
// default separator cannot be split reliably.
const contextSep = "\x00"

func contextPointer(c *gojsonschema.JsonContext) string {
	if c == nil {
		return ""
	}
	tokens := strings.Split(c.String(contextSep), contextSep)
	if len(tokens) > 0 && tokens[0] == gojsonschema.STRING_CONTEXT_ROOT {
		tokens = tokens[1:]
	}
	return jsonPointer(tokens)
}

type goJSONSchemaCompiler struct {
	mu      sync.Mutex
	draft   Draft
	schemas map[string]JSONSchema
}

func (g *goJSONSchemaCompiler) AddSchema(id string, data JSONSchema) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.schemas[id] = data
	return nil
}

func (g *goJSONSchemaCompiler) Compile(id string) (Validator, error) {
	g.mu.Lock()
	data, ok := g.schemas[id]
	g.mu.Unlock()
	if !ok {
		return nil, &SchemaNotAddedError{ID: id}
	}

	sl := gojsonschema.NewSchemaLoader()
	sl.Validate = true
	sl.AutoDetect = true
	sl.Draft = goJSONSchemaDrafts[g.draft]

	s, err := sl.Compile(gojsonschema.NewGoLoader(data))
	if err != nil {
		return nil, err
	}
	return &goJSONSchemaValidator{s: s}, nil
}

func (g *goJSONSchemaCompiler) SupportedSchemaVersions() []Draft {
	return []Draft{Draft4, Draft6, Draft7}
}

func (g *goJSONSchemaCompiler) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.schemas = make(map[string]JSONSchema)
}

type SchemaNotAddedError struct {
	ID string
}

func (e *SchemaNotAddedError) Error() string {
	return "schema " + e.ID + " has not been added to the compiler"
}
