package validator

import (
	"errors"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var englishPrinter = message.NewPrinter(language.English)

var santhoshDrafts = map[Draft]*jsonschema.Draft{
	Draft4:       jsonschema.Draft4,
	Draft6:       jsonschema.Draft6,
	Draft7:       jsonschema.Draft7,
	Draft2019_09: jsonschema.Draft2019,
	Draft2020_12: jsonschema.Draft2020,
}

// NewSanthoshCompiler returns a concrete implementation of Compiler
// using the santhosh-tekuri/jsonschema/v6 package.
func NewSanthoshCompiler(defaultDraft Draft) Compiler {
	s := &santhoshCompiler{draft: defaultDraft}
	s.c = s.newCompiler()
	return s
}

// santhoshValidator wraps jsonschema.Schema to implement Validator.
type santhoshValidator struct {
	v *jsonschema.Schema
}

// Validate adapts jsonschema.Schema.Validate to match the Validator interface,
// reducing the error tree to its first leaf.
func (sv *santhoshValidator) Validate(doc JSONDocument) error {
	err := sv.v.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &Violation{
		Location: jsonPointer(ve.InstanceLocation),
		Message:  ve.ErrorKind.LocalizedString(englishPrinter),
	}
}

// santhoshCompiler wraps jsonschema.Compiler to implement Compiler.
type santhoshCompiler struct {
	mu    sync.Mutex
	c     *jsonschema.Compiler
	draft Draft
}

func (s *santhoshCompiler) newCompiler() *jsonschema.Compiler {
	c := jsonschema.NewCompiler()
	if d, ok := santhoshDrafts[s.draft]; ok {
		c.DefaultDraft(d)
	}
	c.AssertFormat()
	return c
}

func (s *santhoshCompiler) AddSchema(id string, schemaData JSONSchema) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.AddResource(id, schemaData)
}

func (s *santhoshCompiler) Compile(id string) (Validator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.c.Compile(id)
	if err != nil {
		return nil, err
	}
	return &santhoshValidator{v: v}, nil
}

func (s *santhoshCompiler) SupportedSchemaVersions() []Draft {
	return []Draft{
		Draft4,
		Draft6,
		Draft7,
		Draft2019_09,
		Draft2020_12,
	}
}

func (s *santhoshCompiler) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c = s.newCompiler()
}
