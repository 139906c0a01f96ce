package schema

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/andyballingall/jerify/internal/validator"
)

// Store holds the current Registry for a schema directory. Reloading builds a
// new Registry and swaps it in; registries themselves are never modified.
type Store struct {
	dir      string
	compiler validator.Compiler
	logger   *slog.Logger
	loadMu   sync.Mutex // Serialises loads; the compiler is not safe for concurrent use
	current  atomic.Pointer[Registry]
	report   atomic.Pointer[LoadReport]
}

// NewStore creates a Store for dir. The Store is empty until Load is called.
func NewStore(dir string, compiler validator.Compiler, logger *slog.Logger) *Store {
	s := &Store{
		dir:      dir,
		compiler: compiler,
		logger:   logger.With("component", "schemas"),
	}
	s.current.Store(newRegistry())
	return s
}

// Load (re)reads the schema directory and makes the result the current registry.
// A call made while another load is running waits for it and then scans the
// directory again, so it never returns a registry read before the call.
func (s *Store) Load() (*Registry, *LoadReport) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	reg, report := Load(s.dir, s.compiler, s.logger)
	s.current.Store(reg)
	s.report.Store(report)
	return reg, report
}

// Registry returns the current registry.
func (s *Store) Registry() *Registry {
	return s.current.Load()
}

// LastReport returns the report of the most recent load, or nil before the first.
func (s *Store) LastReport() *LoadReport {
	return s.report.Load()
}

// Validate checks doc against the named schema in the current registry.
// See Registry.Validate.
func (s *Store) Validate(doc validator.JSONDocument, name string) error {
	return s.Registry().Validate(doc, name)
}

// Dir returns the schema directory.
func (s *Store) Dir() string {
	return s.dir
}
