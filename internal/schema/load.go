package schema

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	jfs "github.com/andyballingall/jerify/internal/fs"
	"github.com/andyballingall/jerify/internal/validator"
)

// SchemaSuffix identifies schema files. The schema name is the file name without it.
const SchemaSuffix = ".schema.json"

// SkippedFile is a schema file which could not be added to the registry.
type SkippedFile struct {
	Path string
	Err  error
}

// LoadReport describes the outcome of a Load.
type LoadReport struct {
	Dir        string
	DirMissing bool
	StartTime  time.Time
	EndTime    time.Time
	Loaded     []*Entry
	Skipped    []SkippedFile
}

func (r *LoadReport) skip(logger *slog.Logger, msg, path string, err error) {
	r.Skipped = append(r.Skipped, SkippedFile{Path: path, Err: err})
	logger.Warn(msg, "path", path, "error", err)
}

type candidate struct {
	name string
	path string
}

// NameFromPath returns the schema name for a schema file path, and false if
// the path does not name a schema file.
func NameFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, SchemaSuffix) {
		return "", false
	}
	return strings.TrimSuffix(base, SchemaSuffix), true
}

// Load walks dir for schema files, checks each one against its meta-schema and
// returns a registry of those that passed. Files which cannot be read, are not
// JSON, or are not valid JSON Schemas are skipped with a warning; they never
// cause Load to fail. A missing directory produces an empty registry.
//
// Files are visited in lexical order. When two files produce the same schema
// name, the first one visited keeps it and the later one is skipped.
func Load(dir string, compiler validator.Compiler, logger *slog.Logger) (*Registry, *LoadReport) {
	report := &LoadReport{Dir: dir, StartTime: time.Now()}
	defer func() { report.EndTime = time.Now() }()

	reg := newRegistry()
	compiler.Clear()

	if abs, err := jfs.Abs(dir); err == nil {
		report.Dir = abs
	}

	info, err := os.Stat(report.Dir)
	if err != nil || !info.IsDir() {
		report.DirMissing = true
		logger.Warn("Schema directory not found", "path", report.Dir)
		return reg, report
	}

	candidates := collect(report.Dir, compiler, logger, report)

	for _, c := range candidates {
		v, err := compiler.Compile(c.path)
		if err != nil {
			report.skip(logger, "Invalid schema", c.path, &InvalidJSONSchemaError{Path: c.path, Wrapped: err})
			continue
		}
		e := &Entry{Name: c.name, Path: c.path, validator: v}
		reg.schemas[c.name] = e
		report.Loaded = append(report.Loaded, e)
		logger.Debug("Loaded schema", "name", c.name, "path", c.path)
	}

	logger.Info("Schemas loaded", "dir", report.Dir, "loaded", len(report.Loaded), "skipped", len(report.Skipped))
	return reg, report
}

// collect parses every schema file under root and registers it with the
// compiler, so that schemas may $ref each other regardless of visiting order.
func collect(root string, compiler validator.Compiler, logger *slog.Logger, report *LoadReport) []candidate {
	var candidates []candidate
	owners := make(map[string]string)

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			report.skip(logger, "Failed to load schema", path, &ReadSchemaError{Path: path, Wrapped: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		name, ok := NameFromPath(path)
		if !ok {
			return nil
		}

		if existing, taken := owners[name]; taken {
			report.skip(logger, "Duplicate schema name", path,
				&DuplicateSchemaNameError{Name: name, Path: path, Existing: existing})
			return nil
		}

		data, rErr := os.Open(path)
		if rErr != nil {
			report.skip(logger, "Failed to load schema", path, &ReadSchemaError{Path: path, Wrapped: rErr})
			return nil
		}
		doc, pErr := validator.ParseDocument(data)
		data.Close()
		if pErr != nil {
			report.skip(logger, "Failed to decode schema", path, &InvalidJSONError{Path: path, Wrapped: pErr})
			return nil
		}

		if aErr := compiler.AddSchema(path, doc); aErr != nil {
			report.skip(logger, "Failed to load schema", path, &ReadSchemaError{Path: path, Wrapped: aErr})
			return nil
		}

		owners[name] = path
		candidates = append(candidates, candidate{name: name, path: path})
		return nil
	})

	return candidates
}
