package config

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/andyballingall/jerify/internal/fs"
	"github.com/andyballingall/jerify/internal/logging"
	"github.com/andyballingall/jerify/internal/validator"
)

// ConfigFile is the file looked for in the working directory when no explicit
// configuration file is named.
const ConfigFile = "jerify.yml"

const (
	// SchemasEnvVar overrides schemaDir.
	SchemasEnvVar = "JERIFY_SCHEMAS"
	// LogEnvVar overrides logLevel.
	LogEnvVar = "JERIFY_LOG"
)

const (
	DefaultSchemaDir = "./schemas"
	DefaultLogLevel  = "WARNING"
	DefaultListen    = ":8080"
)

const DefaultConfigContent = `# jerify configuration

# SCHEMA DIRECTORY
#
# Every *.schema.json file below this directory is loaded at start-up and made
# available under its file name without the suffix: schemas/user.schema.json
# is the schema "user". Relative paths are resolved against this file.
# The JERIFY_SCHEMAS environment variable overrides this setting.
schemaDir: "./schemas"

# LOGGING
#
# One of DEBUG, INFO, WARNING, ERROR or CRITICAL. The JERIFY_LOG environment
# variable overrides this setting. When logFile is set, every message is also
# written to that file as JSON, whatever the level.
logLevel: "WARNING"
# logFile: "jerify.log"

# VALIDATION
#
# engine selects the JSON Schema implementation: santhosh (default) or gojsonschema.
# Schemas which do not declare $schema are treated as defaultJsonSchemaVersion:
# - http://json-schema.org/draft-04/schema# (Default)
# - http://json-schema.org/draft-06/schema#
# - http://json-schema.org/draft-07/schema#
# - https://json-schema.org/draft/2019-09/schema (santhosh only)
# - https://json-schema.org/draft/2020-12/schema (santhosh only)
engine: "santhosh"
defaultJsonSchemaVersion: "http://json-schema.org/draft-04/schema#"

# SERVER
#
# Address used by jerify serve. With watch enabled, schema changes on disk are
# picked up without a restart.
listen: ":8080"
watch: false
`

type Config struct {
	SchemaDir                string           `yaml:"schemaDir"`
	LogLevel                 string           `yaml:"logLevel"`
	LogFile                  string           `yaml:"logFile"`
	Engine                   validator.Engine `yaml:"engine"`
	DefaultJSONSchemaVersion validator.Draft  `yaml:"defaultJsonSchemaVersion"`
	Listen                   string           `yaml:"listen"`
	Watch                    bool             `yaml:"watch"`

	// Path is the file the configuration was read from; empty when only defaults apply.
	Path string `yaml:"-"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		SchemaDir:                DefaultSchemaDir,
		LogLevel:                 DefaultLogLevel,
		Engine:                   validator.EngineSanthosh,
		DefaultJSONSchemaVersion: validator.Draft4,
		Listen:                   DefaultListen,
	}
}

// New reads the configuration. When path is empty, ConfigFile in the working
// directory is used if it exists and the defaults apply otherwise. A path
// named explicitly must exist. Environment overrides are applied last.
//
// Relative schemaDir and logFile values in a file are resolved against the
// directory holding that file.
func New(path string, env fs.EnvProvider) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = ConfigFile
	}

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if dErr := cfg.decode(f); dErr != nil {
			return nil, dErr
		}
		abs, aErr := fs.Abs(path)
		if aErr != nil {
			return nil, aErr
		}
		cfg.Path = abs
		base := filepath.Dir(abs)
		cfg.SchemaDir = fs.ResolveRelative(base, cfg.SchemaDir)
		cfg.LogFile = fs.ResolveRelative(base, cfg.LogFile)
	case errors.Is(err, os.ErrNotExist) && !explicit:
	case errors.Is(err, os.ErrNotExist):
		return nil, &MissingConfigError{Path: path}
	default:
		return nil, err
	}

	cfg.applyEnv(env)

	if vErr := cfg.Validate(); vErr != nil {
		return nil, vErr
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return &InvalidYAMLError{Wrapped: err}
	}
	return nil
}

func (c *Config) applyEnv(env fs.EnvProvider) {
	if env == nil {
		return
	}
	if v := env.Get(SchemasEnvVar); v != "" {
		c.SchemaDir = v
	}
	if v := env.Get(LogEnvVar); v != "" {
		c.LogLevel = v
	}
}

// Validate checks every setting, filling in defaults for the validation
// settings left empty.
func (c *Config) Validate() error {
	if c.SchemaDir == "" {
		return &MissingPropertyError{Property: "schemaDir"}
	}
	if c.Listen == "" {
		return &MissingPropertyError{Property: "listen"}
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return &InvalidLogLevelError{Value: c.LogLevel}
	}

	if c.Engine == "" {
		c.Engine = validator.EngineSanthosh
	}
	if c.DefaultJSONSchemaVersion == "" {
		c.DefaultJSONSchemaVersion = validator.Draft4
	}
	if _, err := validator.New(c.Engine, c.DefaultJSONSchemaVersion); err != nil {
		return &InvalidValidationSettingsError{Wrapped: err}
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	l, _ := logging.ParseLevel(c.LogLevel)
	return l
}

// NewCompiler returns a compiler for the configured engine and default draft.
func (c *Config) NewCompiler() (validator.Compiler, error) {
	return validator.New(c.Engine, c.DefaultJSONSchemaVersion)
}
