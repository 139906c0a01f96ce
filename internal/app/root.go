package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/andyballingall/jerify/internal/config"
	"github.com/andyballingall/jerify/internal/fs"
	"github.com/andyballingall/jerify/internal/logging"
	"github.com/andyballingall/jerify/internal/metrics"
	"github.com/andyballingall/jerify/internal/schema"
)

// Version is the current version of jerify, set at build time.
var Version = "dev"

const InitCmdName = "init"

// Banner with colour codes.
var Banner = "\033[32m" + `
   _           _  __
  (_) ___ _ __(_)/ _|_   _
  | |/ _ \ '__| | |_| | | |
  | |  __/ |  | |  _| |_| |
 _/ |\___|_|  |_|_|  \__, |
|__/                 |___/
` + "\033[0m"

var LongDescription = `
jerify checks JSON documents against a directory of JSON Schemas. Every
*.schema.json file below the schema directory is loaded under its file name
without the suffix. Use it to check a schema directory before deployment,
validate individual documents, or serve the schemas over HTTP.
`

// rootState carries what PersistentPreRunE resolved to the subcommands.
type rootState struct {
	cfg *config.Config
}

// NewRootCmd creates the root command and wires up dependencies.
func NewRootCmd(lazy *LazyManager, ll *slog.LevelVar, stdout, stderr io.Writer, env fs.EnvProvider) *cobra.Command {
	var debug bool
	var noColour bool
	var configPath pathValue
	var schemaDir pathValue
	var logLevel levelValue

	state := &rootState{cfg: config.Default()}

	rootCmd := &cobra.Command{
		Use:           "jerify",
		Short:         "Validate JSON documents against a directory of JSON Schemas",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Long:          Banner + "\n" + LongDescription,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for help, completion and init commands
			if cmd.Name() == "help" || isCompletionCommand(cmd) || cmd.Name() == InitCmdName {
				return nil
			}
			// Skip if already initialised (e.g., in tests)
			if lazy.HasInner() {
				if debug {
					ll.Set(slog.LevelDebug)
				}
				return nil
			}

			// 1. Resolve configuration: file, then environment, then flags
			cfg, err := config.New(string(configPath), env)
			if err != nil {
				return err
			}
			if schemaDir != "" {
				cfg.SchemaDir = string(schemaDir)
			}
			if logLevel != "" {
				cfg.LogLevel = string(logLevel)
			}
			if debug {
				cfg.LogLevel = "DEBUG"
			}
			state.cfg = cfg

			// 2. Setup Logging
			ll.Set(cfg.Level())
			logger, closer, err := logging.New(stderr, ll, cfg.LogFile, !noColour && logging.IsTerminal(stderr))
			if err != nil {
				logger.Warn("logging to file disabled", "error", err)
			}
			if closer != nil {
				lazy.OnClose(closer)
			}
			logger.Debug("configuration resolved", "path", cfg.Path, "schemaDir", cfg.SchemaDir,
				"engine", cfg.Engine, "defaultJsonSchemaVersion", cfg.DefaultJSONSchemaVersion)

			// 3. Build Dependencies
			compiler, err := cfg.NewCompiler()
			if err != nil {
				return fmt.Errorf("compiler initialisation failed: %w", err)
			}
			store := schema.NewStore(cfg.SchemaDir, compiler, logger)

			// 4. Hydrate the Lazy Wrapper
			lazy.SetInner(NewCLIManager(logger, store, metrics.New(), stdout))

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().VarP(&configPath, "config", "f",
		"path to configuration file (default ./"+config.ConfigFile+" when present)")
	rootCmd.PersistentFlags().VarP(&schemaDir, "schemas", "s",
		"path to schema directory (overrides env/config)")
	rootCmd.PersistentFlags().VarP(&logLevel, "log-level", "l",
		"log level: DEBUG, INFO, WARNING, ERROR or CRITICAL (overrides env/config)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	rootCmd.PersistentFlags().BoolVarP(&noColour, "nocolour", "c", false, "Disable colour in output")
	// Support alternate spellings
	rootCmd.PersistentFlags().BoolVar(&noColour, "nocolor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColour", false, "")
	_ = rootCmd.PersistentFlags().MarkHidden("nocolor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColour")

	// Subcommands
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewServeCmd(lazy, state))
	rootCmd.AddCommand(NewCheckCmd(lazy))
	rootCmd.AddCommand(NewValidateCmd(lazy))

	return rootCmd
}

// isCompletionCommand returns true if the command or any of its parents is the "completion" command.
func isCompletionCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return true
		}
	}
	return false
}
