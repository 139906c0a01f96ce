package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/andyballingall/jerify/internal/config"
	"github.com/andyballingall/jerify/internal/schema"
)

// exampleSchema is written by init so that a new service has something to guard.
const exampleSchema = `{
  "type": "object",
  "required": ["target"],
  "properties": {
    "target": {"type": "string"}
  }
}
`

// NewInitCmd returns a new cobra command for creating a jerify project.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   InitCmdName + " [dirpath]",
		Short: "Create a jerify configuration and schema directory",
		Long: `Create a directory holding a default ` + config.ConfigFile + ` and a schemas
directory with an example schema.`,
		Args: cobra.MaximumNArgs(1),
		Example: `
jerify init ./my-service
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dirpath := "."
			if len(args) > 0 {
				dirpath = args[0]
			}

			// 1. Create directories if they don't exist
			schemaDir := filepath.Join(dirpath, "schemas")
			if err := os.MkdirAll(schemaDir, 0o750); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}

			configPath := filepath.Join(dirpath, config.ConfigFile)

			// 2. Check if config file already exists
			if _, err := os.Stat(configPath); err == nil {
				return &ConfigExistsError{Path: configPath}
			}

			// 3. Write default config and the example schema
			if err := os.WriteFile(configPath, []byte(config.DefaultConfigContent), 0o600); err != nil {
				return fmt.Errorf("failed to write configuration file: %w", err)
			}
			examplePath := filepath.Join(schemaDir, "test"+schema.SchemaSuffix)
			if _, err := os.Stat(examplePath); os.IsNotExist(err) {
				if err := os.WriteFile(examplePath, []byte(exampleSchema), 0o600); err != nil {
					return fmt.Errorf("failed to write example schema: %w", err)
				}
			}

			cmd.Printf("Successfully created jerify configuration at: %s\n", configPath)
			cmd.Printf("Add schemas to %s, then check them with:\n", schemaDir)
			cmd.Printf("  jerify check -f %s\n", configPath)

			return nil
		},
	}

	return cmd
}
