package app

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

func NewValidateCmd(mgr Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schema-name> <document>",
		Short: "Validate a JSON document against a schema",
		Long: `Validate a JSON document against the named schema. The schema name is the
schema file name without .schema.json. Use - to read the document from stdin.`,
		Args: cobra.ExactArgs(2),
		Example: `
jerify validate user ./user.json
cat user.json | jerify validate user -`,
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		name, path := args[0], args[1]

		var doc io.Reader = cmd.InOrStdin()
		if path != "-" {
			f, err := os.Open(path)
			if err != nil {
				return &DocumentReadError{Path: path, Wrapped: err}
			}
			defer f.Close()
			doc = f
		}

		return mgr.ValidateDocument(cmd.Context(), name, doc)
	}

	return cmd
}
