package app

import (
	"github.com/spf13/cobra"

	"github.com/andyballingall/jerify/internal/logging"
)

func NewCheckCmd(mgr Manager) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that every schema in the schema directory loads",
		Long: `Load the schema directory and report every schema file which could not be
decoded or is not a valid JSON Schema. Exits with an error if any file was
skipped or the directory does not exist.`,
		Args: cobra.NoArgs,
		Example: `
jerify check
jerify check -s ./schemas --verbose
jerify check -o json`,
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List every loaded schema")
	outputVal := formatValue("text")
	cmd.Flags().VarP(&outputVal, "output", "o", "Output format (text, json)")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		noColour, _ := cmd.Flags().GetBool("nocolour")
		useColour := !noColour && logging.IsTerminal(cmd.OutOrStdout())

		return mgr.Check(cmd.Context(), verbose, string(outputVal), useColour)
	}

	return cmd
}
