// Package cli implements the sculptql command-line interface: offline
// render, parse, and round-trip checks against a catalog file.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts globalOptions

	rootCmd := &cobra.Command{
		Use:           "sculptql",
		Short:         "SQL query builder sync engine CLI",
		Long:          "Render structured query state to SQL, parse SQL back to state, and check round-trips, all offline against a catalog file.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.catalogPath, "catalog", "c", "", "catalog YAML file listing tables and columns")
	flags.StringVarP(&opts.dialectName, "dialect", "d", "postgres", "SQL dialect: postgres, mysql, or duckdb")
	flags.StringVarP(&opts.output, "output", "o", "text", "output format: text or json")

	rootCmd.AddCommand(
		newRenderCmd(&opts),
		newParseCmd(&opts),
		newRoundtripCmd(&opts),
		newCommandsCmd(&opts),
	)
	return rootCmd
}
