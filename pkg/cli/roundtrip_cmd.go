package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alvinwquach/sculptql-sub000/internal/sqlgen"
	"github.com/alvinwquach/sculptql-sub000/internal/sqlparse"
)

func newRoundtripCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip [sql]",
		Short: "Parse a statement, re-render it, and show both texts",
		Long:  "Parses the statement into query state, renders the state back to SQL, and reports whether a second parse-render cycle is stable.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.dialect()
			if err != nil {
				return err
			}
			cat, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			text, err := readSQL(args)
			if err != nil {
				return err
			}

			first := sqlparse.Parse(text, cat, d)
			rendered := sqlgen.Render(first.State, d)
			second := sqlparse.Parse(rendered, cat, d)
			stable := sqlgen.Render(second.State, d) == rendered

			if opts.output == "json" {
				return printJSON(os.Stdout, map[string]interface{}{
					"input":    text,
					"rendered": rendered,
					"stable":   stable,
					"reset":    first.Reset,
				})
			}

			fmt.Printf("input:    %s\n", text)
			fmt.Printf("rendered: %s\n", rendered)
			fmt.Printf("stable:   %v\n", stable)
			return nil
		},
	}
}
