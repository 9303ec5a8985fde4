package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alvinwquach/sculptql-sub000/internal/sqlparse"
)

func newParseCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [sql]",
		Short: "Parse a SQL statement into query state ('-' or no arg reads stdin)",
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

			res := sqlparse.Parse(text, cat, d)
			if opts.output == "json" {
				return printJSON(os.Stdout, map[string]interface{}{
					"state":   res.State,
					"clauses": res.Found.Names(),
					"reset":   res.Reset,
				})
			}

			if res.Reset {
				fmt.Println("reset: statement has no resolvable FROM table")
				return nil
			}
			fmt.Printf("clauses: %s\n", strings.Join(res.Found.Names(), ", "))
			out, err := yaml.Marshal(res.State)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}
}
