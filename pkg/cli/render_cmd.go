package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alvinwquach/sculptql-sub000/internal/sqlgen"
)

func newRenderCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "render <state-file>",
		Short: "Render a query state file (YAML or JSON) to SQL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.dialect()
			if err != nil {
				return err
			}
			st, err := loadState(args[0])
			if err != nil {
				return err
			}
			sql := sqlgen.Render(st, d)
			if opts.output == "json" {
				return printJSON(os.Stdout, map[string]string{"sql": sql})
			}
			fmt.Println(sql)
			return nil
		},
	}
}
