package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// CommandEntry describes a single CLI command for introspection output.
type CommandEntry struct {
	Path  string      `json:"path"`
	Short string      `json:"short"`
	Args  string      `json:"args,omitempty"`
	Flags []FlagEntry `json:"flags,omitempty"`
}

// FlagEntry describes a single CLI flag for introspection output.
type FlagEntry struct {
	Name    string `json:"name"`
	Short   string `json:"shorthand,omitempty"`
	Type    string `json:"type"`
	Default string `json:"default,omitempty"`
	Usage   string `json:"usage,omitempty"`
}

func newCommandsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List all available commands with their flags and descriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := walkCommands(cmd.Root(), "")

			if opts.output == "json" {
				return printJSON(os.Stdout, entries)
			}
			for _, e := range entries {
				fmt.Printf("%-12s %s\n", e.Path, e.Short)
			}
			return nil
		},
	}
}

// walkCommands recursively walks the cobra command tree and collects leaf commands.
func walkCommands(cmd *cobra.Command, parentPath string) []CommandEntry {
	var entries []CommandEntry

	for _, child := range cmd.Commands() {
		if child.Hidden || child.Name() == "help" || child.Name() == "completion" {
			continue
		}

		childPath := child.Name()
		if parentPath != "" {
			childPath = parentPath + " " + child.Name()
		}

		if child.HasSubCommands() {
			entries = append(entries, walkCommands(child, childPath)...)
			continue
		}

		args := ""
		useParts := strings.Fields(child.Use)
		if len(useParts) > 1 {
			args = strings.Join(useParts[1:], " ")
		}

		entry := CommandEntry{Path: childPath, Short: child.Short, Args: args}
		collect := func(f *pflag.Flag) {
			if f.Hidden {
				return
			}
			entry.Flags = append(entry.Flags, FlagEntry{
				Name:    f.Name,
				Short:   f.Shorthand,
				Type:    f.Value.Type(),
				Default: f.DefValue,
				Usage:   f.Usage,
			})
		}
		child.Flags().VisitAll(collect)
		child.InheritedFlags().VisitAll(collect)

		entries = append(entries, entry)
	}
	return entries
}
