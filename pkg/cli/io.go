package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alvinwquach/sculptql-sub000/internal/querystate"
	"github.com/alvinwquach/sculptql-sub000/internal/schema"
)

type globalOptions struct {
	catalogPath string
	dialectName string
	output      string
}

func (o *globalOptions) dialect() (querystate.Dialect, error) {
	return querystate.ParseDialect(strings.ToLower(o.dialectName))
}

// loadCatalog reads the catalog YAML file. A missing --catalog flag
// yields an empty catalog, under which every parse resets.
func (o *globalOptions) loadCatalog() (*schema.Catalog, error) {
	if o.catalogPath == "" {
		return &schema.Catalog{}, nil
	}
	data, err := os.ReadFile(o.catalogPath)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var cat schema.Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &cat, nil
}

// loadState reads a query state file, YAML or JSON by extension.
func loadState(path string) (querystate.QueryState, error) {
	var st querystate.QueryState
	data, err := os.ReadFile(path)
	if err != nil {
		return st, fmt.Errorf("read state: %w", err)
	}
	if strings.HasSuffix(path, ".json") {
		if err := json.Unmarshal(data, &st); err != nil {
			return st, fmt.Errorf("parse state: %w", err)
		}
		return st, nil
	}
	if err := yaml.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("parse state: %w", err)
	}
	return st, nil
}

// readSQL takes the statement from the argument, or stdin when the
// argument is "-" or absent.
func readSQL(args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
