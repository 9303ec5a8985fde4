package querystate

import "fmt"

// Dialect selects the target SQL engine's syntax variant. It is passed
// explicitly on every render/parse call and never stored globally.
type Dialect int

const (
	// Postgres is the default dialect. Its builder surface does not
	// accept DISTINCT inside non-COUNT aggregates.
	Postgres Dialect = iota
	// MySQL accepts DISTINCT inside SUM/AVG/MAX/MIN.
	MySQL
	// DuckDB accepts DISTINCT inside SUM/AVG/MAX/MIN.
	DuckDB
)

// SupportsAggregateDistinct reports whether the dialect accepts DISTINCT
// inside non-COUNT aggregate calls. COUNT(DISTINCT col) is accepted
// everywhere.
func (d Dialect) SupportsAggregateDistinct() bool {
	switch d {
	case MySQL, DuckDB:
		return true
	}
	return false
}

func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case MySQL:
		return "mysql"
	case DuckDB:
		return "duckdb"
	}
	return fmt.Sprintf("dialect(%d)", int(d))
}

// ParseDialect maps a configuration string to a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "", "postgres", "postgresql":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	case "duckdb":
		return DuckDB, nil
	}
	return Postgres, fmt.Errorf("unknown dialect %q", s)
}
