package schema

import (
	"context"
	"database/sql"
	"fmt"
)

// Introspect builds a Catalog from a live connection. The driver name
// picks the introspection strategy: SQLite walks sqlite_master and
// PRAGMA table_info, everything else (DuckDB included) reads
// information_schema.
func Introspect(ctx context.Context, db *sql.DB, driver string) (*Catalog, error) {
	switch driver {
	case "sqlite3", "sqlite":
		return introspectSQLite(ctx, db)
	default:
		return introspectInformationSchema(ctx, db)
	}
}

func introspectSQLite(ctx context.Context, db *sql.DB) (*Catalog, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	cat := &Catalog{Columns: map[string][]string{}}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		cat.Tables = append(cat.Tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, table := range cat.Tables {
		cols, err := sqliteColumns(ctx, db, table)
		if err != nil {
			return nil, fmt.Errorf("columns for %q: %w", table, err)
		}
		cat.Columns[table] = cols
	}
	return cat, nil
}

func sqliteColumns(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	// PRAGMA table_info does not accept bound parameters; the table name
	// comes from sqlite_master, not from user input.
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%q)`, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

func introspectInformationSchema(ctx context.Context, db *sql.DB) (*Catalog, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT table_name, column_name
		 FROM information_schema.columns
		 WHERE table_schema NOT IN ('information_schema', 'pg_catalog')
		 ORDER BY table_name, ordinal_position`)
	if err != nil {
		return nil, fmt.Errorf("read information_schema: %w", err)
	}
	defer rows.Close()

	cat := &Catalog{Columns: map[string][]string{}}
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
		if _, seen := cat.Columns[table]; !seen {
			cat.Tables = append(cat.Tables, table)
		}
		cat.Columns[table] = append(cat.Columns[table], column)
	}
	return cat, rows.Err()
}
