package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/alvinwquach/sculptql-sub000/internal/history"
	"github.com/alvinwquach/sculptql-sub000/internal/planstats"
	"github.com/alvinwquach/sculptql-sub000/internal/querystate"
)

// QueryResult holds the structured output of a SQL query.
type QueryResult struct {
	Columns  []string        `json:"columns"`
	Rows     [][]interface{} `json:"rows"`
	RowCount int             `json:"rowCount"`
}

// QueryService executes built statements against the data connection
// and records each run in history.
type QueryService struct {
	db      *sql.DB
	history *history.Store
	dialect querystate.Dialect
	logger  *slog.Logger
}

func NewQueryService(db *sql.DB, hist *history.Store, d querystate.Dialect, logger *slog.Logger) *QueryService {
	return &QueryService{db: db, history: hist, dialect: d, logger: logger}
}

// Execute runs a SQL query and returns structured results.
func (s *QueryService) Execute(ctx context.Context, sqlQuery string) (*QueryResult, error) {
	start := time.Now()

	rows, err := s.db.QueryContext(ctx, sqlQuery)
	duration := time.Since(start).Milliseconds()

	if err != nil {
		s.record(ctx, sqlQuery, duration, 0, err)
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		s.record(ctx, sqlQuery, duration, 0, err)
		return nil, fmt.Errorf("scan results: %w", err)
	}

	s.record(ctx, sqlQuery, duration, int64(result.RowCount), nil)
	return result, nil
}

// Explain runs EXPLAIN ANALYZE on the statement and returns the parsed
// operator tree with a summary. DuckDB only; other drivers get the raw
// rows back as an error-free single-column result via Execute.
func (s *QueryService) Explain(ctx context.Context, sqlQuery string) (*planstats.Node, *planstats.Summary, error) {
	row := s.db.QueryRowContext(ctx,
		"EXPLAIN ANALYZE (FORMAT json) "+sqlQuery)

	var planType, planJSON string
	if err := row.Scan(&planType, &planJSON); err != nil {
		return nil, nil, fmt.Errorf("explain query: %w", err)
	}

	node, err := planstats.Parse([]byte(planJSON))
	if err != nil {
		return nil, nil, err
	}
	summary := planstats.Summarize(node)
	return node, &summary, nil
}

func scanRows(rows *sql.Rows) (*QueryResult, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var resultRows [][]interface{}
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		// Convert byte slices to strings for JSON serialization
		row := make([]interface{}, len(vals))
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				row[i] = string(b)
			} else {
				row[i] = v
			}
		}
		resultRows = append(resultRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &QueryResult{
		Columns:  cols,
		Rows:     resultRows,
		RowCount: len(resultRows),
	}, nil
}

// record is best-effort history logging; a history failure never fails
// the query itself.
func (s *QueryService) record(ctx context.Context, sqlQuery string, durationMs, rowCount int64, execErr error) {
	if s.history == nil {
		return
	}
	entry := history.Entry{
		SQL:        sqlQuery,
		Dialect:    s.dialect.String(),
		DurationMs: durationMs,
		RowCount:   rowCount,
		Succeeded:  execErr == nil,
	}
	if execErr != nil {
		entry.ErrorMsg = execErr.Error()
	}
	if _, err := s.history.Record(ctx, entry); err != nil {
		s.logger.Warn("history record failed", "error", err)
	}
}
