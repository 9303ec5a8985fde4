package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvinwquach/sculptql-sub000/internal/history"
	"github.com/alvinwquach/sculptql-sub000/internal/querystate"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupQueryService(t *testing.T) (*QueryService, *history.Store) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (id, name) VALUES (1, 'Alice'), (2, 'Bob')`)
	require.NoError(t, err)

	hist, err := history.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { hist.Close() })

	return NewQueryService(db, hist, querystate.Postgres, discardLogger()), hist
}

func TestQueryService_Execute(t *testing.T) {
	svc, _ := setupQueryService(t)

	result, err := svc.Execute(context.Background(), "SELECT id, name FROM users ORDER BY id")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, result.Columns)
	assert.Equal(t, 2, result.RowCount)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Alice", result.Rows[0][1])
}

func TestQueryService_ExecuteRecordsHistory(t *testing.T) {
	svc, hist := setupQueryService(t)

	_, err := svc.Execute(context.Background(), "SELECT * FROM users")
	require.NoError(t, err)

	entries, err := hist.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "SELECT * FROM users", entries[0].SQL)
	assert.True(t, entries[0].Succeeded)
	assert.EqualValues(t, 2, entries[0].RowCount)
}

func TestQueryService_ExecuteErrorRecorded(t *testing.T) {
	svc, hist := setupQueryService(t)

	_, err := svc.Execute(context.Background(), "SELECT * FROM missing_table")
	require.Error(t, err)

	entries, err := hist.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Succeeded)
	assert.NotEmpty(t, entries[0].ErrorMsg)
}

func TestQueryService_NilHistoryIsFine(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewQueryService(db, nil, querystate.Postgres, discardLogger())
	result, err := svc.Execute(context.Background(), "SELECT 1 AS one")
	require.NoError(t, err)
	assert.Equal(t, 1, result.RowCount)
}

func TestHistoryService_NilStoreListsEmpty(t *testing.T) {
	svc := NewHistoryService(nil)
	entries, err := svc.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
