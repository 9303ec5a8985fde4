package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvinwquach/sculptql-sub000/internal/domain"
	"github.com/alvinwquach/sculptql-sub000/internal/querystate"
	"github.com/alvinwquach/sculptql-sub000/internal/schema"
)

func newTestEditor() *EditorService {
	cat := &schema.Catalog{
		Tables: []string{"users"},
		Columns: map[string][]string{
			"users": {"id", "name", "age"},
		},
	}
	return NewEditorService(func() *schema.Catalog { return cat }, querystate.Postgres)
}

func TestEditorService_CreateTab(t *testing.T) {
	svc := newTestEditor()

	tab := svc.CreateTab()
	assert.NotEmpty(t, tab.ID)
	assert.Empty(t, tab.State.Table)
	assert.Equal(t, "postgres", tab.Dialect)
}

func TestEditorService_GetTab(t *testing.T) {
	svc := newTestEditor()
	created := svc.CreateTab()

	got, err := svc.GetTab(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetTab("missing")
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestEditorService_StructuredEdit(t *testing.T) {
	svc := newTestEditor()
	tab := svc.CreateTab()

	got, err := svc.StructuredEdit(tab.ID, querystate.QueryState{
		Table:   "users",
		Columns: []querystate.SelectOption{{Value: "id", Label: "id"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM users;", got.Text)
	assert.Equal(t, "users", got.State.Table)
}

func TestEditorService_TextEdit(t *testing.T) {
	svc := newTestEditor()
	tab := svc.CreateTab()

	got, err := svc.TextEdit(tab.ID, "SELECT name FROM users WHERE age > 21")
	require.NoError(t, err)
	assert.Equal(t, "users", got.State.Table)
	require.Len(t, got.State.Where, 1)
	assert.Equal(t, "SELECT name FROM users WHERE age > 21", got.Text)
}

func TestEditorService_TabsAreIndependent(t *testing.T) {
	svc := newTestEditor()
	a := svc.CreateTab()
	b := svc.CreateTab()

	_, err := svc.StructuredEdit(a.ID, querystate.QueryState{Table: "users"})
	require.NoError(t, err)

	gotB, err := svc.GetTab(b.ID)
	require.NoError(t, err)
	assert.Empty(t, gotB.State.Table, "editing one tab must not leak into another")
}

func TestEditorService_CloseTab(t *testing.T) {
	svc := newTestEditor()
	tab := svc.CreateTab()

	require.NoError(t, svc.CloseTab(tab.ID))
	assert.Error(t, svc.CloseTab(tab.ID))
	_, err := svc.GetTab(tab.ID)
	assert.Error(t, err)
}

func TestEditorService_ListTabs(t *testing.T) {
	svc := newTestEditor()
	assert.Empty(t, svc.ListTabs())

	svc.CreateTab()
	svc.CreateTab()
	assert.Len(t, svc.ListTabs(), 2)
}
