package service

import (
	"sync"

	"github.com/google/uuid"

	"github.com/alvinwquach/sculptql-sub000/internal/domain"
	"github.com/alvinwquach/sculptql-sub000/internal/editor"
	"github.com/alvinwquach/sculptql-sub000/internal/querystate"
	"github.com/alvinwquach/sculptql-sub000/internal/schema"
)

// Tab is one open query editor with its own state and text.
type Tab struct {
	ID      string                `json:"id"`
	State   querystate.QueryState `json:"state"`
	Text    string                `json:"text"`
	Dialect string                `json:"dialect"`
}

// EditorService manages editor tabs, each backed by its own controller.
type EditorService struct {
	mu      sync.Mutex
	tabs    map[string]*editor.Controller
	catalog editor.CatalogFunc
	dialect querystate.Dialect
}

func NewEditorService(catalog editor.CatalogFunc, d querystate.Dialect) *EditorService {
	return &EditorService{
		tabs:    make(map[string]*editor.Controller),
		catalog: catalog,
		dialect: d,
	}
}

// CreateTab opens a new empty tab and returns its snapshot.
func (s *EditorService) CreateTab() *Tab {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.tabs[id] = editor.New(s.catalog, s.dialect)
	return s.snapshot(id)
}

// GetTab returns the tab's current state and text.
func (s *EditorService) GetTab(id string) (*Tab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tabs[id]; !ok {
		return nil, domain.ErrNotFound("tab %s not found", id)
	}
	return s.snapshot(id), nil
}

// ListTabs returns a snapshot of every open tab.
func (s *EditorService) ListTabs() []*Tab {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Tab, 0, len(s.tabs))
	for id := range s.tabs {
		out = append(out, s.snapshot(id))
	}
	return out
}

// CloseTab discards a tab.
func (s *EditorService) CloseTab(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tabs[id]; !ok {
		return domain.ErrNotFound("tab %s not found", id)
	}
	delete(s.tabs, id)
	return nil
}

// StructuredEdit replaces the tab's state from a form edit and returns
// the regenerated tab, text included.
func (s *EditorService) StructuredEdit(id string, st querystate.QueryState) (*Tab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, ok := s.tabs[id]
	if !ok {
		return nil, domain.ErrNotFound("tab %s not found", id)
	}
	ctrl.StructuredEdit(st)
	return s.snapshot(id), nil
}

// TextEdit feeds raw SQL typed by the user into the tab.
func (s *EditorService) TextEdit(id, text string) (*Tab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, ok := s.tabs[id]
	if !ok {
		return nil, domain.ErrNotFound("tab %s not found", id)
	}
	ctrl.TextEdit(text)
	return s.snapshot(id), nil
}

// Catalog returns the current catalog as seen by new parses.
func (s *EditorService) Catalog() *schema.Catalog {
	return s.catalog()
}

// Dialect returns the dialect every tab renders and parses under.
func (s *EditorService) Dialect() querystate.Dialect {
	return s.dialect
}

// snapshot builds a Tab view; callers hold the lock.
func (s *EditorService) snapshot(id string) *Tab {
	ctrl := s.tabs[id]
	return &Tab{
		ID:      id,
		State:   ctrl.State(),
		Text:    ctrl.Text(),
		Dialect: s.dialect.String(),
	}
}
