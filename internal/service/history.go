package service

import (
	"context"

	"github.com/alvinwquach/sculptql-sub000/internal/history"
)

// HistoryService exposes read access to the execution history store.
type HistoryService struct {
	store *history.Store
}

func NewHistoryService(store *history.Store) *HistoryService {
	return &HistoryService{store: store}
}

// List returns the most recent entries, newest first. A disabled store
// yields an empty list rather than an error.
func (s *HistoryService) List(ctx context.Context, limit int) ([]history.Entry, error) {
	if s.store == nil {
		return []history.Entry{}, nil
	}
	return s.store.List(ctx, limit)
}
