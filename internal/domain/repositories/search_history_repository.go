package repositories

import (
	"context"

	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
)

// SearchHistoryRepository persists per-user search history.
type SearchHistoryRepository interface {
	Record(ctx context.Context, entry *entities.SearchHistoryEntry) error
	// ListByUser returns the newest entries first. An empty searchType
	// matches every type.
	ListByUser(ctx context.Context, userID string, searchType entities.SearchType, limit int) ([]*entities.SearchHistoryEntry, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
