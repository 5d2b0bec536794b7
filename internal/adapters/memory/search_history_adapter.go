package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
	"github.com/yab-g4u/IDA-sub000/internal/domain/repositories"
)

// DefaultMaxEntriesPerUser bounds how much history is kept per user.
const DefaultMaxEntriesPerUser = 200

// SearchHistoryAdapter keeps search history in process memory. It backs the
// history endpoints when no database is configured.
type SearchHistoryAdapter struct {
	mu         sync.RWMutex
	byUser     map[string][]*entities.SearchHistoryEntry
	maxPerUser int
}

var _ repositories.SearchHistoryRepository = (*SearchHistoryAdapter)(nil)

func NewSearchHistoryAdapter(maxPerUser int) *SearchHistoryAdapter {
	if maxPerUser <= 0 {
		maxPerUser = DefaultMaxEntriesPerUser
	}
	return &SearchHistoryAdapter{
		byUser:     make(map[string][]*entities.SearchHistoryEntry),
		maxPerUser: maxPerUser,
	}
}

func (a *SearchHistoryAdapter) Record(_ context.Context, entry *entities.SearchHistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	stored := *entry

	a.mu.Lock()
	defer a.mu.Unlock()
	list := append(a.byUser[entry.UserID], &stored)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	if len(list) > a.maxPerUser {
		list = list[:a.maxPerUser]
	}
	a.byUser[entry.UserID] = list
	return nil
}

func (a *SearchHistoryAdapter) ListByUser(_ context.Context, userID string, searchType entities.SearchType, limit int) ([]*entities.SearchHistoryEntry, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := []*entities.SearchHistoryEntry{}
	for _, e := range a.byUser[userID] {
		if searchType != "" && e.Type != searchType {
			continue
		}
		cp := *e
		out = append(out, &cp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (a *SearchHistoryAdapter) DeleteByUser(_ context.Context, userID string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := int64(len(a.byUser[userID]))
	delete(a.byUser, userID)
	return n, nil
}
