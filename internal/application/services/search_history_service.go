package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
	"github.com/yab-g4u/IDA-sub000/internal/domain/repositories"
	apperrors "github.com/yab-g4u/IDA-sub000/pkg/errors"
	"github.com/yab-g4u/IDA-sub000/pkg/retry"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100

	trackTimeout = 5 * time.Second
)

// SearchHistoryService records and serves a signed-in user's searches.
type SearchHistoryService struct {
	repo      repositories.SearchHistoryRepository
	readRetry retry.Config
	wg        sync.WaitGroup
	now       func() time.Time
}

// NewSearchHistoryService creates a new search history service
func NewSearchHistoryService(repo repositories.SearchHistoryRepository) *SearchHistoryService {
	return &SearchHistoryService{
		repo:      repo,
		readRetry: retry.ReadConfig(),
		now:       time.Now,
	}
}

// Track records a search in the background so the caller never waits on
// storage. Anonymous searches and blank queries are ignored. Failures are
// logged and dropped.
func (s *SearchHistoryService) Track(userID string, searchType entities.SearchType, query, locationLabel string) {
	if s == nil || userID == "" || strings.TrimSpace(query) == "" || !searchType.Valid() {
		return
	}

	entry := &entities.SearchHistoryEntry{
		UserID:        userID,
		Type:          searchType,
		Query:         strings.TrimSpace(query),
		LocationLabel: locationLabel,
		CreatedAt:     s.now().UTC(),
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
		defer cancel()

		if err := s.repo.Record(ctx, entry); err != nil {
			log.Warn().Err(err).
				Str("user_id", userID).
				Str("type", string(searchType)).
				Msg("Failed to record search history")
		}
	}()
}

// Wait blocks until every pending Track call has finished.
func (s *SearchHistoryService) Wait() {
	if s == nil {
		return
	}
	s.wg.Wait()
}

// List returns the user's history, newest first. Reads are retried briefly
// since they run on the request path.
func (s *SearchHistoryService) List(ctx context.Context, userID string, searchType entities.SearchType, limit int) ([]*entities.SearchHistoryEntry, error) {
	if userID == "" {
		return nil, apperrors.NewUnauthorizedError("sign in to view search history")
	}
	if searchType != "" && !searchType.Valid() {
		return nil, apperrors.NewValidationError("type must be medicine or pharmacy")
	}
	limit = clampHistoryLimit(limit)

	var entries []*entities.SearchHistoryEntry
	err := retry.DoWithLog(ctx, s.readRetry, "search history", func() error {
		var err error
		entries, err = s.repo.ListByUser(ctx, userID, searchType, limit)
		if err != nil && !retryable(err) {
			return retry.Permanent(err)
		}
		return err
	}, func(attempt int, err error, nextDelay time.Duration) {
		log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("Search history read failed")
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Type != apperrors.ErrorTypeInternal {
			return nil, err
		}
		return nil, apperrors.NewInternalError("failed to load search history", err)
	}
	if entries == nil {
		entries = []*entities.SearchHistoryEntry{}
	}
	return entries, nil
}

// Clear deletes the user's history and reports how many entries went.
func (s *SearchHistoryService) Clear(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, apperrors.NewUnauthorizedError("sign in to clear search history")
	}
	return s.repo.DeleteByUser(ctx, userID)
}

// retryable reports whether a read failure may be transient. Typed errors
// other than internal ones are caller mistakes.
func retryable(err error) bool {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Type == apperrors.ErrorTypeInternal
	}
	return true
}

func clampHistoryLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		return MaxHistoryLimit
	default:
		return limit
	}
}
