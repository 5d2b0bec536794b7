package database

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
	"github.com/yab-g4u/IDA-sub000/internal/domain/repositories"
	"github.com/yab-g4u/IDA-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/yab-g4u/IDA-sub000/pkg/errors"
)

const searchHistoryTable = "search_history"

const (
	pqUniqueViolation     = "23505"
	pqCheckViolation      = "23514"
	pqInvalidTextEncoding = "22P02"
)

// SearchHistoryAdapter implements SearchHistoryRepository on PostgreSQL.
type SearchHistoryAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

var _ repositories.SearchHistoryRepository = (*SearchHistoryAdapter)(nil)

// NewSearchHistoryAdapter creates a new search history adapter
func NewSearchHistoryAdapter(client *postgres.Client) *SearchHistoryAdapter {
	return &SearchHistoryAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Record inserts entry, assigning an ID and timestamp when they are unset.
func (a *SearchHistoryAdapter) Record(ctx context.Context, entry *entities.SearchHistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query, args, err := a.db.Insert(searchHistoryTable).Prepared(true).Rows(goqu.Record{
		"id":             entry.ID,
		"user_id":        entry.UserID,
		"search_type":    string(entry.Type),
		"query":          entry.Query,
		"location_label": entry.LocationLabel,
		"created_at":     entry.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return classify("failed to record search", err)
	}
	return nil
}

// ListByUser returns up to limit entries for userID, newest first.
func (a *SearchHistoryAdapter) ListByUser(ctx context.Context, userID string, searchType entities.SearchType, limit int) ([]*entities.SearchHistoryEntry, error) {
	ds := a.db.From(searchHistoryTable).Prepared(true).
		Select("id", "user_id", "search_type", "query", "location_label", "created_at").
		Where(goqu.Ex{"user_id": userID})
	if searchType != "" {
		ds = ds.Where(goqu.Ex{"search_type": string(searchType)})
	}
	ds = ds.Order(goqu.I("created_at").Desc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("failed to list search history", err)
	}
	defer rows.Close()

	entries := []*entities.SearchHistoryEntry{}
	for rows.Next() {
		e := &entities.SearchHistoryEntry{}
		var searchType string
		if err := rows.Scan(&e.ID, &e.UserID, &searchType, &e.Query, &e.LocationLabel, &e.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan search history", err)
		}
		e.Type = entities.SearchType(searchType)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate search history", err)
	}
	return entries, nil
}

// DeleteByUser removes all of a user's entries and reports how many went.
func (a *SearchHistoryAdapter) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	query, args, err := a.db.Delete(searchHistoryTable).Prepared(true).
		Where(goqu.Ex{"user_id": userID}).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build delete query", err)
	}

	res, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify("failed to clear search history", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to get rows affected", err)
	}
	return n, nil
}

// classify maps driver errors onto application error types.
func classify(message string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return apperrors.NewConflictError(message + ": duplicate entry")
		case pqCheckViolation, pqInvalidTextEncoding:
			return apperrors.NewValidationError(message + ": " + pqErr.Message)
		}
	}
	return apperrors.NewInternalError(message, err)
}
