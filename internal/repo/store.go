// Package repo implements the data persistence layer for explorer sessions,
// backed by GORM. This file adapts the package-level functions to the
// services.ExplorerRepo interface through the zero-size Store type.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-motormony/internal/domain"
)

// Store exposes the repository free functions as methods so that callers can
// depend on an interface (services.ExplorerRepo) instead of this package.
type Store struct{}

func (Store) CreateSession(ctx context.Context, db *gorm.DB, userID string) (*domain.Session, error) {
	return CreateSession(ctx, db, userID)
}

func (Store) GetSession(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Session, error) {
	return GetSession(ctx, db, id, userID)
}

func (Store) CountSessions(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return CountSessions(ctx, db, userID)
}

func (Store) ListSessionsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Session, error) {
	return ListSessionsPage(ctx, db, userID, offset, limit)
}

func (Store) UpdateSessionSelections(ctx context.Context, db *gorm.DB, id string, order domain.SortOrder, year domain.YearFilter, view domain.ViewMode) error {
	return UpdateSessionSelections(ctx, db, id, order, year, view)
}

func (Store) UpdateSessionQuery(ctx context.Context, db *gorm.DB, id, query string) error {
	return UpdateSessionQuery(ctx, db, id, query)
}

func (Store) CreateSearch(ctx context.Context, db *gorm.DB, s *domain.Search) error {
	return CreateSearch(ctx, db, s)
}

func (Store) GetSearch(ctx context.Context, db *gorm.DB, sessionID, id string) (*domain.Search, error) {
	return GetSearch(ctx, db, sessionID, id)
}

func (Store) LatestSearch(ctx context.Context, db *gorm.DB, sessionID string) (*domain.Search, error) {
	return LatestSearch(ctx, db, sessionID)
}

func (Store) LatestSuccessfulSearch(ctx context.Context, db *gorm.DB, sessionID string) (*domain.Search, error) {
	return LatestSuccessfulSearch(ctx, db, sessionID)
}

func (Store) CountSearches(ctx context.Context, db *gorm.DB, sessionID string) (int64, error) {
	return CountSearches(ctx, db, sessionID)
}

func (Store) ListSearchesPage(ctx context.Context, db *gorm.DB, sessionID string, offset, limit int) ([]domain.Search, error) {
	return ListSearchesPage(ctx, db, sessionID, offset, limit)
}

func (Store) MaxGeneration(ctx context.Context, db *gorm.DB, sessionID string) (uint64, error) {
	return MaxGeneration(ctx, db, sessionID)
}

func (Store) ListComparison(ctx context.Context, db *gorm.DB, sessionID string) ([]domain.ComparisonEntry, error) {
	return ListComparison(ctx, db, sessionID)
}

func (Store) ReplaceComparison(ctx context.Context, db *gorm.DB, sessionID string, items []domain.Vehicle) error {
	return ReplaceComparison(ctx, db, sessionID, items)
}

func (Store) GetIdempotency(ctx context.Context, db *gorm.DB, userID, sessionID, key string, now time.Time) (*domain.Idempotency, error) {
	return GetIdempotency(ctx, db, userID, sessionID, key, now)
}

func (Store) CreateIdempotency(ctx context.Context, db *gorm.DB, userID, sessionID, key, searchID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	return CreateIdempotency(ctx, db, userID, sessionID, key, searchID, status, ttl)
}

func (Store) PurgeExpiredIdempotency(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	return PurgeExpiredIdempotency(ctx, db, now)
}
