// Package repo implements the data persistence layer for explorer sessions,
// backed by GORM. This file provides repository functions for the Session
// model, scoped by owning user.
//
// Error semantics:
//   - A missing or foreign session returns ErrNotFound
//     (gorm.ErrRecordNotFound).
//   - Other database errors are propagated unchanged.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-motormony/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateSession inserts a new session owned by userID with default
// selections.
func CreateSession(ctx context.Context, db *gorm.DB, userID string) (*domain.Session, error) {
	now := time.Now().UTC()
	s := &domain.Session{
		ID:         uuid.NewString(),
		UserID:     userID,
		SortOrder:  domain.DefaultSort,
		YearFilter: domain.AllYears,
		ViewMode:   domain.ViewCards,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetSession fetches a session by ID and owner, or ErrNotFound.
func GetSession(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Session, error) {
	var s domain.Session
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CountSessions returns the number of sessions owned by userID.
func CountSessions(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListSessionsPage returns a page of userID's sessions, most recently
// updated first.
func ListSessionsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Session, error) {
	var out []domain.Session
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc, id asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateSessionSelections stores the active sort, year filter and view mode.
func UpdateSessionSelections(ctx context.Context, db *gorm.DB, id string, order domain.SortOrder, year domain.YearFilter, view domain.ViewMode) error {
	return updateSession(ctx, db, id, map[string]any{
		"sort_order":  order,
		"year_filter": year,
		"view_mode":   view,
	})
}

// UpdateSessionQuery records the latest submitted query text.
func UpdateSessionQuery(ctx context.Context, db *gorm.DB, id, query string) error {
	return updateSession(ctx, db, id, map[string]any{"last_query": query})
}

// TouchSession bumps UpdatedAt so list ETags change.
func TouchSession(ctx context.Context, db *gorm.DB, id string) error {
	return updateSession(ctx, db, id, map[string]any{})
}

func updateSession(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	res := db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
