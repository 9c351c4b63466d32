// Package repo implements the data persistence layer for explorer sessions,
// backed by GORM. This file provides small aggregate queries used to build
// list ETags in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-motormony/internal/domain"
)

// SessionsStats returns the number of a user's sessions and their latest
// UpdatedAt (nil when there are none). Used for list ETags.
func SessionsStats(ctx context.Context, db *gorm.DB, userID string) (count int64, maxUpdatedAt *time.Time, err error) {
	return stats(db.WithContext(ctx).Model(&domain.Session{}).Where("user_id = ?", userID))
}

// SearchesStats returns the number of searches in a session and their latest
// UpdatedAt (nil when there are none).
func SearchesStats(ctx context.Context, db *gorm.DB, sessionID string) (count int64, maxUpdatedAt *time.Time, err error) {
	return stats(db.WithContext(ctx).Model(&domain.Search{}).Where("session_id = ?", sessionID))
}

func stats(q *gorm.DB) (int64, *time.Time, error) {
	var count int64
	if err := q.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// avoid MAX() -> TEXT in SQLite
	var row struct {
		UpdatedAt time.Time
	}
	if err := q.Session(&gorm.Session{}).Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
