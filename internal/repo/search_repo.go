// Package repo implements the data persistence layer for explorer sessions,
// backed by GORM. This file provides repository functions for the Search
// model: the per-session history of classified queries and their results.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-motormony/internal/domain"
)

// CreateSearch inserts a search row. ID and CreatedAt are filled when empty.
func CreateSearch(ctx context.Context, db *gorm.DB, s *domain.Search) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(s).Error
}

// GetSearch fetches a search by ID within a session.
func GetSearch(ctx context.Context, db *gorm.DB, sessionID, id string) (*domain.Search, error) {
	var s domain.Search
	if err := db.WithContext(ctx).Where("id = ? AND session_id = ?", id, sessionID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// LatestSearch returns the newest search of a session, or ErrNotFound.
func LatestSearch(ctx context.Context, db *gorm.DB, sessionID string) (*domain.Search, error) {
	return latest(ctx, db.Where("session_id = ?", sessionID))
}

// LatestSuccessfulSearch returns the newest ready or empty search, whose
// results seed a rehydrated session.
func LatestSuccessfulSearch(ctx context.Context, db *gorm.DB, sessionID string) (*domain.Search, error) {
	return latest(ctx, db.Where("session_id = ? AND status IN ?", sessionID,
		[]domain.Status{domain.StatusReady, domain.StatusEmpty}))
}

func latest(ctx context.Context, q *gorm.DB) (*domain.Search, error) {
	var s domain.Search
	err := q.WithContext(ctx).Order("generation desc, created_at desc").First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CountSearches uses a raw COUNT so a missing table surfaces as an error.
func CountSearches(ctx context.Context, db *gorm.DB, sessionID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM searches WHERE session_id = ? AND deleted_at IS NULL", sessionID).Scan(&total).Error
	return total, err
}

// ListSearchesPage returns a page of a session's history, newest first.
// Result payloads are not loaded.
func ListSearchesPage(ctx context.Context, db *gorm.DB, sessionID string, offset, limit int) ([]domain.Search, error) {
	var out []domain.Search
	err := db.WithContext(ctx).
		Select("id", "session_id", "query", "intent", "generation", "status", "result_count", "error", "suggestion", "created_at", "updated_at").
		Where("session_id = ?", sessionID).
		Order("generation desc, created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// MaxGeneration returns the highest generation recorded for a session, or 0.
func MaxGeneration(ctx context.Context, db *gorm.DB, sessionID string) (uint64, error) {
	s, err := LatestSearch(ctx, db, sessionID)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return s.Generation, nil
}
