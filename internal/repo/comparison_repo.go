// Package repo implements the data persistence layer for explorer sessions,
// backed by GORM. This file persists a session's comparison set as ordered
// entries, rewritten as a whole on each change.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-motormony/internal/domain"
)

// ListComparison returns a session's comparison entries in position order.
func ListComparison(ctx context.Context, db *gorm.DB, sessionID string) ([]domain.ComparisonEntry, error) {
	var out []domain.ComparisonEntry
	err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("position asc").
		Find(&out).Error
	return out, err
}

// ReplaceComparison overwrites a session's comparison set with items, in
// order, inside one transaction. Duplicate names fail with ErrDuplicate.
func ReplaceComparison(ctx context.Context, db *gorm.DB, sessionID string, items []domain.Vehicle) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&domain.ComparisonEntry{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		now := time.Now().UTC()
		rows := make([]domain.ComparisonEntry, 0, len(items))
		for i, v := range items {
			rows = append(rows, domain.ComparisonEntry{
				ID:        uuid.NewString(),
				SessionID: sessionID,
				Name:      v.Name,
				Position:  i,
				Vehicle:   v,
				CreatedAt: now,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	})
}
