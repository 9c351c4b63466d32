package domain

import (
	"time"

	"gorm.io/gorm"
)

// Session is a persisted explorer session owned by a user. It records the
// selections that survive across queries so that a session can be rebuilt
// after a restart.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: owner of the session; indexed for listing.
//   - SortOrder / YearFilter / ViewMode: the active selections.
//   - LastQuery: text of the most recent submitted query.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker.
type Session struct {
	ID         string         `json:"id"          gorm:"type:char(36);primaryKey"`
	UserID     string         `json:"user_id"     gorm:"type:varchar(64);not null;index:idx_user_sessions"`
	SortOrder  SortOrder      `json:"sort"        gorm:"type:varchar(16);not null;default:'score'"`
	YearFilter YearFilter     `json:"year"        gorm:"not null;default:0"`
	ViewMode   ViewMode       `json:"view"        gorm:"type:varchar(8);not null;default:'cards'"`
	LastQuery  string         `json:"last_query"  gorm:"type:text"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-"           gorm:"index"`
}

// TableName returns the database table name for Session.
func (Session) TableName() string { return "sessions" }

// Search is one submitted query and its outcome. Successful searches keep the
// full result payload so the latest one can seed a rehydrated session.
//
// Fields:
//   - SessionID: owning session (FK, cascade on delete).
//   - Generation: the engine generation the query was stamped with.
//   - Status: ready, empty, or failed.
//   - Results / Suggestion: JSON-serialized response payload.
type Search struct {
	ID          string         `json:"id"           gorm:"type:char(36);primaryKey"`
	SessionID   string         `json:"session_id"   gorm:"type:char(36);not null;index:idx_session_searches,priority:1"`
	Query       string         `json:"query"        gorm:"type:text;not null"`
	Intent      string         `json:"intent"       gorm:"type:varchar(16);not null"`
	Generation  uint64         `json:"generation"   gorm:"not null"`
	Status      Status         `json:"status"       gorm:"type:varchar(16);not null;check:status IN ('ready','empty','failed')"`
	ResultCount int            `json:"result_count" gorm:"not null;default:0"`
	Error       string         `json:"error,omitempty" gorm:"type:text"`
	Results     []Vehicle      `json:"-"            gorm:"serializer:json"`
	Suggestion  *Suggestion    `json:"suggestion,omitempty" gorm:"serializer:json"`
	CreatedAt   time.Time      `json:"created_at"   gorm:"index:idx_session_searches,priority:2"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"            gorm:"index"`

	Session Session `json:"-" gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Search.
func (Search) TableName() string { return "searches" }

// ComparisonEntry is one member of a session's comparison set. Membership is
// by vehicle name, unique per session; Position keeps insertion order.
type ComparisonEntry struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	SessionID string    `json:"session_id" gorm:"type:char(36);not null;uniqueIndex:ux_comparison_session_name,priority:1;index:idx_comparison_order,priority:1"`
	Name      string    `json:"name"       gorm:"type:varchar(255);not null;uniqueIndex:ux_comparison_session_name,priority:2"`
	Position  int       `json:"position"   gorm:"not null;index:idx_comparison_order,priority:2"`
	Vehicle   Vehicle   `json:"vehicle"    gorm:"serializer:json"`
	CreatedAt time.Time `json:"created_at"`

	Session Session `json:"-" gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ComparisonEntry.
func (ComparisonEntry) TableName() string { return "comparison_entries" }
