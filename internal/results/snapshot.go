package results

import (
	"github.com/tbourn/go-motormony/internal/domain"
	"github.com/tbourn/go-motormony/internal/intent"
)

// ComparisonItem is a comparison entry annotated with whether it still
// appears in the current results.
type ComparisonItem struct {
	Vehicle   domain.Vehicle `json:"vehicle"`
	InResults bool           `json:"in_results"`
}

// Snapshot is everything a renderer needs to draw the session.
type Snapshot struct {
	Visible    []domain.Vehicle   `json:"visible"`
	Comparison []ComparisonItem   `json:"comparison"`
	HasMore    bool               `json:"has_more"`
	Remaining  int                `json:"remaining"`
	View       domain.ViewMode    `json:"view"`
	Years      []int              `json:"years"`
	Sort       domain.SortOrder   `json:"sort"`
	Year       domain.YearFilter  `json:"year" swaggertype:"string"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	Total      int                `json:"total"`
	Status     domain.Status      `json:"status"`
	Error      string             `json:"error,omitempty"`
	Query      string             `json:"query,omitempty"`
	Intent     intent.Intent      `json:"intent"`
	Suggestion *domain.Suggestion `json:"suggestion,omitempty"`
	Generation uint64             `json:"generation"`
	Revision   uint64             `json:"revision"`
	Epoch      string             `json:"epoch"`
}

// Snapshot copies the current state out of the session.
func (s *Session) Snapshot() Snapshot {
	items := s.compare.Items()
	cmp := make([]ComparisonItem, 0, len(items))
	for _, v := range items {
		cmp = append(cmp, ComparisonItem{Vehicle: v, InResults: s.state.InCanonical(v.Name)})
	}
	return Snapshot{
		Visible:    s.state.Visible(),
		Comparison: cmp,
		HasMore:    s.state.HasMore(),
		Remaining:  s.state.Remaining(),
		View:       s.view,
		Years:      s.state.Years(),
		Sort:       s.state.SortOrder(),
		Year:       s.state.Year(),
		Page:       s.state.Page(),
		PageSize:   PageSize,
		Total:      s.state.Total(),
		Status:     s.status,
		Error:      s.errMsg,
		Query:      s.query,
		Intent:     s.intent,
		Suggestion: s.suggestion,
		Generation: s.generation,
		Revision:   s.revision,
		Epoch:      s.epoch,
	}
}
