package services

import (
	"context"

	"github.com/tbourn/go-motormony/internal/domain"
	"github.com/tbourn/go-motormony/internal/intent"
	"github.com/tbourn/go-motormony/internal/results"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SetSort parses tag, persists it and re-sorts the working collection.
func (s *ExplorerService) SetSort(ctx context.Context, userID, sessionID, tag string) (results.Snapshot, error) {
	order, err := domain.ParseSortOrder(tag)
	if err != nil {
		return results.Snapshot{}, ErrInvalidSort
	}
	return s.mutateSelections(ctx, "SetSort", userID, sessionID,
		func(_ domain.SortOrder, year domain.YearFilter, view domain.ViewMode) (domain.SortOrder, domain.YearFilter, domain.ViewMode) {
			return order, year, view
		},
		func(sess *results.Session) { sess.SetSort(order) },
	)
}

// SetYear parses raw ("all" or a positive year), persists it and re-filters
// the working collection.
func (s *ExplorerService) SetYear(ctx context.Context, userID, sessionID, raw string) (results.Snapshot, error) {
	year, err := domain.ParseYearFilter(raw)
	if err != nil {
		return results.Snapshot{}, ErrInvalidYear
	}
	return s.mutateSelections(ctx, "SetYear", userID, sessionID,
		func(order domain.SortOrder, _ domain.YearFilter, view domain.ViewMode) (domain.SortOrder, domain.YearFilter, domain.ViewMode) {
			return order, year, view
		},
		func(sess *results.Session) { sess.SetYear(year) },
	)
}

// SetView parses tag and persists the view mode. Collections are untouched.
func (s *ExplorerService) SetView(ctx context.Context, userID, sessionID, tag string) (results.Snapshot, error) {
	mode, err := domain.ParseViewMode(tag)
	if err != nil {
		return results.Snapshot{}, ErrInvalidView
	}
	return s.mutateSelections(ctx, "SetView", userID, sessionID,
		func(order domain.SortOrder, year domain.YearFilter, _ domain.ViewMode) (domain.SortOrder, domain.YearFilter, domain.ViewMode) {
			return order, year, mode
		},
		func(sess *results.Session) { sess.SetView(mode) },
	)
}

// mutateSelections persists the new selections first and applies them to the
// engine only once the write succeeded.
func (s *ExplorerService) mutateSelections(
	ctx context.Context,
	op, userID, sessionID string,
	next func(domain.SortOrder, domain.YearFilter, domain.ViewMode) (domain.SortOrder, domain.YearFilter, domain.ViewMode),
	apply func(*results.Session),
) (results.Snapshot, error) {
	tr := otel.Tracer("services/ExplorerService")
	ctx, span := tr.Start(ctx, op, trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	var snap results.Snapshot
	err := s.with(ctx, userID, sessionID, func(sess *results.Session) error {
		order, year, view := next(sess.Selections())
		if err := s.Repo.UpdateSessionSelections(ctx, s.DB, sessionID, order, year, view); err != nil {
			return err
		}
		apply(sess)
		snap = sess.Snapshot()
		return nil
	})
	return snap, err
}

// LoadMore grows the visible prefix by one page. advanced is false when every
// working record was already visible.
func (s *ExplorerService) LoadMore(ctx context.Context, userID, sessionID string) (snap results.Snapshot, advanced bool, err error) {
	err = s.with(ctx, userID, sessionID, func(sess *results.Session) error {
		advanced, _ = sess.LoadMore()
		snap = sess.Snapshot()
		return nil
	})
	return snap, advanced, err
}

// Explain describes the working record at index under the session's current
// query intent.
func (s *ExplorerService) Explain(ctx context.Context, userID, sessionID string, index int) (intent.Explanation, error) {
	var out intent.Explanation
	err := s.with(ctx, userID, sessionID, func(sess *results.Session) error {
		var err error
		out, err = sess.Explain(index)
		return err
	})
	return out, err
}
