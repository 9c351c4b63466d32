package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/tbourn/go-motormony/internal/domain"
	"github.com/tbourn/go-motormony/internal/intent"
	"github.com/tbourn/go-motormony/internal/repo"
	"github.com/tbourn/go-motormony/internal/results"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SearchResult is the outcome of a submitted query.
type SearchResult struct {
	Search   *domain.Search
	Snapshot results.Snapshot
	// Replayed is true when the search was answered from an earlier request
	// carrying the same Idempotency-Key.
	Replayed bool
}

// Search runs query for the session and applies the response to its engine.
//
// The query is stamped with a new generation before the recommendation
// service is called; the session lock is released for the duration of the
// call. A response for a generation that was superseded in the meantime is
// discarded and reported as ErrStaleResponse. A failed call is recorded on the
// session (status failed, previous results kept) and returned wrapped around
// recommend.ErrService.
//
// When key is non-empty and a live idempotency record exists, the stored
// search is returned without calling the service.
func (s *ExplorerService) Search(ctx context.Context, userID, sessionID, query, key string) (*SearchResult, error) {
	tr := otel.Tracer("services/ExplorerService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if s.MaxQueryRunes > 0 && utf8.RuneCountInString(query) > s.MaxQueryRunes {
		return nil, ErrQueryTooLong
	}

	e, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if key != "" {
		if res, ok := s.replay(ctx, e, userID, sessionID, key); ok {
			span.SetAttributes(attribute.Bool("idempotent.replay", true))
			return res, nil
		}
	}

	e.mu.Lock()
	e.lastUsed = s.now()
	gen := e.sess.BeginQuery(query)
	e.mu.Unlock()
	span.SetAttributes(attribute.Int64("generation", int64(gen)))

	resp, callErr := s.Recommender.Recommend(ctx, query)

	e.mu.Lock()
	var applyErr error
	if callErr != nil {
		applyErr = e.sess.Fail(gen, callErr)
	} else {
		applyErr = e.sess.Complete(gen, resp.Results, resp.Suggestion)
	}
	snap := e.sess.Snapshot()
	e.mu.Unlock()

	if errors.Is(applyErr, results.ErrStaleResponse) {
		s.metrics().StaleResponse()
		span.SetAttributes(attribute.Bool("stale", true))
		return nil, ErrStaleResponse
	}

	rec := &domain.Search{
		SessionID:  sessionID,
		Query:      query,
		Intent:     string(intent.Classify(query)),
		Generation: gen,
	}
	if callErr != nil {
		rec.Status = domain.StatusFailed
		rec.Error = callErr.Error()
	} else {
		rec.Results = resp.Results
		rec.Suggestion = resp.Suggestion
		rec.ResultCount = len(resp.Results)
		rec.Status = domain.StatusReady
		if rec.ResultCount == 0 {
			rec.Status = domain.StatusEmpty
		}
	}

	// The engine has already moved on; record the outcome even when the
	// caller has gone away.
	pctx := context.WithoutCancel(ctx)
	if err := s.Repo.CreateSearch(pctx, s.DB, rec); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.Repo.UpdateSessionQuery(pctx, s.DB, sessionID, query); err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.metrics().SearchFinished(string(rec.Status))
	span.SetAttributes(
		attribute.String("search.status", string(rec.Status)),
		attribute.Int("search.results", rec.ResultCount),
	)

	if callErr != nil {
		span.SetStatus(codes.Error, "recommendation failed")
		return nil, fmt.Errorf("search %s: %w", rec.ID, callErr)
	}

	if key != "" {
		if _, err := s.Repo.CreateIdempotency(pctx, s.DB, userID, sessionID, key, rec.ID, http.StatusCreated, s.IdempotencyTTL); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			span.RecordError(err)
		}
	}

	return &SearchResult{Search: rec, Snapshot: snap}, nil
}

// replay answers a retried request from its stored search.
func (s *ExplorerService) replay(ctx context.Context, e *entry, userID, sessionID, key string) (*SearchResult, bool) {
	idem, err := s.Repo.GetIdempotency(ctx, s.DB, userID, sessionID, key, s.now())
	if err != nil || idem == nil {
		return nil, false
	}
	rec, err := s.Repo.GetSearch(ctx, s.DB, sessionID, idem.SearchID)
	if err != nil {
		return nil, false
	}
	e.mu.Lock()
	e.lastUsed = s.now()
	snap := e.sess.Snapshot()
	e.mu.Unlock()
	return &SearchResult{Search: rec, Snapshot: snap, Replayed: true}, true
}

// History returns a page of the session's searches, newest first. Result
// payloads are not loaded.
func (s *ExplorerService) History(ctx context.Context, userID, sessionID string, page, pageSize int) ([]domain.Search, int64, error) {
	tr := otel.Tracer("services/ExplorerService")
	ctx, span := tr.Start(ctx, "History",
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if err := s.owns(ctx, userID, sessionID); err != nil {
		return nil, 0, err
	}
	offset, limit := pageBounds(page, pageSize)

	total, err := s.Repo.CountSearches(ctx, s.DB, sessionID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Search{}, 0, nil
	}
	items, err := s.Repo.ListSearchesPage(ctx, s.DB, sessionID, offset, limit)
	return items, total, err
}

// GetSearch returns one stored search of the session, including its results.
func (s *ExplorerService) GetSearch(ctx context.Context, userID, sessionID, searchID string) (*domain.Search, error) {
	if err := s.owns(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	rec, err := s.Repo.GetSearch(ctx, s.DB, sessionID, searchID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSearchNotFound
	}
	return rec, err
}

// owns checks that sessionID belongs to userID without rehydrating it.
func (s *ExplorerService) owns(ctx context.Context, userID, sessionID string) error {
	s.mu.Lock()
	e, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if ok {
		if e.userID != userID {
			return ErrSessionNotFound
		}
		return nil
	}
	if _, err := s.Repo.GetSession(ctx, s.DB, sessionID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}
