package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-motormony/internal/domain"
	"github.com/tbourn/go-motormony/internal/recommend"
	"github.com/tbourn/go-motormony/internal/results"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ExplorerRepo defines the persistence contract required by ExplorerService.
type ExplorerRepo interface {
	CreateSession(ctx context.Context, db *gorm.DB, userID string) (*domain.Session, error)
	GetSession(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Session, error)
	CountSessions(ctx context.Context, db *gorm.DB, userID string) (int64, error)
	ListSessionsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Session, error)
	UpdateSessionSelections(ctx context.Context, db *gorm.DB, id string, order domain.SortOrder, year domain.YearFilter, view domain.ViewMode) error
	UpdateSessionQuery(ctx context.Context, db *gorm.DB, id, query string) error

	CreateSearch(ctx context.Context, db *gorm.DB, s *domain.Search) error
	GetSearch(ctx context.Context, db *gorm.DB, sessionID, id string) (*domain.Search, error)
	LatestSearch(ctx context.Context, db *gorm.DB, sessionID string) (*domain.Search, error)
	LatestSuccessfulSearch(ctx context.Context, db *gorm.DB, sessionID string) (*domain.Search, error)
	CountSearches(ctx context.Context, db *gorm.DB, sessionID string) (int64, error)
	ListSearchesPage(ctx context.Context, db *gorm.DB, sessionID string, offset, limit int) ([]domain.Search, error)
	MaxGeneration(ctx context.Context, db *gorm.DB, sessionID string) (uint64, error)

	ListComparison(ctx context.Context, db *gorm.DB, sessionID string) ([]domain.ComparisonEntry, error)
	ReplaceComparison(ctx context.Context, db *gorm.DB, sessionID string, items []domain.Vehicle) error

	GetIdempotency(ctx context.Context, db *gorm.DB, userID, sessionID, key string, now time.Time) (*domain.Idempotency, error)
	CreateIdempotency(ctx context.Context, db *gorm.DB, userID, sessionID, key, searchID string, status int, ttl time.Duration) (*domain.Idempotency, error)
	PurgeExpiredIdempotency(ctx context.Context, db *gorm.DB, now time.Time) (int64, error)
}

// Recorder receives engine-level events for metrics.
type Recorder interface {
	SearchFinished(outcome string)
	StaleResponse()
	ComparisonRejected(reason string)
}

type nopRecorder struct{}

func (nopRecorder) SearchFinished(string)     {}
func (nopRecorder) StaleResponse()            {}
func (nopRecorder) ComparisonRejected(string) {}

// ExplorerService hosts explorer sessions. Each session's engine is kept in
// memory and guarded by its own mutex; the lock is held only for synchronous
// transitions, never while the recommendation service is being called.
type ExplorerService struct {
	DB          *gorm.DB
	Repo        ExplorerRepo
	Recommender recommend.Recommender
	Metrics     Recorder

	// MaxQueryRunes caps query length; 0 disables the check.
	MaxQueryRunes int
	// IdleTTL evicts in-memory engines unused for longer; 0 keeps them forever.
	IdleTTL time.Duration
	// IdempotencyTTL is how long an Idempotency-Key replays its search.
	IdempotencyTTL time.Duration

	Now func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	mu       sync.Mutex
	userID   string
	sess     *results.Session
	lastUsed time.Time
}

// NewExplorerService constructs an ExplorerService with default limits.
func NewExplorerService(db *gorm.DB, r ExplorerRepo, rec recommend.Recommender) *ExplorerService {
	return &ExplorerService{
		DB:             db,
		Repo:           r,
		Recommender:    rec,
		Metrics:        nopRecorder{},
		MaxQueryRunes:  500,
		IdleTTL:        30 * time.Minute,
		IdempotencyTTL: 24 * time.Hour,
		Now:            time.Now,
	}
}

func (s *ExplorerService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *ExplorerService) metrics() Recorder {
	if s.Metrics == nil {
		return nopRecorder{}
	}
	return s.Metrics
}

// Create inserts a new session for userID and returns it with its initial
// snapshot.
func (s *ExplorerService) Create(ctx context.Context, userID string) (*domain.Session, results.Snapshot, error) {
	tr := otel.Tracer("services/ExplorerService")
	ctx, span := tr.Start(ctx, "Create", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	row, err := s.Repo.CreateSession(ctx, s.DB, userID)
	if err != nil {
		return nil, results.Snapshot{}, err
	}
	e := &entry{userID: userID, sess: results.NewSession(), lastUsed: s.now()}
	s.mu.Lock()
	if s.sessions == nil {
		s.sessions = make(map[string]*entry)
	}
	s.sessions[row.ID] = e
	s.mu.Unlock()

	span.SetAttributes(attribute.String("session.id", row.ID))
	return row, e.sess.Snapshot(), nil
}

// ListPage returns a page of the caller's sessions, most recently used first.
func (s *ExplorerService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Session, int64, error) {
	offset, limit := pageBounds(page, pageSize)

	total, err := s.Repo.CountSessions(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Session{}, 0, nil
	}
	items, err := s.Repo.ListSessionsPage(ctx, s.DB, userID, offset, limit)
	return items, total, err
}

// Snapshot returns the current state of the session.
func (s *ExplorerService) Snapshot(ctx context.Context, userID, sessionID string) (results.Snapshot, error) {
	var snap results.Snapshot
	err := s.with(ctx, userID, sessionID, func(sess *results.Session) error {
		snap = sess.Snapshot()
		return nil
	})
	return snap, err
}

// with runs fn under the session's lock, rehydrating the engine first when
// it is not cached.
func (s *ExplorerService) with(ctx context.Context, userID, sessionID string, fn func(*results.Session) error) error {
	e, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastUsed = s.now()
	return fn(e.sess)
}

func (s *ExplorerService) load(ctx context.Context, userID, sessionID string) (*entry, error) {
	s.mu.Lock()
	e, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if ok {
		if e.userID != userID {
			return nil, ErrSessionNotFound
		}
		return e, nil
	}

	sess, err := s.rehydrate(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions == nil {
		s.sessions = make(map[string]*entry)
	}
	// A concurrent caller may have rehydrated the same session first.
	if cur, ok := s.sessions[sessionID]; ok {
		return cur, nil
	}
	e = &entry{userID: userID, sess: sess, lastUsed: s.now()}
	s.sessions[sessionID] = e
	return e, nil
}

// rehydrate rebuilds an engine from the session row, its comparison set and
// its latest searches.
func (s *ExplorerService) rehydrate(ctx context.Context, userID, sessionID string) (*results.Session, error) {
	tr := otel.Tracer("services/ExplorerService")
	ctx, span := tr.Start(ctx, "rehydrate",
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	row, err := s.Repo.GetSession(ctx, s.DB, sessionID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	entries, err := s.Repo.ListComparison(ctx, s.DB, sessionID)
	if err != nil {
		return nil, err
	}
	compared := make([]domain.Vehicle, 0, len(entries))
	for _, ce := range entries {
		compared = append(compared, ce.Vehicle)
	}

	gen, err := s.Repo.MaxGeneration(ctx, s.DB, sessionID)
	if err != nil {
		return nil, err
	}

	r := results.Restored{
		Sort:       row.SortOrder,
		Year:       row.YearFilter,
		View:       row.ViewMode,
		Comparison: compared,
		Query:      row.LastQuery,
		Generation: gen,
	}

	last, err := s.Repo.LatestSearch(ctx, s.DB, sessionID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return results.Restore(r), nil
	case err != nil:
		return nil, err
	}
	r.Status = last.Status
	r.Error = last.Error

	okSearch := last
	if last.Status == domain.StatusFailed {
		okSearch, err = s.Repo.LatestSuccessfulSearch(ctx, s.DB, sessionID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if okSearch != nil {
		r.Results = okSearch.Results
		r.Suggestion = okSearch.Suggestion
	}
	return results.Restore(r), nil
}

// Evict drops in-memory engines idle for longer than IdleTTL. Engines that
// are locked or waiting for a response are kept. It returns the number of
// engines dropped.
func (s *ExplorerService) Evict() int {
	if s.IdleTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.IdleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.sessions {
		if !e.mu.TryLock() {
			continue
		}
		if e.lastUsed.Before(cutoff) && e.sess.Status() != domain.StatusLoading {
			delete(s.sessions, id)
			n++
		}
		e.mu.Unlock()
	}
	return n
}

// RunJanitor evicts idle engines and purges expired idempotency records every
// interval until ctx is done.
func (s *ExplorerService) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			evicted := s.Evict()
			purged, err := s.Repo.PurgeExpiredIdempotency(ctx, s.DB, s.now())
			if err != nil {
				log.Warn().Err(err).Msg("purge idempotency records")
				continue
			}
			if evicted > 0 || purged > 0 {
				log.Debug().Int("evicted", evicted).Int64("purged", purged).Msg("janitor sweep")
			}
		}
	}
}

// Cached reports how many engines are held in memory.
func (s *ExplorerService) Cached() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// pageBounds applies the page defaults (page 1, 20 items) and returns the
// offset and limit.
func pageBounds(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return (page - 1) * pageSize, pageSize
}
