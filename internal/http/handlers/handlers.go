package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-motormony/internal/domain"
	"github.com/tbourn/go-motormony/internal/http/middleware"
	"github.com/tbourn/go-motormony/internal/intent"
	"github.com/tbourn/go-motormony/internal/results"
	"github.com/tbourn/go-motormony/internal/services"
	"github.com/tbourn/go-motormony/internal/utils"
)

// Explorer is the session service consumed by the handlers. It must be safe
// for concurrent use and honour ctx.
type Explorer interface {
	Create(ctx context.Context, userID string) (*domain.Session, results.Snapshot, error)
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Session, int64, error)
	Snapshot(ctx context.Context, userID, sessionID string) (results.Snapshot, error)

	Search(ctx context.Context, userID, sessionID, query, key string) (*services.SearchResult, error)
	History(ctx context.Context, userID, sessionID string, page, pageSize int) ([]domain.Search, int64, error)
	GetSearch(ctx context.Context, userID, sessionID, searchID string) (*domain.Search, error)

	SetSort(ctx context.Context, userID, sessionID, tag string) (results.Snapshot, error)
	SetYear(ctx context.Context, userID, sessionID, raw string) (results.Snapshot, error)
	SetView(ctx context.Context, userID, sessionID, tag string) (results.Snapshot, error)
	LoadMore(ctx context.Context, userID, sessionID string) (results.Snapshot, bool, error)
	Explain(ctx context.Context, userID, sessionID string, index int) (intent.Explanation, error)

	AddComparison(ctx context.Context, userID, sessionID string, ref services.VehicleRef) (results.Snapshot, error)
	ToggleComparison(ctx context.Context, userID, sessionID string, ref services.VehicleRef, member bool) (results.Snapshot, error)
	RemoveComparison(ctx context.Context, userID, sessionID string, pos int) (results.Snapshot, error)
}

// Handlers groups the explorer endpoints.
type Handlers struct {
	svc Explorer
	db  *gorm.DB
}

// New binds the handlers to svc. When svc is the concrete service its DB is
// used for list ETags.
func New(svc Explorer) *Handlers {
	h := &Handlers{svc: svc}
	if es, ok := svc.(*services.ExplorerService); ok {
		h.db = es.DB
	}
	return h
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: pages, HasNext: page < pages}
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func pageParams(c *gin.Context) (int, int) {
	return utils.PageParams(c.Query("page"), c.Query("page_size"), defaultPageSize, maxPageSize)
}

func userID(c *gin.Context) string { return middleware.UserID(c) }

// intParam parses a non-negative integer path parameter.
func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
