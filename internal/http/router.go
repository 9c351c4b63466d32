// Package httpapi wires the Gin transport to the explorer service: tracing,
// correlation IDs, access logging, recovery, body limits, compression,
// metrics, idempotency, rate limiting, CORS and security headers, followed
// by the versioned API routes.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-motormony/docs"
	"github.com/tbourn/go-motormony/internal/config"
	"github.com/tbourn/go-motormony/internal/http/handlers"
	"github.com/tbourn/go-motormony/internal/http/middleware"
	"github.com/tbourn/go-motormony/internal/repo"
	"github.com/tbourn/go-motormony/internal/services"
)

const maxBodyBytes = 1 << 20

// RegisterRoutes installs middleware and mounts the API under
// cfg.APIBasePath.
//
// Middleware order:
//  1. OpenTelemetry server spans
//  2. RequestID, then Identity
//  3. Access log (redacted), then Recovery
//  4. Body limit and gzip
//  5. Prometheus metrics
//  6. Idempotency (before the limiter so replays bypass it)
//  7. Rate limiter
//  8. CORS and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, svc *services.ExplorerService, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID(), middleware.Identity())
	r.Use(middleware.AccessLog(middleware.LogOptions{MaskHeaders: []string{"X-API-Key"}}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics", "/swagger"})))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(middleware.Idempotency(middleware.IdempotencyOptions{MaxLen: 200}, idempotencyLookup(db)))
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	r.Use(cors.New(corsConfig(cfg.CORS)))
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions_cached": svc.Cached()})
	})

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(svc)
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.POST("/sessions", h.CreateSession)
		api.GET("/sessions", h.ListSessions)
		api.GET("/sessions/:id", h.GetSession)

		api.POST("/sessions/:id/searches", h.PostSearch)
		api.GET("/sessions/:id/searches", h.ListSearches)
		api.GET("/sessions/:id/searches/:searchID", h.GetSearch)

		api.PUT("/sessions/:id/sort", h.SetSort)
		api.PUT("/sessions/:id/year", h.SetYear)
		api.PUT("/sessions/:id/view", h.SetView)
		api.POST("/sessions/:id/more", h.LoadMore)
		api.GET("/sessions/:id/vehicles/:index/explanation", h.ExplainVehicle)

		api.POST("/sessions/:id/comparison", h.AddComparison)
		api.PUT("/sessions/:id/comparison", h.ToggleComparison)
		api.DELETE("/sessions/:id/comparison/:pos", h.RemoveComparison)
	}
}

// idempotencyLookup reports live idempotency records. Lookup failures count
// as misses.
func idempotencyLookup(db *gorm.DB) middleware.IdempotencyLookup {
	return func(ctx context.Context, userID, sessionID, key string, now time.Time) (bool, error) {
		rec, err := repo.GetIdempotency(ctx, db, userID, sessionID, key, now)
		if err != nil || rec == nil {
			return false, nil
		}
		return true, nil
	}
}

func corsConfig(c config.CORSConfig) cors.Config {
	out := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			middleware.HeaderUserID, middleware.HeaderIdempotencyKey, "If-None-Match",
		},
		ExposeHeaders: []string{"X-Request-ID", "ETag", "Idempotency-Replayed", "Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(c.AllowedOrigins) == 0 {
		out.AllowAllOrigins = true
	} else {
		out.AllowOrigins = c.AllowedOrigins
	}
	return out
}

// limitBody caps request bodies; reads past maxBytes fail.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
