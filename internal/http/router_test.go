package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-motormony/internal/config"
	"github.com/tbourn/go-motormony/internal/domain"
	"github.com/tbourn/go-motormony/internal/http/middleware"
	"github.com/tbourn/go-motormony/internal/recommend"
	"github.com/tbourn/go-motormony/internal/repo"
	"github.com/tbourn/go-motormony/internal/services"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

type staticRecommender struct{ calls int }

func (s *staticRecommender) Recommend(context.Context, string) (*recommend.Response, error) {
	s.calls++
	year := 2022
	return &recommend.Response{Results: []domain.Vehicle{
		{Name: "Hyundai Creta", Brand: "Hyundai", FinalScore: 0.9, PriceMinLakh: 11, Year: &year},
		{Name: "Kia Seltos", Brand: "Kia", FinalScore: 0.8, PriceMinLakh: 10.9, Year: &year},
	}}, nil
}

func baseConfig() config.Config {
	return config.Config{
		APIBasePath: "/api/v1",
		RateRPS:     100,
		RateBurst:   50,
		OTEL:        config.OTELConfig{ServiceName: "test-svc"},
	}
}

func newTestRouter(t *testing.T, cfg config.Config) (*gin.Engine, *gorm.DB, *staticRecommender) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	rec := &staticRecommender{}
	r := gin.New()
	RegisterRoutes(r, db, services.NewExplorerService(db, repo.Store{}, rec), cfg)
	return r, db, rec
}

func serve(r http.Handler, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes_Health_Metrics_Fallbacks(t *testing.T) {
	r, _, _ := newTestRouter(t, baseConfig())

	w := serve(r, http.MethodGet, "/health", "", map[string]string{"Origin": "http://anywhere.test"})
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-all CORS expected '*', got %q", got)
	}
	if w.Header().Get("X-Request-ID") == "" || w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing pipeline headers: %v", w.Header())
	}

	w = serve(r, http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte("motormony_http_requests_total")) {
		t.Fatalf("GET /metrics: code=%d", w.Code)
	}

	w = serve(r, http.MethodGet, "/nope", "", nil)
	if w.Code != http.StatusNotFound || !bytes.Contains(w.Body.Bytes(), []byte(`"not_found"`)) {
		t.Fatalf("GET /nope: %d %s", w.Code, w.Body.String())
	}
	w = serve(r, http.MethodPost, "/health", "", nil)
	if w.Code != http.StatusMethodNotAllowed || !bytes.Contains(w.Body.Bytes(), []byte(`"method_not_allowed"`)) {
		t.Fatalf("POST /health: %d %s", w.Code, w.Body.String())
	}

	if w = serve(r, http.MethodGet, "/swagger/index.html", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("swagger should be off by default, got %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_AndSwagger(t *testing.T) {
	cfg := baseConfig()
	// httptest requests carry Host example.com, so the allowed origin must be
	// a different one for cors to treat it as cross-origin.
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"http://app.test"}}
	cfg.SwaggerEnabled = true
	r, _, _ := newTestRouter(t, cfg)

	w := serve(r, http.MethodGet, "/health", "", map[string]string{"Origin": "http://app.test"})
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://app.test" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}
	w = serve(r, http.MethodGet, "/health", "", map[string]string{"Origin": "http://evil.test"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("disallowed origin should be rejected, got %d", w.Code)
	}

	if w = serve(r, http.MethodGet, "/swagger/doc.json", "", nil); w.Code != http.StatusOK {
		t.Fatalf("GET /swagger/doc.json = %d", w.Code)
	}
}

func TestRegisterRoutes_SearchFlowWithIdempotency(t *testing.T) {
	r, _, rec := newTestRouter(t, baseConfig())
	user := map[string]string{middleware.HeaderUserID: "u1"}

	w := serve(r, http.MethodPost, "/api/v1/sessions", "", user)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var created struct {
		Session domain.Session `json:"session"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	path := "/api/v1/sessions/" + created.Session.ID + "/searches"

	hdr := map[string]string{middleware.HeaderUserID: "u1", middleware.HeaderIdempotencyKey: "abc-1"}
	first := serve(r, http.MethodPost, path, `{"query":"compact suv"}`, hdr)
	second := serve(r, http.MethodPost, path, `{"query":"compact suv"}`, hdr)
	if first.Code != http.StatusCreated || second.Code != http.StatusOK {
		t.Fatalf("codes = %d, %d", first.Code, second.Code)
	}
	if second.Header().Get("Idempotency-Replayed") != "true" || rec.calls != 1 {
		t.Fatalf("replay not served from storage (calls=%d)", rec.calls)
	}

	w = serve(r, http.MethodPut, "/api/v1/sessions/"+created.Session.ID+"/sort", `{"sort":"price-low"}`, user)
	var snap struct {
		Visible []domain.Vehicle `json:"visible"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &snap)
	if w.Code != http.StatusOK || len(snap.Visible) != 2 || snap.Visible[0].Name != "Kia Seltos" {
		t.Fatalf("sort: %d %s", w.Code, w.Body.String())
	}
}

func TestRegisterRoutes_RateLimitedExceptReplays(t *testing.T) {
	cfg := baseConfig()
	cfg.RateRPS, cfg.RateBurst = 0.0001, 2
	r, db, _ := newTestRouter(t, cfg)
	user := map[string]string{middleware.HeaderUserID: "u-rl"}

	w := serve(r, http.MethodPost, "/api/v1/sessions", "", user)
	var created struct {
		Session domain.Session `json:"session"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	path := "/api/v1/sessions/" + created.Session.ID + "/searches"
	hdr := map[string]string{middleware.HeaderUserID: "u-rl", middleware.HeaderIdempotencyKey: "k-1"}

	if w = serve(r, http.MethodPost, path, `{"query":"hatchback"}`, hdr); w.Code != http.StatusCreated {
		t.Fatalf("search: %d", w.Code)
	}
	if w = serve(r, http.MethodGet, "/api/v1/sessions", "", user); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"too_many_requests"`)) {
		t.Fatalf("429 body = %s", w.Body.String())
	}

	if n, _, _ := repo.SearchesStats(context.Background(), db, created.Session.ID); n != 1 {
		t.Fatalf("searches = %d", n)
	}
	if w = serve(r, http.MethodPost, path, `{"query":"hatchback"}`, hdr); w.Code != http.StatusOK {
		t.Fatalf("replay should bypass the limiter, got %d", w.Code)
	}
}

func TestIdempotencyLookup_MissHitAndError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	lookup := idempotencyLookup(db)
	now := time.Now().UTC()

	sess, err := repo.CreateSession(ctx, db, "u1")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if hit, err := lookup(ctx, "u1", sess.ID, "k", now); hit || err != nil {
		t.Fatalf("miss = %v, %v", hit, err)
	}
	if _, err := repo.CreateIdempotency(ctx, db, "u1", sess.ID, "k", uuid.NewString(), http.StatusCreated, time.Hour); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if hit, _ := lookup(ctx, "u1", sess.ID, "k", now); !hit {
		t.Fatal("expected hit")
	}
	if hit, _ := lookup(ctx, "u1", sess.ID, "k", now.Add(2*time.Hour)); hit {
		t.Fatal("expired record should miss")
	}

	sqlDB, _ := db.DB()
	_ = sqlDB.Close()
	if hit, err := lookup(ctx, "u1", sess.ID, "k", now); hit || err != nil {
		t.Fatalf("closed db should read as a miss: %v, %v", hit, err)
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	if w := serve(r, http.MethodPost, "/echo", "0123456789AB", nil); w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
	if w := serve(r, http.MethodPost, "/echo", "short", nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	groupWithPrefix(r, "/").GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	groupWithPrefix(r, "").GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })
	groupWithPrefix(r, "/api").GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for path, want := range map[string]string{"/one": "one", "/two": "two", "/api/ping": "pong"} {
		if w := serve(r, http.MethodGet, path, "", nil); w.Code != http.StatusOK || w.Body.String() != want {
			t.Fatalf("GET %s got %d %q", path, w.Code, w.Body.String())
		}
	}
}
