package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goatcast/goatcast/internal/content"
	"github.com/goatcast/goatcast/internal/identity"
	"github.com/goatcast/goatcast/internal/kv"
	"github.com/goatcast/goatcast/internal/session"
	"github.com/goatcast/goatcast/pkg/config"
)

func newTestRouter(t *testing.T, upstream http.Handler) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Content: config.ContentConfig{
			BaseURL: server.URL,
			APIKey:  "test-key",
			Timeout: 5 * time.Second,
		},
		Feed: config.FeedConfig{
			DefaultLimit: 10,
			MaxLimit:     100,
			CacheTTL:     time.Minute,
			WatchTimeout: time.Second,
		},
	}

	client, err := content.New(&cfg.Content)
	if err != nil {
		t.Fatalf("content.New: %v", err)
	}

	sessions := session.NewStore(kv.NewMemoryStore())
	resolver := identity.NewResolver(sessions)

	router := NewRouter(cfg, client, resolver, sessions, nil, nil, zap.NewNop())
	engine := gin.New()
	router.SetupRoutes(engine)
	return engine
}

func do(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestHealthHandler(t *testing.T) {
	engine := newTestRouter(t, http.NotFoundHandler())

	rec := do(t, engine, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "goatcast-api") {
		t.Errorf("unexpected health body: %s", rec.Body.String())
	}
}

func TestGetFeed(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/feed/trending" {
			t.Errorf("unexpected upstream path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit = %s, want 5", got)
		}
		w.Write([]byte(`{"casts":[{"hash":"0xabc","text":"hi"}],"next":{"cursor":"c2"}}`))
	})
	engine := newTestRouter(t, upstream)

	rec := do(t, engine, http.MethodGet, "/api/v1/feed?type=trending_24h&limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("feed = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp feedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Casts) != 1 || resp.Casts[0].Hash != "0xabc" {
		t.Errorf("unexpected casts: %+v", resp.Casts)
	}
	if !resp.HasMore || resp.NextCursor != "c2" {
		t.Errorf("pagination = (%q, %v), want (c2, true)", resp.NextCursor, resp.HasMore)
	}
}

func TestGetFeed_BadLimit(t *testing.T) {
	engine := newTestRouter(t, http.NotFoundHandler())

	rec := do(t, engine, http.MethodGet, "/api/v1/feed?limit=zero", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit = %d, want 400", rec.Code)
	}

	rec = do(t, engine, http.MethodGet, "/api/v1/feed?fid=abc&type=user_casts", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad fid = %d, want 400", rec.Code)
	}
}

func TestGetFeed_UpstreamFailure(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	engine := newTestRouter(t, upstream)

	rec := do(t, engine, http.MethodGet, "/api/v1/feed", "")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("upstream failure = %d, want 502", rec.Code)
	}
}

func TestGetCast_NotFound(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	engine := newTestRouter(t, upstream)

	rec := do(t, engine, http.MethodGet, "/api/v1/cast/0xmissing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing cast = %d, want 404", rec.Code)
	}
}

func TestGetUserCasts_DefaultLimit(t *testing.T) {
	// Without an explicit limit, the configured default reaches the
	// upstream request rather than a hardcoded fallback.
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/feed/user/casts" {
			t.Errorf("unexpected upstream path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("limit = %s, want 10", got)
		}
		w.Write([]byte(`{"casts":[{"hash":"0xdef","text":"hi"}]}`))
	})
	engine := newTestRouter(t, upstream)

	rec := do(t, engine, http.MethodGet, "/api/v1/users/42/casts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("user casts = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestDeskRoutes_StoreDisabled(t *testing.T) {
	engine := newTestRouter(t, http.NotFoundHandler())

	rec := do(t, engine, http.MethodGet, "/api/v1/desks", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("desks without store = %d, want 503", rec.Code)
	}

	rec = do(t, engine, http.MethodPost, "/api/v1/desks", `{"name":"Main"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("create desk without store = %d, want 503", rec.Code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/user/by_username/") {
			t.Errorf("unexpected upstream path %s", r.URL.Path)
		}
		w.Write([]byte(`{"user":{"fid":42,"username":"alice","display_name":"Alice"}}`))
	})
	engine := newTestRouter(t, upstream)

	// Anonymous before sign-in
	rec := do(t, engine, http.MethodGet, "/api/v1/session", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"source":"none"`) {
		t.Fatalf("anonymous session = %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, engine, http.MethodPost, "/api/v1/session", `{"username":"alice"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("sign-in = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"source":"live"`) {
		t.Errorf("sign-in body missing live source: %s", rec.Body.String())
	}

	rec = do(t, engine, http.MethodGet, "/api/v1/session", "")
	if !strings.Contains(rec.Body.String(), `"username":"alice"`) {
		t.Errorf("session after sign-in: %s", rec.Body.String())
	}

	rec = do(t, engine, http.MethodDelete, "/api/v1/session", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("sign-out = %d", rec.Code)
	}

	rec = do(t, engine, http.MethodGet, "/api/v1/session", "")
	if !strings.Contains(rec.Body.String(), `"source":"none"`) {
		t.Errorf("session after sign-out: %s", rec.Body.String())
	}
}

func TestSignIn_InvalidProfileRejected(t *testing.T) {
	// Upstream returns a profile missing the username; it must not be
	// installed as an identity.
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user":{"fid":42}}`))
	})
	engine := newTestRouter(t, upstream)

	rec := do(t, engine, http.MethodPost, "/api/v1/session", `{"username":"ghost"}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("invalid profile sign-in = %d, want 502", rec.Code)
	}

	rec = do(t, engine, http.MethodGet, "/api/v1/session", "")
	if !strings.Contains(rec.Body.String(), `"source":"none"`) {
		t.Errorf("identity leaked from invalid profile: %s", rec.Body.String())
	}
}

func TestThemeRoundTrip(t *testing.T) {
	engine := newTestRouter(t, http.NotFoundHandler())

	rec := do(t, engine, http.MethodGet, "/api/v1/preferences/theme", "")
	if !strings.Contains(rec.Body.String(), `"theme":"dark"`) {
		t.Errorf("default theme: %s", rec.Body.String())
	}

	rec = do(t, engine, http.MethodPut, "/api/v1/preferences/theme", `{"theme":"light"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("set theme = %d", rec.Code)
	}

	rec = do(t, engine, http.MethodGet, "/api/v1/preferences/theme", "")
	if !strings.Contains(rec.Body.String(), `"theme":"light"`) {
		t.Errorf("theme after set: %s", rec.Body.String())
	}

	rec = do(t, engine, http.MethodPut, "/api/v1/preferences/theme", `{"theme":"sepia"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid theme = %d, want 400", rec.Code)
	}
}
