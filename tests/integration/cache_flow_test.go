package integration

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/emoji-hub/emoji-hub/internal/cache"
	"github.com/emoji-hub/emoji-hub/internal/cdn"
	"github.com/emoji-hub/emoji-hub/internal/server"
	"github.com/emoji-hub/emoji-hub/internal/server/routes"
)

func TestMessageFlowCachesOnce(t *testing.T) {
	var hits atomic.Int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/123.png" {
			t.Errorf("unexpected CDN path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("quality") != "lossless" {
			t.Errorf("unexpected CDN query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer upstream.Close()

	root := t.TempDir()
	app, _ := newCacheApp(t, root, upstream.URL)

	post := func() *http.Response {
		body := `{"content":"hello <:pog:123>","guild_name":"My Server"}`
		req := httptest.NewRequest("POST", "/v1/messages", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test error: %v", err)
		}
		return resp
	}

	// Miss -> CDN fetch and disk write
	resp := post()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	payload, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(payload), `"newly_cached":1`) {
		t.Fatalf("first message should cache one emoji: %s", string(payload))
	}

	cached := filepath.Join(root, "My_Server", "pog-123.png")
	body, err := os.ReadFile(cached)
	if err != nil {
		t.Fatalf("cached file missing: %v", err)
	}
	if string(body) != "png-bytes" {
		t.Fatalf("cached payload mismatch: %s", string(body))
	}

	// Hit -> no second CDN round trip
	resp = post()
	payload, _ = io.ReadAll(resp.Body)
	if !strings.Contains(string(payload), `"newly_cached":0`) {
		t.Fatalf("second message should be a no-op: %s", string(payload))
	}
	if hits.Load() != 1 {
		t.Fatalf("expected exactly one CDN fetch, got %d", hits.Load())
	}
}

func TestBootstrapSurvivesRestart(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("bootstrapped emoji must not be re-fetched: %s", r.URL.Path)
	}))
	defer upstream.Close()

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "My_Server"), 0o755); err != nil {
		t.Fatalf("mkdir error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "My_Server", "pog-123.png"), []byte("old"), 0o644); err != nil {
		t.Fatalf("write error: %v", err)
	}

	// 模拟重启：新建 manager 并通过 Bootstrap 重建内存状态。
	app, manager := newCacheApp(t, root, upstream.URL)
	if recognized := manager.Bootstrap(); recognized != 1 {
		t.Fatalf("expected 1 recognized entry, got %d", recognized)
	}

	body := `{"content":"<:pog:123>","guild_name":"My Server"}`
	req := httptest.NewRequest("POST", "/v1/messages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	payload, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(payload), `"newly_cached":0`) {
		t.Fatalf("bootstrapped emoji should be deduped: %s", string(payload))
	}
}

func newCacheApp(t *testing.T, root, cdnBase string) (*fiber.App, *cache.Manager) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	fetcher := cdn.NewFetcher(cdn.NewClient(5*time.Second), cdnBase)
	manager, err := cache.NewManager(cache.Options{
		RootOverride: root,
		Size:         128,
		Fetcher:      fetcher,
		Logger:       logger,
	})
	if err != nil {
		t.Fatalf("manager error: %v", err)
	}

	app, err := server.NewApp(server.AppOptions{Logger: logger, Manager: manager, ListenPort: 5810})
	if err != nil {
		t.Fatalf("app error: %v", err)
	}
	routes.RegisterEmojiRoutes(app, manager, logger)
	return app, manager
}
