package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/pharmaline-backend/internal/inventory"
	"github.com/angelmondragon/pharmaline-backend/pkg/config"
	"github.com/angelmondragon/pharmaline-backend/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
)

type stubInterpreter struct {
	reply string
}

func (s *stubInterpreter) Handle(ctx context.Context, input string) (string, error) {
	return s.reply, nil
}

type stubAggregator struct{}

func (s *stubAggregator) Summary(ctx context.Context) ([]inventory.ItemSummary, error) {
	return nil, nil
}
func (s *stubAggregator) CurrentStock(ctx context.Context, name string) (int, error) {
	return 0, nil
}
func (s *stubAggregator) Exists(ctx context.Context, name string) (bool, error) {
	return false, nil
}
func (s *stubAggregator) ListLowStock(ctx context.Context, threshold int) ([]inventory.ItemSummary, error) {
	return nil, nil
}
func (s *stubAggregator) InvalidateItem(name string) {}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return NewRouter(cfg, logg, nil, nil, &stubInterpreter{reply: "Inventory is empty."}, &stubAggregator{}, prometheus.NewRegistry())
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected request id header")
	}
}

func TestRouterChatRoute(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/chat", strings.NewReader(`{"message":"list"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data struct {
			Reply string `json:"reply"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if envelope.Data.Reply != "Inventory is empty." {
		t.Fatalf("unexpected reply %q", envelope.Data.Reply)
	}
}

func TestRouterInventoryRoutes(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/admin/v1/inventory", "/api/admin/v1/inventory/low-stock"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
