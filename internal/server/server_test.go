package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"timeline/internal/config"
	"timeline/internal/images"
)

type mockDB struct {
	health map[string]string
}

func (m *mockDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (m *mockDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (m *mockDB) Health() map[string]string {
	return m.health
}

func (m *mockDB) Close() {}

type mockStorage struct {
	healthErr error
}

func (m *mockStorage) PutObject(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	return nil
}

func (m *mockStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "http://minio.test/" + key, nil
}

func (m *mockStorage) DeleteFile(ctx context.Context, key string) error {
	return nil
}

func (m *mockStorage) EnsureBucketExists(ctx context.Context) error {
	return nil
}

func (m *mockStorage) Health(ctx context.Context) error {
	return m.healthErr
}

type emptyStore struct{}

func (emptyStore) List(ctx context.Context) ([]images.Post, error) {
	return nil, nil
}

func (emptyStore) Create(ctx context.Context, filename string, caption *string) (*images.Post, error) {
	return nil, errors.New("read only")
}

func (emptyStore) GetByFilename(ctx context.Context, filename string) (*images.Post, error) {
	return nil, images.ErrNotFound
}

func newTestServer(db *mockDB, blobs *mockStorage) http.Handler {
	gin.SetMode(gin.TestMode)

	cfg := &config.Server{
		AppName:        "Image Timeline",
		AppVersion:     "1.2.3",
		Port:           8000,
		APIPrefix:      "/api/v1",
		CORSOrigins:    []string{"http://localhost:3000"},
		MaxUploadBytes: 10 << 20,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := images.NewService(emptyStore{}, blobs, nil, cfg.APIPrefix+"/images", logger)

	return New(cfg, db, blobs, images.NewHandler(svc, cfg.MaxUploadBytes), logger).RegisterRoutes()
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestRootHandler(t *testing.T) {
	r := newTestServer(&mockDB{health: map[string]string{"status": "up"}}, &mockStorage{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body := decode(t, w)
	if body["message"] != "Welcome to Image Timeline" || body["version"] != "1.2.3" {
		t.Errorf("Unexpected body %v", body)
	}
}

func TestHelloHandler(t *testing.T) {
	r := newTestServer(&mockDB{health: map[string]string{"status": "up"}}, &mockStorage{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/hello", nil))
	body := decode(t, w)
	if body["message"] != "Hello! Welcome to Image Timeline." {
		t.Errorf("Unexpected message %v", body["message"])
	}
	if v, ok := body["name"]; !ok || v != nil {
		t.Errorf("Expected null name, got %v", v)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/hello?name=John", nil))
	body = decode(t, w)
	if body["message"] != "Hello, John! Welcome to Image Timeline." || body["name"] != "John" {
		t.Errorf("Unexpected body %v", body)
	}
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		db         map[string]string
		storageErr error
		wantCode   int
		wantStatus string
	}{
		{"all up", map[string]string{"status": "up"}, nil, http.StatusOK, "healthy"},
		{"database down", map[string]string{"status": "down"}, nil, http.StatusServiceUnavailable, "unhealthy"},
		{"storage down", map[string]string{"status": "up"}, errors.New("no bucket"), http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestServer(&mockDB{health: tt.db}, &mockStorage{healthErr: tt.storageErr})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

			if w.Code != tt.wantCode {
				t.Fatalf("Expected status %d, got %d", tt.wantCode, w.Code)
			}
			body := decode(t, w)
			if body["status"] != tt.wantStatus {
				t.Errorf("Expected status %q, got %v", tt.wantStatus, body["status"])
			}
			if body["version"] != "1.2.3" {
				t.Errorf("Expected version, got %v", body["version"])
			}
			if _, err := time.Parse(time.RFC3339Nano, body["timestamp"].(string)); err != nil {
				t.Errorf("Expected RFC 3339 timestamp: %v", err)
			}
		})
	}
}

func TestImagesRoutesMounted(t *testing.T) {
	r := newTestServer(&mockDB{health: map[string]string{"status": "up"}}, &mockStorage{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/images", nil))

	if w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Errorf("Expected empty list, got %d %q", w.Code, w.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestServer(&mockDB{health: map[string]string{"status": "up"}}, &mockStorage{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/images", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Expected allowed origin, got %q", got)
	}
}
