package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/shriyashpachpande/medical-imaging-agent/internal/config"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: "0"},
		Groq:   config.GroqConfig{BaseURL: "http://127.0.0.1:1", Model: config.DefaultModel},
		App: config.AppConfig{
			UploadDir:         t.TempDir(),
			MaxUploadSize:     1 << 20,
			AllowedExtensions: []string{"png", "jpg", "jpeg", "dicom"},
		},
	}
}

func TestRequestIDGenerated(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	id := rec.Header().Get(HeaderXRequestID)
	if len(id) != 36 {
		t.Fatalf("expected generated uuid, got %q", id)
	}
	if rec.Body.String() != id {
		t.Errorf("context id %q differs from header %q", rec.Body.String(), id)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "req-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get(HeaderXRequestID); got != "req-42" {
		t.Fatalf("expected propagated id, got %q", got)
	}
}

func TestRequestLoggerOmitsFormValues(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	router := gin.New()
	router.Use(RequestID(), RequestLogger(zap.New(core)))
	router.POST("/", func(c *gin.Context) {
		_ = c.PostForm("groq_api_key")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("groq_api_key=secret-key"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one log line, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusOK) || fields["method"] != http.MethodPost {
		t.Errorf("unexpected fields %v", fields)
	}
	for _, v := range fields {
		if s, ok := v.(string); ok && strings.Contains(s, "secret-key") {
			t.Fatalf("credential leaked into log: %v", fields)
		}
	}
}

func TestNewServesForm(t *testing.T) {
	cfg := testConfig(t)

	srv, err := New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `name="groq_api_key"`) {
		t.Error("expected the upload form")
	}
	if srv.httpServer.Addr != "127.0.0.1:0" {
		t.Errorf("unexpected addr %q", srv.httpServer.Addr)
	}
}

func TestNewRouterRoutes(t *testing.T) {
	srv, err := New(context.Background(), testConfig(t), zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unsupported method, got %d", rec.Code)
	}
}
