package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medcoop/clinic/internal/config"
	"github.com/medcoop/clinic/internal/platform/auth"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{
		{"serve"},
		{"migrate", "up"},
		{"migrate", "status"},
		{"doctor", "create"},
	} {
		cmd, _, err := root.Find(path)
		if err != nil {
			t.Errorf("command %v not found: %v", path, err)
			continue
		}
		if cmd.Name() != path[len(path)-1] {
			t.Errorf("Find(%v) resolved to %q", path, cmd.Name())
		}
	}
}

func TestDoctorCreate_Flags(t *testing.T) {
	cmd, _, err := newRootCmd().Find([]string{"doctor", "create"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{"login", "password", "full-name"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected --%s flag", name)
		}
	}
}

func TestDoctorCreate_RequiresAllFlags(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"doctor", "create", "--login", "dr1"})
	root.SetOut(&strings.Builder{})
	root.SetErr(&strings.Builder{})

	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "required") {
		t.Errorf("expected a missing-flag error, got %v", err)
	}
}

func TestMigrate_DirFlag(t *testing.T) {
	for _, sub := range []string{"up", "status"} {
		cmd, _, err := newRootCmd().Find([]string{"migrate", sub})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cmd.Flags().Lookup("dir") == nil {
			t.Errorf("migrate %s: expected --dir flag", sub)
		}
	}
}

func TestPlainTextErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"http error", echo.NewHTTPError(http.StatusBadRequest, "failed to save exam"), http.StatusBadRequest, "failed to save exam"},
		{"internal detail hidden", echo.NewHTTPError(http.StatusInternalServerError, "database error").SetInternal(errors.New("conn refused")), http.StatusInternalServerError, "database error"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
		{"not found", echo.ErrNotFound, http.StatusNotFound, "Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			plainTextErrorHandler(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if rec.Body.String() != tt.wantBody {
				t.Errorf("expected body %q, got %q", tt.wantBody, rec.Body.String())
			}
			if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, echo.MIMETextPlain) {
				t.Errorf("expected text/plain, got %q", ct)
			}
		})
	}
}

func TestPlainTextErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	plainTextErrorHandler(errors.New("late"), c)

	if rec.Body.String() != "done" {
		t.Errorf("committed response must not be rewritten, got %q", rec.Body.String())
	}
}

func testServer(t *testing.T) *echo.Echo {
	t.Helper()
	static := t.TempDir()
	if err := os.WriteFile(filepath.Join(static, "app.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatalf("write static file: %v", err)
	}
	cfg := &config.Config{
		BodyLimit:      "1M",
		RequestTimeout: 5 * time.Second,
		StaticDir:      static,
	}
	sessions := auth.NewSessionManager(auth.SessionConfig{
		SigningKey: []byte("test-secret-key-for-unit-tests-only-32b"),
		TTL:        time.Hour,
	})
	return newServer(cfg, zerolog.Nop(), nil, sessions)
}

func TestNewServer_Health(t *testing.T) {
	e := testServer(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Error("expected a request id header")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers on every response")
	}
}

func TestNewServer_Static(t *testing.T) {
	e := testServer(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "body{}" {
		t.Errorf("expected the stylesheet, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestNewServer_UnknownRouteIsPlainText(t *testing.T) {
	e := testServer(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "{") {
		t.Errorf("expected a plain-text body, got %q", rec.Body.String())
	}
}
