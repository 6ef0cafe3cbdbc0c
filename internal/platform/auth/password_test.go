package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	BcryptCost = bcrypt.MinCost
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "x" || !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected a bcrypt hash, got %q", hash)
	}

	other, _ := HashPassword("x")
	if other == hash {
		t.Error("expected different salts for the same password")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, _ := HashPassword("correct horse")
	if !CheckPassword(hash, "correct horse") {
		t.Error("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("expected wrong password to fail")
	}
	if CheckPassword("correct horse", "correct horse") {
		t.Error("a plaintext value in the hash column must never verify")
	}
}

func TestRequireDoctor(t *testing.T) {
	e := echo.New()
	handler := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }

	t.Run("anonymous is redirected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/patients", nil), rec)
		if err := RequireDoctor()(handler)(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
			t.Errorf("expected redirect to /login, got %d %s", rec.Code, rec.Header().Get("Location"))
		}
	})

	t.Run("doctor passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/patients", nil)
		req = req.WithContext(WithIdentity(req.Context(), &Identity{DoctorID: 1}))
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if err := RequireDoctor()(handler)(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})
}
