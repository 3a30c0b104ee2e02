package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/cache"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"well formed", "Bearer abc123", "abc123"},
		{"trailing space", "Bearer abc123  ", "abc123"},
		{"missing prefix", "abc123", ""},
		{"wrong scheme", "Basic abc123", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bearerToken(tt.header); got != tt.want {
				t.Errorf("bearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestAdminSessions(t *testing.T) {
	s := NewAdminSessions(cache.New())

	token := s.Issue()
	if token == "" {
		t.Fatal("empty token")
	}
	if !s.Valid(token) {
		t.Error("freshly issued token invalid")
	}
	if s.Valid("other") {
		t.Error("unknown token accepted")
	}
	if s.Valid("") {
		t.Error("empty token accepted")
	}

	s.Revoke(token)
	if s.Valid(token) {
		t.Error("revoked token still valid")
	}
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := NewAdminSessions(cache.New())
	token := sessions.Issue()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := gin.New()
	r.Use(RequestID(), ErrorHandler(logger))
	r.GET("/admin/ping", RequireAdmin(sessions), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	t.Run("valid token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("missing token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("bogus token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		req.Header.Set("Authorization", "Bearer nope")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})
}
