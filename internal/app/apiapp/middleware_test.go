package apiapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/EricSteeles/Curb-Alert/internal/repo/redis"
	adminauthsvc "github.com/EricSteeles/Curb-Alert/internal/services/adminauth"
)

func newTestAuthService(t *testing.T) *adminauthsvc.Service {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return adminauthsvc.NewService("hunter2", "test-jwt-secret", time.Hour, redrepo.NewAdminSessionRepo(client))
}

func TestAdminAuthMiddleware(t *testing.T) {
	authService := newTestAuthService(t)

	result, err := authService.Login(context.Background(), "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	var gotUsername string
	handler := AdminAuthMiddleware(authService, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := adminauthsvc.SessionFromContext(r.Context())
		if !ok {
			t.Fatalf("session missing from request context")
		}
		gotUsername = session.Username
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("valid token reaches handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer "+result.AccessToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusNoContent)
		}
		if gotUsername != "admin" {
			t.Fatalf("unexpected session username: %s", gotUsername)
		}
	})

	t.Run("token is dead after logout", func(t *testing.T) {
		if err := authService.Logout(context.Background(), result.Session.SID); err != nil {
			t.Fatalf("logout: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer "+result.AccessToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusUnauthorized)
		}
	})
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		token  string
		ok     bool
	}{
		{name: "standard", header: "Bearer abc.def.ghi", token: "abc.def.ghi", ok: true},
		{name: "lowercase scheme", header: "bearer abc", token: "abc", ok: true},
		{name: "empty", header: "", ok: false},
		{name: "wrong scheme", header: "Basic abc", ok: false},
		{name: "scheme only", header: "Bearer ", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := extractBearerToken(tt.header)
			if ok != tt.ok || token != tt.token {
				t.Fatalf("unexpected result: got (%q, %v) want (%q, %v)", token, ok, tt.token, tt.ok)
			}
		})
	}
}
