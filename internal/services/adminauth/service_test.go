package adminauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/EricSteeles/Curb-Alert/internal/repo/redis"
)

func newTestService(t *testing.T) (*miniredis.Miniredis, *Service) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions := redrepo.NewAdminSessionRepo(client)
	return mr, NewService("hunter2", "test-jwt-secret", time.Hour, sessions)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	_, svc := newTestService(t)

	if _, err := svc.Login(context.Background(), "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Login(context.Background(), ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for empty password, got %v", err)
	}
}

func TestLoginAndValidate(t *testing.T) {
	_, svc := newTestService(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.AccessToken == "" {
		t.Fatalf("login returned no token")
	}
	if result.Session.Username != "admin" {
		t.Fatalf("unexpected session username: %s", result.Session.Username)
	}

	session, err := svc.Validate(ctx, result.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if session.SID != result.Session.SID {
		t.Fatalf("unexpected session id: got %s want %s", session.SID, result.Session.SID)
	}
}

func TestValidateRejectsGarbageTokens(t *testing.T) {
	_, svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Validate(ctx, "not-a-jwt"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	// Token signed with another secret must not pass.
	other := NewService("hunter2", "other-secret", time.Hour, svc.sessions)
	result, err := other.Login(ctx, "hunter2")
	if err != nil {
		t.Fatalf("login with other secret: %v", err)
	}
	if _, err := svc.Validate(ctx, result.AccessToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for foreign signature, got %v", err)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	_, svc := newTestService(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, result.Session.SID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	// The token is still signed correctly, but the session is gone.
	if _, err := svc.Validate(ctx, result.AccessToken); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired after logout, got %v", err)
	}
}

func TestValidateExpiredSession(t *testing.T) {
	mr, svc := newTestService(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	mr.FastForward(time.Hour + time.Minute)

	if _, err := svc.Validate(ctx, result.AccessToken); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestUnconfiguredServiceIsUnavailable(t *testing.T) {
	svc := NewService("", "", time.Hour, nil)

	if _, err := svc.Login(context.Background(), "hunter2"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if _, err := svc.Validate(context.Background(), "token"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
