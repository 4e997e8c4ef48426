package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/EricSteeles/Curb-Alert/internal/domain/model"
)

func newMiniRedisRepo(t *testing.T) (*miniredis.Miniredis, *AdminSessionRepo) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewAdminSessionRepo(client)
}

func TestAdminSessionRoundTrip(t *testing.T) {
	_, repo := newMiniRedisRepo(t)
	ctx := context.Background()

	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	session := model.AdminSession{SID: "sid-1", Username: "admin", ExpiresAt: expires}

	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("create session: %v", err)
	}

	got, err := repo.Get(ctx, "sid-1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.SID != "sid-1" || got.Username != "admin" {
		t.Fatalf("unexpected session: %+v", got)
	}
	if !got.ExpiresAt.Equal(expires) {
		t.Fatalf("unexpected expiry: got %s want %s", got.ExpiresAt, expires)
	}
}

func TestAdminSessionCreateRejectsBadPayloads(t *testing.T) {
	_, repo := newMiniRedisRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, model.AdminSession{Username: "admin", ExpiresAt: time.Now().Add(time.Hour)}); err == nil {
		t.Fatalf("expected error for missing sid")
	}
	if err := repo.Create(ctx, model.AdminSession{SID: "sid-1", Username: "admin", ExpiresAt: time.Now().Add(-time.Minute)}); err == nil {
		t.Fatalf("expected error for already expired session")
	}
}

func TestAdminSessionExpiresWithTTL(t *testing.T) {
	mr, repo := newMiniRedisRepo(t)
	ctx := context.Background()

	session := model.AdminSession{SID: "sid-1", Username: "admin", ExpiresAt: time.Now().Add(time.Hour)}
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("create session: %v", err)
	}

	mr.FastForward(time.Hour + time.Minute)

	if _, err := repo.Get(ctx, "sid-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after TTL, got %v", err)
	}
}

func TestAdminSessionDelete(t *testing.T) {
	_, repo := newMiniRedisRepo(t)
	ctx := context.Background()

	session := model.AdminSession{SID: "sid-1", Username: "admin", ExpiresAt: time.Now().Add(time.Hour)}
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("create session: %v", err)
	}

	if err := repo.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := repo.Get(ctx, "sid-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}

	// Deleting a missing or blank sid is not an error.
	if err := repo.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if err := repo.Delete(ctx, "  "); err != nil {
		t.Fatalf("blank sid delete: %v", err)
	}
}
