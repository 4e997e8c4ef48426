package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/EricSteeles/Curb-Alert/internal/domain/model"
)

const adminSessionPrefix = "admin_sessions:"

var ErrSessionNotFound = errors.New("admin session not found")

// AdminSessionRepo keeps admin sessions as redis hashes whose TTL matches the
// session expiry, so stale sessions disappear on their own.
type AdminSessionRepo struct {
	client *goredis.Client
}

func NewAdminSessionRepo(client *goredis.Client) *AdminSessionRepo {
	return &AdminSessionRepo{client: client}
}

func (r *AdminSessionRepo) Create(ctx context.Context, session model.AdminSession) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(session.SID) == "" || strings.TrimSpace(session.Username) == "" {
		return fmt.Errorf("invalid admin session payload")
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("admin session already expired")
	}

	key := adminSessionKey(session.SID)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"username":   session.Username,
		"expires_at": session.ExpiresAt.Unix(),
	})
	pipe.Expire(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create admin session: %w", err)
	}

	return nil
}

func (r *AdminSessionRepo) Get(ctx context.Context, sid string) (model.AdminSession, error) {
	if r.client == nil {
		return model.AdminSession{}, fmt.Errorf("redis client is nil")
	}

	values, err := r.client.HGetAll(ctx, adminSessionKey(sid)).Result()
	if err != nil {
		return model.AdminSession{}, fmt.Errorf("get admin session hash: %w", err)
	}
	if len(values) == 0 {
		return model.AdminSession{}, ErrSessionNotFound
	}

	expiresUnix, err := strconv.ParseInt(values["expires_at"], 10, 64)
	if err != nil {
		return model.AdminSession{}, ErrSessionNotFound
	}

	return model.AdminSession{
		SID:       sid,
		Username:  values["username"],
		ExpiresAt: time.Unix(expiresUnix, 0).UTC(),
	}, nil
}

func (r *AdminSessionRepo) Delete(ctx context.Context, sid string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(sid) == "" {
		return nil
	}

	if err := r.client.Del(ctx, adminSessionKey(sid)).Err(); err != nil {
		return fmt.Errorf("delete admin session: %w", err)
	}

	return nil
}

func adminSessionKey(sid string) string {
	return adminSessionPrefix + sid
}
