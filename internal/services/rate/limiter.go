package rate

import (
	"context"
	"fmt"
	"time"
)

const reportWindow = 24 * time.Hour

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	WindowState(ctx context.Context, key string) (int64, time.Duration, error)
}

// Limiter caps how many reports a single reporter can file per day.
type Limiter struct {
	store  WindowStore
	perDay int
}

func NewLimiter(store WindowStore, perDay int) *Limiter {
	if perDay < 0 {
		perDay = 0
	}
	return &Limiter{store: store, perDay: perDay}
}

// AllowReport consumes one slot from the reporter's daily window. When the
// window is exhausted it returns the seconds until the window resets.
func (l *Limiter) AllowReport(ctx context.Context, reporterID string) (int64, bool, error) {
	if reporterID == "" {
		return 0, false, fmt.Errorf("reporter id is required")
	}
	if l.store == nil {
		return 0, false, fmt.Errorf("rate limiter store is nil")
	}
	if l.perDay == 0 {
		return 0, true, nil
	}

	count, ttl, err := l.store.IncrementWindow(ctx, reportKey(reporterID), reportWindow)
	if err != nil {
		return 0, false, err
	}
	if count > int64(l.perDay) {
		return ceilSeconds(ttl), false, nil
	}

	return 0, true, nil
}

// RetryAfterReport reports the wait without consuming a slot.
func (l *Limiter) RetryAfterReport(ctx context.Context, reporterID string) (int64, error) {
	if reporterID == "" {
		return 0, fmt.Errorf("reporter id is required")
	}
	if l.store == nil {
		return 0, fmt.Errorf("rate limiter store is nil")
	}
	if l.perDay == 0 {
		return 0, nil
	}

	count, ttl, err := l.store.WindowState(ctx, reportKey(reporterID))
	if err != nil {
		return 0, err
	}
	if count >= int64(l.perDay) {
		return ceilSeconds(ttl), nil
	}

	return 0, nil
}

func reportKey(reporterID string) string {
	return "rate:reports:day:" + reporterID
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	if sec <= 0 {
		sec = 1
	}
	return sec
}
