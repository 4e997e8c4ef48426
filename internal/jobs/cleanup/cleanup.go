package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/EricSteeles/Curb-Alert/internal/domain/enums"
)

type staleItemStore interface {
	ListAvailableOlderThan(ctx context.Context, cutoff time.Time) ([]string, error)
	SetStatus(ctx context.Context, id string, status enums.ItemStatus) error
}

// Job expires available listings that have sat on the curb past the
// retention window. Expired listings stay readable; they just stop showing as
// claimable.
type Job struct {
	store     staleItemStore
	retention time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func New(store staleItemStore, retention time.Duration, logger *zap.Logger) *Job {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		store:     store,
		retention: retention,
		now:       time.Now,
		logger:    logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.store == nil {
		return nil
	}

	cutoff := j.now().UTC().Add(-j.retention)
	ids, err := j.store.ListAvailableOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("list stale items: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	expired := 0
	for _, id := range ids {
		if err := j.store.SetStatus(ctx, id, enums.ItemStatusExpired); err != nil {
			j.logger.Warn("failed to expire stale item", zap.Error(err), zap.String("item_id", id))
			continue
		}
		expired++
	}

	j.logger.Info("expired stale items", zap.Int("expired", expired), zap.Int("candidates", len(ids)))
	return nil
}
