package analytics

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

type ViewStore interface {
	IncrementViews(ctx context.Context, id string) error
}

// Service records listing views. Counting is best-effort: a failed increment
// is logged and swallowed so it never breaks the read path.
type Service struct {
	store ViewStore
	log   *zap.Logger
}

func NewService(store ViewStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

func (s *Service) RecordItemView(ctx context.Context, itemID string) {
	if s.store == nil || strings.TrimSpace(itemID) == "" {
		return
	}

	if err := s.store.IncrementViews(ctx, itemID); err != nil {
		s.log.Warn("record item view", zap.String("item_id", itemID), zap.Error(err))
	}
}
