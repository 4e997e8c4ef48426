package adminauth

import (
	"context"

	"github.com/EricSteeles/Curb-Alert/internal/domain/model"
)

type contextKey struct{}

func WithSession(ctx context.Context, session model.AdminSession) context.Context {
	return context.WithValue(ctx, contextKey{}, session)
}

func SessionFromContext(ctx context.Context) (model.AdminSession, bool) {
	session, ok := ctx.Value(contextKey{}).(model.AdminSession)
	return session, ok
}
