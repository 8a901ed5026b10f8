package audit

import (
	"context"

	"github.com/storefront/backend/internal/domain/audit"
)

type actorKey struct{}

// WithActor stores the acting user for admin log entries
func WithActor(ctx context.Context, actor audit.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the acting user, or a zero Actor for system calls
func ActorFromContext(ctx context.Context) audit.Actor {
	if actor, ok := ctx.Value(actorKey{}).(audit.Actor); ok {
		return actor
	}
	return audit.Actor{}
}
