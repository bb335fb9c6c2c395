package middleware

import (
	"context"

	"github.com/newsroute/newsroute-backend/internal/identity"
)

type contextKey string

const ctxActor contextKey = "actor"

// ActorFromContext returns the resolved actor, or nil when the request was
// not authenticated.
func ActorFromContext(ctx context.Context) *identity.Actor {
	if ctx == nil {
		return nil
	}
	if actor, ok := ctx.Value(ctxActor).(*identity.Actor); ok {
		return actor
	}
	return nil
}

// WithActor injects the resolved actor into the context.
func WithActor(ctx context.Context, actor *identity.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}
