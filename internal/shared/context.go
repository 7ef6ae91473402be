package shared

import "context"

// Actor describes the authenticated caller of a request: who they are,
// which tenant they operate in, and what they hold.
type Actor struct {
	ID          string
	TenantID    string
	Roles       []string
	Permissions []string
}

type actorContextKey struct{}

// ContextWithActor stores the actor in context.
func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the actor from context.
func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorContextKey{}).(*Actor)
	return actor
}
