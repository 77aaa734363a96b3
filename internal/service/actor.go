package service

import "context"

// DefaultActor is recorded as the author of changes made without a signed-in operator.
const DefaultActor = "Sistem Yöneticisi"

type actorKey struct{}

// WithActor records who is making the changes carried out under ctx.
func WithActor(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, actorKey{}, name)
}

func ActorFrom(ctx context.Context) string {
	if name, ok := ctx.Value(actorKey{}).(string); ok && name != "" {
		return name
	}
	return DefaultActor
}
