package middleware

import (
	"context"

	"github.com/camisetaria/backend/internal/models"
)

type contextKey struct{ name string }

var identityKey = contextKey{"identity"}

// WithIdentity returns a context carrying the resolved identity.
func WithIdentity(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, identityKey, user)
}

// IdentityFromContext returns the identity attached by the access middleware.
func IdentityFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(identityKey).(models.User)
	return user, ok
}
