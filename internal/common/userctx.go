package common

import (
	"context"

	"github.com/bobmcallan/copyforge/internal/models"
)

type contextKey int

const userKey contextKey = iota

// WithUser stores the authenticated user in the request context.
// Set by the auth gate once the bearer token resolves to an active account.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext retrieves the authenticated user, or nil if the request
// did not pass through the auth gate.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}
