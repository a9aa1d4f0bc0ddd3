package auth

import (
	"context"

	"github.com/dukapos/retail-core/internal/model"
)

// UserContext is the authenticated caller identity the middleware
// attaches to each request. The operator's authoritative role and store
// come from the users table; this is only used to locate that record and
// for coarse route gating.
type UserContext struct {
	UserID  string
	Role    model.Role
	StoreID *string
}

type contextKey string

const userContextKey contextKey = "user_context"

func WithUserContext(ctx context.Context, uc UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, uc)
}

func FromContext(ctx context.Context) (UserContext, bool) {
	uc, ok := ctx.Value(userContextKey).(UserContext)
	return uc, ok
}
