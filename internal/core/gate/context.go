package gate

import (
	"context"

	"github.com/yndnr/restgate-go/internal/core/domain"
)

type userKey struct{}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u *domain.UserContext) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns the user attached by the gate, if any.
func UserFromContext(ctx context.Context) (*domain.UserContext, bool) {
	u, ok := ctx.Value(userKey{}).(*domain.UserContext)
	return u, ok && u != nil
}
