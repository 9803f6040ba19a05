package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/slabworks/slabstock-backend/pkg/logger"
)

const (
	actorHeader  = "X-Actor"
	defaultActor = "system"
)

type actorCtxKey struct{}

// Actor reads the operator name from the X-Actor header. Every write is
// attributed to someone; requests without the header fall back to
// "system".
func Actor(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := strings.TrimSpace(r.Header.Get(actorHeader))
			if actor == "" {
				actor = defaultActor
			}

			ctx := context.WithValue(r.Context(), actorCtxKey{}, actor)
			if logg != nil {
				ctx = logg.WithActor(ctx, actor)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext returns the attributed operator, or "system".
func ActorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(actorCtxKey{}).(string); ok && actor != "" {
		return actor
	}
	return defaultActor
}
