package prerender

import (
	"context"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/sitegate/internal/tenant"
)

type logKey struct{}

// withLogger stores a child of the global logger carrying the request id
// and host.  It must run after chi's RequestID middleware.
func withLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := zap.L().With(
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.String("host", tenant.Normalize(r.Host)),
		)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), logKey{}, l)))
	})
}

// loggerFrom returns the request logger, or the global one outside a
// request.
func loggerFrom(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(logKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.L()
}
