package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"citizenportal/internal/domains"
)

const adminContextKey contextKey = "admin"

type AdminLoader interface {
	Authenticate(ctx context.Context, adminID int64) (domains.Admin, error)
}

// CurrentAdmin loads the admin behind the token subject. It must run after
// Protected. Unknown or disabled admins get a 401.
func CurrentAdmin(loader AdminLoader) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := AdminIDFromContext(r.Context())
			if !ok {
				Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			admin, err := loader.Authenticate(r.Context(), id)
			if err != nil {
				slog.Warn("admin rejected", "admin_id", id, "request_id", RequestIDFromContext(r.Context()), "err", err)
				Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			ctx := context.WithValue(r.Context(), adminContextKey, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func AdminFromContext(ctx context.Context) (domains.Admin, bool) {
	admin, ok := ctx.Value(adminContextKey).(domains.Admin)
	return admin, ok
}
