package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"citizenportal/internal/tokens"
)

type contextKey string

const adminIDContextKey contextKey = "adminID"

type TokenParser interface {
	Parse(raw string, wantType string) (int64, error)
}

// Protected rejects requests without a valid access token and stores the
// token subject in the request context.
func Protected(parser TokenParser) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := BearerToken(r)
			if !ok {
				Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			adminID, err := parser.Parse(tokenString, tokens.TypeAccess)
			if err != nil {
				Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := WithAdminID(r.Context(), adminID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

func WithAdminID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, adminIDContextKey, id)
}

func AdminIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(adminIDContextKey).(int64)
	return id, ok
}
