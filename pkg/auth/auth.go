package auth

import (
	"context"
	"database/sql"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/lithammer/shortuuid/v4"

	"github.com/noteline/noteline/pkg/db"
	"github.com/noteline/noteline/pkg/errors"
	"github.com/noteline/noteline/pkg/http/response"
	"github.com/noteline/noteline/pkg/logger"
)

type contextKey string

const userContextKey contextKey = "auth.user"

// GenerateToken mints a new API token value.
func GenerateToken() string {
	return shortuuid.New() + shortuuid.New()
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*db.User, bool) {
	user, ok := ctx.Value(userContextKey).(*db.User)
	return user, ok
}

// WithUser stores the user on the context. Exposed for tests.
func WithUser(ctx context.Context, user *db.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// Middleware resolves the Authorization header to a user and rejects
// requests without a valid token. Both "Token <key>" and "Bearer <key>"
// schemes are accepted.
func Middleware(queries *db.Queries, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := tokenFromHeader(r.Header.Get("Authorization"))
			if key == "" {
				response.WriteError(w, errors.NewUnauthorizedError("Authentication credentials were not provided"))
				return
			}

			user, err := queries.GetUserByToken(r.Context(), key)
			if err != nil {
				if stderrors.Is(err, sql.ErrNoRows) {
					response.WriteError(w, errors.NewUnauthorizedError("Invalid token"))
					return
				}
				logger.Errorf("token lookup failed: %v", err)
				response.WriteError(w, errors.NewInternalError("authentication failed", err, nil))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireStaff gates a subtree to staff users. Must run after Middleware.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || !user.IsStaff {
			response.WriteError(w, errors.NewForbiddenError("Staff access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func tokenFromHeader(header string) string {
	for _, scheme := range []string{"Token ", "Bearer "} {
		if strings.HasPrefix(header, scheme) {
			return strings.TrimSpace(strings.TrimPrefix(header, scheme))
		}
	}
	return ""
}
