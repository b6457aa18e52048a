package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"ishop/internal/model"
	"ishop/internal/service"

	"github.com/rs/zerolog"
)

type contextKey struct{}

var userKey contextKey

// WithUser returns a context carrying the authenticated user, as RequireUser
// stores it.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser returns the authenticated user stored in the request context, or
// nil when the request was not authenticated.
func GetUser(r *http.Request) *model.User {
	user, _ := r.Context().Value(userKey).(*model.User)
	return user
}

// RequireUser rejects requests without a valid bearer token and stores the
// resolved user in the request context.
func RequireUser(auth service.AuthService, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				logger.Debug().Str("path", r.URL.Path).Msg("missing bearer token")
				writeDomainError(w, model.ErrInvalidToken)
				return
			}

			user, err := auth.Resolve(r.Context(), raw)
			if err != nil {
				logger.Debug().Str("path", r.URL.Path).Err(err).Msg("token rejected")
				writeDomainError(w, model.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin rejects authenticated requests from non-admin users. It must
// run after RequireUser.
func RequireAdmin(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil || !user.IsAdmin {
				logger.Warn().Str("path", r.URL.Path).Msg("admin capability required")
				writeDomainError(w, model.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return header[len(prefix):]
}

// writeDomainError writes a domain error without importing the handler
// package.
func writeDomainError(w http.ResponseWriter, err *model.DomainError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Error:   err.Code,
		Message: err.Message,
	})
}
