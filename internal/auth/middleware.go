// Package auth provides bearer-token authentication middleware for the
// recipe service.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rashid54/recipe-app-api/internal/domain"
)

// contextKey is an unexported type for context keys defined in this package.
type contextKey int

// userContextKey carries the authenticated user through the request context.
const userContextKey contextKey = iota

// TokenResolver maps a plaintext bearer token to its user.
// Implemented by service.TokenService.
type TokenResolver interface {
	Resolve(ctx context.Context, plaintext string) (*domain.User, error)
}

// Config contains configuration for the auth middleware.
type Config struct {
	// SkipPaths are exact paths that skip authentication.
	SkipPaths []string
}

// DefaultConfig returns the default auth configuration.
func DefaultConfig() Config {
	return Config{
		SkipPaths: []string{"/health", "/users/create", "/users/token"},
	}
}

// Middleware creates a middleware that authenticates requests via the
// Authorization header. Scheme is "Token <value>", with "Bearer" accepted
// as an alias. Failed authentication yields a JSON 401.
func Middleware(resolver TokenResolver, config Config, logger zerolog.Logger) func(http.Handler) http.Handler {
	logger = logger.With().Str("component", "auth").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, path := range config.SkipPaths {
				if r.URL.Path == path {
					next.ServeHTTP(w, r)
					return
				}
			}

			plaintext, ok := extractToken(r)
			if !ok {
				writeAuthError(w, "authentication credentials were not provided")
				return
			}

			user, err := resolver.Resolve(r.Context(), plaintext)
			if err != nil {
				if errors.Is(err, domain.ErrTokenNotFound) {
					writeAuthError(w, "invalid token")
					return
				}
				logger.Error().Err(err).Str("path", r.URL.Path).Msg("token resolution failed")
				writeServerError(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// extractToken pulls the bearer token out of the Authorization header.
func extractToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return "", false
	}

	scheme := strings.ToLower(parts[0])
	if scheme != "token" && scheme != "bearer" {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the authenticated user from a request context.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok
}

// writeAuthError writes a JSON 401 response.
func writeAuthError(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

// writeServerError writes a JSON 500 response.
func writeServerError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": "internal server error"})
}
