package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/OpenVertical/vertical/internal/tenant"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// AuthContextKey is the key for storing AuthContext in request context
	AuthContextKey ContextKey = "authContext"
)

// Middleware creates an HTTP middleware that extracts and injects the tenant
// authentication context. It:
// 1. Extracts the Authorization header
// 2. Parses the bearer token to get the tenant ID
// 3. Looks up the tenant from the database
// 4. Injects the tenant into the request context
//
// If any step fails (missing token, invalid token, tenant not found), the
// request proceeds without auth context. Handlers should check for context
// availability. This allows public, protected and optional-auth endpoints to
// share the same chain.
func Middleware(tenants *tenant.Service, tokenExtractor *TokenExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")

			// If no Authorization header, continue without auth context
			if authHeader == "" {
				slog.Debug("no authorization header provided")
				next.ServeHTTP(w, r)
				return
			}

			tenantID, err := tokenExtractor.ExtractTenantIDFromHeader(authHeader)
			if err != nil {
				slog.Warn("failed to extract tenant ID from token",
					"error", err,
					"auth_header_length", len(authHeader),
				)
				next.ServeHTTP(w, r)
				return
			}

			t, err := tenants.GetByID(tenantID)
			if err != nil {
				if errors.Is(err, tenant.ErrTenantNotFound) {
					slog.Info("tenant not found for token", "tenant_id", tenantID)
				} else {
					slog.Warn("failed to load tenant from database",
						"tenant_id", tenantID,
						"error", err,
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			authCtx := &AuthContext{Tenant: t}
			ctx := context.WithValue(r.Context(), AuthContextKey, authCtx)
			r = r.WithContext(ctx)

			slog.Debug("auth context injected successfully", "tenant_id", authCtx.TenantID())

			next.ServeHTTP(w, r)
		})
	}
}

// GetAuthContext extracts the AuthContext from a request context.
// Returns nil if no auth context is available (request had no valid token).
func GetAuthContext(ctx context.Context) *AuthContext {
	authCtx, ok := ctx.Value(AuthContextKey).(*AuthContext)
	if !ok {
		return nil
	}
	return authCtx
}

// RequireAuth returns a middleware that requires an authenticated tenant.
// If no auth context is found, returns 401 Unauthorized.
func RequireAuth(tenants *tenant.Service, tokenExtractor *TokenExtractor) func(http.Handler) http.Handler {
	// Create the auth middleware once, not on every request
	authMiddleware := Middleware(tenants, tokenExtractor)

	return func(next http.Handler) http.Handler {
		return authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx := GetAuthContext(r.Context())
			if authCtx == nil {
				slog.Warn("authentication required but not provided",
					"method", r.Method,
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","message":"authentication required"}`))
				return
			}

			next.ServeHTTP(w, r)
		}))
	}
}
