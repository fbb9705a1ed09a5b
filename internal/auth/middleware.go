package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"gorm.io/gorm"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// AuthContextKey is the key for storing AuthContext in request context
	AuthContextKey ContextKey = "authContext"
)

// Middleware creates an HTTP middleware that extracts and injects
// authentication context. This middleware:
// 1. Extracts the Authorization header
// 2. Parses the key to get the client ID
// 3. Looks up the client context from the database
// 4. Injects the client context into the request
//
// If any step fails (missing key, unknown client), the request proceeds
// without auth context. Handlers should check for context availability.
//
// This design allows:
// - Public endpoints (no auth required)
// - Protected endpoints (check for context)
// - Optional auth endpoints (use context if available)
func Middleware(authService *AuthService, keyExtractor *KeyExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract Authorization header
			authHeader := r.Header.Get("Authorization")

			// If no Authorization header, continue without auth context
			if authHeader == "" {
				slog.Debug("no authorization header provided")
				next.ServeHTTP(w, r)
				return
			}

			// Extract client ID from key
			clientID, err := keyExtractor.ExtractClientIDFromHeader(authHeader)
			if err != nil {
				slog.Warn("failed to extract client ID from key",
					"error", err,
					"auth_header_length", len(authHeader),
				)
				next.ServeHTTP(w, r)
				return
			}

			// Get client context from database
			clientCtx, err := authService.GetClientContext(clientID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Client doesn't have context yet - create empty context
					slog.Info("client context not found, initializing empty context",
						"client_id", clientID,
					)
					clientCtx = &ClientContext{
						ClientID:      clientID,
						ClientContext: json.RawMessage(`{}`),
					}
				} else {
					// Database error - log and continue without auth context
					slog.Warn("failed to get client context from database",
						"client_id", clientID,
						"error", err,
					)
					next.ServeHTTP(w, r)
					return
				}
			}

			// Wrap the client context in AuthContext
			authCtx := &AuthContext{
				ClientContext: clientCtx,
			}

			// Inject auth context into request context
			ctx := context.WithValue(r.Context(), AuthContextKey, authCtx)
			r = r.WithContext(ctx)

			slog.Debug("auth context injected successfully",
				"client_id", clientID,
			)

			next.ServeHTTP(w, r)
		})
	}
}

// GetAuthContext extracts the AuthContext from a request context.
// Returns nil if no auth context is available (request had no valid key).
//
// Usage in handlers:
//
//	authCtx := auth.GetAuthContext(r.Context())
//	if authCtx == nil {
//	    // Handle unauthorized request
//	}
//	clientID := authCtx.ClientID
func GetAuthContext(ctx context.Context) *AuthContext {
	authCtx, ok := ctx.Value(AuthContextKey).(*AuthContext)
	if !ok {
		return nil
	}
	return authCtx
}

// RequireAuth returns a middleware that requires authentication.
// If no auth context is found, returns 401 Unauthorized.
// This middleware should be applied to protected endpoints.
//
// Usage:
//
//	mux.Handle("POST /api/protected", auth.RequireAuth(authService, keyExtractor)(handler))
func RequireAuth(authService *AuthService, keyExtractor *KeyExtractor) func(http.Handler) http.Handler {
	// Create the auth middleware once, not on every request
	authMiddleware := Middleware(authService, keyExtractor)

	return func(next http.Handler) http.Handler {
		return authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Check if auth context is available
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
