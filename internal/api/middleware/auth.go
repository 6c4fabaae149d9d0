package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/example/marketplace/internal/auth"
	"github.com/example/marketplace/internal/model"
)

type contextKey string

const UserContextKey contextKey = "user"

// ExtractToken locates a token on an inbound request. Carriers are
// checked in priority order: the "auth" query parameter (the realtime
// handshake field), the "token" query parameter, then the
// "Authorization: Bearer" header. The same lookup serves both plain HTTP
// requests and websocket upgrade requests.
func ExtractToken(r *http.Request) string {
	if v := r.URL.Query().Get("auth"); v != "" {
		return v
	}
	if v := r.URL.Query().Get("token"); v != "" {
		return v
	}
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// Authenticate verifies the request token and stores the resolved claims
// in the request context. Missing or invalid tokens are rejected with 401.
func Authenticate(jwtService *auth.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := ExtractToken(r)
			if tokenString == "" {
				respondError(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			claims, err := jwtService.Verify(tokenString)
			if err != nil {
				respondError(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route on the caller's role. It must run after
// Authenticate. A valid identity outside the allowed set gets 403.
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserFromContext(r.Context())
			if !ok {
				respondError(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			respondError(w, "Insufficient permissions", http.StatusForbidden)
		})
	}
}

// GetUserFromContext retrieves the authenticated claims from the context.
func GetUserFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*auth.Claims)
	return claims, ok
}

// GetUserID returns just the authenticated user id, or "".
func GetUserID(ctx context.Context) string {
	claims, ok := GetUserFromContext(ctx)
	if !ok {
		return ""
	}
	return claims.UserID
}

func respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
