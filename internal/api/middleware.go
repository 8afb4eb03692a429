package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/up4down/up4down-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	contextKeyAdminID   contextKey = "admin_id"
	contextKeyUsername  contextKey = "username"
	contextKeySessionID contextKey = "session_id"
)

// requireAdmin is middleware that validates admin session tokens and
// attaches the admin context.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Missing authorization header", s.logger)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format", s.logger)
			return
		}

		claims, err := s.tokens.VerifySessionToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired session token", s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyAdminID, claims.AdminID)
		ctx = context.WithValue(ctx, contextKeyUsername, claims.Username)
		ctx = context.WithValue(ctx, contextKeySessionID, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// rateLimitRatings throttles rating submissions per client IP. The
// router's RealIP middleware runs first, so RemoteAddr is the real client.
func (s *Server) rateLimitRatings(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.ratingLimiter != nil && !s.ratingLimiter.Allow(clientIP(r)) {
			response.TooManyRequests(w, "Too many rating submissions, try again later", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr so one client is one key.
func clientIP(r *http.Request) string {
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

// getAdminID extracts the authenticated admin ID from request context.
// Returns empty string if not authenticated.
func getAdminID(ctx context.Context) string {
	if adminID, ok := ctx.Value(contextKeyAdminID).(string); ok {
		return adminID
	}
	return ""
}

// getUsername extracts the authenticated admin username from request context.
func getUsername(ctx context.Context) string {
	if username, ok := ctx.Value(contextKeyUsername).(string); ok {
		return username
	}
	return ""
}
