// auth.go - JWT authentication middleware
//
// Authentication Flow:
// 1. Require "Authorization: Bearer <token>" (exactly two space-separated parts)
// 2. Verify token signature and expiration
// 3. Store the user ID from the token in the Gin context
//
// Authorization Flow (Admin):
// 1. Runs after AuthMiddleware on the same route
// 2. Looks up the user's role through the RoleAuthority
// 3. 403 unless the user is an admin

package middleware // Declares the package name

import ( // Import required packages
	"context"                  // Role lookups
	"go-voting-backend/apperr" // Error taxonomy
	"go-voting-backend/auth"   // Token claims
	"log/slog"                 // Structured logging
	"strings"                  // Header parsing

	"github.com/gin-gonic/gin" // Gin web framework (for middleware)
)

// UserIDKey is the Gin context key holding the authenticated user ID.
const UserIDKey = "user_id"

var (
	ErrTokenNotFound         = apperr.Authentication("Token Not Found")
	ErrInvalidTokenFormat    = apperr.Authentication("Unauthorized: Invalid token format")
	ErrTokenMissing          = apperr.Authentication("Unauthorized: Token missing")
	ErrInvalidOrExpiredToken = apperr.Authentication("Invalid or Expired Token")
	ErrNotAdmin              = apperr.Authorization("User does not have admin role")
)

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AdminChecker decides whether a user is an admin.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) bool
}

// AuthMiddleware - Returns a Gin middleware that requires a valid bearer token.
// Every failure aborts with 401 before the handler runs.
func AuthMiddleware(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization") // Get Authorization header
		if header == "" {
			abort(c, ErrTokenNotFound)
			return
		}

		parts := strings.Split(header, " ") // Expect "Bearer <token>"
		if len(parts) != 2 || parts[0] != "Bearer" {
			abort(c, ErrInvalidTokenFormat)
			return
		}
		if parts[1] == "" {
			abort(c, ErrTokenMissing)
			return
		}

		claims, err := tokens.Verify(parts[1]) // Check signature and expiry
		if err != nil {
			slog.DebugContext(c.Request.Context(), "token_rejected", "error", err)
			abort(c, ErrInvalidOrExpiredToken)
			return
		}

		c.Set(UserIDKey, claims.UserID) // Store user ID in Gin context
		c.Next()                        // Continue to next handler
	}
}

// AdminMiddleware - Returns a Gin middleware that lets only admins through.
// Must run after AuthMiddleware.
func AdminMiddleware(roles AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c) // Set by AuthMiddleware
		if userID == "" {
			abort(c, ErrTokenNotFound)
			return
		}
		if !roles.IsAdmin(c.Request.Context(), userID) { // Fails closed on lookup errors
			abort(c, ErrNotAdmin)
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user ID, or "" outside protected routes.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperr.Status(err), gin.H{"error": apperr.Public(err)})
}
