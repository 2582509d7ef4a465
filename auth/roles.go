// roles.go - Role lookups for admin-only operations

package auth

import (
	"context"
	"log/slog"

	"go-voting-backend/models"
)

// UserFinder loads a user by identity key.
type UserFinder interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
}

// RoleAuthority decides whether an identity may perform admin operations.
type RoleAuthority struct {
	users  UserFinder
	logger *slog.Logger
}

// NewRoleAuthority creates a RoleAuthority backed by users.
func NewRoleAuthority(users UserFinder, logger *slog.Logger) *RoleAuthority {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoleAuthority{users: users, logger: logger}
}

// IsAdmin reports whether userID belongs to an admin.
// It fails closed: lookup errors and unknown users are "not admin".
func (a *RoleAuthority) IsAdmin(ctx context.Context, userID string) bool {
	user, err := a.users.UserByID(ctx, userID)
	if err != nil {
		a.logger.WarnContext(ctx, "role_lookup_failed", "user_id", userID, "error", err)
		return false
	}
	return user != nil && user.Role == models.RoleAdmin
}
