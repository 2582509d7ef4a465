package store

import (
	"context"
	"fmt"

	"go-voting-backend/database"
	"go-voting-backend/models"

	"gorm.io/gorm"
)

// CreateUser inserts a user whose Password already holds a digest.
// An admin can only be created while no admin exists.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if user.Role == models.RoleAdmin {
			var admins int64
			if err := tx.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
				return err
			}
			if admins > 0 {
				return ErrAdminExists
			}
		}
		return tx.Create(user).Error
	})
	if database.IsUniqueViolation(err) {
		// A concurrent admin signup loses on idx_users_single_admin.
		if user.Role == models.RoleAdmin && s.adminExists(ctx) {
			return ErrAdminExists
		}
		return ErrDuplicateNationalID
	}
	return err
}

func (s *Store) adminExists(ctx context.Context) bool {
	var admins int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error
	return err == nil && admins > 0
}

// UserByID loads a user by identity key.
func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

// UserByNationalID loads a user by national ID number.
func (s *Store) UserByNationalID(ctx context.Context, nationalID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("national_id = ?", nationalID).First(&user).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

// UpdatePassword replaces a user's password digest.
func (s *Store) UpdatePassword(ctx context.Context, id, digest string) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", digest)
	if result.Error != nil {
		return fmt.Errorf("update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
