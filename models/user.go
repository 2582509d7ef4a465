// user.go - Defines the User model for the database

package models // Declares the package name

import ( // Import required packages
	"time" // Timestamps

	"github.com/google/uuid" // Identity keys
	"gorm.io/gorm"           // ORM library
)

const (
	RoleVoter = "voter"
	RoleAdmin = "admin"
)

// User is a registered voter or admin. Password always holds a bcrypt digest.
type User struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Age        int       `gorm:"not null" json:"age"`
	Email      string    `gorm:"not null" json:"email"`
	Mobile     string    `gorm:"not null" json:"mobile"`
	Address    string    `gorm:"not null" json:"address"`
	NationalID string    `gorm:"uniqueIndex;not null" json:"nationalId"` // unique across all users
	Password   string    `gorm:"not null" json:"-"`                      // never serialized
	Role       string    `gorm:"not null;default:voter;index" json:"role"`
	HasVoted   bool      `gorm:"not null;default:false" json:"hasVoted"` // false -> true once
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID identity key and the default role.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleVoter
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
