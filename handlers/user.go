// user.go - Handles user signup, login and profile

package handlers // Declares the package name

import ( // Import required packages
	"errors"                       // errors.Is on store sentinels
	"go-voting-backend/apperr"     // Error taxonomy
	"go-voting-backend/auth"       // Password verification
	"go-voting-backend/middleware" // Authenticated user ID
	"go-voting-backend/models"     // User model
	"go-voting-backend/store"      // User persistence
	"net/http"                     // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

var errInvalidCredentials = apperr.Authentication("Invalid national ID or password")

type SignupInput struct { // Struct for signup input
	Name       string `json:"name" binding:"required"`                    // Full name (required)
	Age        int    `json:"age" binding:"required,gt=0"`                // Age in years (required)
	Email      string `json:"email" binding:"required,email"`             // Email (required)
	Mobile     string `json:"mobile" binding:"required"`                  // Mobile number (required)
	Address    string `json:"address" binding:"required"`                 // Postal address (required)
	NationalID string `json:"nationalId" binding:"required,numeric"`      // Login identifier, unique
	Password   string `json:"password" binding:"required"`                // Plaintext, hashed before storage
	Role       string `json:"role" binding:"omitempty,oneof=voter admin"` // voter by default
}

type LoginInput struct { // Struct for login input
	NationalID string `json:"nationalId" binding:"required"` // National ID (required)
	Password   string `json:"password" binding:"required"`   // Password (required)
}

type ChangePasswordInput struct { // Struct for password change input
	CurrentPassword string `json:"currentPassword" binding:"required"` // Must match the stored digest
	NewPassword     string `json:"newPassword" binding:"required"`     // Replaces it
}

// Signup - POST /user/signup
func (h *Handler) Signup(c *gin.Context) {
	// STEP 1: Parse input and hash the password
	var input SignupInput
	if !h.bindJSON(c, &input) {
		return
	}
	hash, ok := h.hashPassword(c, input.Password)
	if !ok {
		return
	}

	// STEP 2: Save the user
	user := models.User{
		Name:       input.Name,
		Age:        input.Age,
		Email:      input.Email,
		Mobile:     input.Mobile,
		Address:    input.Address,
		NationalID: input.NationalID,
		Password:   hash,
		Role:       input.Role,
	}
	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil { // 409 on duplicate ID or second admin
		h.respondError(c, err)
		return
	}

	// STEP 3: Issue a token so the new user is logged in
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.respondError(c, apperr.Internal(err))
		return
	}
	h.logger.InfoContext(c.Request.Context(), "user_signed_up", "user_id", user.ID, "role", user.Role)
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token}) // Success response
}

// Login - POST /user/login
func (h *Handler) Login(c *gin.Context) {
	var input LoginInput
	if !h.bindJSON(c, &input) {
		return
	}

	user, err := h.store.UserByNationalID(c.Request.Context(), input.NationalID) // Find user by national ID
	if errors.Is(err, store.ErrUserNotFound) {
		h.respondError(c, errInvalidCredentials) // Same answer as a wrong password
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	ok, err := auth.VerifyPassword(input.Password, user.Password) // Check password
	if err != nil {
		h.respondError(c, apperr.Internal(err))
		return
	}
	if !ok {
		h.respondError(c, errInvalidCredentials)
		return
	}

	token, err := h.tokens.Issue(user.ID) // Sign token
	if err != nil {
		h.respondError(c, apperr.Internal(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token}) // Return token
}

// Profile - GET /user/profile
func (h *Handler) Profile(c *gin.Context) {
	user, err := h.store.UserByID(c.Request.Context(), middleware.UserID(c)) // ID set by AuthMiddleware
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ChangePassword - PUT /user/profile/password
func (h *Handler) ChangePassword(c *gin.Context) {
	// STEP 1: Parse input and load the caller
	var input ChangePasswordInput
	if !h.bindJSON(c, &input) {
		return
	}
	ctx := c.Request.Context()

	user, err := h.store.UserByID(ctx, middleware.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	// STEP 2: Check the current password
	ok, err := auth.VerifyPassword(input.CurrentPassword, user.Password)
	if err != nil {
		h.respondError(c, apperr.Internal(err))
		return
	}
	if !ok {
		h.respondError(c, apperr.Authentication("Invalid current password"))
		return
	}

	// STEP 3: Store the new digest
	hash, ok := h.hashPassword(c, input.NewPassword)
	if !ok {
		return
	}
	if err := h.store.UpdatePassword(ctx, user.ID, hash); err != nil {
		h.respondError(c, err)
		return
	}
	h.logger.InfoContext(ctx, "password_updated", "user_id", user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"}) // Success response
}
