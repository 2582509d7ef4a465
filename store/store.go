// Package store persists users, candidates and votes with gorm and owns the
// voting transaction. Methods return the sentinel errors below so handlers can
// map them to HTTP responses without knowing about the database.
package store

import (
	"errors"
	"log/slog"
	"net/http"

	"go-voting-backend/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidCandidateID  = apperr.Validation("Invalid candidate ID format")
	ErrCandidateNotFound   = apperr.NotFound("Candidate not found")
	ErrUserNotFound        = apperr.NotFound("User not found")
	ErrAdminCannotVote     = apperr.Authorization("Admin is not allowed to vote")
	ErrAlreadyVoted        = apperr.Conflict("You have already voted").WithStatus(http.StatusBadRequest)
	ErrDuplicateNationalID = apperr.Conflict("National ID is already registered")
	ErrAdminExists         = apperr.Conflict("Admin already exists")
)

// Store wraps a gorm DB. It holds no per-request state.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// New creates a Store.
func New(db *gorm.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// DB returns the underlying gorm DB.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// parseCandidateID normalizes a candidate identifier or rejects it.
func parseCandidateID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", ErrInvalidCandidateID
	}
	return parsed.String(), nil
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
