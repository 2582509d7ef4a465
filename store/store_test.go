package store_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"go-voting-backend/config"
	"go-voting-backend/database"
	"go-voting-backend/models"
	"go-voting-backend/store"

	"github.com/stretchr/testify/require"
)

var nationalIDSeq atomic.Int64

// newTestStore returns a Store over a fresh sqlite database.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return store.New(db, nil)
}

// newTestUser creates a user with the given role and a unique national ID.
func newTestUser(t *testing.T, s *store.Store, role string) *models.User {
	t.Helper()
	user := &models.User{
		Name:       "Test User",
		Age:        30,
		Email:      "test@example.com",
		Mobile:     "5550100",
		Address:    "1 Main St",
		NationalID: fmt.Sprintf("%012d", nationalIDSeq.Add(1)),
		Password:   "$2a$10$not-a-real-digest-used-in-store-tests-only",
		Role:       role,
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func newTestCandidate(t *testing.T, s *store.Store, name, party string) *models.Candidate {
	t.Helper()
	candidate := &models.Candidate{Name: name, Party: party}
	require.NoError(t, s.CreateCandidate(context.Background(), candidate))
	return candidate
}
