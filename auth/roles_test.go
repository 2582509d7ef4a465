package auth

import (
	"context"
	"errors"
	"testing"

	"go-voting-backend/models"

	"github.com/stretchr/testify/assert"
)

type fakeUsers struct {
	users map[string]*models.User
	err   error
}

func (f fakeUsers) UserByID(_ context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return u, nil
}

func TestRoleAuthority_IsAdmin(t *testing.T) {
	users := fakeUsers{users: map[string]*models.User{
		"admin": {ID: "admin", Role: models.RoleAdmin},
		"voter": {ID: "voter", Role: models.RoleVoter},
	}}
	roles := NewRoleAuthority(users, nil)
	ctx := context.Background()

	assert.True(t, roles.IsAdmin(ctx, "admin"))
	assert.False(t, roles.IsAdmin(ctx, "voter"))
	assert.False(t, roles.IsAdmin(ctx, "nobody"))
}

func TestRoleAuthority_FailsClosedOnLookupError(t *testing.T) {
	roles := NewRoleAuthority(fakeUsers{err: errors.New("connection reset")}, nil)

	assert.False(t, roles.IsAdmin(context.Background(), "admin"))
}
