// Copyright 2026 Fernwerk Labs
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"

	"github.com/fernwerk/authgate/internal/models"
	"github.com/fernwerk/authgate/internal/repository"
	"github.com/fernwerk/authgate/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(email string) *models.User {
	return &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdHNhbHQ$ZGlnZXN0ZGlnZXN0",
		RoleID:       models.DefaultRoleID,
	}
}

func TestCreateUser(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := newUser("a@example.com")
	err := repo.CreateUser(ctx, user)

	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	got, err := repo.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "Test User", got.Name)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)
	assert.Equal(t, models.DefaultRoleID, got.RoleID)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	first := newUser("a@example.com")
	require.NoError(t, repo.CreateUser(ctx, first))

	second := newUser("a@example.com")
	second.Name = "Impostor"
	err := repo.CreateUser(ctx, second)

	require.ErrorIs(t, err, repository.ErrDuplicateEmail)

	// The original row is untouched
	got, err := repo.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Test User", got.Name)

	var count int64
	require.NoError(t, db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`))
	assert.Equal(t, int64(1), count)
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetUserByEmail(context.Background(), "missing@example.com")

	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserExists(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	exists, err := repo.UserExists(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.CreateUser(ctx, newUser("a@example.com")))

	exists, err = repo.UserExists(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}
