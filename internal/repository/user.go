// Copyright 2026 Fernwerk Labs
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/fernwerk/authgate/internal/models"
)

// CreateUser inserts a new user row and fills in the generated ID.
// A duplicate email yields ErrDuplicateEmail.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password, role_id) VALUES (?, ?, ?, ?)`,
		user.Name, user.Email, user.PasswordHash, user.RoleID)
	if err != nil {
		return wrapError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = ?`, email)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// UserExists checks if a user with the given email exists.
func (r *Repository) UserExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE email = ?`, email)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
