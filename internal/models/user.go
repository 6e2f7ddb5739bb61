// Copyright 2026 Fernwerk Labs
// Licensed under the EUPL-1.2

// Package models contains the persistent entities of the service.
package models

import "time"

// User is a registered account. PasswordHash holds a PHC-encoded argon2id
// string and must never leave the service in responses or logs.
type User struct { //nolint:govet // fieldalignment: readability over optimization
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password" json:"-"`
	RoleID       int64     `db:"role_id" json:"role_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// DefaultRoleID is assigned to every account created through registration.
// The role supplied by the client is ignored; role management is an
// administrative concern, not a registration input.
const DefaultRoleID int64 = 1
