// Copyright 2026 Fernwerk Labs
// Licensed under the EUPL-1.2

package database_test

import (
	"testing"

	"github.com/fernwerk/authgate/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_InMemory(t *testing.T) {
	db, err := database.Open(":memory:")

	require.NoError(t, err)
	require.NotNil(t, db)

	require.NoError(t, db.Close())
}

func TestOpen_DefaultDSN(t *testing.T) {
	t.Chdir(t.TempDir())

	db, err := database.Open("")

	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		_ = db.Close()
	}()
}

func TestOpen_MigrationsApplied(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	var count int64
	err = db.Get(&count, "SELECT count(*) FROM sqlite_master WHERE type='table' AND name='users'")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestOpen_UniqueEmailConstraint(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	_, err = db.Exec(`INSERT INTO users (name, email, password, role_id) VALUES ('a', 'a@x.com', 'h', 1)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO users (name, email, password, role_id) VALUES ('b', 'a@x.com', 'h', 1)`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint failed")
}
