// Copyright 2026 Fernwerk Labs
// Licensed under the EUPL-1.2

package auth_test

import (
	"strings"
	"testing"

	"github.com/fernwerk/authgate/internal/services/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	h := auth.NewArgon2idHasher()

	encoded, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))
	require.NoError(t, h.Verify("correct horse battery staple", encoded))
}

func TestVerify_WrongPassword(t *testing.T) {
	h := auth.NewArgon2idHasher()

	encoded, err := h.Hash("password-one")
	require.NoError(t, err)

	err = h.Verify("password-two", encoded)
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestHash_SaltUniqueness(t *testing.T) {
	h := auth.NewArgon2idHasher()

	first, err := h.Hash("same password")
	require.NoError(t, err)
	second, err := h.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	// Both still verify
	require.NoError(t, h.Verify("same password", first))
	require.NoError(t, h.Verify("same password", second))
}

func TestVerify_MalformedHash(t *testing.T) {
	h := auth.NewArgon2idHasher()

	tests := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"garbage", "not-a-hash"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$ZGlnZXN0"},
		{"truncated", "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA"},
		{"bad salt encoding", "$argon2id$v=19$m=65536,t=1,p=4$!!!$ZGlnZXN0"},
		{"bad params", "$argon2id$v=19$bogus$c2FsdA$ZGlnZXN0"},
		{"zero iterations", "$argon2id$v=19$m=65536,t=0,p=4$c2FsdA$ZGlnZXN0"},
		{"zero parallelism", "$argon2id$v=19$m=65536,t=1,p=0$c2FsdA$ZGlnZXN0"},
		{"excessive memory", "$argon2id$v=19$m=4294967295,t=1,p=4$c2FsdA$ZGlnZXN0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Malformed input is indistinguishable from a mismatch
			err := h.Verify("whatever", tt.encoded)
			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		})
	}
}
