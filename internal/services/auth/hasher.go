// Copyright 2026 Fernwerk Labs
// Licensed under the EUPL-1.2

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// OWASP-recommended argon2id parameters.
const (
	argon2Time    = 1         // iterations
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4         // parallelism
	argon2SaltLen = 16        // salt length in bytes
	argon2KeyLen  = 32        // output length in bytes

	// argon2MaxMemory caps the memory a stored hash may demand on verify
	// (2 GiB in KiB), so a hostile encoding cannot force huge allocations.
	argon2MaxMemory = 1 << 21
)

// Hasher provides one-way password hashing and verification.
type Hasher interface {
	// Hash produces a self-describing encoded hash of the password.
	Hash(password string) (string, error)

	// Verify checks the password against the encoded hash. A mismatch and
	// a malformed hash both return ErrInvalidCredentials so callers cannot
	// tell the two apart.
	Verify(password, encoded string) error
}

// Argon2idHasher implements Hasher using argon2id with a fresh random salt
// per call, encoded in PHC string format.
type Argon2idHasher struct{}

// NewArgon2idHasher creates a new Argon2idHasher.
func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{}
}

// Hash produces an argon2id hash of the password.
func (h *Argon2idHasher) Hash(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	digest := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<digest>
	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)

	return encoded, nil
}

// Verify re-derives the hash using the parameters embedded in encoded and
// compares in constant time.
func (h *Argon2idHasher) Verify(password, encoded string) error {
	salt, expected, memory, time, threads, err := decodeHash(encoded)
	if err != nil {
		return ErrInvalidCredentials
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(expected)))

	if subtle.ConstantTimeCompare(computed, expected) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

func decodeHash(encoded string) (salt, digest []byte, memory, time uint32, threads uint8, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return nil, nil, 0, 0, 0, fmt.Errorf("invalid hash format")
	}

	if parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, fmt.Errorf("unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, 0, 0, 0, err
	}

	var parallelism uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &parallelism); err != nil {
		return nil, nil, 0, 0, 0, err
	}
	if parallelism == 0 || parallelism > 255 {
		return nil, nil, 0, 0, 0, fmt.Errorf("parallelism out of range: %d", parallelism)
	}
	if time < 1 {
		return nil, nil, 0, 0, 0, fmt.Errorf("iterations out of range: %d", time)
	}
	if memory > argon2MaxMemory {
		return nil, nil, 0, 0, 0, fmt.Errorf("memory out of range: %d", memory)
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, 0, 0, 0, err
	}

	digest, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, 0, 0, 0, err
	}
	if len(digest) == 0 {
		return nil, nil, 0, 0, 0, fmt.Errorf("empty digest")
	}

	return salt, digest, memory, time, uint8(parallelism), nil
}
