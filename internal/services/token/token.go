// Copyright 2026 Fernwerk Labs
// Licensed under the EUPL-1.2

// Package token issues and verifies signed session tokens.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultLifetime is the session token validity period.
const DefaultLifetime = 24 * time.Hour

var (
	// ErrTokenExpired is returned when a token's expiry has passed.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid is returned for malformed or badly signed tokens.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the payload embedded in a session token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Issuer mints and verifies HS256-signed JWTs. The signing key is fixed at
// construction and shared read-only across requests.
type Issuer struct {
	secret   []byte
	lifetime time.Duration
}

// NewIssuer creates an Issuer. A zero lifetime falls back to DefaultLifetime.
func NewIssuer(secret []byte, lifetime time.Duration) *Issuer {
	if lifetime == 0 {
		lifetime = DefaultLifetime
	}
	return &Issuer{secret: secret, lifetime: lifetime}
}

// Issue creates a signed token for the email. Expiry is always computed as
// issue time plus the configured lifetime, never caller-supplied.
func (i *Issuer) Issue(email string) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.lifetime)),
		},
		Email: email,
	})

	return tok.SignedString(i.secret)
}

// Verify parses and validates a token, returning its claims.
//
// No route consumes this yet; it exists as the counterpart to Issue so
// protected routes can be added without touching the signing scheme.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !tok.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
