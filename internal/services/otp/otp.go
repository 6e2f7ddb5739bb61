// Copyright 2026 Fernwerk Labs
// Licensed under the EUPL-1.2

// Package otp issues and verifies short-lived one-time passcodes.
package otp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/fernwerk/authgate/internal/services/email"
)

// DefaultTTL is how long an issued passcode stays valid.
const DefaultTTL = 5 * time.Minute

var (
	// ErrNoPendingCode is returned when no passcode was issued for the
	// address, or the issued one has expired.
	ErrNoPendingCode = errors.New("no pending passcode")

	// ErrCodeMismatch is returned when the presented passcode does not
	// match the stored one.
	ErrCodeMismatch = errors.New("passcode mismatch")
)

// Service issues 4-digit passcodes keyed by email, stores them in a TTL
// store, and verifies presented codes. A passcode is consumed on successful
// verification so it cannot be replayed within its TTL window.
type Service struct {
	store  Store
	sender email.Sender
	ttl    time.Duration
}

// NewService creates an OTP service. A zero ttl falls back to DefaultTTL.
func NewService(store Store, sender email.Sender, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{store: store, sender: sender, ttl: ttl}
}

// Generate draws a uniformly random 4-digit code in [1000, 9999].
// The code is single-use within a short TTL and delivered out of band,
// so math/rand suffices here.
func Generate() int {
	return rand.IntN(9000) + 1000
}

// Issue generates a passcode for the address, stores it with the configured
// expiry, and hands it to the delivery channel. Any prior pending passcode
// for the address is overwritten.
func (s *Service) Issue(ctx context.Context, emailAddr string) error {
	code := fmt.Sprintf("%d", Generate())

	if err := s.store.Set(ctx, emailAddr, code, s.ttl); err != nil {
		return fmt.Errorf("storing passcode: %w", err)
	}

	if err := s.sender.SendOTP(ctx, emailAddr, code); err != nil {
		return fmt.Errorf("delivering passcode: %w", err)
	}

	slog.Info("otp_issued", "email", emailAddr, "ttl", s.ttl)
	return nil
}

// Verify checks the presented passcode against the stored one. On success
// the stored passcode is deleted. Absent or expired codes yield
// ErrNoPendingCode, wrong codes ErrCodeMismatch.
func (s *Service) Verify(ctx context.Context, emailAddr, code string) error {
	stored, err := s.store.Get(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return ErrNoPendingCode
		}
		return fmt.Errorf("reading passcode: %w", err)
	}

	if stored != code {
		slog.Warn("otp_verify_failed", "email", emailAddr)
		return ErrCodeMismatch
	}

	// Best effort; a failed delete leaves the code to expire on its own.
	if err := s.store.Del(ctx, emailAddr); err != nil {
		slog.Warn("otp_delete_failed", "email", emailAddr, "error", err)
	}

	return nil
}
