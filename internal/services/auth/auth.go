// Copyright 2026 Fernwerk Labs
// Licensed under the EUPL-1.2

// Package auth implements the registration and login flows.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fernwerk/authgate/internal/models"
	"github.com/fernwerk/authgate/internal/repository"
	"github.com/fernwerk/authgate/internal/services/otp"
	"github.com/fernwerk/authgate/internal/services/token"
)

var (
	// ErrInvalidCredentials covers wrong password, unknown account, and
	// malformed stored hashes. Callers must not distinguish between them.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserExists is returned when registering an already taken email.
	ErrUserExists = errors.New("user already exists")
)

// dummyHash is verified when the account does not exist, to keep login
// timing independent of account existence. It never matches any password.
//
//nolint:gosec // G101: not a credential, an intentionally unmatched hash.
const dummyHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Service orchestrates passcode verification, password hashing, and token
// issuance. All dependencies are fixed at construction.
type Service struct {
	repo   *repository.Repository
	hasher Hasher
	otp    *otp.Service
	tokens *token.Issuer
}

// NewService creates an auth Service.
func NewService(repo *repository.Repository, hasher Hasher, otpSvc *otp.Service, tokens *token.Issuer) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		otp:    otpSvc,
		tokens: tokens,
	}
}

// RegisterParams holds the parameters for user registration. RoleID is
// accepted for wire compatibility but ignored; every account is created
// with models.DefaultRoleID.
type RegisterParams struct {
	Name     string
	Email    string
	RoleID   int64
	Password string
	Code     string
}

// Register verifies the passcode, hashes the password, and creates the user
// row. The insert is the only mutating step, so a failure at any point
// leaves no partial account behind.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	if err := s.otp.Verify(ctx, params.Email, params.Code); err != nil {
		return nil, err
	}

	exists, err := s.repo.UserExists(ctx, params.Email)
	if err != nil {
		return nil, fmt.Errorf("checking existing user: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: hash,
		RoleID:       models.DefaultRoleID,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		// Backstop for a concurrent registration slipping past the
		// existence check; the UNIQUE constraint settles the race.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	slog.Info("register_success", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login verifies the credentials and returns a signed session token.
// Unknown accounts and wrong passwords are indistinguishable to the caller,
// and a dummy verification keeps the timing consistent.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = s.hasher.Verify(password, dummyHash)
			slog.Warn("login_failed", "email", email, "reason", "user_not_found")
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	if err := s.hasher.Verify(password, user.PasswordHash); err != nil {
		slog.Warn("login_failed", "email", email, "reason", "invalid_password")
		return "", ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("issuing token: %w", err)
	}

	slog.Info("login_success", "user_id", user.ID, "email", email)
	return tok, nil
}
