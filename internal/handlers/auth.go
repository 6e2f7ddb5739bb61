// Copyright 2026 Fernwerk Labs
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fernwerk/authgate/internal/services/auth"
	"github.com/fernwerk/authgate/internal/services/otp"
	"github.com/labstack/echo/v4"
)

// OTPRequest is the request body for requesting a passcode.
type OTPRequest struct {
	Email string `json:"email"`
}

// RegisterRequest is the request body for creating an account. RoleID is
// accepted but ignored; the server assigns the default role.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	RoleID   int64  `json:"role_id"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SendOTP issues a passcode for the given email address.
func (h *Handlers) SendOTP(c echo.Context) error {
	var req OTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "email is required"})
	}

	if err := h.otp.Issue(c.Request().Context(), req.Email); err != nil {
		slog.Error("failed to issue passcode", "error", err, "email", req.Email)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "otp sent"})
}

// Register creates a new account after verifying the presented passcode.
// Registration does not log the user in; the client logs in afterwards.
func (h *Handlers) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "email and password are required"})
	}

	_, err := h.auth.Register(c.Request().Context(), auth.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		RoleID:   req.RoleID,
		Password: req.Password,
		Code:     req.OTP,
	})
	if err != nil {
		switch {
		case errors.Is(err, otp.ErrNoPendingCode), errors.Is(err, otp.ErrCodeMismatch):
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		case errors.Is(err, auth.ErrUserExists):
			return c.JSON(http.StatusConflict, map[string]string{"error": "email already taken"})
		default:
			slog.Error("failed to create user", "error", err, "email", req.Email)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, map[string]string{"message": "user created"})
}

// Login verifies credentials and returns a session token. Wrong password
// and unknown account produce the same response.
func (h *Handlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "email and password are required"})
	}

	tok, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		slog.Error("login error", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"token": tok})
}
