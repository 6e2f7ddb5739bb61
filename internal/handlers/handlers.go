// Copyright 2026 Fernwerk Labs
// Licensed under the EUPL-1.2

// Package handlers contains the HTTP edge of the service.
package handlers

import (
	"net/http"

	"github.com/fernwerk/authgate/internal/services/auth"
	"github.com/fernwerk/authgate/internal/services/otp"
	"github.com/labstack/echo/v4"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	auth *auth.Service
	otp  *otp.Service
}

// New creates a new Handlers instance.
func New(authSvc *auth.Service, otpSvc *otp.Service) *Handlers {
	return &Handlers{auth: authSvc, otp: otpSvc}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
