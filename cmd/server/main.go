// Copyright 2026 Fernwerk Labs
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fernwerk/authgate/internal/config"
	"github.com/fernwerk/authgate/internal/server"
	"github.com/urfave/cli/v3"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cmd := &cli.Command{
		Name:    "authgate",
		Usage:   "OTP-gated registration and login service",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags:   config.Flags(),
		Action:  server.Run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
