// Copyright 2026 Fernwerk Labs
// Licensed under the EUPL-1.2

// Package email delivers one-time passcodes to users out of band.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fernwerk/authgate/internal/config"
	"github.com/wneessen/go-mail"
)

// Sender delivers a passcode to an address. Implementations must not assume
// delivery succeeded just because the call returned.
type Sender interface {
	SendOTP(ctx context.Context, to, code string) error
}

// SMTPSender sends passcodes by email via SMTP.
type SMTPSender struct {
	cfg *config.SMTPConfig
}

// NewSMTPSender creates an SMTP-backed sender.
func NewSMTPSender(cfg *config.SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}
	return &SMTPSender{cfg: cfg}, nil
}

// SendOTP sends the passcode to the address via SMTP using go-mail.
func (s *SMTPSender) SendOTP(_ context.Context, to, code string) error {
	msg := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject("Your verification code")
	msg.SetBodyString(mail.TypeTextPlain,
		fmt.Sprintf("Your verification code is %s. It expires in a few minutes.", code))

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}

	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		// Implicit TLS (SSL) for port 465, STARTTLS for others
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}

// LogSender writes passcodes to the log instead of delivering them.
// Useful for development setups without an SMTP server.
type LogSender struct{}

// SendOTP logs the passcode.
func (LogSender) SendOTP(_ context.Context, to, code string) error {
	slog.Info("otp_delivery", "to", to, "code", code)
	return nil
}

// CaptureSender records sent passcodes for inspection in tests.
type CaptureSender struct {
	Sent map[string]string
}

// NewCaptureSender creates an empty CaptureSender.
func NewCaptureSender() *CaptureSender {
	return &CaptureSender{Sent: make(map[string]string)}
}

// SendOTP records the passcode for the address.
func (c *CaptureSender) SendOTP(_ context.Context, to, code string) error {
	c.Sent[to] = code
	return nil
}
