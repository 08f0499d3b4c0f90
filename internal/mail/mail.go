// Package mail delivers transactional mail. Delivery goes through the Resend
// API when an API key is configured; otherwise a no-op sender logs instead, so
// development setups work without credentials.
package mail

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/garnizeh/gymtrack/internal/config"
)

type Sender interface {
	SendPasswordReset(ctx context.Context, to, name, resetURL string) error
}

// New picks the sender implementation based on configuration.
func New(cfg config.MailConfig, logger *slog.Logger) Sender {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ResendAPIKey == "" {
		return &noopSender{logger: logger}
	}
	return &resendSender{
		client: resend.NewClient(cfg.ResendAPIKey),
		from:   cfg.From,
		logger: logger,
	}
}

type resendSender struct {
	client *resend.Client
	from   string
	logger *slog.Logger
}

func (s *resendSender) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: "Reset your GymTrack password",
		Html: fmt.Sprintf(
			"<p>Hi %s,</p><p>A password reset was requested for your account. The link below is valid for one hour and can be used once.</p><p><a href=%q>Reset password</a></p><p>If you did not request this, you can ignore this email.</p>",
			name, resetURL),
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		s.logger.Error("password reset mail failed", slog.String("to", to), slog.Any("err", err))
		return fmt.Errorf("resend send failed: %w", err)
	}

	s.logger.Info("password reset mail sent", slog.String("to", to), slog.String("message_id", sent.Id))
	return nil
}

type noopSender struct {
	logger *slog.Logger
}

func (s *noopSender) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	s.logger.Info("mail disabled, password reset link not delivered",
		slog.String("to", to),
		slog.String("reset_url", resetURL),
	)
	return nil
}
