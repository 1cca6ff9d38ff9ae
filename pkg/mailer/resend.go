package mailer

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// ResendSender delivers through the Resend API.
type ResendSender struct {
	client *resend.Client
	logger *zap.Logger
}

func NewResendSender(apiKey string, logger *zap.Logger) *ResendSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		logger: logger,
	}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}

	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		s.logger.Warn("Resend delivery failed",
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return fmt.Errorf("resend: %w", err)
	}

	s.logger.Debug("Email delivered",
		zap.String("provider_id", sent.Id),
		zap.String("subject", msg.Subject),
	)
	return nil
}
