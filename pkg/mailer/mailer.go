// Package mailer delivers transactional email.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Payphone-Digital/helpdesk/pkg/circuit"
	"go.uber.org/zap"
)

// Message is a single outbound email.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

func (m Message) validate() error {
	if len(m.To) == 0 {
		return errors.New("mailer: message has no recipients")
	}
	if m.Subject == "" {
		return errors.New("mailer: message has no subject")
	}
	return nil
}

// Sender delivers a message or reports why it could not.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender logs messages instead of delivering them. Used when no
// provider key is configured.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	s.logger.Info("Email delivery skipped, no provider configured",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

// GuardedSender fails fast while the wrapped sender keeps failing.
type GuardedSender struct {
	next    Sender
	breaker *circuit.Breaker
}

func NewGuardedSender(next Sender, breaker *circuit.Breaker) *GuardedSender {
	return &GuardedSender{next: next, breaker: breaker}
}

func (s *GuardedSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}

	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.next.Send(ctx, msg)
	})
	if errors.Is(err, circuit.ErrCircuitOpen) || errors.Is(err, circuit.ErrTooManyRequests) {
		return fmt.Errorf("mailer: %s unavailable: %w", s.breaker.Name(), err)
	}
	return err
}
