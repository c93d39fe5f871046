package mailer

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// LogSender logs messages instead of delivering them and keeps a copy of
// each for inspection.
type LogSender struct {
	log  *zap.Logger
	mu   sync.Mutex
	sent []Email
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{log: logger}
}

func (s *LogSender) Send(ctx context.Context, e Email) error {
	if e.To == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.sent = append(s.sent, e)
	s.mu.Unlock()

	s.log.Info("email (log transport)",
		zap.String("to", e.To),
		zap.String("subject", e.Subject),
		zap.String("text", e.TextBody))
	return nil
}

// Sent returns a copy of every message passed to Send.
func (s *LogSender) Sent() []Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Email(nil), s.sent...)
}
