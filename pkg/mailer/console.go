package mailer

import (
	"context"

	"go.uber.org/zap"
)

// consoleMailer only logs messages. Used in development and when no relay is configured.
type consoleMailer struct {
	logger *zap.Logger
}

func NewConsoleMailer(logger *zap.Logger) Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &consoleMailer{logger: logger}
}

func (c *consoleMailer) Send(_ context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}

	c.logger.Info("email (console driver)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("body_bytes", len(msg.HTML)),
	)
	return nil
}
