package messaging

import (
	"context"

	"nutricoach-be/internal/pkg/logger"
)

// LogSender only logs. Used in development when no chat channel is configured.
type LogSender struct {
	logger logger.ILogger
}

func NewLogSender(l logger.ILogger) *LogSender {
	return &LogSender{logger: l}
}

func (s *LogSender) Send(ctx context.Context, externalUserID string, msg Message) error {
	s.logger.Info("MESSAGING", "Coach message (log channel)", map[string]interface{}{
		"to":       externalUserID,
		"category": msg.Category,
		"title":    msg.Title,
		"body":     msg.Body,
	})
	return nil
}
