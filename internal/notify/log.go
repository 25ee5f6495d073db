package notify

import (
	"context"

	"go.uber.org/zap"
)

// Log writes the notification to the logger instead of delivering it.
// Used for dry runs and when no channel is configured.
type Log struct {
	Logger *zap.Logger
}

func (l Log) Send(_ context.Context, msg Message) error {
	if l.Logger == nil {
		return nil
	}
	l.Logger.Info("notification_logged",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text),
	)
	return nil
}
