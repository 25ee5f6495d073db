package monitor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hamed0406/linewatch/internal/domain"
	"github.com/hamed0406/linewatch/internal/notify"
	"github.com/hamed0406/linewatch/internal/report"
)

// Dispatcher sends at most one notification per result.
type Dispatcher struct {
	Logger    *zap.Logger
	Notifier  notify.Notifier
	Mode      report.Mode
	Recipient string
	// Markers maps operator name to the emoji used in the body.
	Markers map[string]string
}

func NewDispatcher(logger *zap.Logger, n notify.Notifier, mode report.Mode, recipient string, markers map[string]string) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		Logger:    logger,
		Notifier:  n,
		Mode:      mode,
		Recipient: recipient,
		Markers:   markers,
	}
}

// Dispatch reports whether a notification was delivered. Send failures are
// logged and swallowed; there is no retry.
func (d *Dispatcher) Dispatch(ctx context.Context, r domain.CheckResult) bool {
	if !r.RequiresNotification {
		d.Logger.Info("dispatch_skipped", zap.String("reason", "no_disruption"))
		return false
	}

	n := report.Format(r, d.Mode, d.Markers)
	msg := notify.Message{
		To:      d.Recipient,
		Subject: n.Subject,
		Text:    n.Text,
		HTML:    n.HTML,
	}
	if err := d.send(ctx, msg); err != nil {
		d.Logger.Error("dispatch_failed",
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return false
	}

	d.Logger.Info("dispatch_sent",
		zap.String("subject", msg.Subject),
		zap.String("to", msg.To),
	)
	return true
}

func (d *Dispatcher) send(ctx context.Context, msg notify.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notifier panic: %v", r)
		}
	}()
	if d.Notifier == nil {
		return notify.ErrNotConfigured
	}
	return d.Notifier.Send(ctx, msg)
}
