// Package monitor runs one check cycle: check every line, decide, notify.
package monitor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamed0406/linewatch/internal/domain"
)

type Outcome struct {
	RunID    string             `json:"run_id"`
	Summary  string             `json:"summary"`
	Notified bool               `json:"notified"`
	Result   domain.CheckResult `json:"result"`
}

// Runner is stateless between runs; it is safe to call Run concurrently.
type Runner struct {
	Logger     *zap.Logger
	Aggregator *Aggregator
	// Dispatcher may be nil for check-only runs.
	Dispatcher *Dispatcher
}

func NewRunner(logger *zap.Logger, agg *Aggregator, disp *Dispatcher) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{Logger: logger, Aggregator: agg, Dispatcher: disp}
}

// Run checks all lines and dispatches when any of them is disrupted.
func (r *Runner) Run(ctx context.Context) Outcome {
	return r.run(ctx, r.Dispatcher)
}

// Check is Run without the notification step.
func (r *Runner) Check(ctx context.Context) Outcome {
	return r.run(ctx, nil)
}

func (r *Runner) run(ctx context.Context, disp *Dispatcher) Outcome {
	id := uuid.NewString()
	log := r.Logger.With(zap.String("run_id", id))
	start := time.Now()
	log.Info("run_started", zap.Int("lines", len(r.Aggregator.Lines)))

	res := r.Aggregator.Run(ctx)
	out := Outcome{RunID: id, Result: res, Summary: res.Summary()}
	if disp != nil {
		d := *disp
		d.Logger = disp.Logger.With(zap.String("run_id", id))
		out.Notified = d.Dispatch(ctx, res)
	}

	log.Info("run_finished",
		zap.String("summary", out.Summary),
		zap.Bool("requires_notification", res.RequiresNotification),
		zap.Bool("notified", out.Notified),
		zap.Duration("took", time.Since(start)),
	)
	return out
}
