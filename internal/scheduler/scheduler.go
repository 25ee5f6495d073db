// Package scheduler fires the check cycle on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one scheduled run. It receives the scheduler's context.
type Job func(ctx context.Context)

type Scheduler struct {
	Logger *zap.Logger
	// Immediate runs the job once on start, before the first tick.
	Immediate bool

	expr     string
	loc      *time.Location
	schedule cron.Schedule
	job      Job
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// New parses expr in loc (UTC when nil). An empty expression is rejected;
// callers that want no schedule should not build a Scheduler.
func New(logger *zap.Logger, expr string, loc *time.Location, job Job) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	if job == nil {
		return nil, errors.New("scheduler: nil job")
	}
	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("scheduler: parse %q: %w", expr, err)
	}
	return &Scheduler{
		Logger:   logger,
		expr:     expr,
		loc:      loc,
		schedule: sched,
		job:      job,
	}, nil
}

// Next returns the first activation strictly after t, in the scheduler's zone.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t.In(s.loc))
}

// Run blocks until ctx is cancelled, then waits for an in-flight job.
// A tick that arrives while the previous run is still going is skipped.
func (s *Scheduler) Run(ctx context.Context) {
	c := cron.New(
		cron.WithParser(parser),
		cron.WithLocation(s.loc),
		cron.WithChain(
			cron.Recover(cronLogger{s.Logger}),
			cron.SkipIfStillRunning(cronLogger{s.Logger}),
		),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() { s.fire(ctx, "tick") }))

	if s.Immediate {
		s.fire(ctx, "start")
	}

	c.Start()
	s.Logger.Info("scheduler_started",
		zap.String("schedule", s.expr),
		zap.String("tz", s.loc.String()),
		zap.Time("next", s.Next(time.Now())),
	)

	<-ctx.Done()
	<-c.Stop().Done()
	s.Logger.Info("scheduler_stopped")
}

func (s *Scheduler) fire(ctx context.Context, trigger string) {
	if ctx.Err() != nil {
		return
	}
	s.Logger.Debug("scheduler_fire", zap.String("trigger", trigger))
	s.job(ctx)
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct{ l *zap.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Debugw("cron_"+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Errorw("cron_"+msg, append(keysAndValues, "error", err)...)
}
