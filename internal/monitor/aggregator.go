package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/linewatch/internal/classify"
	"github.com/hamed0406/linewatch/internal/domain"
	"github.com/hamed0406/linewatch/internal/probe"
)

// Aggregator checks every configured line concurrently and merges the
// results in configuration order.
type Aggregator struct {
	Logger  *zap.Logger
	Checker probe.Checker
	Lines   []domain.LineConfig
	// Timeout bounds each line check; zero leaves it to the fetcher.
	Timeout time.Duration
}

func NewAggregator(
	logger *zap.Logger,
	checker probe.Checker,
	lines []domain.LineConfig,
	timeout time.Duration,
) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout < 0 {
		timeout = 0
	}
	return &Aggregator{
		Logger:  logger,
		Checker: checker,
		Lines:   lines,
		Timeout: timeout,
	}
}

// Run waits for every line regardless of individual outcomes. Each goroutine
// writes only its own slot, so no locking is needed.
func (a *Aggregator) Run(ctx context.Context) domain.CheckResult {
	out := make([]domain.LineStatus, len(a.Lines))
	var wg sync.WaitGroup

	for i, line := range a.Lines {
		wg.Add(1)
		go func(i int, line domain.LineConfig) {
			defer wg.Done()
			out[i] = a.checkOne(ctx, line)

			a.Logger.Info("line_checked",
				zap.String("line", line.Name),
				zap.String("operator", line.Operator),
				zap.String("status", string(out[i].Status)),
				zap.String("message", out[i].Message),
			)
		}(i, line)
	}

	wg.Wait()
	return domain.NewCheckResult(out)
}

func (a *Aggregator) checkOne(ctx context.Context, line domain.LineConfig) (ls domain.LineStatus) {
	defer func() {
		if r := recover(); r != nil {
			a.Logger.Error("line_check_panic", zap.String("line", line.Name), zap.Any("panic", r))
			ls = domain.LineStatus{
				Line:      line.Name,
				Operator:  line.Operator,
				Status:    domain.StatusUnknown,
				Message:   classify.Truncate(fmt.Sprintf("チェック中にエラーが発生しました: %v", r), domain.MaxMessageRunes),
				CheckedAt: time.Now().UTC(),
			}
		}
	}()

	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}
	return a.Checker.Check(ctx, line)
}
