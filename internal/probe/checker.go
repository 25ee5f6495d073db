package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/hamed0406/linewatch/internal/classify"
	"github.com/hamed0406/linewatch/internal/domain"
	"github.com/hamed0406/linewatch/internal/textnorm"
)

// LineChecker runs fetch -> normalize -> classify for one line.
type LineChecker struct {
	Fetcher Fetcher
	Now     func() time.Time
}

func NewLineChecker(f Fetcher) *LineChecker {
	return &LineChecker{
		Fetcher: f,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

// Check never returns an error. A failed retrieval yields StatusUnknown with
// the failure in the message, so one broken source cannot abort a run.
func (c *LineChecker) Check(ctx context.Context, line domain.LineConfig) domain.LineStatus {
	ls := domain.LineStatus{
		Line:      line.Name,
		Operator:  line.Operator,
		CheckedAt: c.Now(),
	}

	raw, err := c.fetch(ctx, line.Source)
	if err != nil {
		ls.Status = domain.StatusUnknown
		ls.Message = classify.Truncate("取得に失敗しました: "+err.Error(), domain.MaxMessageRunes)
		return ls
	}

	cl := classify.New(line.Keywords, line.SilenceIsNormal)
	ls.Status, ls.Message = cl.Classify(textnorm.Normalize(raw))
	return ls
}

func (c *LineChecker) fetch(ctx context.Context, source string) (raw string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fetcher panic: %v", r)
		}
	}()
	if c.Fetcher == nil {
		return "", fmt.Errorf("no fetcher configured")
	}
	return c.Fetcher.Fetch(ctx, source)
}
