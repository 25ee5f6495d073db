package probe

import (
	"context"
	"fmt"

	"github.com/hamed0406/linewatch/internal/domain"
)

// Fetcher retrieves the raw status page for a source reference.
type Fetcher interface {
	Fetch(ctx context.Context, source string) (string, error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc func(ctx context.Context, source string) (string, error)

func (f FetcherFunc) Fetch(ctx context.Context, source string) (string, error) {
	return f(ctx, source)
}

// Checker produces the status of a single line. Implementations must not
// fail: retrieval problems are reported as domain.StatusUnknown.
type Checker interface {
	Check(ctx context.Context, line domain.LineConfig) domain.LineStatus
}

// StatusError is returned by HTTPFetcher for non-2xx responses.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response %s", e.Status)
}
