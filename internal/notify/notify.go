package notify

import (
	"context"
	"errors"

	"go.uber.org/multierr"
)

// ErrNotConfigured is returned by channels that lack required settings.
var ErrNotConfigured = errors.New("notifier not configured")

// Message is a fully rendered notification. Text and HTML carry the same
// content; channels use whichever they support.
type Message struct {
	To      string `json:"to,omitempty"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Multi delivers to every channel and reports all failures together.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, msg Message) error {
	var err error
	for _, n := range m {
		if n == nil {
			continue
		}
		err = multierr.Append(err, n.Send(ctx, msg))
	}
	return err
}
