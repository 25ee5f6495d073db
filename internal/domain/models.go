package domain

import "time"

// Status is the normalized operating state of a line.
type Status string

const (
	StatusNormal    Status = "normal"
	StatusDelayed   Status = "delayed"
	StatusSuspended Status = "suspended"
	StatusUnknown   Status = "unknown"
)

// Disrupted reports whether s is a state that needs someone's attention.
// Unknown is deliberately excluded.
func (s Status) Disrupted() bool {
	return s == StatusDelayed || s == StatusSuspended
}

// Severity is the hint attached to a disruption keyword. Empty means the
// classifier infers it from the keyword itself.
type Severity string

const (
	SeverityInfer     Severity = ""
	SeverityDelayed   Severity = "delayed"
	SeveritySuspended Severity = "suspended"
)

type Rule struct {
	Keyword  string   `json:"keyword" yaml:"keyword"`
	Severity Severity `json:"severity,omitempty" yaml:"severity,omitempty"`
}

// KeywordSet is the source-specific vocabulary for one status page.
// Ignore phrases are stripped before any keyword is matched.
type KeywordSet struct {
	Disruption []Rule   `json:"disruption" yaml:"disruption"`
	Normal     []string `json:"normal" yaml:"normal"`
	Ignore     []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`
}

type LineConfig struct {
	Name            string     `json:"name" yaml:"name"`
	Operator        string     `json:"operator" yaml:"operator"`
	Source          string     `json:"source" yaml:"source"`
	Marker          string     `json:"marker,omitempty" yaml:"marker,omitempty"`
	Keywords        KeywordSet `json:"keywords" yaml:"keywords"`
	SilenceIsNormal bool       `json:"silence_is_normal" yaml:"silence_is_normal"`
}

// MaxMessageRunes bounds LineStatus.Message.
const MaxMessageRunes = 300

type LineStatus struct {
	Line      string    `json:"line"`
	Operator  string    `json:"operator"`
	Status    Status    `json:"status"`
	Message   string    `json:"message"`
	CheckedAt time.Time `json:"checked_at"`
}
