package domain

import (
	"fmt"
	"strings"
)

// CheckResult is the outcome of one run over every configured line.
// Build it with NewCheckResult so RequiresNotification stays consistent.
type CheckResult struct {
	Lines                []LineStatus `json:"lines"`
	RequiresNotification bool         `json:"requires_notification"`
}

func NewCheckResult(lines []LineStatus) CheckResult {
	r := CheckResult{Lines: lines}
	for _, l := range lines {
		if l.Status.Disrupted() {
			r.RequiresNotification = true
			break
		}
	}
	return r
}

// Disrupted returns the delayed or suspended lines in configuration order.
func (r CheckResult) Disrupted() []LineStatus {
	var out []LineStatus
	for _, l := range r.Lines {
		if l.Status.Disrupted() {
			out = append(out, l)
		}
	}
	return out
}

func (r CheckResult) names(match func(Status) bool) []string {
	var out []string
	for _, l := range r.Lines {
		if match(l.Status) {
			out = append(out, l.Line)
		}
	}
	return out
}

// Summary is the one-line human readable outcome of a run.
func (r CheckResult) Summary() string {
	if delayed := r.names(Status.Disrupted); len(delayed) > 0 {
		return "Delays detected: " + strings.Join(delayed, ", ")
	}
	unknown := r.names(func(s Status) bool { return s == StatusUnknown })
	if len(unknown) > 0 {
		return fmt.Sprintf("All lines running normally (unknown: %s)", strings.Join(unknown, ", "))
	}
	return "All lines running normally"
}
