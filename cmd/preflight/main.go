// cmd/preflight/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/hamed0406/linewatch/internal/config"
	"github.com/hamed0406/linewatch/internal/probe"
)

func main() {
	failed := false
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		failed = true
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		for _, e := range multierr.Errors(err) {
			fail(e.Error())
		}
	} else {
		ok(fmt.Sprintf("SCHEDULE=%q in %s", cfg.Schedule, cfg.ScheduleTZ))
	}

	lines, err := config.LoadLines(cfg.LinesFile)
	switch {
	case err != nil:
		for _, e := range multierr.Errors(err) {
			fail(e.Error())
		}
	case cfg.LinesFile == "":
		warn("LINES_FILE empty; built-in 京葉線/東西線 definitions will be used.")
	default:
		ok(fmt.Sprintf("LINES_FILE=%s (%d lines)", cfg.LinesFile, len(lines)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	for _, l := range lines {
		dns := probe.CheckSource(ctx, nil, l.Source)
		if dns.Class == probe.DNSResolves {
			ok(fmt.Sprintf("%s: %s resolves", l.Name, dns.Host))
			continue
		}
		warn(fmt.Sprintf("%s: %s %s %s", l.Name, dns.Host, dns.Class, dns.ResolverError))
	}

	if !cfg.HasMailer() {
		warn("no SMTP_HOST, EMAIL_API_URL or SLACK_WEBHOOK; notifications will only be logged.")
	} else if cfg.NotifyTo != "" {
		ok("NOTIFY_TO=" + cfg.NotifyTo)
	}

	if len(cfg.APIKeys) == 0 {
		warn("API_KEYS empty; POST /api/run is open to anyone who can reach the API.")
	} else if strings.Contains(os.Getenv("API_KEYS"), " ") {
		warn("API_KEYS contains spaces; use comma-separated with no spaces, e.g. key1,key2")
	}

	if failed {
		os.Exit(1)
	}
	ok("preflight passed")
}
