package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/multierr"

	"github.com/hamed0406/linewatch/internal/domain"
)

func TestFromEnv_ParsesAndDefaults(t *testing.T) {
	t.Setenv("API_ADDR", ":9090")
	t.Setenv("LOG_DIR", "./_testlogs")
	t.Setenv("API_KEYS", "key_a, key_b,")
	t.Setenv("FETCH_TIMEOUT_MS", "1234")
	t.Setenv("LINE_TIMEOUT_MS", "-5")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SMTP_TLS", "true")
	t.Setenv("NOTIFY_MODE", "full")
	t.Setenv("SCHEDULE", "")

	cfg := FromEnv()

	if cfg.Addr != ":9090" || cfg.LogDir != "./_testlogs" {
		t.Fatalf("addr/logdir wrong: %+v", cfg)
	}
	if len(cfg.APIKeys) != 2 || cfg.APIKeys[1] != "key_b" {
		t.Fatalf("api keys wrong: %+v", cfg.APIKeys)
	}
	if cfg.FetchTimeout != 1234*time.Millisecond {
		t.Fatalf("fetch timeout = %v", cfg.FetchTimeout)
	}
	if cfg.LineTimeout != 0 {
		t.Fatalf("negative line timeout should fall back to 0, got %v", cfg.LineTimeout)
	}
	if cfg.SMTP.Port != 465 || !cfg.SMTP.TLS {
		t.Fatalf("smtp wrong: %+v", cfg.SMTP)
	}
	if cfg.Schedule != "*/10 5-23 * * *" || cfg.ScheduleTZ != "Asia/Tokyo" {
		t.Fatalf("schedule defaults wrong: %q %q", cfg.Schedule, cfg.ScheduleTZ)
	}
	if cfg.NotifyMode != "full" || !cfg.HasMailer() {
		t.Fatalf("notify settings wrong: %+v", cfg)
	}

	// ensure defaults don't crash if missing env
	os.Unsetenv("API_ADDR")
	if got := FromEnv().Addr; got != "127.0.0.1:8080" {
		t.Fatalf("default addr = %q", got)
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := Config{
		Schedule:   "not a cron",
		ScheduleTZ: "Mars/Base",
		NotifyMode: "loud",
		SMTP:       SMTP{Host: "smtp.example.com", Port: 0},
	}
	errs := multierr.Errors(cfg.Validate())
	if len(errs) != 6 {
		t.Fatalf("want 6 problems, got %d: %v", len(errs), errs)
	}
}

func TestConfig_ValidateDefaults(t *testing.T) {
	if err := FromEnv().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestDefaultLines_Valid(t *testing.T) {
	lines := DefaultLines()
	if err := ValidateLines(lines); err != nil {
		t.Fatalf("default lines invalid: %v", err)
	}
	if len(lines) != 2 || lines[0].Name != "京葉線" || lines[1].Name != "東西線" {
		t.Fatalf("unexpected defaults: %+v", lines)
	}
	if !lines[0].SilenceIsNormal || lines[1].SilenceIsNormal {
		t.Fatalf("silence policy must differ per operator")
	}
}

func TestLoadLines_EmptyPathUsesDefaults(t *testing.T) {
	lines, err := LoadLines("")
	if err != nil || len(lines) != 2 {
		t.Fatalf("LoadLines(\"\") = %d lines, %v", len(lines), err)
	}
}

func TestLoadLines_ExampleFile(t *testing.T) {
	lines, err := LoadLines(filepath.Join("..", "..", "configs", "lines.example.yaml"))
	if err != nil {
		t.Fatalf("example file: %v", err)
	}
	if len(lines) != 2 || lines[0].Keywords.Disruption[0].Severity != domain.SeveritySuspended {
		t.Fatalf("unexpected lines: %+v", lines)
	}
	if lines[1].Keywords.Disruption[3].Keyword != "折返し運転" || lines[1].Keywords.Disruption[3].Severity != domain.SeverityDelayed {
		t.Fatalf("keyword order/severity not preserved: %+v", lines[1].Keywords.Disruption)
	}
}

func TestParseLines_RejectsUnknownKeys(t *testing.T) {
	_, err := ParseLines([]byte("lines:\n  - name: x\n    sauce: y\n"))
	if err == nil || !strings.Contains(err.Error(), "sauce") {
		t.Fatalf("want unknown field error, got %v", err)
	}
}

func TestParseLines_ValidationErrors(t *testing.T) {
	doc := `
lines:
  - name: A
    source: https://a.example
    keywords:
      disruption:
        - keyword: 遅れ
          severity: late
  - name: A
    keywords:
      normal: [平常運転]
`
	_, err := ParseLines([]byte(doc))
	errs := multierr.Errors(err)
	// unknown severity, missing normal/silence, duplicate, missing source, no disruption keywords
	if len(errs) != 5 {
		t.Fatalf("want 5 problems, got %d: %v", len(errs), errs)
	}
}

func TestParseLines_Empty(t *testing.T) {
	if _, err := ParseLines(nil); err == nil {
		t.Fatalf("want error for empty document")
	}
}
