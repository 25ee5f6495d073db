package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
)

type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	TLS      bool // implicit TLS (465) instead of STARTTLS
}

type Config struct {
	Addr           string   // API bind address, e.g. "127.0.0.1:8080" or ":8080" (Docker)
	LogDir         string   // rotating JSON logs; empty disables the file sink
	LogLevel       string   // debug, info, warn, error
	LinesFile      string   // YAML line definitions; empty uses DefaultLines
	APIKeys        []string // keys allowed to trigger runs over HTTP; empty = open
	AllowedOrigins []string // CORS origins for the HTTP API

	Schedule   string // cron expression for serve mode
	ScheduleTZ string // IANA zone the schedule is evaluated in

	FetchTimeout time.Duration // HTTP client timeout per page
	LineTimeout  time.Duration // upper bound for one line check; 0 = none

	NotifyMode string // "delayed-only" or "full"
	NotifyTo   string
	MailFrom   string

	SMTP         SMTP
	EmailAPIURL  string
	EmailAPIKey  string
	SlackWebhook string
}

func FromEnv() Config {
	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	schedule := os.Getenv("SCHEDULE")
	if schedule == "" {
		schedule = "*/10 5-23 * * *"
	}
	tz := os.Getenv("SCHEDULE_TZ")
	if tz == "" {
		tz = "Asia/Tokyo"
	}

	mode := os.Getenv("NOTIFY_MODE")
	if mode == "" {
		mode = "delayed-only"
	}

	return Config{
		Addr:           addr,
		LogDir:         logDir,
		LogLevel:       envOr("LOG_LEVEL", "info"),
		LinesFile:      os.Getenv("LINES_FILE"),
		APIKeys:        splitList(os.Getenv("API_KEYS")),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		Schedule:       schedule,
		ScheduleTZ:     tz,
		FetchTimeout:   envMillis("FETCH_TIMEOUT_MS", 10*time.Second),
		LineTimeout:    envMillis("LINE_TIMEOUT_MS", 0),
		NotifyMode:     mode,
		NotifyTo:       os.Getenv("NOTIFY_TO"),
		MailFrom:       os.Getenv("MAIL_FROM"),
		SMTP: SMTP{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     envInt("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			TLS:      envBool("SMTP_TLS", false),
		},
		EmailAPIURL:  os.Getenv("EMAIL_API_URL"),
		EmailAPIKey:  os.Getenv("EMAIL_API_KEY"),
		SlackWebhook: os.Getenv("SLACK_WEBHOOK"),
	}
}

// HasMailer reports whether any delivery channel is configured.
func (c Config) HasMailer() bool {
	return c.SMTP.Host != "" || (c.EmailAPIURL != "" && c.EmailAPIKey != "") || c.SlackWebhook != ""
}

// Validate returns every problem found, combined.
func (c Config) Validate() error {
	var err error
	if c.Schedule != "" {
		if _, perr := cron.ParseStandard(c.Schedule); perr != nil {
			err = multierr.Append(err, fmt.Errorf("SCHEDULE %q: %w", c.Schedule, perr))
		}
	}
	if c.ScheduleTZ != "" {
		if _, lerr := time.LoadLocation(c.ScheduleTZ); lerr != nil {
			err = multierr.Append(err, fmt.Errorf("SCHEDULE_TZ %q: %w", c.ScheduleTZ, lerr))
		}
	}
	switch c.NotifyMode {
	case "", "delayed-only", "full":
	default:
		err = multierr.Append(err, fmt.Errorf("NOTIFY_MODE %q: want delayed-only or full", c.NotifyMode))
	}
	if (c.SMTP.Host != "" || c.EmailAPIURL != "") && c.NotifyTo == "" {
		err = multierr.Append(err, errors.New("NOTIFY_TO is required when a mail channel is configured"))
	}
	if (c.SMTP.Host != "" || c.EmailAPIURL != "") && c.MailFrom == "" {
		err = multierr.Append(err, errors.New("MAIL_FROM is required when a mail channel is configured"))
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		err = multierr.Append(err, fmt.Errorf("SMTP_PORT %d out of range", c.SMTP.Port))
	}
	return err
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envMillis(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}

// splitList parses "a, b,c" into [a b c], dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
