package main

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hamed0406/linewatch/internal/config"
	"github.com/hamed0406/linewatch/internal/domain"
	"github.com/hamed0406/linewatch/internal/logging"
	"github.com/hamed0406/linewatch/internal/monitor"
	"github.com/hamed0406/linewatch/internal/notify"
	"github.com/hamed0406/linewatch/internal/probe"
	"github.com/hamed0406/linewatch/internal/report"
)

type commandContext struct {
	linesFlag *string

	cfg    *config.Config
	lines  []domain.LineConfig
	logger *zap.Logger
}

func newCommandContext(linesFlag *string) *commandContext {
	return &commandContext{linesFlag: linesFlag}
}

// ensureConfig reads the environment and line file once per process.
func (c *commandContext) ensureConfig() (*config.Config, []domain.LineConfig, error) {
	if c.cfg != nil {
		return c.cfg, c.lines, nil
	}
	cfg := config.FromEnv()
	if c.linesFlag != nil && strings.TrimSpace(*c.linesFlag) != "" {
		cfg.LinesFile = *c.linesFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	lines, err := config.LoadLines(cfg.LinesFile)
	if err != nil {
		return nil, nil, err
	}
	c.cfg = &cfg
	c.lines = lines
	return c.cfg, c.lines, nil
}

func (c *commandContext) ensureLogger(console bool) (*zap.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, _, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewLogger(logging.Options{Dir: cfg.LogDir, Level: cfg.LogLevel, Console: console})
	if err != nil {
		return nil, err
	}
	c.logger = logger
	return logger, nil
}

type runnerOptions struct {
	mode    string // overrides NOTIFY_MODE when set
	dryRun  bool
	console bool
}

func (c *commandContext) buildRunner(opts runnerOptions) (*monitor.Runner, error) {
	cfg, lines, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger(opts.console)
	if err != nil {
		return nil, err
	}

	modeName := cfg.NotifyMode
	if opts.mode != "" {
		modeName = opts.mode
	}
	mode, err := report.ParseMode(modeName)
	if err != nil {
		return nil, err
	}

	var n notify.Notifier = notify.Log{Logger: logger}
	if !opts.dryRun {
		n = buildNotifier(cfg, logger)
	}

	agg := monitor.NewAggregator(logger, probe.NewLineChecker(probe.NewHTTPFetcher(cfg.FetchTimeout)), lines, cfg.LineTimeout)
	disp := monitor.NewDispatcher(logger, n, mode, cfg.NotifyTo, report.Markers(lines))
	return monitor.NewRunner(logger, agg, disp), nil
}

// buildNotifier fans out to every configured channel. With none configured
// the notification only reaches the log.
func buildNotifier(cfg *config.Config, logger *zap.Logger) notify.Notifier {
	var multi notify.Multi
	if s := notify.NewSMTP(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.MailFrom,
		UseTLS:   cfg.SMTP.TLS,
	}); s != nil {
		multi = append(multi, s)
	}
	if e := notify.NewEmailAPI(cfg.EmailAPIURL, cfg.EmailAPIKey, cfg.MailFrom); e != nil {
		multi = append(multi, e)
	}
	if s := notify.NewSlack(cfg.SlackWebhook); s != nil {
		multi = append(multi, s)
	}
	if len(multi) == 0 {
		logger.Warn("notifier_not_configured")
		return notify.Log{Logger: logger}
	}
	return multi
}
