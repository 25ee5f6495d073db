package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/linewatch/internal/httpapi"
	"github.com/hamed0406/linewatch/internal/monitor"
	"github.com/hamed0406/linewatch/internal/scheduler"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var mode string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Check every line once and notify if any is delayed",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.buildRunner(runnerOptions{mode: mode, dryRun: dryRun})
			if err != nil {
				return err
			}
			defer ctx.logger.Sync()
			printOutcome(cmd, runner.Run(cmd.Context()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log the notification instead of sending it")
	cmd.Flags().StringVar(&mode, "mode", "", "Notification body: delayed-only or full (overrides NOTIFY_MODE)")
	return cmd
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check every line once without notifying",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.buildRunner(runnerOptions{dryRun: true})
			if err != nil {
				return err
			}
			defer ctx.logger.Sync()
			printOutcome(cmd, runner.Check(cmd.Context()))
			return nil
		},
	}
}

func newLinesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "lines",
		Short: "Print the resolved line configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, lines, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			renderLines(cmd.OutOrStdout(), lines, stdoutIsTerminal())
			return nil
		},
	}
}

// printOutcome writes the status rows, then the summary as the last line.
func printOutcome(cmd *cobra.Command, out monitor.Outcome) {
	w := cmd.OutOrStdout()
	renderStatuses(w, out.Result.Lines, stdoutIsTerminal())
	fmt.Fprintln(w, out.Summary)
}

func newServeCommand(ctx *commandContext) *cobra.Command {
	var noSchedule bool
	var immediate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run checks on the cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.buildRunner(runnerOptions{console: true})
			if err != nil {
				return err
			}
			cfg, lines, _ := ctx.ensureConfig()
			logger := ctx.logger
			defer logger.Sync()

			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !noSchedule && cfg.Schedule != "" {
				loc, err := time.LoadLocation(cfg.ScheduleTZ)
				if err != nil {
					return fmt.Errorf("SCHEDULE_TZ: %w", err)
				}
				sched, err := scheduler.New(logger, cfg.Schedule, loc, func(ctx context.Context) {
					runner.Run(ctx)
				})
				if err != nil {
					return err
				}
				sched.Immediate = immediate
				go sched.Run(sigCtx)
			} else {
				logger.Info("scheduler_disabled")
			}

			api := httpapi.NewServer(logger, runner, lines)
			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           api.Router(cfg.APIKeys, cfg.AllowedOrigins),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("api_listen", zap.String("addr", cfg.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("api: %w", err)
				}
			case <-sigCtx.Done():
			}

			logger.Info("api_shutdown")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVar(&noSchedule, "no-schedule", false, "Only serve the HTTP API")
	cmd.Flags().BoolVar(&immediate, "immediate", false, "Run once at startup before the first scheduled tick")
	return cmd
}
