package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openclaw/sentinel/internal/application"
	"github.com/openclaw/sentinel/internal/domain"
)

func newDaemonCmd(app *app) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the bloat-detection daemon in the foreground",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !app.cfg.Enabled {
				return domain.ErrMonitoringDisabled
			}

			if interval <= 0 {
				interval = app.cfg.PollInterval
			}

			// Archive and journal roots must be writable before the
			// first intervention needs them; failing here beats
			// failing mid-recovery.
			for _, dir := range []string{app.cfg.ArchiveRoot, app.cfg.JournalDir, app.cfg.OctoHome} {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create %s: %w", dir, err)
				}
			}

			closeLog, err := teeLogToFile(app)
			if err != nil {
				return err
			}
			defer closeLog()

			daemon := application.NewDaemonService(
				app.newMonitor(),
				app.lock,
				app.state,
				app.clock,
				app.logger,
				interval,
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return daemon.Run(ctx)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "poll interval (default from config)")

	return cmd
}

// teeLogToFile mirrors daemon logs into $OCTO_HOME/sentinel.log so
// status and doctor tooling can inspect history after the fact.
func teeLogToFile(app *app) (func(), error) {
	f, err := os.OpenFile(app.cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open daemon log file: %w", err)
	}

	app.logger.SetOutput(io.MultiWriter(os.Stderr, f))
	return func() {
		app.logger.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}
