package cmd

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openclaw/sentinel/internal/domain"
)

const (
	stopPollInterval = 100 * time.Millisecond
	stopTimeout      = 10 * time.Second
)

func newStopCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop a running sentinel daemon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pid, alive, err := app.lock.Probe()
			if err != nil {
				return fmt.Errorf("probe daemon: %w", err)
			}
			if !alive {
				return domain.ErrDaemonNotRunning
			}

			proc, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("find daemon process %d: %w", pid, err)
			}
			if err := proc.Signal(syscall.SIGTERM); err != nil {
				return fmt.Errorf("signal daemon process %d: %w", pid, err)
			}

			// The daemon finishes an in-flight intervention before
			// exiting, so give it time rather than escalating.
			deadline := time.Now().Add(stopTimeout)
			for time.Now().Before(deadline) {
				if _, alive, _ := app.lock.Probe(); !alive {
					_, err = fmt.Fprintf(cmd.OutOrStdout(), "sentinel daemon (pid %d) stopped\n", pid)
					return err
				}
				time.Sleep(stopPollInterval)
			}

			return fmt.Errorf("daemon (pid %d) did not stop within %s", pid, stopTimeout)
		},
	}
}
