package gateway

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/openclaw/sentinel/internal/ports"
)

// Restarter runs the configured restart command for the monitored
// gateway. A cooldown before the command gives the gateway's writer a
// moment to flush after the session file was reset.
type Restarter struct {
	command  []string
	cooldown time.Duration
	logger   *log.Logger
}

var _ ports.GatewayRestarter = (*Restarter)(nil)

func New(command string, cooldown time.Duration, logger *log.Logger) *Restarter {
	return &Restarter{
		command:  strings.Fields(command),
		cooldown: cooldown,
		logger:   logger,
	}
}

// Restart executes the restart command after the cooldown. The
// intervention that triggered it is already committed; failure here is
// reported but changes nothing upstream.
func (r *Restarter) Restart(ctx context.Context) error {
	if len(r.command) == 0 {
		r.logger.Info("no gateway restart command configured, skipping restart")
		return nil
	}

	if r.cooldown > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.cooldown):
		}
	}

	cmd := exec.CommandContext(ctx, r.command[0], r.command[1:]...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("gateway restart %q: %w (output: %s)",
			strings.Join(r.command, " "), err, strings.TrimSpace(string(output)))
	}

	r.logger.Info("gateway restart requested", "command", strings.Join(r.command, " "))
	return nil
}
