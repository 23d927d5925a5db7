package application

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/openclaw/sentinel/internal/domain"
	"github.com/openclaw/sentinel/internal/ports"
)

// DaemonService is the singleton polling scheduler. It owns the
// process lock and the published daemon state; all detection work is
// delegated to the monitor per tick.
type DaemonService struct {
	monitor  *MonitorService
	lock     ports.ProcessLock
	state    ports.DaemonStateStore
	clock    ports.Clock
	logger   *log.Logger
	interval time.Duration
}

func NewDaemonService(monitor *MonitorService, lock ports.ProcessLock, state ports.DaemonStateStore, clock ports.Clock, logger *log.Logger, interval time.Duration) *DaemonService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &DaemonService{
		monitor:  monitor,
		lock:     lock,
		state:    state,
		clock:    clock,
		logger:   logger,
		interval: interval,
	}
}

// Run acquires the singleton lock, publishes daemon state, and polls
// until the context is canceled. Cancellation is honored between
// ticks: a cycle in flight always completes, so an intervention is
// never abandoned half-archived.
func (d *DaemonService) Run(ctx context.Context) error {
	pid := os.Getpid()

	if err := d.lock.Acquire(pid); err != nil {
		return err
	}
	defer func() {
		if err := d.lock.Release(); err != nil {
			d.logger.Error("failed to release daemon lock", "err", err)
		}
	}()

	startedAt := d.clock.Now()
	if err := d.state.Write(domain.DaemonState{PID: pid, StartedAt: startedAt, Interval: d.interval}); err != nil {
		return fmt.Errorf("publish daemon state: %w", err)
	}
	defer func() {
		if err := d.state.Clear(); err != nil {
			d.logger.Error("failed to clear daemon state", "err", err)
		}
	}()

	d.logger.Info("sentinel daemon started", "pid", pid, "interval", d.interval)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("sentinel daemon stopping")
			return nil
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

func (d *DaemonService) tick(ctx context.Context) {
	// The cycle runs on the background context so that a termination
	// signal arriving mid-intervention cannot interrupt the
	// archive+truncate+journal sequence.
	result, err := d.monitor.RunCycle(context.WithoutCancel(ctx))
	if err != nil {
		d.logger.Error("scan cycle failed", "err", err)
		return
	}

	if result.Interventions > 0 {
		d.logger.Info("scan cycle complete",
			"sessions", len(result.Sessions),
			"interventions", result.Interventions)
	} else {
		d.logger.Debug("scan cycle complete", "sessions", len(result.Sessions))
	}
}
