package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openclaw/sentinel/internal/domain"
	"github.com/openclaw/sentinel/internal/ports"
)

// DefaultRecentInterventions is how much history status views show
// unless asked otherwise.
const DefaultRecentInterventions = 10

// Report is the read-only status view: daemon liveness, current
// session health, and recent intervention history. Building it mutates
// nothing.
type Report struct {
	Running       bool
	PID           int
	StartedAt     time.Time
	Interval      time.Duration
	Uptime        time.Duration
	Sessions      []SessionHealth
	Interventions []domain.InterventionRecord
}

// StatusService assembles reports from filesystem state only; it never
// talks to the daemon process.
type StatusService struct {
	monitor *MonitorService
	lock    ports.ProcessLock
	state   ports.DaemonStateStore
	journal ports.InterventionJournal
	clock   ports.Clock
}

func NewStatusService(monitor *MonitorService, lock ports.ProcessLock, state ports.DaemonStateStore, journal ports.InterventionJournal, clock ports.Clock) *StatusService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &StatusService{
		monitor: monitor,
		lock:    lock,
		state:   state,
		journal: journal,
		clock:   clock,
	}
}

// Report builds the full status view with up to limit recent
// intervention records.
func (s *StatusService) Report(ctx context.Context, limit int) (Report, error) {
	if limit <= 0 {
		limit = DefaultRecentInterventions
	}

	var report Report

	pid, alive, err := s.lock.Probe()
	if err != nil {
		return Report{}, fmt.Errorf("probe daemon liveness: %w", err)
	}
	report.Running = alive
	report.PID = pid

	if alive {
		if state, err := s.state.Read(); err == nil {
			report.StartedAt = state.StartedAt
			report.Interval = state.Interval
			report.Uptime = s.clock.Now().Sub(state.StartedAt)
		} else if !errors.Is(err, domain.ErrDaemonNotRunning) {
			return Report{}, fmt.Errorf("read daemon state: %w", err)
		}
	}

	snapshot, err := s.monitor.Snapshot(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("scan sessions: %w", err)
	}
	report.Sessions = snapshot.Sessions

	records, err := s.journal.Recent(ctx, limit)
	if err != nil {
		return Report{}, fmt.Errorf("read intervention history: %w", err)
	}
	report.Interventions = records

	return report, nil
}
