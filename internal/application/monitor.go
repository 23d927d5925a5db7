package application

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/openclaw/sentinel/internal/domain"
	"github.com/openclaw/sentinel/internal/ports"
)

// SessionHealth pairs a scanned session with its verdict for one
// cycle.
type SessionHealth struct {
	Session domain.Session
	Verdict domain.Verdict
}

// CycleResult summarizes one scan cycle.
type CycleResult struct {
	At            time.Time
	Sessions      []SessionHealth
	Interventions int
}

// MonitorService drives one detection cycle: scan, feed the growth
// tracker, evaluate each session, dispatch triggering sessions to the
// executor. Per-session failures are isolated; one broken session
// never aborts the cycle.
type MonitorService struct {
	scanner       ports.SessionScanner
	tracker       *domain.GrowthTracker
	executor      *Executor
	journal       ports.InterventionJournal
	clock         ports.Clock
	logger        *log.Logger
	thresholds    domain.Thresholds
	autoIntervene bool
}

func NewMonitorService(
	scanner ports.SessionScanner,
	executor *Executor,
	journal ports.InterventionJournal,
	clock ports.Clock,
	logger *log.Logger,
	thresholds domain.Thresholds,
	autoIntervene bool,
) *MonitorService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &MonitorService{
		scanner:       scanner,
		tracker:       domain.NewGrowthTracker(),
		executor:      executor,
		journal:       journal,
		clock:         clock,
		logger:        logger,
		thresholds:    thresholds,
		autoIntervene: autoIntervene,
	}
}

// RunCycle performs one full detection cycle, including interventions.
func (m *MonitorService) RunCycle(ctx context.Context) (CycleResult, error) {
	result, err := m.evaluate(ctx)
	if err != nil {
		return CycleResult{}, err
	}

	for _, health := range result.Sessions {
		switch {
		case health.Verdict.Layer == domain.NoTrigger:

		case health.Verdict.Layer == domain.Layer4Monitor:
			// Observation only: surfaced in logs and status views,
			// never dispatched.
			m.logger.Warn("session flagged for monitoring",
				"session", health.Session.ID,
				"reason", health.Verdict.Reason)

		case !m.autoIntervene:
			m.logger.Warn("intervention required but auto-intervention is disabled",
				"session", health.Session.ID,
				"layer", health.Verdict.Layer.String(),
				"reason", health.Verdict.Reason)
			rec := domain.InterventionRecord{
				Timestamp:  m.clock.Now(),
				Session:    health.Session.ID,
				Reason:     health.Verdict.Reason,
				SizeBefore: health.Session.SizeBytes,
				Markers:    health.Session.MarkerCount,
				Nested:     health.Session.NestedCount,
				Action:     domain.ActionInterventionSkipped,
			}
			if err := m.journal.Append(ctx, rec); err != nil {
				m.logger.Error("failed to journal suppressed intervention",
					"session", health.Session.ID, "err", err)
			}

		default:
			if err := m.executor.Intervene(ctx, health.Session, health.Verdict); err != nil {
				m.logger.Error("intervention failed",
					"session", health.Session.ID, "err", err)
				continue
			}
			result.Interventions++
		}
	}

	return result, nil
}

// Snapshot scans and evaluates without dispatching interventions. Used
// by the status and check views.
func (m *MonitorService) Snapshot(ctx context.Context) (CycleResult, error) {
	return m.evaluate(ctx)
}

func (m *MonitorService) evaluate(ctx context.Context) (CycleResult, error) {
	sessions, err := m.scanner.Scan(ctx)
	if err != nil {
		return CycleResult{}, err
	}

	now := m.clock.Now()
	result := CycleResult{At: now, Sessions: make([]SessionHealth, 0, len(sessions))}

	for _, sess := range sessions {
		m.tracker.Record(sess.ID, now, sess.SizeBytes)
		rate, rateKnown := m.tracker.Rate(sess.ID)

		verdict := domain.Evaluate(sess, rate, rateKnown, m.thresholds)
		result.Sessions = append(result.Sessions, SessionHealth{Session: sess, Verdict: verdict})
	}

	return result, nil
}
