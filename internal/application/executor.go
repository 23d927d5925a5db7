package application

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/openclaw/sentinel/internal/domain"
	"github.com/openclaw/sentinel/internal/ports"
)

// Executor performs the archive-then-reset recovery action. The step
// order is fixed: archive and verify, truncate, journal, then signal
// the gateway. A failed verification aborts before the truncate so the
// original bytes are never lost.
type Executor struct {
	vault   ports.ArchiveStore
	journal ports.InterventionJournal
	gateway ports.GatewayRestarter
	clock   ports.Clock
	logger  *log.Logger
}

func NewExecutor(vault ports.ArchiveStore, journal ports.InterventionJournal, gateway ports.GatewayRestarter, clock ports.Clock, logger *log.Logger) *Executor {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &Executor{
		vault:   vault,
		journal: journal,
		gateway: gateway,
		clock:   clock,
		logger:  logger,
	}
}

// Intervene archives and resets one session for a triggering verdict.
// Only intervening layers reach this method; the monitor filters out
// Layer4Monitor and NoTrigger.
func (e *Executor) Intervene(ctx context.Context, sess domain.Session, verdict domain.Verdict) error {
	if !verdict.Layer.Intervenes() {
		return fmt.Errorf("layer %s does not warrant intervention", verdict.Layer)
	}

	archivePath, err := e.vault.Archive(ctx, sess)
	if err != nil {
		e.logger.Error("archive failed, session left untouched",
			"session", sess.ID, "err", err)
		return fmt.Errorf("archive session %s: %w", sess.ID, err)
	}

	if err := e.vault.Reset(ctx, sess.Path); err != nil {
		// Archived but not reset: the next cycle re-triggers and the
		// archive step will park a fresh copy under a unique name.
		return fmt.Errorf("reset session %s: %w", sess.ID, err)
	}

	rec := domain.InterventionRecord{
		Timestamp:   e.clock.Now(),
		Session:     sess.ID,
		Reason:      verdict.Reason,
		SizeBefore:  sess.SizeBytes,
		Markers:     sess.MarkerCount,
		Nested:      sess.NestedCount,
		Action:      domain.ActionArchivedAndReset,
		ArchivePath: archivePath,
	}
	if err := e.journal.Append(ctx, rec); err != nil {
		return fmt.Errorf("journal intervention for %s: %w", sess.ID, err)
	}

	e.logger.Info("session archived and reset",
		"session", sess.ID,
		"layer", verdict.Layer.String(),
		"size_before", sess.SizeBytes,
		"archive", archivePath)

	// Fire-and-forget: the bloat is gone either way.
	if err := e.gateway.Restart(ctx); err != nil {
		e.logger.Error("gateway restart failed", "session", sess.ID, "err", err)
	}

	return nil
}
