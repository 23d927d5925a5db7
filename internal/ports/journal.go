package ports

import (
	"context"

	"github.com/openclaw/sentinel/internal/domain"
)

// InterventionJournal is the append-only store of intervention records.
type InterventionJournal interface {
	Append(ctx context.Context, rec domain.InterventionRecord) error
	// Recent returns up to n records, newest first.
	Recent(ctx context.Context, n int) ([]domain.InterventionRecord, error)
}
