package ports

import (
	"context"

	"github.com/openclaw/sentinel/internal/domain"
)

// SessionScanner enumerates the monitored session logs and computes
// their current size and marker statistics. Implementations must skip
// unreadable files rather than fail the whole scan.
type SessionScanner interface {
	Scan(ctx context.Context) ([]domain.Session, error)
}
