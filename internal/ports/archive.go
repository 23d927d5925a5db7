package ports

import (
	"context"

	"github.com/openclaw/sentinel/internal/domain"
)

// ArchiveStore copies session bytes aside and resets the live file.
// Archive must verify the copy by byte count and fail without touching
// the original on mismatch; Reset truncates in place so the monitored
// process keeps writing to the same path.
type ArchiveStore interface {
	Archive(ctx context.Context, sess domain.Session) (archivePath string, err error)
	Reset(ctx context.Context, path string) error
}
