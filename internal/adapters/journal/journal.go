package journal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/openclaw/sentinel/internal/domain"
	"github.com/openclaw/sentinel/internal/ports"
)

const (
	entrySuffix   = ".log"
	entryFileMod  = 0o644
	journalDirMod = 0o755

	// Timestamp prefix keeps lexicographic order equal to
	// chronological order.
	entryTimeLayout = "20060102-150405.000000000"
)

// Journal stores one plain-text file per intervention event. Files are
// written once and never rewritten.
type Journal struct {
	dir    string
	logger *log.Logger
}

var _ ports.InterventionJournal = (*Journal)(nil)

func New(dir string, logger *log.Logger) *Journal {
	return &Journal{dir: filepath.Clean(dir), logger: logger}
}

func (j *Journal) Append(ctx context.Context, rec domain.InterventionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(j.dir, journalDirMod); err != nil {
		return fmt.Errorf("create intervention log directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s%s", rec.Timestamp.Format(entryTimeLayout), rec.Session, entrySuffix)
	path := filepath.Join(j.dir, name)

	if err := os.WriteFile(path, rec.EncodeText(), entryFileMod); err != nil {
		return fmt.Errorf("write intervention record: %w", err)
	}

	return nil
}

// Recent returns up to n records, newest first. Entries that fail to
// parse are logged and skipped so one corrupt file cannot hide the
// rest of the history.
func (j *Journal) Recent(ctx context.Context, n int) ([]domain.InterventionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}

	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read intervention log directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), entrySuffix) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	records := make([]domain.InterventionRecord, 0, n)
	for _, name := range names {
		if len(records) == n {
			break
		}

		path := filepath.Join(j.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			j.logger.Warn("skipping unreadable journal entry", "path", path, "err", err)
			continue
		}

		rec, err := domain.ParseInterventionRecord(data)
		if err != nil {
			j.logger.Warn("skipping malformed journal entry", "path", path, "err", err)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}
