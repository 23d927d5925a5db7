package vault

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/openclaw/sentinel/internal/domain"
	"github.com/openclaw/sentinel/internal/ports"
)

const (
	backupSuffix = ".bak"
	dayLayout    = "2006-01-02"
	vaultDirMod  = 0o755
	archiveMod   = 0o644
)

// Store archives session files into a per-day directory tree and
// resets live files in place. Archive never touches the original: a
// failed or unverified copy leaves the session exactly as it was.
type Store struct {
	root  string
	clock ports.Clock
}

var _ ports.ArchiveStore = (*Store)(nil)

func New(root string, clock ports.Clock) *Store {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &Store{root: filepath.Clean(root), clock: clock}
}

// Archive copies the session's bytes into the dated archive directory
// and verifies the copy by byte count against the size observed at
// open. On mismatch the partial copy is removed and the original is
// left untouched.
func (s *Store) Archive(ctx context.Context, sess domain.Session) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src, err := os.Open(sess.Path)
	if err != nil {
		return "", fmt.Errorf("open session for archive: %w", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("stat session for archive: %w", err)
	}
	expected := info.Size()

	dayDir := filepath.Join(s.root, s.clock.Now().Format(dayLayout))
	if err := os.MkdirAll(dayDir, vaultDirMod); err != nil {
		return "", fmt.Errorf("create archive directory: %w", err)
	}

	dest, err := uniqueDestination(dayDir, filepath.Base(sess.Path)+backupSuffix)
	if err != nil {
		return "", err
	}

	copied, err := copyFile(dest, src)
	if err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("copy session to archive: %w", err)
	}

	written, err := os.Stat(dest)
	if err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("stat archive copy: %w", err)
	}

	if copied != expected || written.Size() != expected {
		_ = os.Remove(dest)
		return "", fmt.Errorf("archive %s: copied %d of %d bytes: %w",
			dest, written.Size(), expected, domain.ErrArchiveVerify)
	}

	return dest, nil
}

// Reset truncates the live session file to zero bytes in place. Path
// and identity are preserved so the gateway keeps writing to the same
// file.
func (s *Store) Reset(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Truncate(path, 0); err != nil {
		return fmt.Errorf("truncate session file: %w", err)
	}
	return nil
}

// uniqueDestination appends a numeric suffix when the dated directory
// already holds an archive for the same name (multiple interventions
// on one session within one day).
func uniqueDestination(dir, name string) (string, error) {
	dest := filepath.Join(dir, name)
	for i := 1; ; i++ {
		_, err := os.Stat(dest)
		if os.IsNotExist(err) {
			return dest, nil
		}
		if err != nil {
			return "", fmt.Errorf("probe archive destination: %w", err)
		}
		dest = filepath.Join(dir, fmt.Sprintf("%s.%d", name, i))
	}
}

func copyFile(dest string, src io.Reader) (int64, error) {
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, archiveMod)
	if err != nil {
		return 0, err
	}

	copied, err := io.Copy(out, src)
	if err != nil {
		_ = out.Close()
		return copied, err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return copied, err
	}

	return copied, out.Close()
}
