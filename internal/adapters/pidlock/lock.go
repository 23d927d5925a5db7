package pidlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/gofrs/flock"

	"github.com/openclaw/sentinel/internal/domain"
	"github.com/openclaw/sentinel/internal/ports"
)

const (
	pidFileName  = "sentinel.pid"
	lockFileName = "sentinel.lock"
	pidFileMod   = 0o644
	lockDirMod   = 0o755
)

// Lock is the advisory singleton guard: a flock on sentinel.lock closes
// the check-then-write race between concurrent starts, and sentinel.pid
// holds the winner's pid as decimal text for status probes and stop.
type Lock struct {
	pidPath  string
	lockPath string
	fl       *flock.Flock
}

var _ ports.ProcessLock = (*Lock)(nil)

func New(dir string) *Lock {
	return &Lock{
		pidPath:  filepath.Join(dir, pidFileName),
		lockPath: filepath.Join(dir, lockFileName),
	}
}

// Acquire takes the flock and claims the pid file. It refuses with
// domain.ErrDaemonAlreadyRunning when another live daemon holds either,
// and silently supersedes a stale pid left by a crashed daemon.
func (l *Lock) Acquire(pid int) error {
	if err := os.MkdirAll(filepath.Dir(l.lockPath), lockDirMod); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	fl := flock.New(l.lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		return fmt.Errorf("acquire daemon lock: %w", err)
	}
	if !locked {
		return domain.ErrDaemonAlreadyRunning
	}

	// The flock is held, but a daemon started before this locking
	// scheme (or one that died without its lock being released by the
	// OS, which cannot happen with flock but can with a copied state
	// dir) may still own the recorded pid.
	if recorded, alive, probeErr := l.Probe(); probeErr == nil && alive && recorded != pid {
		_ = fl.Unlock()
		return domain.ErrDaemonAlreadyRunning
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.pidPath), ".sentinel-*.pid.tmp")
	if err != nil {
		_ = fl.Unlock()
		return fmt.Errorf("create pid temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(strconv.Itoa(pid)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		_ = fl.Unlock()
		return fmt.Errorf("write pid temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		_ = fl.Unlock()
		return fmt.Errorf("close pid temp file: %w", err)
	}
	if err := os.Chmod(tmpName, pidFileMod); err != nil {
		_ = os.Remove(tmpName)
		_ = fl.Unlock()
		return fmt.Errorf("chmod pid file: %w", err)
	}
	if err := os.Rename(tmpName, l.pidPath); err != nil {
		_ = os.Remove(tmpName)
		_ = fl.Unlock()
		return fmt.Errorf("write pid file: %w", err)
	}

	l.fl = fl
	return nil
}

// Release removes the pid file and drops the flock. Safe to call after
// a failed Acquire.
func (l *Lock) Release() error {
	err := os.Remove(l.pidPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		err = fmt.Errorf("remove pid file: %w", err)
	} else {
		err = nil
	}

	if l.fl != nil {
		if unlockErr := l.fl.Unlock(); unlockErr != nil && err == nil {
			err = fmt.Errorf("release daemon lock: %w", unlockErr)
		}
		l.fl = nil
	}

	return err
}

// Probe reads the recorded pid and checks process liveness with a
// zero signal. A missing or garbled pid file reads as "not running".
func (l *Lock) Probe() (int, bool, error) {
	data, err := os.ReadFile(l.pidPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("read pid file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false, nil
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return pid, false, nil
	}
	// On Unix FindProcess always succeeds; signal 0 is the actual
	// liveness probe.
	if err := proc.Signal(syscall.Signal(0)); err != nil {
		return pid, false, nil
	}

	return pid, true, nil
}
