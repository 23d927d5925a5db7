package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/openclaw/sentinel/internal/domain"
	"github.com/openclaw/sentinel/internal/ports"
)

const (
	stateFileName   = "sentinel.state.toml"
	stateFileMode   = 0o644
	stateDirMode    = 0o755
	tempFilePattern = ".sentinel-state-*.toml.tmp"

	currentSchemaVersion = 1
)

type fileSchema struct {
	Version         int       `toml:"version"`
	PID             int       `toml:"pid"`
	StartedAt       time.Time `toml:"started_at"`
	IntervalSeconds float64   `toml:"interval_seconds"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported daemon state schema version %d (current %d)", s.Version, currentSchemaVersion)
	}
	return nil
}

// Store persists the daemon descriptor as a small TOML file next to
// the pid file, written atomically via temp file + rename.
type Store struct {
	path string
}

var _ ports.DaemonStateStore = (*Store)(nil)

func New(dir string) *Store {
	return &Store{path: filepath.Join(dir, stateFileName)}
}

func (s *Store) Write(state domain.DaemonState) error {
	file := fileSchema{
		Version:         currentSchemaVersion,
		PID:             state.PID,
		StartedAt:       state.StartedAt,
		IntervalSeconds: state.Interval.Seconds(),
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode daemon state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, stateDirMode); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create state temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write state temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close state temp file: %w", err)
	}
	if err := os.Chmod(tmpName, stateFileMode); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write daemon state file: %w", err)
	}

	return nil
}

func (s *Store) Read() (domain.DaemonState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DaemonState{}, domain.ErrDaemonNotRunning
		}
		return domain.DaemonState{}, fmt.Errorf("read daemon state file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.DaemonState{}, fmt.Errorf("decode daemon state file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return domain.DaemonState{}, err
	}
	file.applyDefaults()

	return domain.DaemonState{
		PID:       file.PID,
		StartedAt: file.StartedAt,
		Interval:  time.Duration(file.IntervalSeconds * float64(time.Second)),
	}, nil
}

func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove daemon state file: %w", err)
	}
	return nil
}
