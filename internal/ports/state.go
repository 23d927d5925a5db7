package ports

import "github.com/openclaw/sentinel/internal/domain"

// DaemonStateStore persists the small daemon descriptor (pid, start
// time, interval) that status views read without talking to the
// daemon process.
type DaemonStateStore interface {
	Write(state domain.DaemonState) error
	Read() (domain.DaemonState, error)
	Clear() error
}
