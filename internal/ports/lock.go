package ports

// ProcessLock is the advisory singleton guard around the sessions
// directory. Acquire refuses when a live daemon holds the lock,
// supersedes a stale holder, and records the caller's pid; Probe is the
// read-only liveness check used by status views.
type ProcessLock interface {
	Acquire(pid int) error
	Release() error
	Probe() (pid int, alive bool, err error)
}
