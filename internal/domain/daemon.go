package domain

import "time"

// DaemonState describes a running sentinel daemon. Written at start,
// removed at clean stop; a stale entry (process gone) is superseded by
// the next start.
type DaemonState struct {
	PID       int
	StartedAt time.Time
	Interval  time.Duration
}
