package domain

type SessionID string

// Session is the observed state of one conversation log at scan time.
// The scanner rebuilds it on every cycle; nothing here survives between
// ticks except through the growth tracker.
type Session struct {
	ID           SessionID
	Path         string
	SizeBytes    int64
	MarkerCount  int
	NestedCount  int
	MessageCount int
}
