package application

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/openclaw/sentinel/internal/domain"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time {
	return c.at
}

func testClock() fixedClock {
	return fixedClock{at: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

type fakeScanner struct {
	sessions []domain.Session
	err      error
}

func (f *fakeScanner) Scan(_ context.Context) ([]domain.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sessions, nil
}

type fakeJournal struct {
	mu      sync.Mutex
	records []domain.InterventionRecord
	err     error
}

func (f *fakeJournal) Append(_ context.Context, rec domain.InterventionRecord) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeJournal) Recent(_ context.Context, n int) ([]domain.InterventionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.InterventionRecord, 0, n)
	for i := len(f.records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, f.records[i])
	}
	return out, nil
}

type fakeVault struct {
	archived   []domain.SessionID
	reset      []string
	archiveErr error
	resetErr   error
}

func (f *fakeVault) Archive(_ context.Context, sess domain.Session) (string, error) {
	if f.archiveErr != nil {
		return "", f.archiveErr
	}
	f.archived = append(f.archived, sess.ID)
	return "/archives/2026-03-01/" + string(sess.ID) + ".jsonl.bak", nil
}

func (f *fakeVault) Reset(_ context.Context, path string) error {
	if f.resetErr != nil {
		return f.resetErr
	}
	f.reset = append(f.reset, path)
	return nil
}

type fakeGateway struct {
	restarts int
	err      error
}

func (f *fakeGateway) Restart(_ context.Context) error {
	f.restarts++
	return f.err
}

type fakeLock struct {
	pid        int
	alive      bool
	acquireErr error
	acquired   bool
	released   bool
}

func (f *fakeLock) Acquire(pid int) error {
	if f.acquireErr != nil {
		return f.acquireErr
	}
	f.acquired = true
	f.pid = pid
	f.alive = true
	return nil
}

func (f *fakeLock) Release() error {
	f.released = true
	f.alive = false
	return nil
}

func (f *fakeLock) Probe() (int, bool, error) {
	return f.pid, f.alive, nil
}

type fakeStateStore struct {
	state   domain.DaemonState
	written bool
	cleared bool
}

func (f *fakeStateStore) Write(state domain.DaemonState) error {
	f.state = state
	f.written = true
	return nil
}

func (f *fakeStateStore) Read() (domain.DaemonState, error) {
	if !f.written || f.cleared {
		return domain.DaemonState{}, domain.ErrDaemonNotRunning
	}
	return f.state, nil
}

func (f *fakeStateStore) Clear() error {
	f.cleared = true
	return nil
}
