package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/sentinel/internal/domain"
)

func TestStatusReportWithLiveDaemon(t *testing.T) {
	sessions := []domain.Session{
		{ID: "quiet", Path: "/s/quiet.jsonl", SizeBytes: 100},
		{ID: "watched", Path: "/s/watched.jsonl", SizeBytes: 5000, MarkerCount: 15},
	}
	monitor, _, fj, _ := newMonitorFixture(sessions, true)

	lock := &fakeLock{pid: 4321, alive: true}
	state := &fakeStateStore{}
	startedAt := testClock().Now().Add(-time.Hour)
	require.NoError(t, state.Write(domain.DaemonState{PID: 4321, StartedAt: startedAt, Interval: 10 * time.Second}))

	require.NoError(t, fj.Append(context.Background(), domain.InterventionRecord{
		Timestamp: startedAt.Add(time.Minute),
		Session:   "old-loop",
		Action:    domain.ActionArchivedAndReset,
	}))

	svc := NewStatusService(monitor, lock, state, fj, testClock())
	report, err := svc.Report(context.Background(), 0)
	require.NoError(t, err)

	assert.True(t, report.Running)
	assert.Equal(t, 4321, report.PID)
	assert.Equal(t, time.Hour, report.Uptime)
	assert.Equal(t, 10*time.Second, report.Interval)

	require.Len(t, report.Sessions, 2)
	assert.Equal(t, domain.Layer4Monitor, report.Sessions[1].Verdict.Layer)

	require.Len(t, report.Interventions, 1)
	assert.Equal(t, domain.SessionID("old-loop"), report.Interventions[0].Session)
}

func TestStatusReportDaemonStopped(t *testing.T) {
	monitor, _, fj, _ := newMonitorFixture(nil, true)
	svc := NewStatusService(monitor, &fakeLock{}, &fakeStateStore{}, fj, testClock())

	report, err := svc.Report(context.Background(), 5)
	require.NoError(t, err)

	assert.False(t, report.Running)
	assert.Zero(t, report.Uptime)
	assert.Empty(t, report.Sessions)
	assert.Empty(t, report.Interventions)
}

func TestStatusReportNeverMutates(t *testing.T) {
	sessions := []domain.Session{
		{ID: "looping", Path: "/s/looping.jsonl", SizeBytes: 5000, MarkerCount: 4, NestedCount: 2},
	}
	monitor, fv, fj, fg := newMonitorFixture(sessions, true)
	svc := NewStatusService(monitor, &fakeLock{}, &fakeStateStore{}, fj, testClock())

	report, err := svc.Report(context.Background(), 5)
	require.NoError(t, err)

	// The triggering session is reported but not acted on.
	assert.Equal(t, domain.Layer1Nested, report.Sessions[0].Verdict.Layer)
	assert.Empty(t, fv.archived)
	assert.Empty(t, fv.reset)
	assert.Empty(t, fj.records)
	assert.Zero(t, fg.restarts)
}
