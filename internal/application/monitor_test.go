package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/sentinel/internal/domain"
)

func newMonitorFixture(sessions []domain.Session, autoIntervene bool) (*MonitorService, *fakeVault, *fakeJournal, *fakeGateway) {
	fv := &fakeVault{}
	fj := &fakeJournal{}
	fg := &fakeGateway{}
	exec := NewExecutor(fv, fj, fg, testClock(), testLogger())
	monitor := NewMonitorService(&fakeScanner{sessions: sessions}, exec, fj, testClock(), testLogger(), domain.DefaultThresholds(), autoIntervene)
	return monitor, fv, fj, fg
}

func TestRunCycleDispatchesNestedInjection(t *testing.T) {
	sessions := []domain.Session{
		{ID: "healthy", Path: "/s/healthy.jsonl", SizeBytes: 100},
		{ID: "looping", Path: "/s/looping.jsonl", SizeBytes: 5000, MarkerCount: 4, NestedCount: 2},
	}
	monitor, fv, fj, _ := newMonitorFixture(sessions, true)

	result, err := monitor.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Interventions)
	assert.Equal(t, []domain.SessionID{"looping"}, fv.archived)
	require.Len(t, fj.records, 1)
	assert.Equal(t, domain.SessionID("looping"), fj.records[0].Session)

	require.Len(t, result.Sessions, 2)
	assert.Equal(t, domain.NoTrigger, result.Sessions[0].Verdict.Layer)
	assert.Equal(t, domain.Layer1Nested, result.Sessions[1].Verdict.Layer)
}

func TestRunCycleLayer4NeverReachesExecutor(t *testing.T) {
	sessions := []domain.Session{
		{ID: "watched", Path: "/s/watched.jsonl", SizeBytes: 5000, MarkerCount: 15},
	}
	monitor, fv, fj, fg := newMonitorFixture(sessions, true)

	result, err := monitor.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Zero(t, result.Interventions)
	assert.Empty(t, fv.archived)
	assert.Empty(t, fv.reset)
	assert.Empty(t, fj.records)
	assert.Zero(t, fg.restarts)
	assert.Equal(t, domain.Layer4Monitor, result.Sessions[0].Verdict.Layer)
}

func TestRunCycleAutoInterventionDisabledJournalsOnly(t *testing.T) {
	sessions := []domain.Session{
		{ID: "looping", Path: "/s/looping.jsonl", SizeBytes: 5000, MarkerCount: 4, NestedCount: 2},
	}
	monitor, fv, fj, fg := newMonitorFixture(sessions, false)

	result, err := monitor.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Zero(t, result.Interventions)
	assert.Empty(t, fv.archived)
	assert.Empty(t, fv.reset)
	assert.Zero(t, fg.restarts)

	require.Len(t, fj.records, 1)
	assert.Equal(t, domain.ActionInterventionSkipped, fj.records[0].Action)
}

func TestRunCycleIsolatesFailingIntervention(t *testing.T) {
	sessions := []domain.Session{
		{ID: "bad", Path: "/s/bad.jsonl", SizeBytes: 1, NestedCount: 1, MarkerCount: 2},
		{ID: "worse", Path: "/s/worse.jsonl", SizeBytes: 2, NestedCount: 1, MarkerCount: 2},
	}
	fv := &fakeVault{archiveErr: domain.ErrArchiveVerify}
	fj := &fakeJournal{}
	exec := NewExecutor(fv, fj, &fakeGateway{}, testClock(), testLogger())
	monitor := NewMonitorService(&fakeScanner{sessions: sessions}, exec, fj, testClock(), testLogger(), domain.DefaultThresholds(), true)

	result, err := monitor.RunCycle(context.Background())
	require.NoError(t, err, "a failing intervention must not abort the cycle")
	assert.Zero(t, result.Interventions)
	assert.Len(t, result.Sessions, 2)
}

func TestRunCycleIdempotentAfterReset(t *testing.T) {
	scanner := &fakeScanner{sessions: []domain.Session{
		{ID: "looping", Path: "/s/looping.jsonl", SizeBytes: 5000, MarkerCount: 4, NestedCount: 2},
	}}
	fv := &fakeVault{}
	fj := &fakeJournal{}
	exec := NewExecutor(fv, fj, &fakeGateway{}, testClock(), testLogger())
	monitor := NewMonitorService(scanner, exec, fj, testClock(), testLogger(), domain.DefaultThresholds(), true)

	result, err := monitor.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.Interventions)

	// Next tick sees the reset session: zero bytes, zero markers.
	scanner.sessions = []domain.Session{{ID: "looping", Path: "/s/looping.jsonl", SizeBytes: 0}}

	result, err = monitor.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Interventions)
	assert.Equal(t, domain.NoTrigger, result.Sessions[0].Verdict.Layer)
	assert.Len(t, fv.archived, 1, "no second archive for a reset session")
}

func TestSnapshotNeverIntervenes(t *testing.T) {
	sessions := []domain.Session{
		{ID: "looping", Path: "/s/looping.jsonl", SizeBytes: 5000, MarkerCount: 4, NestedCount: 2},
	}
	monitor, fv, fj, _ := newMonitorFixture(sessions, true)

	result, err := monitor.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.Layer1Nested, result.Sessions[0].Verdict.Layer)
	assert.Empty(t, fv.archived)
	assert.Empty(t, fj.records)
}

func TestRunCycleScannerFailureIsFatalForTheCycle(t *testing.T) {
	monitor := NewMonitorService(&fakeScanner{err: assert.AnError}, nil, &fakeJournal{}, testClock(), testLogger(), domain.DefaultThresholds(), true)

	_, err := monitor.RunCycle(context.Background())
	require.ErrorIs(t, err, assert.AnError)
}
