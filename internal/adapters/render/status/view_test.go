package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/sentinel/internal/application"
	"github.com/openclaw/sentinel/internal/domain"
)

func TestRenderStoppedDaemonNoSessions(t *testing.T) {
	out, err := Render(application.Report{})
	require.NoError(t, err)

	assert.Contains(t, out, "OpenClaw Sentinel")
	assert.Contains(t, out, "daemon: stopped")
	assert.Contains(t, out, "No active sessions.")
	assert.Contains(t, out, "No interventions recorded.")
}

func TestRenderRunningDaemonWithSessions(t *testing.T) {
	report := application.Report{
		Running:   true,
		PID:       4321,
		Uptime:    90 * time.Minute,
		Interval:  10 * time.Second,
		StartedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Sessions: []application.SessionHealth{
			{
				Session: domain.Session{ID: "quiet", SizeBytes: 2048, MessageCount: 12},
				Verdict: domain.Verdict{Layer: domain.NoTrigger},
			},
			{
				Session: domain.Session{ID: "looping", SizeBytes: 12 << 20, MarkerCount: 4, NestedCount: 2},
				Verdict: domain.Verdict{
					Layer:  domain.Layer1Nested,
					Reason: "nested injection blocks detected (2 records) - possible feedback loop",
				},
			},
		},
		Interventions: []domain.InterventionRecord{
			{
				Timestamp:  time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
				Session:    "old-loop",
				SizeBefore: 15 << 20,
				Action:     domain.ActionArchivedAndReset,
			},
		},
	}

	out, err := Render(report)
	require.NoError(t, err)

	assert.Contains(t, out, "daemon: running (pid 4321")
	assert.Contains(t, out, "sessions: 2")
	assert.Contains(t, out, "quiet")
	assert.Contains(t, out, "[healthy]")
	assert.Contains(t, out, "[layer1-nested-injection]")
	assert.Contains(t, out, "feedback loop")
	assert.Contains(t, out, "recent interventions: 1")
	assert.Contains(t, out, "old-loop")
	assert.Contains(t, out, "archived and reset")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "2.0 KiB", formatBytes(2048))
	assert.Equal(t, "15.0 MiB", formatBytes(15<<20))
}
