package gateway

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestartRunsConfiguredCommand(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "restarted")
	r := New("touch "+marker, 0, log.New(io.Discard))

	require.NoError(t, r.Restart(context.Background()))

	_, err := os.Stat(marker)
	assert.NoError(t, err)
}

func TestRestartEmptyCommandIsNoop(t *testing.T) {
	r := New("", 0, log.New(io.Discard))
	assert.NoError(t, r.Restart(context.Background()))
}

func TestRestartReportsCommandFailure(t *testing.T) {
	r := New("false", 0, log.New(io.Discard))

	err := r.Restart(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway restart")
}

func TestRestartHonorsCanceledContextDuringCooldown(t *testing.T) {
	r := New("true", time.Hour, log.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Restart(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
