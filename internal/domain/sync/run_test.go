package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRun(t *testing.T) {
	t.Run("creates run in started status", func(t *testing.T) {
		run, err := NewRun(TriggerManual)
		require.NoError(t, err)

		assert.Equal(t, StatusStarted, run.Status)
		assert.Equal(t, TriggerManual, run.Trigger)
		assert.NotZero(t, run.ID)
		assert.Nil(t, run.CompletedAt)
	})

	t.Run("rejects unknown trigger", func(t *testing.T) {
		_, err := NewRun(Trigger("CRON"))
		assert.ErrorIs(t, err, ErrRunInvalidTrigger)
	})
}

func TestRun_TerminalTransitions(t *testing.T) {
	t.Run("complete sets terminal status once", func(t *testing.T) {
		run, err := NewRun(TriggerScheduled)
		require.NoError(t, err)

		require.NoError(t, run.Complete())
		assert.Equal(t, StatusCompleted, run.Status)
		assert.NotNil(t, run.CompletedAt)
		assert.Equal(t, 100, run.ProgressPercent)

		// No run may transition out of a terminal status.
		assert.ErrorIs(t, run.Fail("late failure"), ErrRunAlreadyTerminal)
		assert.Equal(t, StatusCompleted, run.Status)
		assert.Empty(t, run.ErrorMessage)
	})

	t.Run("fail records the error message", func(t *testing.T) {
		run, err := NewRun(TriggerManual)
		require.NoError(t, err)

		require.NoError(t, run.Fail("bulk query rejected"))
		assert.Equal(t, StatusFailed, run.Status)
		assert.Equal(t, "bulk query rejected", run.ErrorMessage)
	})

	t.Run("timeout is distinct from failure", func(t *testing.T) {
		run, err := NewRun(TriggerWebhook)
		require.NoError(t, err)

		require.NoError(t, run.Timeout("poll budget exceeded"))
		assert.Equal(t, StatusTimeout, run.Status)
		assert.True(t, run.Status.IsTerminal())
	})

	t.Run("cancel is terminal", func(t *testing.T) {
		run, err := NewRun(TriggerManual)
		require.NoError(t, err)

		require.NoError(t, run.Cancel())
		assert.Equal(t, StatusCancelled, run.Status)
		assert.ErrorIs(t, run.Cancel(), ErrRunAlreadyTerminal)
	})
}

func TestRun_DisplayStatus(t *testing.T) {
	t.Run("stale started run displays as timeout", func(t *testing.T) {
		run, err := NewRun(TriggerScheduled)
		require.NoError(t, err)
		run.StartedAt = time.Now().Add(-3 * time.Hour)

		display := run.DisplayStatus(time.Hour, time.Now())
		assert.Equal(t, StatusTimeout, display)
		// The persisted status is untouched; only the view is normalized.
		assert.Equal(t, StatusStarted, run.Status)
	})

	t.Run("fresh started run displays as started", func(t *testing.T) {
		run, err := NewRun(TriggerScheduled)
		require.NoError(t, err)

		assert.Equal(t, StatusStarted, run.DisplayStatus(time.Hour, time.Now()))
	})

	t.Run("terminal status is never rewritten", func(t *testing.T) {
		run, err := NewRun(TriggerManual)
		require.NoError(t, err)
		require.NoError(t, run.Complete())
		run.StartedAt = time.Now().Add(-48 * time.Hour)

		assert.Equal(t, StatusCompleted, run.DisplayStatus(time.Hour, time.Now()))
	})
}

func TestRun_RecordsProcessed(t *testing.T) {
	run, err := NewRun(TriggerManual)
	require.NoError(t, err)

	run.WrittenCount = 120
	run.SkippedCount = 14
	run.FailedCount = 2
	assert.Equal(t, 136, run.RecordsProcessed())
}
