package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navalhaclub/barber-saas/internal/httperr"
	"github.com/navalhaclub/barber-saas/internal/models"
)

func TestStatusTransitions(t *testing.T) {
	assert.NoError(t, CanConfirm(StatusPending))
	assert.Error(t, CanConfirm(StatusConfirmed))
	assert.Error(t, CanConfirm(StatusCompleted))
	assert.Error(t, CanConfirm(StatusCancelled))

	assert.NoError(t, CanComplete(StatusPending))
	assert.NoError(t, CanComplete(StatusConfirmed))
	assert.Error(t, CanComplete(StatusCompleted))
	assert.Error(t, CanComplete(StatusCancelled))

	assert.NoError(t, CanCancel(StatusPending))
	assert.NoError(t, CanCancel(StatusConfirmed))
	assert.Error(t, CanCancel(StatusCompleted))
	assert.Error(t, CanCancel(StatusCancelled))

	assert.Equal(t, StatusPending, InitialStatus())
}

func TestComplete_SetsFinishedAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusConfirmed)}

	require.NoError(t, Complete(ap, now))
	assert.Equal(t, string(StatusCompleted), ap.Status)
	require.NotNil(t, ap.FinishedAt)
	assert.Equal(t, now, *ap.FinishedAt)
}

func TestComplete_FromTerminalState(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusCancelled)}
	err := Complete(ap, time.Now())
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
	assert.Nil(t, ap.FinishedAt)
}

func TestCancel_SetsCancelledAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusPending)}

	require.NoError(t, Cancel(ap, now))
	assert.Equal(t, string(StatusCancelled), ap.Status)
	require.NotNil(t, ap.CancelledAt)
}

func TestMarkThankYouSent(t *testing.T) {
	now := time.Date(2025, 6, 1, 16, 0, 0, 0, time.UTC)
	finished := now.Add(-time.Hour)

	t.Run("requires finished_at", func(t *testing.T) {
		ap := &models.Appointment{Status: string(StatusCompleted)}
		err := MarkThankYouSent(ap, now)
		assert.True(t, httperr.IsBusiness(err, "not_finished"))
	})

	t.Run("sets once", func(t *testing.T) {
		ap := &models.Appointment{Status: string(StatusCompleted), FinishedAt: &finished}
		require.NoError(t, MarkThankYouSent(ap, now))
		require.NotNil(t, ap.ThankYouSentAt)
		assert.Equal(t, now, *ap.ThankYouSentAt)
	})

	t.Run("rejects double send", func(t *testing.T) {
		sent := now.Add(-10 * time.Minute)
		ap := &models.Appointment{FinishedAt: &finished, ThankYouSentAt: &sent}
		err := MarkThankYouSent(ap, now)
		assert.True(t, httperr.IsBusiness(err, "thank_you_already_sent"))
		assert.Equal(t, sent, *ap.ThankYouSentAt)
	})
}
