package appointment

import (
	"time"

	"github.com/navalhaclub/barber-saas/internal/httperr"
	"github.com/navalhaclub/barber-saas/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.FinishedAt = &now
	return nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

// MarkThankYouSent preenche thank_you_sent_at uma única vez, e só depois
// de finished_at.
func MarkThankYouSent(ap *models.Appointment, now time.Time) error {
	if ap.FinishedAt == nil {
		return httperr.ErrBusiness("not_finished")
	}
	if ap.ThankYouSentAt != nil {
		return httperr.ErrBusiness("thank_you_already_sent")
	}

	ap.ThankYouSentAt = &now
	return nil
}
