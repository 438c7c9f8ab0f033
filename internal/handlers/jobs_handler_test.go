package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/navalhaclub/barber-saas/internal/domain/retention"
	"github.com/navalhaclub/barber-saas/internal/joblock"
	"github.com/navalhaclub/barber-saas/internal/models"
	"github.com/navalhaclub/barber-saas/internal/notification"
	ucRetention "github.com/navalhaclub/barber-saas/internal/usecase/retention"
	"github.com/navalhaclub/barber-saas/internal/whatsapp"
)

type stubRetentionRepo struct {
	shops     []models.Barbershop
	completed map[uint][]models.Appointment
}

var _ domain.Repository = (*stubRetentionRepo)(nil)

func (s *stubRetentionRepo) ListBarbershops(ctx context.Context) ([]models.Barbershop, error) {
	return s.shops, nil
}

func (s *stubRetentionRepo) GetBarbershopByID(ctx context.Context, id uint) (*models.Barbershop, error) {
	return &s.shops[0], nil
}

func (s *stubRetentionRepo) ListClients(ctx context.Context, barbershopID uint) ([]models.Client, error) {
	return nil, nil
}

func (s *stubRetentionRepo) ListAppointmentsByClient(ctx context.Context, clientID uint) ([]models.Appointment, error) {
	return nil, nil
}

func (s *stubRetentionRepo) ListRemindersSince(ctx context.Context, barbershopID uint, since time.Time) ([]models.ReminderLog, error) {
	return nil, nil
}

func (s *stubRetentionRepo) CreateReminderLog(ctx context.Context, log *models.ReminderLog) error {
	return nil
}

func (s *stubRetentionRepo) GetService(ctx context.Context, serviceID uint) (*models.Service, error) {
	return nil, nil
}

func (s *stubRetentionRepo) ListCompletedAppointments(ctx context.Context, barbershopID uint) ([]models.Appointment, error) {
	return s.completed[barbershopID], nil
}

func (s *stubRetentionRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	return nil
}

type nullStore struct{}

func (nullStore) CreateNotification(ctx context.Context, n *models.Notification) error { return nil }

func jobsTestRouter(repo domain.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	var sender whatsapp.Sender = whatsapp.New("", "", zerolog.Nop())
	notifier := notification.NewDispatcher(nullStore{}, sender, zerolog.Nop(), "", "")

	detector := ucRetention.NewIdentifyOverdueClients(repo)
	remindersUC := ucRetention.NewProcessRetentionReminders(repo, detector, notifier, zerolog.Nop())
	thankYouUC := ucRetention.NewSendThankYouMessages(repo, notifier, zerolog.Nop())

	h := NewJobsHandler(remindersUC, thankYouUC, joblock.New(""))

	r := gin.New()
	r.POST("/api/jobs/retention", h.RunRetention)
	r.GET("/api/cron/thank-you", h.RunThankYou)
	return r
}

func TestRunRetention_EmptyBase(t *testing.T) {
	r := jobsTestRouter(&stubRetentionRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/jobs/retention", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success   bool `json:"success"`
		Processed int  `json:"processed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 0, body.Processed)
}

func TestRunThankYou_ProcessesEligible(t *testing.T) {
	finished := time.Now().Add(-time.Hour)
	repo := &stubRetentionRepo{
		shops: []models.Barbershop{{ID: 1, Slug: "navalha-club"}},
		completed: map[uint][]models.Appointment{
			1: {{
				ID:         50,
				Status:     "completed",
				FinishedAt: &finished,
				ClientID:   10,
				Client:     models.Client{ID: 10, Name: "Carlos", Phone: "+5511977770000"},
				ServiceID:  7,
			}},
		},
	}
	r := jobsTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/cron/thank-you", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success   bool `json:"success"`
		Processed int  `json:"processed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 1, body.Processed)
}
