package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/navalhaclub/barber-saas/internal/domain/appointment"
	"github.com/navalhaclub/barber-saas/internal/httperr"
	"github.com/navalhaclub/barber-saas/internal/models"
	"github.com/navalhaclub/barber-saas/internal/notification"
)

// ======================================================
// FAKE REPOSITORY
// ======================================================

type fakeRepo struct {
	shop         *models.Barbershop
	branch       *models.Branch
	service      *models.Service
	barber       *models.User
	workingHours *models.WorkingHours
	appointments []models.Appointment

	withinHours bool
	conflictErr error

	clients []models.Client
	created []models.Appointment
}

var _ domain.Repository = (*fakeRepo)(nil)

func (f *fakeRepo) GetBarbershopByID(ctx context.Context, id uint) (*models.Barbershop, error) {
	if f.shop == nil {
		return nil, errors.New("barbershop not found")
	}
	return f.shop, nil
}

func (f *fakeRepo) GetBranch(ctx context.Context, barbershopID, branchID uint) (*models.Branch, error) {
	if f.branch == nil {
		return nil, errors.New("branch not found")
	}
	return f.branch, nil
}

func (f *fakeRepo) GetService(ctx context.Context, barbershopID, serviceID uint) (*models.Service, error) {
	if f.service == nil {
		return nil, errors.New("service not found")
	}
	return f.service, nil
}

func (f *fakeRepo) GetBarber(ctx context.Context, barbershopID, barberID uint) (*models.User, error) {
	if f.barber == nil {
		return nil, errors.New("barber not found")
	}
	return f.barber, nil
}

func (f *fakeRepo) GetOrCreateClient(ctx context.Context, barbershopID uint, name, phone, email string) (*models.Client, error) {
	for i := range f.clients {
		if f.clients[i].Phone == phone {
			return &f.clients[i], nil
		}
	}
	client := models.Client{
		ID:     uint(len(f.clients) + 10),
		Name:   name,
		Phone:  phone,
		Email:  email,
		Status: models.ClientStatusVisitante,
	}
	f.clients = append(f.clients, client)
	return &f.clients[len(f.clients)-1], nil
}

func (f *fakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	ap.ID = uint(len(f.created) + 1)
	f.created = append(f.created, *ap)
	return nil
}

func (f *fakeRepo) AssertNoTimeConflict(ctx context.Context, barberID uint, start, end time.Time) error {
	return f.conflictErr
}

func (f *fakeRepo) GetAppointmentForBarber(ctx context.Context, appointmentID, barberID uint) (*models.Appointment, error) {
	for i := range f.appointments {
		if f.appointments[i].ID == appointmentID {
			return &f.appointments[i], nil
		}
	}
	return nil, errors.New("appointment not found")
}

func (f *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	return nil
}

func (f *fakeRepo) GetWorkingHours(ctx context.Context, barberID uint, weekday int) (*models.WorkingHours, error) {
	if f.workingHours == nil {
		return nil, errors.New("no working hours")
	}
	return f.workingHours, nil
}

func (f *fakeRepo) ListAppointmentsForDay(ctx context.Context, barberID uint, start, end time.Time) ([]models.Appointment, error) {
	return f.appointments, nil
}

func (f *fakeRepo) IsWithinWorkingHours(ctx context.Context, barberID uint, start, end time.Time) (bool, error) {
	return f.withinHours, nil
}

func (f *fakeRepo) ListAppointmentsForPeriod(ctx context.Context, barberID uint, start, end time.Time) ([]models.Appointment, error) {
	return f.appointments, nil
}

type nopStore struct{}

func (nopStore) CreateNotification(ctx context.Context, n *models.Notification) error { return nil }

type nopSender struct{}

func (nopSender) SendText(ctx context.Context, to, message string) error { return nil }

func nopNotifier() *notification.Dispatcher {
	return notification.NewDispatcher(nopStore{}, nopSender{}, zerolog.Nop(), "", "")
}

type recordingStore struct {
	notifications []models.Notification
}

func (r *recordingStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	r.notifications = append(r.notifications, *n)
	return nil
}

type recordingSender struct {
	sent []struct{ To, Message string }
}

func (r *recordingSender) SendText(ctx context.Context, to, message string) error {
	r.sent = append(r.sent, struct{ To, Message string }{to, message})
	return nil
}

func bookingRepo() *fakeRepo {
	return &fakeRepo{
		shop:        &models.Barbershop{ID: 1, Timezone: "America/Sao_Paulo", MinAdvanceMinutes: 120},
		branch:      &models.Branch{ID: 2, BarbershopID: 1, Active: true},
		service:     &models.Service{ID: 7, Name: "Corte", DurationMin: 30},
		barber:      &models.User{ID: 3, Name: "João"},
		withinHours: true,
	}
}

func bookingInput() CreateBookingInput {
	// Data distante o bastante para nunca esbarrar na antecedência mínima.
	future := time.Now().AddDate(1, 0, 0)
	return CreateBookingInput{
		BarbershopID: 1,
		BranchID:     2,
		BarberID:     3,
		ServiceID:    7,
		ClientName:   "Carlos Silva",
		ClientPhone:  "+5511977770000",
		Date:         future.Format("2006-01-02"),
		Time:         "14:00",
	}
}

// ======================================================
// CREATE BOOKING — VALIDAÇÕES
// ======================================================

func TestCreateBooking_BranchInactive(t *testing.T) {
	repo := bookingRepo()
	repo.branch.Active = false
	uc := NewCreateBooking(repo, nopNotifier(), nil)

	_, err := uc.Execute(context.Background(), bookingInput())
	assert.True(t, httperr.IsBusiness(err, "branch_inactive"))
	assert.Empty(t, repo.created)
}

func TestCreateBooking_BranchNotFound(t *testing.T) {
	repo := bookingRepo()
	repo.branch = nil
	uc := NewCreateBooking(repo, nopNotifier(), nil)

	_, err := uc.Execute(context.Background(), bookingInput())
	assert.True(t, httperr.IsBusiness(err, "branch_not_found"))
}

func TestCreateBooking_InvalidDate(t *testing.T) {
	uc := NewCreateBooking(bookingRepo(), nopNotifier(), nil)

	in := bookingInput()
	in.Date = "2025-13-40"
	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "invalid_date_or_time"))
}

func TestCreateBooking_TooSoon(t *testing.T) {
	uc := NewCreateBooking(bookingRepo(), nopNotifier(), nil)

	in := bookingInput()
	in.Date = time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "too_soon"))
}

func TestCreateBooking_ServiceNotFound(t *testing.T) {
	repo := bookingRepo()
	repo.service = nil
	uc := NewCreateBooking(repo, nopNotifier(), nil)

	_, err := uc.Execute(context.Background(), bookingInput())
	assert.True(t, httperr.IsBusiness(err, "service_not_found"))
}

func TestCreateBooking_OutsideWorkingHours(t *testing.T) {
	repo := bookingRepo()
	repo.withinHours = false
	uc := NewCreateBooking(repo, nopNotifier(), nil)

	_, err := uc.Execute(context.Background(), bookingInput())
	assert.True(t, httperr.IsBusiness(err, "outside_working_hours"))
}

func TestCreateBooking_TimeConflict(t *testing.T) {
	repo := bookingRepo()
	repo.conflictErr = httperr.ErrBusiness("time_conflict")
	uc := NewCreateBooking(repo, nopNotifier(), nil)

	_, err := uc.Execute(context.Background(), bookingInput())
	assert.True(t, httperr.IsBusiness(err, "time_conflict"))
	assert.Empty(t, repo.created)
}

func TestCreateBooking_Success(t *testing.T) {
	repo := bookingRepo()
	repo.shop.AdminPhone = "+5511988880000"

	store := &recordingStore{}
	sender := &recordingSender{}
	notifier := notification.NewDispatcher(store, sender, zerolog.Nop(), "", "")

	uc := NewCreateBooking(repo, notifier, nil)

	ap, err := uc.Execute(context.Background(), bookingInput())
	require.NoError(t, err)

	assert.Equal(t, "pending", ap.Status)
	assert.Equal(t, uint(1), ap.BarbershopID)
	assert.Equal(t, uint(2), ap.BranchID)
	assert.Equal(t, uint(3), ap.BarberID)
	assert.Equal(t, uint(7), ap.ServiceID)
	assert.Equal(t, ap.StartsAt.Add(30*time.Minute), ap.EndsAt)
	require.Len(t, repo.created, 1)

	// Cliente resolvido pelo telefone e vinculado ao agendamento.
	require.Len(t, repo.clients, 1)
	assert.Equal(t, repo.clients[0].ID, ap.ClientID)
	assert.Equal(t, models.ClientStatusVisitante, repo.clients[0].Status)

	// APPOINTMENT_NEW: alerta interno + WhatsApp para o admin da barbearia.
	require.Len(t, store.notifications, 1)
	assert.Equal(t, "Novo Agendamento", store.notifications[0].Title)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "+5511988880000", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Message, "Carlos Silva")
}

func TestCreateBooking_ReusesClientByPhone(t *testing.T) {
	repo := bookingRepo()
	uc := NewCreateBooking(repo, nopNotifier(), nil)

	first, err := uc.Execute(context.Background(), bookingInput())
	require.NoError(t, err)

	// Mesmo telefone, nome diferente: reaproveita o cadastro existente.
	in := bookingInput()
	in.ClientName = "C. Silva"
	in.Time = "16:00"
	second, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first.ClientID, second.ClientID)
	require.Len(t, repo.clients, 1)
	assert.Equal(t, "Carlos Silva", repo.clients[0].Name)
	assert.Len(t, repo.created, 2)
}

// ======================================================
// AVAILABILITY
// ======================================================

func availabilityDate() time.Time {
	return time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC) // segunda-feira
}

func TestGetAvailability_GeneratesSlots(t *testing.T) {
	repo := &fakeRepo{
		service: &models.Service{ID: 7, DurationMin: 60},
		workingHours: &models.WorkingHours{
			Active:    true,
			StartTime: "09:00",
			EndTime:   "12:00",
		},
	}
	uc := NewGetAvailability(repo)

	slots, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		BarbershopID: 1, BarberID: 3, ServiceID: 7, Date: availabilityDate(),
	})
	require.NoError(t, err)

	require.Len(t, slots, 3)
	assert.Equal(t, domain.TimeSlot{Start: "09:00", End: "10:00"}, slots[0])
	assert.Equal(t, domain.TimeSlot{Start: "11:00", End: "12:00"}, slots[2])
}

func TestGetAvailability_ExcludesLunch(t *testing.T) {
	repo := &fakeRepo{
		service: &models.Service{ID: 7, DurationMin: 60},
		workingHours: &models.WorkingHours{
			Active:     true,
			StartTime:  "09:00",
			EndTime:    "14:00",
			LunchStart: "12:00",
			LunchEnd:   "13:00",
		},
	}
	uc := NewGetAvailability(repo)

	slots, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		BarbershopID: 1, BarberID: 3, ServiceID: 7, Date: availabilityDate(),
	})
	require.NoError(t, err)

	for _, s := range slots {
		assert.NotEqual(t, "12:00", s.Start)
	}
	require.Len(t, slots, 4)
	assert.Equal(t, "13:00", slots[3].Start)
}

func TestGetAvailability_SkipsBookedSlots(t *testing.T) {
	date := availabilityDate()
	booked := models.Appointment{
		StartsAt: time.Date(date.Year(), date.Month(), date.Day(), 10, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(date.Year(), date.Month(), date.Day(), 11, 0, 0, 0, time.UTC),
	}
	repo := &fakeRepo{
		service: &models.Service{ID: 7, DurationMin: 60},
		workingHours: &models.WorkingHours{
			Active:    true,
			StartTime: "09:00",
			EndTime:   "12:00",
		},
		appointments: []models.Appointment{booked},
	}
	uc := NewGetAvailability(repo)

	slots, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		BarbershopID: 1, BarberID: 3, ServiceID: 7, Date: date,
	})
	require.NoError(t, err)

	require.Len(t, slots, 2)
	assert.Equal(t, "09:00", slots[0].Start)
	assert.Equal(t, "11:00", slots[1].Start)
}

func TestGetAvailability_InactiveDay(t *testing.T) {
	repo := &fakeRepo{
		service:      &models.Service{ID: 7, DurationMin: 30},
		workingHours: &models.WorkingHours{Active: false},
	}
	uc := NewGetAvailability(repo)

	slots, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		BarbershopID: 1, BarberID: 3, ServiceID: 7, Date: availabilityDate(),
	})
	require.NoError(t, err)
	assert.Empty(t, slots)
}
