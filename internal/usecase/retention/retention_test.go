package retention

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/navalhaclub/barber-saas/internal/domain/retention"
	"github.com/navalhaclub/barber-saas/internal/models"
	"github.com/navalhaclub/barber-saas/internal/notification"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// ======================================================
// FAKES
// ======================================================

type fakeRepo struct {
	shops        []models.Barbershop
	clients      map[uint][]models.Client      // por barbearia
	appointments map[uint][]models.Appointment // por cliente
	completed    map[uint][]models.Appointment // por barbearia
	services     map[uint]*models.Service
	reminders    []models.ReminderLog

	createdLogs []models.ReminderLog
	updated     []models.Appointment

	failLogForClient uint
	failUpdateForID  uint
}

var _ domain.Repository = (*fakeRepo)(nil)

func (f *fakeRepo) ListBarbershops(ctx context.Context) ([]models.Barbershop, error) {
	return f.shops, nil
}

func (f *fakeRepo) GetBarbershopByID(ctx context.Context, id uint) (*models.Barbershop, error) {
	for i := range f.shops {
		if f.shops[i].ID == id {
			return &f.shops[i], nil
		}
	}
	return nil, errors.New("barbershop not found")
}

func (f *fakeRepo) ListClients(ctx context.Context, barbershopID uint) ([]models.Client, error) {
	return f.clients[barbershopID], nil
}

func (f *fakeRepo) ListAppointmentsByClient(ctx context.Context, clientID uint) ([]models.Appointment, error) {
	aps := append([]models.Appointment(nil), f.appointments[clientID]...)
	sort.Slice(aps, func(i, j int) bool {
		return aps[i].StartsAt.After(aps[j].StartsAt)
	})
	return aps, nil
}

func (f *fakeRepo) ListRemindersSince(ctx context.Context, barbershopID uint, since time.Time) ([]models.ReminderLog, error) {
	var out []models.ReminderLog
	for _, r := range f.reminders {
		if r.BarbershopID == barbershopID && !r.SentAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateReminderLog(ctx context.Context, log *models.ReminderLog) error {
	if f.failLogForClient != 0 && log.ClientID == f.failLogForClient {
		return errors.New("insert failed")
	}
	f.createdLogs = append(f.createdLogs, *log)
	return nil
}

func (f *fakeRepo) GetService(ctx context.Context, serviceID uint) (*models.Service, error) {
	if s, ok := f.services[serviceID]; ok {
		return s, nil
	}
	return nil, errors.New("service not found")
}

func (f *fakeRepo) ListCompletedAppointments(ctx context.Context, barbershopID uint) ([]models.Appointment, error) {
	return f.completed[barbershopID], nil
}

func (f *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	if f.failUpdateForID != 0 && ap.ID == f.failUpdateForID {
		return errors.New("update failed")
	}
	f.updated = append(f.updated, *ap)
	return nil
}

type fakeStore struct {
	notifications []models.Notification
}

func (f *fakeStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	f.notifications = append(f.notifications, *n)
	return nil
}

type fakeSender struct {
	sent []sentMessage
	err  error
}

type sentMessage struct {
	To      string
	Message string
}

func (f *fakeSender) SendText(ctx context.Context, to, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{To: to, Message: message})
	return nil
}

// ======================================================
// HELPERS
// ======================================================

func testShop() models.Barbershop {
	return models.Barbershop{
		ID:         1,
		Name:       "Navalha Club",
		Slug:       "navalha-club",
		AdminPhone: "+55 11 98888-0000",
		BookingURL: "https://navalha.club/agendar",
	}
}

func visit(clientID uint, daysAgo int, status string) models.Appointment {
	return models.Appointment{
		BarbershopID: 1,
		ClientID:     clientID,
		ServiceID:    7,
		StartsAt:     testNow.AddDate(0, 0, -daysAgo),
		Status:       status,
	}
}

func newDetector(repo *fakeRepo) *IdentifyOverdueClients {
	uc := NewIdentifyOverdueClients(repo)
	uc.now = func() time.Time { return testNow }
	return uc
}

func newNotifier(store *fakeStore, sender *fakeSender) *notification.Dispatcher {
	return notification.NewDispatcher(store, sender, zerolog.Nop(), "", "https://navalha.club/agendar")
}

// ======================================================
// DETECTOR
// ======================================================

func TestIdentifyOverdue_ReturnsLapsedClient(t *testing.T) {
	repo := &fakeRepo{
		shops:   []models.Barbershop{testShop()},
		clients: map[uint][]models.Client{1: {{ID: 10, Name: "Carlos Silva", Phone: "+5511977770000"}}},
		appointments: map[uint][]models.Appointment{
			10: {visit(10, 70, "completed"), visit(10, 50, "completed"), visit(10, 30, "completed")},
		},
		services: map[uint]*models.Service{7: {ID: 7, Name: "Corte Degradê"}},
	}

	overdue, err := newDetector(repo).Execute(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, overdue, 1)

	item := overdue[0]
	assert.Equal(t, uint(10), item.Client.ID)
	assert.Equal(t, 20, item.AvgDays)
	assert.Equal(t, testNow.AddDate(0, 0, -30), item.LastDate)
	require.NotNil(t, item.LastService)
	assert.Equal(t, "Corte Degradê", item.LastService.Name)
}

func TestIdentifyOverdue_SingleVisitUsesFallback(t *testing.T) {
	repo := &fakeRepo{
		clients:      map[uint][]models.Client{1: {{ID: 10, Name: "Carlos"}}},
		appointments: map[uint][]models.Appointment{10: {visit(10, 40, "completed")}},
	}

	overdue, err := newDetector(repo).Execute(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, domain.DefaultIntervalDays, overdue[0].AvgDays)
	assert.Nil(t, overdue[0].LastService)
}

func TestIdentifyOverdue_NotYetDue(t *testing.T) {
	// Última visita há 10 dias com cadência de 20: ainda dentro do prazo.
	repo := &fakeRepo{
		clients: map[uint][]models.Client{1: {{ID: 10}}},
		appointments: map[uint][]models.Appointment{
			10: {visit(10, 50, "completed"), visit(10, 30, "completed"), visit(10, 10, "completed")},
		},
	}

	overdue, err := newDetector(repo).Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, overdue)
}

func TestIdentifyOverdue_FutureBookingSkips(t *testing.T) {
	repo := &fakeRepo{
		clients: map[uint][]models.Client{1: {{ID: 10}}},
		appointments: map[uint][]models.Appointment{
			10: {visit(10, 60, "completed"), visit(10, -2, "confirmed")},
		},
	}

	overdue, err := newDetector(repo).Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, overdue)
}

func TestIdentifyOverdue_CancelledFutureDoesNotBlock(t *testing.T) {
	repo := &fakeRepo{
		clients: map[uint][]models.Client{1: {{ID: 10}}},
		appointments: map[uint][]models.Appointment{
			10: {visit(10, 60, "completed"), visit(10, -2, "cancelled")},
		},
	}

	overdue, err := newDetector(repo).Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, overdue, 1)
}

func TestIdentifyOverdue_SuppressionWindow(t *testing.T) {
	base := &fakeRepo{
		clients:      map[uint][]models.Client{1: {{ID: 10}}},
		appointments: map[uint][]models.Appointment{10: {visit(10, 60, "completed")}},
	}

	t.Run("lembrete há 2 dias suprime", func(t *testing.T) {
		repo := *base
		repo.reminders = []models.ReminderLog{
			{BarbershopID: 1, ClientID: 10, SentAt: testNow.AddDate(0, 0, -2)},
		}
		overdue, err := newDetector(&repo).Execute(context.Background(), 1)
		require.NoError(t, err)
		assert.Empty(t, overdue)
	})

	t.Run("lembrete há 8 dias não suprime", func(t *testing.T) {
		repo := *base
		repo.reminders = []models.ReminderLog{
			{BarbershopID: 1, ClientID: 10, SentAt: testNow.AddDate(0, 0, -8)},
		}
		overdue, err := newDetector(&repo).Execute(context.Background(), 1)
		require.NoError(t, err)
		assert.Len(t, overdue, 1)
	})
}

func TestIdentifyOverdue_NoHistory(t *testing.T) {
	repo := &fakeRepo{
		clients: map[uint][]models.Client{1: {{ID: 10}, {ID: 11}}},
		appointments: map[uint][]models.Appointment{
			// 11 só tem agendamento futuro: nenhuma visita realizada.
			11: {visit(11, -5, "pending")},
		},
	}

	overdue, err := newDetector(repo).Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, overdue)
}

// ======================================================
// JOB DE LEMBRETES
// ======================================================

func newRemindersJob(repo *fakeRepo, store *fakeStore, sender *fakeSender) *ProcessRetentionReminders {
	uc := NewProcessRetentionReminders(repo, newDetector(repo), newNotifier(store, sender), zerolog.Nop())
	uc.now = func() time.Time { return testNow }
	return uc
}

func TestProcessReminders_SendsAndRecordsLog(t *testing.T) {
	repo := &fakeRepo{
		shops: []models.Barbershop{testShop()},
		clients: map[uint][]models.Client{
			1: {{ID: 10, Name: "Carlos Silva", Phone: "+5511977770000"}},
		},
		appointments: map[uint][]models.Appointment{
			10: {visit(10, 70, "completed"), visit(10, 50, "completed"), visit(10, 30, "completed")},
		},
		services: map[uint]*models.Service{7: {ID: 7, Name: "Corte"}},
	}
	store := &fakeStore{}
	sender := &fakeSender{}

	results, err := newRemindersJob(repo, store, sender).Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.True(t, results[0].Sent)
	assert.Equal(t, "Carlos Silva", results[0].Client)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "+5511977770000", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Message, "Carlos")
	assert.Contains(t, sender.sent[0].Message, "https://navalha.club/agendar")

	require.Len(t, repo.createdLogs, 1)
	logEntry := repo.createdLogs[0]
	assert.Equal(t, uint(1), logEntry.BarbershopID)
	assert.Equal(t, uint(10), logEntry.ClientID)
	assert.Equal(t, "7", logEntry.ServiceID)
	assert.Equal(t, 20, logEntry.EstimatedIntervalDays)
	assert.Equal(t, "whatsapp", logEntry.Channel)
	assert.Equal(t, testNow, logEntry.SentAt)

	// Alerta interno do painel também gravado.
	require.NotEmpty(t, store.notifications)
	assert.Equal(t, "Risco de Churn", store.notifications[0].Title)
}

func TestProcessReminders_UnknownService(t *testing.T) {
	repo := &fakeRepo{
		shops:        []models.Barbershop{testShop()},
		clients:      map[uint][]models.Client{1: {{ID: 10, Name: "Ana"}}},
		appointments: map[uint][]models.Appointment{10: {visit(10, 45, "completed")}},
		// services vazio: lookup falha
	}

	results, err := newRemindersJob(repo, &fakeStore{}, &fakeSender{}).Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	require.Len(t, repo.createdLogs, 1)
	assert.Equal(t, domain.ServiceUnknown, repo.createdLogs[0].ServiceID)
}

func TestProcessReminders_LogFailureDoesNotAbortBatch(t *testing.T) {
	repo := &fakeRepo{
		shops: []models.Barbershop{testShop()},
		clients: map[uint][]models.Client{
			1: {{ID: 10, Name: "Carlos"}, {ID: 11, Name: "Bruno"}},
		},
		appointments: map[uint][]models.Appointment{
			10: {visit(10, 45, "completed")},
			11: {visit(11, 45, "completed")},
		},
		failLogForClient: 10,
	}

	results, err := newRemindersJob(repo, &fakeStore{}, &fakeSender{}).Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	byClient := map[string]DispatchResult{}
	for _, r := range results {
		byClient[r.Client] = r
	}
	assert.False(t, byClient["Carlos"].Success)
	assert.NotEmpty(t, byClient["Carlos"].Error)
	assert.True(t, byClient["Carlos"].Sent)
	assert.True(t, byClient["Bruno"].Success)

	require.Len(t, repo.createdLogs, 1)
	assert.Equal(t, uint(11), repo.createdLogs[0].ClientID)
}

func TestProcessReminders_SendFailureStillRecordsLog(t *testing.T) {
	repo := &fakeRepo{
		shops:        []models.Barbershop{testShop()},
		clients:      map[uint][]models.Client{1: {{ID: 10, Name: "Carlos"}}},
		appointments: map[uint][]models.Appointment{10: {visit(10, 45, "completed")}},
	}
	sender := &fakeSender{err: errors.New("whatsapp down")}

	results, err := newRemindersJob(repo, &fakeStore{}, sender).Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.False(t, results[0].Sent)

	// O log entra mesmo sem envio externo: a supressão vale para a tentativa.
	assert.Len(t, repo.createdLogs, 1)
}

// ======================================================
// JOB DE AGRADECIMENTO
// ======================================================

func completedAppointment(id uint, finishedAgo time.Duration) models.Appointment {
	finished := testNow.Add(-finishedAgo)
	return models.Appointment{
		ID:           id,
		BarbershopID: 1,
		ClientID:     10,
		Client:       models.Client{ID: 10, Name: "Carlos Silva", Phone: "+5511977770000"},
		ServiceID:    7,
		Status:       "completed",
		FinishedAt:   &finished,
	}
}

func newThankYouJob(repo *fakeRepo, store *fakeStore, sender *fakeSender) *SendThankYouMessages {
	uc := NewSendThankYouMessages(repo, newNotifier(store, sender), zerolog.Nop())
	uc.now = func() time.Time { return testNow }
	return uc
}

func TestThankYou_SendsAndMarks(t *testing.T) {
	repo := &fakeRepo{
		shops:     []models.Barbershop{testShop()},
		completed: map[uint][]models.Appointment{1: {completedAppointment(100, time.Hour)}},
	}
	store := &fakeStore{}
	sender := &fakeSender{}

	results, err := newThankYouJob(repo, store, sender).Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Equal(t, uint(100), results[0].AppointmentID)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "+5511977770000", sender.sent[0].To)
	assert.True(t, strings.Contains(sender.sent[0].Message, "Obrigado pela visita, Carlos!"))

	require.Len(t, repo.updated, 1)
	require.NotNil(t, repo.updated[0].ThankYouSentAt)
	assert.Equal(t, testNow, *repo.updated[0].ThankYouSentAt)

	// Interação registrada no ledger com intervalo zero.
	require.Len(t, repo.createdLogs, 1)
	assert.Equal(t, 0, repo.createdLogs[0].EstimatedIntervalDays)
	assert.Equal(t, "7", repo.createdLogs[0].ServiceID)
}

func TestThankYou_EligibilityFilter(t *testing.T) {
	tooRecent := completedAppointment(101, 10*time.Minute)

	alreadySent := completedAppointment(102, 2*time.Hour)
	sentAt := testNow.Add(-time.Hour)
	alreadySent.ThankYouSentAt = &sentAt

	noFinishedAt := completedAppointment(103, time.Hour)
	noFinishedAt.FinishedAt = nil

	repo := &fakeRepo{
		shops:     []models.Barbershop{testShop()},
		completed: map[uint][]models.Appointment{1: {tooRecent, alreadySent, noFinishedAt}},
	}
	sender := &fakeSender{}

	results, err := newThankYouJob(repo, &fakeStore{}, sender).Execute(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, sender.sent)
	assert.Empty(t, repo.updated)
}

func TestThankYou_SecondRunSendsNothing(t *testing.T) {
	repo := &fakeRepo{
		shops:     []models.Barbershop{testShop()},
		completed: map[uint][]models.Appointment{1: {completedAppointment(100, time.Hour)}},
	}
	sender := &fakeSender{}
	job := newThankYouJob(repo, &fakeStore{}, sender)

	results, err := job.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, repo.updated, 1)

	// Segunda rodada sobre o estado persistido pela primeira: nada a fazer.
	repo.completed[1] = []models.Appointment{repo.updated[0]}

	results, err = job.Execute(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Len(t, sender.sent, 1)
	assert.Len(t, repo.updated, 1)
}

func TestThankYou_ExactDelayBoundary(t *testing.T) {
	repo := &fakeRepo{
		shops:     []models.Barbershop{testShop()},
		completed: map[uint][]models.Appointment{1: {completedAppointment(104, domain.ThankYouDelay)}},
	}

	results, err := newThankYouJob(repo, &fakeStore{}, &fakeSender{}).Execute(context.Background())
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestThankYou_UpdateFailureIsolated(t *testing.T) {
	repo := &fakeRepo{
		shops: []models.Barbershop{testShop()},
		completed: map[uint][]models.Appointment{
			1: {completedAppointment(100, time.Hour), completedAppointment(101, 2*time.Hour)},
		},
		failUpdateForID: 100,
	}

	results, err := newThankYouJob(repo, &fakeStore{}, &fakeSender{}).Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	byID := map[uint]ThankYouResult{}
	for _, r := range results {
		byID[r.AppointmentID] = r
	}
	assert.False(t, byID[100].Success)
	assert.True(t, byID[101].Success)
}
