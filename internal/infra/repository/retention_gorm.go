package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/navalhaclub/barber-saas/internal/domain/retention"
	"github.com/navalhaclub/barber-saas/internal/models"
)

type RetentionGormRepository struct {
	db *gorm.DB
}

func NewRetentionGormRepository(db *gorm.DB) *RetentionGormRepository {
	return &RetentionGormRepository{db: db}
}

func (r *RetentionGormRepository) ListBarbershops(
	ctx context.Context,
) ([]models.Barbershop, error) {

	var shops []models.Barbershop
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

func (r *RetentionGormRepository) GetBarbershopByID(
	ctx context.Context,
	id uint,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *RetentionGormRepository) ListClients(
	ctx context.Context,
	barbershopID uint,
) ([]models.Client, error) {

	var clients []models.Client
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ?", barbershopID).
		Order("id ASC").
		Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *RetentionGormRepository) ListAppointmentsByClient(
	ctx context.Context,
	clientID uint,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("starts_at DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *RetentionGormRepository) ListRemindersSince(
	ctx context.Context,
	barbershopID uint,
	since time.Time,
) ([]models.ReminderLog, error) {

	var reminders []models.ReminderLog
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND sent_at >= ?", barbershopID, since).
		Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *RetentionGormRepository) CreateReminderLog(
	ctx context.Context,
	entry *models.ReminderLog,
) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *RetentionGormRepository) GetService(
	ctx context.Context,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, serviceID).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *RetentionGormRepository) ListCompletedAppointments(
	ctx context.Context,
	barbershopID uint,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where("barbershop_id = ? AND status = 'completed'", barbershopID).
		Order("starts_at DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *RetentionGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// Compile-time check
var _ domain.Repository = (*RetentionGormRepository)(nil)
