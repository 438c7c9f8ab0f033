package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/navalhaclub/barber-saas/internal/models"
	"github.com/navalhaclub/barber-saas/internal/notification"
)

// NotificationGormRepository persiste os alertas internos do painel.
type NotificationGormRepository struct {
	db *gorm.DB
}

func NewNotificationGormRepository(db *gorm.DB) *NotificationGormRepository {
	return &NotificationGormRepository{db: db}
}

func (r *NotificationGormRepository) CreateNotification(
	ctx context.Context,
	n *models.Notification,
) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationGormRepository) List(
	ctx context.Context,
	barbershopID uint,
	onlyUnread bool,
	limit int,
) ([]models.Notification, error) {

	q := r.db.WithContext(ctx).
		Where("barbershop_id = ?", barbershopID)

	if onlyUnread {
		q = q.Where("read = false")
	}

	var list []models.Notification
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *NotificationGormRepository) MarkRead(
	ctx context.Context,
	barbershopID uint,
	notificationID uint,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND barbershop_id = ?", notificationID, barbershopID).
		Update("read", true).Error
}

// Compile-time check
var _ notification.Store = (*NotificationGormRepository)(nil)
