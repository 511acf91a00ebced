package repositories

import (
	"context"
	"time"

	"formafusion-partners/internal/adapters/persistence/models"
	"formafusion-partners/internal/core/domain"

	"gorm.io/gorm"
)

// notificationRepository implements NotificationRepository interface
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create creates a notification for one user
func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// CreateForAdmins fans a message out to every active admin
func (r *notificationRepository) CreateForAdmins(ctx context.Context, message string) error {
	var adminIDs []uint
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ? AND is_active = ?", domain.RoleAdmin, true).
		Pluck("id", &adminIDs).Error
	if err != nil {
		return err
	}

	if len(adminIDs) == 0 {
		return nil
	}

	notifications := make([]models.Notification, 0, len(adminIDs))
	for _, id := range adminIDs {
		notifications = append(notifications, models.Notification{
			UserID:  id,
			Message: message,
		})
	}

	return r.db.WithContext(ctx).Create(&notifications).Error
}

// ListByUser lists a user's notifications, newest first
func (r *notificationRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Notification, error) {
	var notifications []*models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(200).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// CountUnread counts a user's unread notifications
func (r *notificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Where("read_at IS NULL").
		Count(&count).Error
	return count, err
}

// MarkAllRead flips every unread notification for a user
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Where("read_at IS NULL").
		Update("read_at", &now).Error
}
