package repository

import (
	"context"

	"wapprove/internal/model"
	"wapprove/pkg/pagination"

	"gorm.io/gorm"
)

// NotificationFilter narrows List results.
type NotificationFilter struct {
	UserID    string
	RequestID string
	Page      int
	Limit     int
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	GetByID(ctx context.Context, id string) (*model.Notification, error)
	GetByMessageSID(ctx context.Context, sid string) (*model.Notification, error)
	List(ctx context.Context, filter NotificationFilter) ([]model.Notification, int64, error)
	ListUnsent(ctx context.Context, limit int) ([]model.Notification, error)
	Update(ctx context.Context, notification *model.Notification) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	return GetDB(ctx, r.db).Create(notification).Error
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*model.Notification, error) {
	var notification model.Notification
	err := GetDB(ctx, r.db).
		Preload("User").
		Preload("Request").
		First(&notification, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) GetByMessageSID(ctx context.Context, sid string) (*model.Notification, error) {
	var notification model.Notification
	err := GetDB(ctx, r.db).First(&notification, "message_sid = ?", sid).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) List(ctx context.Context, filter NotificationFilter) ([]model.Notification, int64, error) {
	query := GetDB(ctx, r.db).Model(&model.Notification{})

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.RequestID != "" {
		query = query.Where("request_id = ?", filter.RequestID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []model.Notification
	offset := pagination.Offset(filter.Page, filter.Limit)
	err := query.
		Preload("User").
		Preload("Request").
		Order("created_at DESC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

func (r *notificationRepository) ListUnsent(ctx context.Context, limit int) ([]model.Notification, error) {
	var notifications []model.Notification
	err := GetDB(ctx, r.db).
		Preload("User").
		Where("is_sent = ?", false).
		Order("created_at ASC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) Update(ctx context.Context, notification *model.Notification) error {
	return GetDB(ctx, r.db).Save(notification).Error
}
