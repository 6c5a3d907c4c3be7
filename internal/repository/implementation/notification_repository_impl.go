package implementation

import (
	"context"

	"nutricoach-be/internal/model"
	"nutricoach-be/internal/repository/contract"
	"nutricoach-be/internal/repository/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) contract.NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) CreateNotification(ctx context.Context, notification *model.CoachNotification) error {
	notification.CreatedAt = notification.CreatedAt.UTC()
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *NotificationRepositoryImpl) GetNotificationsByMemberID(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]model.CoachNotification, int64, error) {
	var notifications []model.CoachNotification
	var total int64

	db := r.db.WithContext(ctx).Model(&model.CoachNotification{}).Scopes(scope.ForMember(memberID))

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Scopes(scope.OrderByCreatedDesc).
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error

	return notifications, total, err
}
