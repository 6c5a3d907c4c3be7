package contract

import (
	"context"

	"nutricoach-be/internal/model"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *model.CoachNotification) error
	GetNotificationsByMemberID(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]model.CoachNotification, int64, error)
}
