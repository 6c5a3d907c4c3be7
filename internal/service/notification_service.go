// FILE: internal/service/notification_service.go
package service

import (
	"context"
	"time"

	"nutricoach-be/internal/dto"
	"nutricoach-be/internal/pkg/logger"
	"nutricoach-be/internal/repository/unitofwork"
	"nutricoach-be/pkg/events"
	pktNats "nutricoach-be/pkg/nats"

	"github.com/google/uuid"
)

const activityConsumerName = "coach-activity-worker"

// NotificationService exposes the coaching message history and listens on
// the event bus for meals recorded by other services.
type NotificationService struct {
	uowFactory  unitofwork.RepositoryFactory
	subscriber  *pktNats.Subscriber
	mealService IMealService
	logger      logger.ILogger
}

func NewNotificationService(uowFactory unitofwork.RepositoryFactory, sub *pktNats.Subscriber, mealService IMealService, log logger.ILogger) *NotificationService {
	return &NotificationService{
		uowFactory:  uowFactory,
		subscriber:  sub,
		mealService: mealService,
		logger:      log,
	}
}

// Start subscribes to MEAL_LOGGED with a durable consumer.
func (s *NotificationService) Start(ctx context.Context) {
	if s.subscriber == nil {
		return
	}
	if err := s.subscriber.Subscribe(ctx, events.TypeMealLogged, activityConsumerName, s.handleMealLogged); err != nil {
		s.logger.Error("NotificationService", "Failed to start activity subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("NotificationService", "Listening for MEAL_LOGGED events", nil)
}

func (s *NotificationService) handleMealLogged(ctx context.Context, event events.Event) error {
	// Our own meals were already handled when they were written.
	if events.StringField(event, "origin") == events.OriginCoach {
		return nil
	}

	memberID, err := uuid.Parse(events.StringField(event, "member_id"))
	if err != nil {
		s.logger.Warn("NotificationService", "MEAL_LOGGED without a valid member_id", map[string]interface{}{"payload": event.Payload()})
		return nil
	}

	at := event.Timestamp()
	if raw := events.StringField(event, "logged_at"); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			at = parsed
		}
	}

	if err := s.mealService.RecordActivity(ctx, memberID, at); err != nil {
		s.logger.Warn("NotificationService", "Failed to record external activity", map[string]interface{}{
			"member_id": memberID.String(),
			"error":     err.Error(),
		})
		return err
	}
	return nil
}

// GetNotifications pages through the coaching messages sent to a member.
func (s *NotificationService) GetNotifications(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]dto.CoachNotificationResponse, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, total, err := uow.NotificationRepository().GetNotificationsByMemberID(ctx, memberID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.CoachNotificationResponse, 0, len(rows))
	for _, n := range rows {
		out = append(out, dto.CoachNotificationResponse{
			Id:        n.ID,
			Category:  n.Category,
			Title:     n.Title,
			Message:   n.Message,
			Delivered: n.Delivered,
			CreatedAt: n.CreatedAt,
		})
	}
	return out, total, nil
}
