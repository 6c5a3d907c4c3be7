// FILE: internal/service/meal_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"nutricoach-be/internal/coach"
	"nutricoach-be/internal/dto"
	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/pkg/logger"
	"nutricoach-be/internal/repository/specification"
	"nutricoach-be/internal/repository/unitofwork"
	"nutricoach-be/pkg/clock"
	"nutricoach-be/pkg/events"

	"github.com/google/uuid"
)

// ErrUsageLimitReached is returned when an AI-assisted log exceeds the daily quota.
var ErrUsageLimitReached = errors.New("daily usage limit reached")

// EventPublisher is the outbound event bus (NATS JetStream in production).
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IMealService interface {
	LogMeal(ctx context.Context, memberID uuid.UUID, req *dto.LogMealRequest) (*dto.MealResponse, error)
	LogExercise(ctx context.Context, memberID uuid.UUID, req *dto.LogExerciseRequest) error
	// RecordActivity marks the member active as of at and drops their cached recommendation.
	RecordActivity(ctx context.Context, memberID uuid.UUID, at time.Time) error
	// InvalidateRecommendation drops the cached recommendation synchronously.
	InvalidateRecommendation(ctx context.Context, memberID uuid.UUID) error
}

type mealService struct {
	uowFactory       unitofwork.RepositoryFactory
	usage            *coach.UsageChecker
	recommendations  *coach.RecommendationCache
	publisherService IPublisherService
	eventPublisher   EventPublisher
	clock            clock.Clock
	logger           logger.ILogger
}

func NewMealService(
	uowFactory unitofwork.RepositoryFactory,
	usage *coach.UsageChecker,
	recommendations *coach.RecommendationCache,
	publisherService IPublisherService,
	eventPublisher EventPublisher,
	clk clock.Clock,
	l logger.ILogger,
) IMealService {
	if clk == nil {
		clk = clock.System()
	}
	return &mealService{
		uowFactory:       uowFactory,
		usage:            usage,
		recommendations:  recommendations,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		clock:            clk,
		logger:           l,
	}
}

// LogMeal persists a meal. AI-analysed sources (photo, text) are metered by
// the usage checker first. Any logged meal counts as activity and
// invalidates today's recommendation.
func (s *mealService) LogMeal(ctx context.Context, memberID uuid.UUID, req *dto.LogMealRequest) (*dto.MealResponse, error) {
	if err := s.ensureMember(ctx, memberID); err != nil {
		return nil, err
	}

	source := entity.MealSource(req.Source)
	if kind, metered := limitKindFor(source); metered {
		if usage := s.usage.Check(ctx, memberID, kind); !usage.Allowed {
			return nil, ErrUsageLimitReached
		}
	}

	now := s.clock.Now()
	loggedAt := now
	if req.LoggedAt != nil {
		loggedAt = *req.LoggedAt
	}

	meal := &entity.MealLog{
		Id:       uuid.New(),
		MemberId: memberID,
		MealType: req.MealType,
		Name:     req.Name,
		Source:   source,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
		LoggedAt: loggedAt.UTC(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ActivityRepository().CreateMeal(ctx, meal); err != nil {
		return nil, fmt.Errorf("failed to log meal: %w", err)
	}

	if err := s.markActive(ctx, memberID, now); err != nil {
		return nil, err
	}
	s.initiateInvalidation(ctx, memberID, "meal_logged")

	if s.eventPublisher != nil {
		evt := events.NewMealLogged(memberID.String(), string(source), meal.LoggedAt)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("MEAL", "Failed to publish meal event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.MealResponse{
		Id:       meal.Id,
		MealType: meal.MealType,
		Name:     meal.Name,
		Source:   string(meal.Source),
		Calories: meal.Calories,
		LoggedAt: meal.LoggedAt,
	}, nil
}

func (s *mealService) LogExercise(ctx context.Context, memberID uuid.UUID, req *dto.LogExerciseRequest) error {
	if err := s.ensureMember(ctx, memberID); err != nil {
		return err
	}

	loggedAt := s.clock.Now()
	if req.LoggedAt != nil {
		loggedAt = *req.LoggedAt
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ActivityRepository().CreateExercise(ctx, &entity.ExerciseLog{
		Id:             uuid.New(),
		MemberId:       memberID,
		Activity:       req.Activity,
		DurationMin:    req.DurationMin,
		CaloriesBurned: req.CaloriesBurned,
		LoggedAt:       loggedAt.UTC(),
	})
}

func (s *mealService) RecordActivity(ctx context.Context, memberID uuid.UUID, at time.Time) error {
	if err := s.ensureMember(ctx, memberID); err != nil {
		return err
	}
	if err := s.markActive(ctx, memberID, at); err != nil {
		return err
	}
	s.initiateInvalidation(ctx, memberID, "external_meal")
	return nil
}

func (s *mealService) InvalidateRecommendation(ctx context.Context, memberID uuid.UUID) error {
	return s.recommendations.Invalidate(ctx, memberID)
}

func (s *mealService) markActive(ctx context.Context, memberID uuid.UUID, at time.Time) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MemberRepository().UpdateFields(ctx, memberID, map[string]interface{}{
		"activity_status": string(entity.ActivityStatusActive),
		"last_active_at":  at.UTC(),
	}); err != nil {
		return fmt.Errorf("failed to mark member active: %w", err)
	}
	return nil
}

// initiateInvalidation queues the invalidation without waiting for it. If the
// queue is unavailable it falls back to a synchronous delete.
func (s *mealService) initiateInvalidation(ctx context.Context, memberID uuid.UUID, reason string) {
	if s.publisherService != nil {
		payload, err := json.Marshal(dto.InvalidateRecommendationMessage{MemberId: memberID, Reason: reason})
		if err == nil {
			err = s.publisherService.Publish(context.WithoutCancel(ctx), payload)
		}
		if err == nil {
			return
		}
		s.logger.Warn("MEAL", "Invalidation queue unavailable, invalidating inline", map[string]interface{}{
			"member_id": memberID.String(),
			"error":     err.Error(),
		})
	}
	if err := s.recommendations.Invalidate(ctx, memberID); err != nil {
		s.logger.Warn("MEAL", "Failed to invalidate recommendation", map[string]interface{}{
			"member_id": memberID.String(),
			"error":     err.Error(),
		})
	}
}

func (s *mealService) ensureMember(ctx context.Context, memberID uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	member, err := uow.MemberRepository().FindOne(ctx, specification.ByID{ID: memberID})
	if err != nil {
		return err
	}
	if member == nil {
		return coach.ErrMemberNotFound
	}
	return nil
}

func limitKindFor(source entity.MealSource) (entity.LimitKind, bool) {
	switch source {
	case entity.MealSourcePhoto:
		return entity.LimitPhotoAnalysis, true
	case entity.MealSourceText:
		return entity.LimitTextAnalysis, true
	}
	return "", false
}
