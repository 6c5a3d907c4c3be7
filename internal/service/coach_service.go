// FILE: internal/service/coach_service.go
package service

import (
	"context"
	"fmt"

	"nutricoach-be/internal/coach"
	"nutricoach-be/internal/dto"
	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// ICoachService is the entry point for scheduled passes and member-facing
// AI features.
type ICoachService interface {
	// RunPass runs a notification category or one of the named sweeps.
	RunPass(ctx context.Context, pass string) (*dto.PassResponse, error)
	RunBatch(ctx context.Context, category entity.Category) (*coach.BatchStats, error)
	ExpireTrials(ctx context.Context) (*coach.SweepResult, error)
	MarkInactiveMembers(ctx context.Context) (*coach.SweepResult, error)

	GetRecommendation(ctx context.Context, memberID uuid.UUID, forceRefresh bool) (*coach.RecommendationResult, error)
	InvalidateRecommendation(ctx context.Context, memberID uuid.UUID) error
	CheckUsage(ctx context.Context, memberID uuid.UUID, kind entity.LimitKind) *coach.UsageResult
}

type coachService struct {
	runner          *coach.BatchRunner
	sweeper         *coach.Sweeper
	recommendations *coach.RecommendationCache
	usage           *coach.UsageChecker
	logger          logger.ILogger
}

func NewCoachService(
	runner *coach.BatchRunner,
	sweeper *coach.Sweeper,
	recommendations *coach.RecommendationCache,
	usage *coach.UsageChecker,
	l logger.ILogger,
) ICoachService {
	return &coachService{
		runner:          runner,
		sweeper:         sweeper,
		recommendations: recommendations,
		usage:           usage,
		logger:          l,
	}
}

func (s *coachService) RunPass(ctx context.Context, pass string) (*dto.PassResponse, error) {
	switch pass {
	case coach.PassTrialExpiry:
		res, err := s.sweeper.ExpireTrials(ctx)
		if err != nil {
			return nil, err
		}
		return &dto.PassResponse{Pass: pass, Sweep: res}, nil
	case coach.PassInactivityStatus:
		res, err := s.sweeper.MarkInactiveMembers(ctx)
		if err != nil {
			return nil, err
		}
		return &dto.PassResponse{Pass: pass, Sweep: res}, nil
	}

	category, ok := entity.ParseCategory(pass)
	if !ok {
		return nil, fmt.Errorf("%w: %q", coach.ErrUnknownCategory, pass)
	}
	stats, err := s.runner.RunBatch(ctx, category)
	if err != nil {
		return nil, err
	}
	return &dto.PassResponse{Pass: pass, Batch: stats}, nil
}

func (s *coachService) RunBatch(ctx context.Context, category entity.Category) (*coach.BatchStats, error) {
	return s.runner.RunBatch(ctx, category)
}

func (s *coachService) ExpireTrials(ctx context.Context) (*coach.SweepResult, error) {
	return s.sweeper.ExpireTrials(ctx)
}

func (s *coachService) MarkInactiveMembers(ctx context.Context) (*coach.SweepResult, error) {
	return s.sweeper.MarkInactiveMembers(ctx)
}

// GetRecommendation serves today's recommendation. A forced refresh spends
// the member type's recommendation quota; once it is used up the cached
// message comes back flagged as rate limited.
func (s *coachService) GetRecommendation(ctx context.Context, memberID uuid.UUID, forceRefresh bool) (*coach.RecommendationResult, error) {
	if !forceRefresh {
		return s.recommendations.Get(ctx, memberID, false)
	}

	usage := s.usage.Check(ctx, memberID, entity.LimitRecommendation)
	if usage.Allowed {
		return s.recommendations.Get(ctx, memberID, true)
	}

	res, err := s.recommendations.Get(ctx, memberID, false)
	if err != nil {
		return nil, err
	}
	s.logger.Info("COACH", "Recommendation quota reached", map[string]interface{}{
		"member_id": memberID.String(),
		"limit":     usage.Limit,
		"used":      usage.Used,
	})
	res.RateLimited = true
	return res, nil
}

func (s *coachService) InvalidateRecommendation(ctx context.Context, memberID uuid.UUID) error {
	return s.recommendations.Invalidate(ctx, memberID)
}

func (s *coachService) CheckUsage(ctx context.Context, memberID uuid.UUID, kind entity.LimitKind) *coach.UsageResult {
	return s.usage.Check(ctx, memberID, kind)
}
