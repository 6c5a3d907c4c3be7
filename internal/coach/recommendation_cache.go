package coach

import (
	"context"
	"encoding/json"
	"fmt"

	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/pkg/logger"
	"nutricoach-be/internal/repository/specification"
	"nutricoach-be/internal/repository/unitofwork"
	"nutricoach-be/pkg/clock"

	"github.com/google/uuid"
)

// DailyRecommendationLimit caps regenerations per member per local day.
const DailyRecommendationLimit = 10

type RecommendationResult struct {
	Message      string `json:"message"`
	Cached       bool   `json:"cached"`
	RateLimited  bool   `json:"rate_limited"`
	RequestCount int    `json:"request_count"`
}

// RecommendationCache keeps one recommendation per member, valid for the
// local calendar day it was generated on.
type RecommendationCache struct {
	uowFactory unitofwork.RepositoryFactory
	gatherer   *ContextGatherer
	generator  *MessageGenerator
	clock      clock.Clock
	logger     logger.ILogger
	zoneOffset int
}

func NewRecommendationCache(
	uowFactory unitofwork.RepositoryFactory,
	gatherer *ContextGatherer,
	generator *MessageGenerator,
	clk clock.Clock,
	l logger.ILogger,
	zoneOffsetMinutes int,
) *RecommendationCache {
	if clk == nil {
		clk = clock.System()
	}
	return &RecommendationCache{
		uowFactory: uowFactory,
		gatherer:   gatherer,
		generator:  generator,
		clock:      clk,
		logger:     l,
		zoneOffset: zoneOffsetMinutes,
	}
}

// Get returns today's recommendation, generating one when the cached row is
// stale, missing or forceRefresh is set. Generation problems yield a fallback
// message that is not stored; only an unknown member is an error.
func (c *RecommendationCache) Get(ctx context.Context, memberID uuid.UUID, forceRefresh bool) (*RecommendationResult, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	member, err := uow.MemberRepository().FindOne(ctx, specification.ByID{ID: memberID})
	if err != nil {
		c.logger.Warn("RECOMMENDATION", "Failed to load member", map[string]interface{}{
			"member_id": memberID.String(),
			"error":     err.Error(),
		})
		return c.fallback(), nil
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}

	now := c.clock.Now()
	today := clock.LocalDate(now, c.zoneOffset)

	row, err := uow.RecommendationRepository().FindByMember(ctx, memberID)
	if err != nil {
		c.logger.Warn("RECOMMENDATION", "Failed to read cached recommendation", map[string]interface{}{
			"member_id": memberID.String(),
			"error":     err.Error(),
		})
		row = nil
	}

	fresh := row != nil && row.Date == today
	if fresh && !forceRefresh {
		return &RecommendationResult{Message: row.Message, Cached: true, RequestCount: row.RequestCount}, nil
	}
	if fresh && row.RequestCount >= DailyRecommendationLimit {
		return &RecommendationResult{Message: row.Message, Cached: true, RateLimited: true, RequestCount: row.RequestCount}, nil
	}

	snap, err := c.gatherer.Gather(ctx, member, now)
	if err != nil {
		c.logger.Warn("RECOMMENDATION", "Failed to gather context", map[string]interface{}{
			"member_id": memberID.String(),
			"error":     err.Error(),
		})
		return c.fallback(), nil
	}

	message, err := c.generator.Recommend(ctx, snap)
	if err != nil {
		c.logger.Warn("RECOMMENDATION", "Generation failed, using fallback", map[string]interface{}{
			"member_id": memberID.String(),
			"error":     err.Error(),
		})
		return c.fallback(), nil
	}

	count := 1
	if fresh {
		count = row.RequestCount + 1
	}

	snapshot, err := json.Marshal(snap)
	if err != nil {
		c.logger.Warn("RECOMMENDATION", "Failed to encode context snapshot", map[string]interface{}{
			"member_id": memberID.String(),
			"error":     err.Error(),
		})
		snapshot = []byte("{}")
	}
	rec := &entity.AiRecommendation{
		MemberId:     memberID,
		Date:         today,
		Message:      message,
		Context:      snapshot,
		RequestCount: count,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.RecommendationRepository().Upsert(ctx, rec); err != nil {
		c.logger.Warn("RECOMMENDATION", "Failed to store recommendation", map[string]interface{}{
			"member_id": memberID.String(),
			"error":     err.Error(),
		})
	}

	return &RecommendationResult{Message: message, Cached: false, RequestCount: count}, nil
}

// Invalidate drops the member's cached row so the next Get regenerates.
func (c *RecommendationCache) Invalidate(ctx context.Context, memberID uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.RecommendationRepository().DeleteByMember(ctx, memberID); err != nil {
		return fmt.Errorf("failed to invalidate recommendation: %w", err)
	}
	return nil
}

// TodayRequestCount returns how many recommendations the member generated today.
func (c *RecommendationCache) TodayRequestCount(ctx context.Context, memberID uuid.UUID) (int, error) {
	row, err := c.uowFactory.NewUnitOfWork(ctx).RecommendationRepository().FindByMember(ctx, memberID)
	if err != nil {
		return 0, err
	}
	if row == nil || row.Date != clock.LocalDate(c.clock.Now(), c.zoneOffset) {
		return 0, nil
	}
	return row.RequestCount, nil
}

func (c *RecommendationCache) fallback() *RecommendationResult {
	return &RecommendationResult{Message: c.generator.FallbackRecommendation()}
}
