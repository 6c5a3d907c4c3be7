package coach

import (
	"context"
	"fmt"

	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/pkg/logger"
	"nutricoach-be/internal/repository/specification"
	"nutricoach-be/internal/repository/unitofwork"
	"nutricoach-be/pkg/clock"

	"github.com/google/uuid"
)

// Unlimited is the Remaining value reported for a ceiling of 0.
const Unlimited = -1

type UsageResult struct {
	Kind      entity.LimitKind `json:"kind"`
	Allowed   bool             `json:"allowed"`
	Limit     int              `json:"limit"`
	Used      int              `json:"used"`
	Remaining int              `json:"remaining"`
	Unlimited bool             `json:"unlimited"`
}

// UsageChecker enforces daily quotas on AI actions. It fails open: any
// lookup error allows the action.
type UsageChecker struct {
	uowFactory      unitofwork.RepositoryFactory
	settings        SettingsProvider
	recommendations *RecommendationCache
	clock           clock.Clock
	logger          logger.ILogger
	zoneOffset      int
}

func NewUsageChecker(
	uowFactory unitofwork.RepositoryFactory,
	settings SettingsProvider,
	recommendations *RecommendationCache,
	clk clock.Clock,
	l logger.ILogger,
	zoneOffsetMinutes int,
) *UsageChecker {
	if clk == nil {
		clk = clock.System()
	}
	return &UsageChecker{
		uowFactory:      uowFactory,
		settings:        settings,
		recommendations: recommendations,
		clock:           clk,
		logger:          l,
		zoneOffset:      zoneOffsetMinutes,
	}
}

func (u *UsageChecker) Check(ctx context.Context, memberID uuid.UUID, kind entity.LimitKind) *UsageResult {
	result, err := u.check(ctx, memberID, kind)
	if err != nil {
		u.logger.Warn("USAGE", "Usage check failed, allowing", map[string]interface{}{
			"member_id": memberID.String(),
			"kind":      string(kind),
			"error":     err.Error(),
		})
		return &UsageResult{
			Kind:      kind,
			Allowed:   true,
			Limit:     entity.DefaultDailyLimit,
			Remaining: entity.DefaultDailyLimit,
		}
	}
	return result
}

func (u *UsageChecker) check(ctx context.Context, memberID uuid.UUID, kind entity.LimitKind) (*UsageResult, error) {
	member, err := u.uowFactory.NewUnitOfWork(ctx).MemberRepository().FindOne(ctx, specification.ByID{ID: memberID})
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}

	limit := entity.DefaultDailyLimit
	if member.MemberTypeId != nil {
		memberType, err := u.settings.MemberType(ctx, *member.MemberTypeId)
		if err != nil {
			return nil, err
		}
		if memberType != nil {
			limit = memberType.LimitFor(kind)
		}
	}

	if limit == 0 {
		return &UsageResult{Kind: kind, Allowed: true, Limit: 0, Remaining: Unlimited, Unlimited: true}, nil
	}

	used, err := u.countToday(ctx, memberID, kind)
	if err != nil {
		return nil, err
	}

	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return &UsageResult{
		Kind:      kind,
		Allowed:   used < limit,
		Limit:     limit,
		Used:      used,
		Remaining: remaining,
	}, nil
}

func (u *UsageChecker) countToday(ctx context.Context, memberID uuid.UUID, kind entity.LimitKind) (int, error) {
	var record entity.RecordKind
	switch kind {
	case entity.LimitPhotoAnalysis:
		record = entity.RecordPhotoMeal
	case entity.LimitTextAnalysis:
		record = entity.RecordTextMeal
	case entity.LimitScan:
		record = entity.RecordScan
	case entity.LimitRecommendation:
		return u.recommendations.TodayRequestCount(ctx, memberID)
	default:
		// No counting rule for this kind.
		return 0, nil
	}

	since := clock.DayThreshold(u.clock.Now(), u.zoneOffset, clock.StartOfToday)
	n, err := u.uowFactory.NewUnitOfWork(ctx).ActivityRepository().CountRecordsSince(ctx, memberID, record, since)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s records: %w", record, err)
	}
	return int(n), nil
}
