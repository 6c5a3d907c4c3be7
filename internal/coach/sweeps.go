package coach

import (
	"context"
	"fmt"
	"time"

	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/pkg/logger"
	"nutricoach-be/internal/repository/specification"
	"nutricoach-be/internal/repository/unitofwork"
	"nutricoach-be/pkg/clock"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	PassTrialExpiry      = "trial_expiry"
	PassInactivityStatus = "inactivity_status"
)

// SweepResult summarises a state-transition pass.
type SweepResult struct {
	Name       string `json:"name"`
	Updated    int    `json:"updated"`
	Unchanged  int    `json:"unchanged"`
	Failed     int    `json:"failed"`
	Total      int    `json:"total"`
	DurationMs int64  `json:"duration_ms"`
}

// Sweeper runs the member state transitions. Both passes are idempotent.
type Sweeper struct {
	uowFactory  unitofwork.RepositoryFactory
	settings    SettingsProvider
	entitlement *EntitlementResolver
	engine      *EligibilityEngine
	clock       clock.Clock
	logger      logger.ILogger
	tracer      trace.Tracer
	zoneOffset  int
	pageSize    int
}

func NewSweeper(
	uowFactory unitofwork.RepositoryFactory,
	settings SettingsProvider,
	entitlement *EntitlementResolver,
	engine *EligibilityEngine,
	clk clock.Clock,
	l logger.ILogger,
	zoneOffsetMinutes, pageSize int,
) *Sweeper {
	if clk == nil {
		clk = clock.System()
	}
	if pageSize <= 0 {
		pageSize = 200
	}
	return &Sweeper{
		uowFactory:  uowFactory,
		settings:    settings,
		entitlement: entitlement,
		engine:      engine,
		clock:       clk,
		logger:      l,
		tracer:      otel.Tracer(tracerName),
		zoneOffset:  zoneOffsetMinutes,
		pageSize:    pageSize,
	}
}

// ExpireTrials moves every member whose plan has expired (a lapsed trial or
// a finished course) onto the general member type and clears the expiry.
// Members already on the general type are never selected.
func (s *Sweeper) ExpireTrials(ctx context.Context) (*SweepResult, error) {
	ctx, span := s.tracer.Start(ctx, "coach.ExpireTrials")
	defer span.End()

	started := time.Now()
	now := s.clock.Now()
	result := &SweepResult{Name: PassTrialExpiry}

	setting, err := s.settings.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load system settings: %w", err)
	}
	if setting.GeneralMemberTypeId == nil {
		s.logger.Warn("COACH", "Trial expiry skipped: no general member type configured", nil)
		return result, nil
	}
	general := *setting.GeneralMemberTypeId

	generalType, err := s.settings.MemberType(ctx, general)
	if err != nil {
		return nil, fmt.Errorf("failed to load general member type: %w", err)
	}
	if generalType == nil {
		return nil, fmt.Errorf("%w: general %s", ErrMemberTypeNotFound, general)
	}

	err = s.eachMember(ctx, []specification.Specification{
		specification.HasMemberType{},
		specification.MemberTypeNot{ID: general},
	}, func(ctx context.Context, m *entity.Member) error {
		memberType, err := s.settings.MemberType(ctx, *m.MemberTypeId)
		if err != nil {
			result.Failed++
			return nil
		}
		if s.entitlement.Resolve(memberType, m.AiCoachExpireDate, now).Status != EntitlementExpired {
			result.Unchanged++
			return nil
		}

		changed, err := s.uowFactory.NewUnitOfWork(ctx).MemberRepository().ReassignType(ctx, m.Id, general, nil)
		switch {
		case err != nil:
			s.logger.Warn("COACH", "Failed to reassign expired member", map[string]interface{}{
				"member_id": m.Id.String(),
				"error":     err.Error(),
			})
			result.Failed++
		case changed:
			result.Updated++
		default:
			result.Unchanged++
		}
		return nil
	}, &result.Total)

	result.DurationMs = time.Since(started).Milliseconds()
	span.SetAttributes(attribute.Int("coach.updated", result.Updated), attribute.Int("coach.total", result.Total))
	s.logSweep(result)
	return result, err
}

// MarkInactiveMembers flips active members to inactive once they have gone
// their type's inactivity threshold without a qualifying action.
func (s *Sweeper) MarkInactiveMembers(ctx context.Context) (*SweepResult, error) {
	ctx, span := s.tracer.Start(ctx, "coach.MarkInactiveMembers")
	defer span.End()

	started := time.Now()
	now := s.clock.Now()
	result := &SweepResult{Name: PassInactivityStatus}

	// No threshold is under one day, so anyone active today is excluded up front.
	cutoff := clock.DayThreshold(now, s.zoneOffset, clock.StartOfToday)

	err := s.eachMember(ctx, []specification.Specification{
		specification.WithActivityStatus{Status: entity.ActivityStatusActive},
		specification.LastActiveBefore{Cutoff: cutoff},
	}, func(ctx context.Context, m *entity.Member) error {
		threshold := entity.DefaultInactiveDays
		if m.MemberTypeId != nil {
			memberType, err := s.settings.MemberType(ctx, *m.MemberTypeId)
			if err != nil {
				result.Failed++
				return nil
			}
			if memberType != nil {
				threshold = memberType.EffectiveInactiveDays()
			}
		}

		if s.engine.DaysSinceActive(m, now) < threshold {
			result.Unchanged++
			return nil
		}

		changed, err := s.uowFactory.NewUnitOfWork(ctx).MemberRepository().TransitionStatus(ctx, m.Id, entity.ActivityStatusActive, entity.ActivityStatusInactive)
		switch {
		case err != nil:
			s.logger.Warn("COACH", "Failed to mark member inactive", map[string]interface{}{
				"member_id": m.Id.String(),
				"error":     err.Error(),
			})
			result.Failed++
		case changed:
			result.Updated++
		default:
			result.Unchanged++
		}
		return nil
	}, &result.Total)

	result.DurationMs = time.Since(started).Milliseconds()
	span.SetAttributes(attribute.Int("coach.updated", result.Updated), attribute.Int("coach.total", result.Total))
	s.logSweep(result)
	return result, err
}

// eachMember pages through members matching specs by primary key and calls fn
// for each. Rows fn mutates out of the filter do not shift later pages.
func (s *Sweeper) eachMember(ctx context.Context, specs []specification.Specification, fn func(context.Context, *entity.Member) error, total *int) error {
	var afterID uuid.UUID
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page := append(append([]specification.Specification{}, specs...), specification.AfterID{ID: afterID, Limit: s.pageSize})
		members, err := s.uowFactory.NewUnitOfWork(ctx).MemberRepository().FindAll(ctx, page...)
		if err != nil {
			return fmt.Errorf("failed to load members: %w", err)
		}

		for _, m := range members {
			if err := ctx.Err(); err != nil {
				return err
			}
			*total++
			if err := fn(ctx, m); err != nil {
				return err
			}
		}

		if len(members) < s.pageSize {
			return nil
		}
		afterID = members[len(members)-1].Id
	}
}

func (s *Sweeper) logSweep(r *SweepResult) {
	s.logger.Info("COACH", "Sweep finished", map[string]interface{}{
		"name":        r.Name,
		"updated":     r.Updated,
		"unchanged":   r.Unchanged,
		"failed":      r.Failed,
		"total":       r.Total,
		"duration_ms": r.DurationMs,
	})
}
