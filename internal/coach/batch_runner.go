package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/model"
	"nutricoach-be/internal/pkg/logger"
	"nutricoach-be/internal/repository/specification"
	"nutricoach-be/internal/repository/unitofwork"
	"nutricoach-be/pkg/clock"
	"nutricoach-be/pkg/messaging"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const tracerName = "nutricoach-be/internal/coach"

// BatchStats summarises one pass over the member set.
type BatchStats struct {
	Category    string         `json:"category"`
	Sent        int            `json:"sent"`
	Skipped     int            `json:"skipped"`
	Failed      int            `json:"failed"`
	Total       int            `json:"total"`
	SkipReasons map[Reason]int `json:"skip_reasons,omitempty"`
	DurationMs  int64          `json:"duration_ms"`
	Cancelled   bool           `json:"cancelled,omitempty"`
}

type BatchConfig struct {
	ZoneOffsetMinutes int
	Workers           int
	PageSize          int
	// SendDelay spaces sends across all workers.
	SendDelay     time.Duration
	MemberTimeout time.Duration
	SendTimeout   time.Duration
}

func (c BatchConfig) withDefaults() BatchConfig {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.PageSize <= 0 {
		c.PageSize = 200
	}
	if c.MemberTimeout <= 0 {
		c.MemberTimeout = 45 * time.Second
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = 10 * time.Second
	}
	return c
}

type BatchRunner struct {
	uowFactory unitofwork.RepositoryFactory
	settings   SettingsProvider
	engine     *EligibilityEngine
	gatherer   *ContextGatherer
	generator  *MessageGenerator
	sender     messaging.Sender
	guard      SendGuard
	clock      clock.Clock
	logger     logger.ILogger
	trail      logger.ILogger
	tracer     trace.Tracer
	cfg        BatchConfig
}

type BatchRunnerDeps struct {
	UowFactory unitofwork.RepositoryFactory
	Settings   SettingsProvider
	Engine     *EligibilityEngine
	Gatherer   *ContextGatherer
	Generator  *MessageGenerator
	Sender     messaging.Sender
	// Guard is optional. Without it overlapping passes may send twice.
	Guard  SendGuard
	Clock  clock.Clock
	Logger logger.ILogger
	// Trail receives the per-member delivery log. Defaults to Logger.
	Trail logger.ILogger
}

func NewBatchRunner(deps BatchRunnerDeps, cfg BatchConfig) *BatchRunner {
	if deps.Clock == nil {
		deps.Clock = clock.System()
	}
	if deps.Trail == nil {
		deps.Trail = deps.Logger
	}
	return &BatchRunner{
		uowFactory: deps.UowFactory,
		settings:   deps.Settings,
		engine:     deps.Engine,
		gatherer:   deps.Gatherer,
		generator:  deps.Generator,
		sender:     deps.Sender,
		guard:      deps.Guard,
		clock:      deps.Clock,
		logger:     deps.Logger,
		trail:      deps.Trail,
		tracer:     otel.Tracer(tracerName),
		cfg:        cfg.withDefaults(),
	}
}

type memberOutcome struct {
	sent   bool
	failed bool
	reason Reason
}

// RunBatch sends category to every eligible member. A member's failure is
// counted and never stops the pass; cancelling ctx stops new members from
// being started while in-flight ones finish or abort.
func (r *BatchRunner) RunBatch(ctx context.Context, category entity.Category) (*BatchStats, error) {
	if _, ok := entity.ParseCategory(string(category)); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}

	ctx, span := r.tracer.Start(ctx, "coach.RunBatch", trace.WithAttributes(attribute.String("coach.category", string(category))))
	defer span.End()

	started := time.Now()
	now := r.clock.Now()
	day := clock.LocalDate(now, r.cfg.ZoneOffsetMinutes)

	setting, err := r.settings.Settings(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load settings")
		return nil, fmt.Errorf("failed to load system settings: %w", err)
	}

	stats := &BatchStats{Category: string(category), SkipReasons: make(map[Reason]int)}
	var mu sync.Mutex
	record := func(o memberOutcome) {
		mu.Lock()
		defer mu.Unlock()
		stats.Total++
		switch {
		case o.sent:
			stats.Sent++
		case o.failed:
			stats.Failed++
		default:
			stats.Skipped++
			stats.SkipReasons[o.reason]++
		}
	}

	var limiter *rate.Limiter
	if r.cfg.SendDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(r.cfg.SendDelay), 1)
	}

	var g errgroup.Group
	g.SetLimit(r.cfg.Workers)

	var pageErr error
	var afterID uuid.UUID
pages:
	for {
		if ctx.Err() != nil {
			break
		}

		uow := r.uowFactory.NewUnitOfWork(ctx)
		members, err := uow.MemberRepository().FindAll(ctx,
			specification.WithActivityStatus{Status: entity.ActivityStatusActive},
			specification.HasMemberType{},
			specification.AfterID{ID: afterID, Limit: r.cfg.PageSize},
		)
		if err != nil {
			pageErr = fmt.Errorf("failed to load members: %w", err)
			break
		}

		for _, m := range members {
			if ctx.Err() != nil {
				break pages
			}
			member := m
			g.Go(func() error {
				record(r.processMember(ctx, member, category, setting, now, day, limiter))
				return nil
			})
		}

		if len(members) < r.cfg.PageSize {
			break
		}
		afterID = members[len(members)-1].Id
	}

	_ = g.Wait()

	stats.Cancelled = ctx.Err() != nil
	stats.DurationMs = time.Since(started).Milliseconds()

	span.SetAttributes(
		attribute.Int("coach.sent", stats.Sent),
		attribute.Int("coach.skipped", stats.Skipped),
		attribute.Int("coach.failed", stats.Failed),
		attribute.Int("coach.total", stats.Total),
	)

	r.logger.Info("COACH", "Batch pass finished", map[string]interface{}{
		"category":     stats.Category,
		"sent":         stats.Sent,
		"skipped":      stats.Skipped,
		"failed":       stats.Failed,
		"total":        stats.Total,
		"skip_reasons": reasonSummary(stats.SkipReasons),
		"duration_ms":  stats.DurationMs,
		"cancelled":    stats.Cancelled,
	})

	if pageErr != nil {
		span.RecordError(pageErr)
		span.SetStatus(codes.Error, "load members")
		return stats, pageErr
	}
	return stats, nil
}

func (r *BatchRunner) processMember(
	ctx context.Context,
	member *entity.Member,
	category entity.Category,
	setting *entity.SystemSetting,
	now time.Time,
	day string,
	limiter *rate.Limiter,
) (outcome memberOutcome) {
	started := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			outcome = memberOutcome{failed: true}
			r.logger.Error("COACH", "Panic while processing member", map[string]interface{}{
				"member_id": member.Id.String(),
				"category":  string(category),
				"error":     fmt.Sprint(rec),
			})
		}
		r.trail.Debug("COACH", "Member processed", map[string]interface{}{
			"member_id":   member.Id.String(),
			"category":    string(category),
			"sent":        outcome.sent,
			"failed":      outcome.failed,
			"reason":      string(outcome.reason),
			"duration_ms": time.Since(started).Milliseconds(),
		})
	}()

	ctx, cancel := context.WithTimeout(ctx, r.cfg.MemberTimeout)
	defer cancel()

	fail := func(step string, err error) memberOutcome {
		r.logger.Warn("COACH", "Member failed", map[string]interface{}{
			"member_id": member.Id.String(),
			"category":  string(category),
			"step":      step,
			"error":     err.Error(),
		})
		return memberOutcome{failed: true}
	}

	memberType, err := r.settings.MemberType(ctx, *member.MemberTypeId)
	if err != nil {
		return fail("member_type", err)
	}
	if memberType == nil {
		return memberOutcome{reason: ReasonMemberTypeNotFound}
	}

	facts, err := r.gatherer.Facts(ctx, member, category, now)
	if err != nil {
		return fail("facts", err)
	}

	decision := r.engine.Evaluate(member, memberType, setting, category, now, facts)
	if !decision.Send {
		return memberOutcome{reason: decision.Reason}
	}
	// Batch passes are automatic sends; a meal-time category without a
	// configured time never auto-fires.
	if category.IsTimeScheduled() && memberType.ScheduleFor(category) == "" {
		return memberOutcome{reason: ReasonNoSchedule}
	}

	claimed := false
	if r.guard != nil {
		ok, err := r.guard.Acquire(ctx, member.Id, string(category), day)
		switch {
		case err != nil:
			// Guard outage degrades to unguarded sending.
			r.logger.Warn("COACH", "Send guard unavailable", map[string]interface{}{"error": err.Error()})
		case !ok:
			return memberOutcome{reason: ReasonAlreadySent}
		default:
			claimed = true
		}
	}
	release := func() {
		if claimed {
			if err := r.guard.Release(context.WithoutCancel(ctx), member.Id, string(category), day); err != nil {
				r.logger.Warn("COACH", "Failed to release send slot", map[string]interface{}{"error": err.Error()})
			}
		}
	}

	snap, err := r.gatherer.Gather(ctx, member, now)
	if err != nil {
		release()
		return fail("gather", err)
	}

	generated := r.generator.Generate(ctx, category, snap)

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			release()
			return fail("rate_limit", err)
		}
	}

	sendCtx, sendCancel := context.WithTimeout(ctx, r.cfg.SendTimeout)
	sendErr := r.sender.Send(sendCtx, member.ExternalId, generated.Message)
	sendCancel()

	r.recordHistory(ctx, member, generated, sendErr == nil)

	if sendErr != nil {
		release()
		return fail("send", sendErr)
	}
	return memberOutcome{sent: true}
}

func (r *BatchRunner) recordHistory(ctx context.Context, member *entity.Member, generated Generated, delivered bool) {
	metadata, err := json.Marshal(map[string]interface{}{
		"from_ai": generated.FromAI,
	})
	if err != nil {
		r.logger.Warn("COACH", "Failed to encode notification metadata", map[string]interface{}{
			"member_id": member.Id.String(),
			"error":     err.Error(),
		})
		metadata = nil
	}
	notification := &model.CoachNotification{
		MemberID:  member.Id,
		Category:  generated.Message.Category,
		Title:     generated.Message.Title,
		Message:   generated.Message.Body,
		Metadata:  metadata,
		Delivered: delivered,
		CreatedAt: r.clock.Now(),
	}
	uow := r.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NotificationRepository().CreateNotification(context.WithoutCancel(ctx), notification); err != nil {
		r.logger.Warn("COACH", "Failed to record notification history", map[string]interface{}{
			"member_id": member.Id.String(),
			"error":     err.Error(),
		})
	}
}

func reasonSummary(reasons map[Reason]int) map[string]int {
	out := make(map[string]int, len(reasons))
	for k, v := range reasons {
		out[string(k)] = v
	}
	return out
}
