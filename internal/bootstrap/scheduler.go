package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"nutricoach-be/internal/coach"
	"nutricoach-be/internal/config"
	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/pkg/logger"
	"nutricoach-be/internal/service"
	"nutricoach-be/pkg/scheduler"
)

// NewCoachScheduler registers every batch pass on the in-process scheduler.
// It is the alternative to calling the internal batch endpoint from an
// external cron; run one or the other.
func NewCoachScheduler(cfg config.CoachConfig, coachService service.ICoachService, l logger.ILogger) (*scheduler.Scheduler, error) {
	s := scheduler.New(cfg.ZoneOffsetMinutes, l)

	if err := s.Every("meal_times", cfg.SchedulerTick, runCategories(coachService, l,
		entity.CategoryMorning,
		entity.CategoryLunch,
		entity.CategoryDinner,
		entity.CategoryEvening,
	)); err != nil {
		return nil, err
	}
	if err := s.Every("post_exercise", cfg.ExerciseTick, runCategories(coachService, l, entity.CategoryPostExercise)); err != nil {
		return nil, err
	}

	daily := []struct {
		name string
		at   string
		task scheduler.Task
	}{
		{"water", cfg.WaterAt, runCategories(coachService, l, entity.CategoryWater)},
		{"progress_photo", cfg.PhotoAt, runCategories(coachService, l, entity.CategoryProgressPhoto)},
		{"milestone", cfg.MilestoneAt, runCategories(coachService, l, entity.CategoryMilestone)},
		{"inactive", cfg.InactiveAt, func(ctx context.Context) error {
			// Status flips only after the nudge went out.
			if err := runCategories(coachService, l, entity.CategoryInactive)(ctx); err != nil {
				return err
			}
			return runPass(ctx, coachService, l, coach.PassInactivityStatus)
		}},
		{"trial_expiry", cfg.SweepAt, func(ctx context.Context) error {
			return runPass(ctx, coachService, l, coach.PassTrialExpiry)
		}},
	}
	for _, d := range daily {
		if err := s.DailyAt(d.name, d.at, d.task); err != nil {
			return nil, err
		}
	}

	if err := s.WeeklyAt("weekly", cfg.WeeklyDay, cfg.WeeklyAt, runCategories(coachService, l, entity.CategoryWeekly)); err != nil {
		return nil, err
	}

	return s, nil
}

func runCategories(coachService service.ICoachService, l logger.ILogger, categories ...entity.Category) scheduler.Task {
	return func(ctx context.Context) error {
		var errs []error
		for _, category := range categories {
			if err := runPass(ctx, coachService, l, string(category)); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}

func runPass(ctx context.Context, coachService service.ICoachService, l logger.ILogger, pass string) error {
	res, err := coachService.RunPass(ctx, pass)
	if err != nil {
		return fmt.Errorf("pass %s: %w", pass, err)
	}
	l.Debug("SCHEDULER", "Pass finished", map[string]interface{}{"pass": pass, "result": res})
	return nil
}
