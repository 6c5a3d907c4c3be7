// Package scheduler runs recurring tasks on local wall-clock boundaries of a
// fixed-offset zone. It is an in-process stand-in for the external cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"nutricoach-be/internal/pkg/logger"
	"nutricoach-be/pkg/clock"

	"github.com/robfig/cron/v3"
)

// Task is one unit of scheduled work.
type Task func(ctx context.Context) error

type Scheduler struct {
	cron    *cron.Cron
	loc     *time.Location
	logger  logger.ILogger
	names   []string
	entries map[string]cron.EntryID

	ctx     context.Context
	started bool
	done    chan struct{}
}

func New(zoneOffsetMinutes int, l logger.ILogger) *Scheduler {
	loc := clock.Zone(zoneOffsetMinutes)
	cl := cronLogger{logger: l}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		loc:     loc,
		logger:  l,
		entries: make(map[string]cron.EntryID),
		ctx:     context.Background(),
		done:    make(chan struct{}),
	}
}

// Names lists the registered jobs in registration order.
func (s *Scheduler) Names() []string {
	return append([]string(nil), s.names...)
}

// Next reports when the named job fires first after t.
func (s *Scheduler) Next(name string, t time.Time) (time.Time, bool) {
	id, ok := s.entries[name]
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(id).Schedule.Next(t.In(s.loc)), true
}

// Every runs task at local multiples of interval. Intervals that divide an
// hour or a day are aligned to the local clock; anything else runs at a
// fixed delay from Start.
func (s *Scheduler) Every(name string, interval time.Duration, task Task) error {
	return s.add(name, everySpec(interval), task)
}

// DailyAt runs task once a day at a local "HH:MM".
func (s *Scheduler) DailyAt(name, hhmm string, task Task) error {
	minute, ok := clock.ParseHHMM(hhmm)
	if !ok {
		return fmt.Errorf("scheduler: invalid time %q for %s", hhmm, name)
	}
	return s.add(name, fmt.Sprintf("%d %d * * *", minute%60, minute/60), task)
}

// WeeklyAt runs task once a week on a local weekday and "HH:MM".
func (s *Scheduler) WeeklyAt(name string, day time.Weekday, hhmm string, task Task) error {
	minute, ok := clock.ParseHHMM(hhmm)
	if !ok {
		return fmt.Errorf("scheduler: invalid time %q for %s", hhmm, name)
	}
	return s.add(name, fmt.Sprintf("%d %d * * %d", minute%60, minute/60, int(day)), task)
}

// Start runs the jobs until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = ctx
	s.started = true
	s.cron.Start()
	s.logger.Info("SCHEDULER", "Scheduler started", map[string]interface{}{"jobs": len(s.names)})

	go func() {
		<-ctx.Done()
		<-s.cron.Stop().Done()
		close(s.done)
	}()
}

// Wait blocks until the scheduler stopped and running jobs returned.
func (s *Scheduler) Wait() {
	if !s.started {
		return
	}
	<-s.done
}

func (s *Scheduler) add(name, spec string, task Task) error {
	if _, dup := s.entries[name]; dup {
		return fmt.Errorf("scheduler: duplicate job %s", name)
	}
	id, err := s.cron.AddJob(spec, cron.FuncJob(func() { s.fire(name, task) }))
	if err != nil {
		return fmt.Errorf("scheduler: invalid schedule %q for %s: %w", spec, name, err)
	}
	s.entries[name] = id
	s.names = append(s.names, name)
	return nil
}

func (s *Scheduler) fire(name string, task Task) {
	start := time.Now()
	if err := task(s.ctx); err != nil {
		s.logger.Error("SCHEDULER", "Scheduled task failed", map[string]interface{}{
			"job":   name,
			"error": err.Error(),
		})
		return
	}
	s.logger.Debug("SCHEDULER", "Scheduled task finished", map[string]interface{}{
		"job":         name,
		"duration_ms": time.Since(start).Milliseconds(),
	})
}

func everySpec(interval time.Duration) string {
	if interval <= 0 {
		interval = time.Hour
	}
	switch {
	case interval%time.Hour == 0 && 24%int(interval/time.Hour) == 0:
		hours := int(interval / time.Hour)
		if hours == 1 {
			return "0 * * * *"
		}
		if hours == 24 {
			return "0 0 * * *"
		}
		return fmt.Sprintf("0 */%d * * *", hours)
	case interval < time.Hour && interval%time.Minute == 0 && 60%int(interval/time.Minute) == 0:
		return fmt.Sprintf("*/%d * * * *", int(interval/time.Minute))
	}
	return "@every " + interval.String()
}

// cronLogger routes the cron runtime's own messages (including recovered
// panics) into the service logger.
type cronLogger struct {
	logger logger.ILogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.logger.Debug("SCHEDULER", msg, fields(keysAndValues))
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	details := fields(keysAndValues)
	details["error"] = fmt.Sprint(err)
	c.logger.Error("SCHEDULER", msg, details)
}

func fields(keysAndValues []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(keysAndValues)/2+1)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return out
}
