package coach

import (
	"context"
	"fmt"
	"time"

	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/repository/unitofwork"
	"nutricoach-be/pkg/clock"
)

const (
	streakLookbackDays = 30
	recentOrderDays    = 7
	recentOrderLimit   = 5
)

type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

func (m Macros) minus(o Macros) Macros {
	return Macros{
		Calories: m.Calories - o.Calories,
		Protein:  m.Protein - o.Protein,
		Carbs:    m.Carbs - o.Carbs,
		Fat:      m.Fat - o.Fat,
	}
}

// Snapshot is a member's day so far. It feeds prompts and fallback templates
// and is stored with cached recommendations.
type Snapshot struct {
	MemberName string `json:"member_name"`
	LocalDate  string `json:"local_date"`
	LocalHour  int    `json:"local_hour"`

	MealsToday int      `json:"meals_today"`
	MealNames  []string `json:"meal_names,omitempty"`
	Consumed   Macros   `json:"consumed"`
	Targets    Macros   `json:"targets"`
	Remaining  Macros   `json:"remaining"`
	WaterMl    float64  `json:"water_target_ml"`

	StreakDays int `json:"streak_days"`

	ExercisesToday int        `json:"exercises_today"`
	CaloriesBurned float64    `json:"calories_burned"`
	LastExercise   string     `json:"last_exercise,omitempty"`
	LastExerciseAt *time.Time `json:"last_exercise_at,omitempty"`

	RecentOrders []string `json:"recent_orders,omitempty"`

	MembershipDays  int `json:"membership_days"`
	DaysSinceActive int `json:"days_since_active"`
}

type ContextGatherer struct {
	uowFactory unitofwork.RepositoryFactory
	zoneOffset int
}

func NewContextGatherer(uowFactory unitofwork.RepositoryFactory, zoneOffsetMinutes int) *ContextGatherer {
	return &ContextGatherer{uowFactory: uowFactory, zoneOffset: zoneOffsetMinutes}
}

func (g *ContextGatherer) Gather(ctx context.Context, member *entity.Member, now time.Time) (*Snapshot, error) {
	uow := g.uowFactory.NewUnitOfWork(ctx)
	activity := uow.ActivityRepository()

	startOfToday := clock.DayThreshold(now, g.zoneOffset, clock.StartOfToday)
	lookback := startOfToday.AddDate(0, 0, -streakLookbackDays)

	meals, err := activity.FindMealsSince(ctx, member.Id, lookback)
	if err != nil {
		return nil, fmt.Errorf("failed to load meals: %w", err)
	}
	exercises, err := activity.FindExercisesSince(ctx, member.Id, startOfToday)
	if err != nil {
		return nil, fmt.Errorf("failed to load exercises: %w", err)
	}
	orders, err := activity.FindRecentOrderItems(ctx, member.Id, now.AddDate(0, 0, -recentOrderDays), recentOrderLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	snap := &Snapshot{
		MemberName: member.DisplayName,
		LocalDate:  clock.LocalDate(now, g.zoneOffset),
		LocalHour:  clock.InZone(now, g.zoneOffset).Hour(),
		Targets: Macros{
			Calories: member.Targets.Calories,
			Protein:  member.Targets.Protein,
			Carbs:    member.Targets.Carbs,
			Fat:      member.Targets.Fat,
		},
		WaterMl:         member.Targets.WaterMl,
		MembershipDays:  clock.CalendarDaysBetween(member.CreatedAt, now, g.zoneOffset),
		DaysSinceActive: clock.CalendarDaysBetween(member.LastQualifyingAction(), now, g.zoneOffset),
	}

	loggedDays := make(map[string]bool)
	for _, meal := range meals {
		loggedDays[clock.LocalDate(meal.LoggedAt, g.zoneOffset)] = true
		if meal.LoggedAt.Before(startOfToday) {
			continue
		}
		snap.MealsToday++
		snap.MealNames = append(snap.MealNames, meal.Name)
		snap.Consumed.Calories += meal.Calories
		snap.Consumed.Protein += meal.Protein
		snap.Consumed.Carbs += meal.Carbs
		snap.Consumed.Fat += meal.Fat
	}
	snap.Remaining = snap.Targets.minus(snap.Consumed)
	snap.StreakDays = streak(loggedDays, now, g.zoneOffset)

	for _, ex := range exercises {
		snap.ExercisesToday++
		snap.CaloriesBurned += ex.CaloriesBurned
		if snap.LastExerciseAt == nil || ex.LoggedAt.After(*snap.LastExerciseAt) {
			at := ex.LoggedAt
			snap.LastExerciseAt = &at
			snap.LastExercise = ex.Activity
		}
	}

	for _, o := range orders {
		snap.RecentOrders = append(snap.RecentOrders, o.Name)
	}

	return snap, nil
}

// streak counts consecutive logged local days ending today, or ending
// yesterday when nothing is logged yet today.
func streak(loggedDays map[string]bool, now time.Time, zoneOffset int) int {
	day := clock.InZone(now, zoneOffset)
	if !loggedDays[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
	}
	n := 0
	for loggedDays[day.Format("2006-01-02")] {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}

// Facts loads the current-state inputs category needs for eligibility.
func (g *ContextGatherer) Facts(ctx context.Context, member *entity.Member, category entity.Category, now time.Time) (Facts, error) {
	var facts Facts
	if category != entity.CategoryPostExercise {
		return facts, nil
	}

	uow := g.uowFactory.NewUnitOfWork(ctx)
	exercises, err := uow.ActivityRepository().FindExercisesSince(ctx, member.Id, now.Add(-PostExerciseWindow))
	if err != nil {
		return facts, fmt.Errorf("failed to load exercises: %w", err)
	}
	for _, ex := range exercises {
		if facts.LastExerciseAt == nil || ex.LoggedAt.After(*facts.LastExerciseAt) {
			at := ex.LoggedAt
			facts.LastExerciseAt = &at
		}
	}
	return facts, nil
}
