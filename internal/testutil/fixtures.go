package testutil

import (
	"fmt"
	"testing"
	"time"

	"nutricoach-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func IntPtr(v int) *int { return &v }

func TimePtr(t time.Time) *time.Time {
	u := t.UTC()
	return &u
}

// TestMemberType creates an active member type with every category
// switched on and no schedule times.
func TestMemberType(t *testing.T, db *gorm.DB, opts ...func(*model.MemberType)) *model.MemberType {
	t.Helper()

	mt := &model.MemberType{
		Name:                 fmt.Sprintf("type_%d", time.Now().UnixNano()%100000),
		CourseDuration:       30,
		WeeklyEnabled:        true,
		WaterEnabled:         true,
		ProgressPhotoEnabled: true,
		PostExerciseEnabled:  true,
		IsActive:             true,
	}

	for _, opt := range opts {
		opt(mt)
	}

	if err := db.Create(mt).Error; err != nil {
		t.Fatalf("Failed to create test member type: %v", err)
	}

	return mt
}

func WithTypeName(name string) func(*model.MemberType) {
	return func(mt *model.MemberType) {
		mt.Name = name
	}
}

func WithCourseDuration(days int) func(*model.MemberType) {
	return func(mt *model.MemberType) {
		mt.CourseDuration = days
	}
}

func WithLimits(photo, text, recommendation, scan *int) func(*model.MemberType) {
	return func(mt *model.MemberType) {
		mt.PhotoAnalysisLimit = photo
		mt.TextAnalysisLimit = text
		mt.RecommendationLimit = recommendation
		mt.ScanLimit = scan
	}
}

func WithSchedule(morning, lunch, dinner, evening string) func(*model.MemberType) {
	return func(mt *model.MemberType) {
		mt.MorningTime = morning
		mt.LunchTime = lunch
		mt.DinnerTime = dinner
		mt.EveningTime = evening
	}
}

func WithDefaultType() func(*model.MemberType) {
	return func(mt *model.MemberType) {
		mt.IsDefault = true
	}
}

// TestMember creates an active, opted-in member on the given type.
func TestMember(t *testing.T, db *gorm.DB, memberTypeID *uuid.UUID, opts ...func(*model.Member)) *model.Member {
	t.Helper()

	m := &model.Member{
		ExternalId:          fmt.Sprintf("ext_%s", uuid.NewString()[:8]),
		DisplayName:         "Test Member",
		ActivityStatus:      "active",
		MemberTypeId:        memberTypeID,
		NotifyMorning:       true,
		NotifyLunch:         true,
		NotifyDinner:        true,
		NotifyEvening:       true,
		NotifyWeekly:        true,
		NotifyWater:         true,
		NotifyProgressPhoto: true,
		NotifyPostExercise:  true,
		TargetCalories:      2000,
		TargetProtein:       120,
		TargetCarbs:         250,
		TargetFat:           70,
		TargetWaterMl:       2000,
	}

	for _, opt := range opts {
		opt(m)
	}

	if err := db.Create(m).Error; err != nil {
		t.Fatalf("Failed to create test member: %v", err)
	}

	return m
}

func WithExternalID(id string) func(*model.Member) {
	return func(m *model.Member) {
		m.ExternalId = id
	}
}

func WithExpireDate(at time.Time) func(*model.Member) {
	return func(m *model.Member) {
		m.AiCoachExpireDate = TimePtr(at)
	}
}

func WithCreatedAt(at time.Time) func(*model.Member) {
	return func(m *model.Member) {
		m.CreatedAt = at.UTC()
	}
}

func WithLastActiveAt(at time.Time) func(*model.Member) {
	return func(m *model.Member) {
		m.LastActiveAt = TimePtr(at)
	}
}

func WithStatus(status string) func(*model.Member) {
	return func(m *model.Member) {
		m.ActivityStatus = status
	}
}

func WithPausedUntil(at time.Time) func(*model.Member) {
	return func(m *model.Member) {
		m.NotificationsPausedUntil = TimePtr(at)
	}
}

func WithMorningOptOut() func(*model.Member) {
	return func(m *model.Member) {
		m.NotifyMorning = false
	}
}

// TestSystemSetting writes the singleton row.
func TestSystemSetting(t *testing.T, db *gorm.DB, opts ...func(*model.SystemSetting)) *model.SystemSetting {
	t.Helper()

	s := &model.SystemSetting{
		Id:             1,
		TrialDays:      7,
		AiCoachEnabled: true,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := db.Save(s).Error; err != nil {
		t.Fatalf("Failed to save system setting: %v", err)
	}

	return s
}

func TestMeal(t *testing.T, db *gorm.DB, memberID uuid.UUID, source string, at time.Time, calories float64) *model.MealLog {
	t.Helper()

	meal := &model.MealLog{
		MemberId: memberID,
		MealType: "lunch",
		Name:     "Test meal",
		Source:   source,
		Calories: calories,
		Protein:  calories / 20,
		Carbs:    calories / 8,
		Fat:      calories / 30,
		LoggedAt: at.UTC(),
	}
	if err := db.Create(meal).Error; err != nil {
		t.Fatalf("Failed to create test meal: %v", err)
	}
	return meal
}

func TestExercise(t *testing.T, db *gorm.DB, memberID uuid.UUID, at time.Time) *model.ExerciseLog {
	t.Helper()

	ex := &model.ExerciseLog{
		MemberId:       memberID,
		Activity:       "running",
		DurationMin:    30,
		CaloriesBurned: 300,
		LoggedAt:       at.UTC(),
	}
	if err := db.Create(ex).Error; err != nil {
		t.Fatalf("Failed to create test exercise: %v", err)
	}
	return ex
}

func TestScan(t *testing.T, db *gorm.DB, memberID uuid.UUID, at time.Time) *model.ScanHistory {
	t.Helper()

	scan := &model.ScanHistory{
		MemberId:  memberID,
		Barcode:   "8991234567890",
		ScannedAt: at.UTC(),
	}
	if err := db.Create(scan).Error; err != nil {
		t.Fatalf("Failed to create test scan: %v", err)
	}
	return scan
}
