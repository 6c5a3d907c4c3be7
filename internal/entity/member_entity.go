// FILE: internal/entity/member_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type ActivityStatus string

const (
	ActivityStatusActive   ActivityStatus = "active"
	ActivityStatusInactive ActivityStatus = "inactive"
)

// NotificationPreferences holds one opt-in flag per member-controlled category.
type NotificationPreferences struct {
	Morning       bool
	Lunch         bool
	Dinner        bool
	Evening       bool
	Weekly        bool
	Water         bool
	ProgressPhoto bool
	PostExercise  bool
}

// NutritionTargets are the member's daily goals.
type NutritionTargets struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
	WaterMl  float64
}

type Member struct {
	Id             uuid.UUID
	ExternalId     string // messaging channel identity
	DisplayName    string
	ActivityStatus ActivityStatus
	LastActiveAt   *time.Time

	MemberTypeId      *uuid.UUID
	AiCoachExpireDate *time.Time

	Preferences              NotificationPreferences
	NotificationsPausedUntil *time.Time
	Targets                  NutritionTargets

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PreferenceFor reports the member's own flag for a category. Categories
// without a personal flag (milestone, inactive) are opted in.
func (m *Member) PreferenceFor(c Category) bool {
	switch c {
	case CategoryMorning:
		return m.Preferences.Morning
	case CategoryLunch:
		return m.Preferences.Lunch
	case CategoryDinner:
		return m.Preferences.Dinner
	case CategoryEvening:
		return m.Preferences.Evening
	case CategoryWeekly:
		return m.Preferences.Weekly
	case CategoryWater:
		return m.Preferences.Water
	case CategoryProgressPhoto:
		return m.Preferences.ProgressPhoto
	case CategoryPostExercise:
		return m.Preferences.PostExercise
	default:
		return true
	}
}

// LastQualifyingAction falls back to the creation time for members who never logged a meal.
func (m *Member) LastQualifyingAction() time.Time {
	if m.LastActiveAt != nil {
		return *m.LastActiveAt
	}
	return m.CreatedAt
}

// DefaultPreferences opts a new member into every category.
func DefaultPreferences() NotificationPreferences {
	return NotificationPreferences{
		Morning:       true,
		Lunch:         true,
		Dinner:        true,
		Evening:       true,
		Weekly:        true,
		Water:         true,
		ProgressPhoto: true,
		PostExercise:  true,
	}
}
