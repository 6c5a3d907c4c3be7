// FILE: internal/entity/member_type_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultDailyLimit applies when a member type leaves a quota unset.
	DefaultDailyLimit = 3
	// DefaultInactiveDays applies when a member type leaves InactiveDays at 0.
	DefaultInactiveDays = 2
)

// MemberType is a plan template. A quota of 0 means unlimited; a nil quota
// falls back to DefaultDailyLimit. CourseDuration 0 means the plan never expires.
type MemberType struct {
	Id   uuid.UUID
	Name string

	PhotoAnalysisLimit  *int
	TextAnalysisLimit   *int
	RecommendationLimit *int
	ScanLimit           *int

	CourseDuration int // days

	MorningTime string // "HH:MM"
	LunchTime   string
	DinnerTime  string
	EveningTime string

	WeeklyEnabled        bool
	WaterEnabled         bool
	ProgressPhotoEnabled bool
	PostExerciseEnabled  bool

	InactiveDays int

	IsActive  bool
	IsDefault bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsUnlimited reports a plan without expiry.
func (t *MemberType) IsUnlimited() bool {
	return t.CourseDuration == 0
}

// ScheduleFor returns the configured time-of-day for a time-scheduled category.
func (t *MemberType) ScheduleFor(c Category) string {
	switch c {
	case CategoryMorning:
		return t.MorningTime
	case CategoryLunch:
		return t.LunchTime
	case CategoryDinner:
		return t.DinnerTime
	case CategoryEvening:
		return t.EveningTime
	}
	return ""
}

// CategoryEnabled reports the type-level switch for categories that have one.
// The second result is false when the category carries no switch.
func (t *MemberType) CategoryEnabled(c Category) (enabled bool, configured bool) {
	switch c {
	case CategoryWeekly:
		return t.WeeklyEnabled, true
	case CategoryWater:
		return t.WaterEnabled, true
	case CategoryProgressPhoto:
		return t.ProgressPhotoEnabled, true
	case CategoryPostExercise:
		return t.PostExerciseEnabled, true
	}
	return false, false
}

// LimitFor resolves the daily ceiling for a limit kind.
func (t *MemberType) LimitFor(k LimitKind) int {
	var v *int
	switch k {
	case LimitPhotoAnalysis:
		v = t.PhotoAnalysisLimit
	case LimitTextAnalysis:
		v = t.TextAnalysisLimit
	case LimitRecommendation:
		v = t.RecommendationLimit
	case LimitScan:
		v = t.ScanLimit
	}
	if v == nil {
		return DefaultDailyLimit
	}
	return *v
}

func (t *MemberType) EffectiveInactiveDays() int {
	if t.InactiveDays <= 0 {
		return DefaultInactiveDays
	}
	return t.InactiveDays
}
