// FILE: internal/dto/member_type_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

// MemberTypeRequest creates or replaces a member type. Limits: nil = default (3), 0 = unlimited.
type MemberTypeRequest struct {
	Name string `json:"name" validate:"required,max=100"`

	PhotoAnalysisLimit  *int `json:"photo_analysis_limit" validate:"omitempty,gte=0"`
	TextAnalysisLimit   *int `json:"text_analysis_limit" validate:"omitempty,gte=0"`
	RecommendationLimit *int `json:"recommendation_limit" validate:"omitempty,gte=0"`
	ScanLimit           *int `json:"scan_limit" validate:"omitempty,gte=0"`

	CourseDuration int `json:"course_duration" validate:"gte=0"`

	MorningTime string `json:"morning_time" validate:"omitempty,hhmm"`
	LunchTime   string `json:"lunch_time" validate:"omitempty,hhmm"`
	DinnerTime  string `json:"dinner_time" validate:"omitempty,hhmm"`
	EveningTime string `json:"evening_time" validate:"omitempty,hhmm"`

	WeeklyEnabled        bool `json:"weekly_enabled"`
	WaterEnabled         bool `json:"water_enabled"`
	ProgressPhotoEnabled bool `json:"progress_photo_enabled"`
	PostExerciseEnabled  bool `json:"post_exercise_enabled"`

	InactiveDays int  `json:"inactive_days" validate:"gte=0"`
	IsActive     bool `json:"is_active"`
	IsDefault    bool `json:"is_default"`
}

type MemberTypeResponse struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`

	PhotoAnalysisLimit  *int `json:"photo_analysis_limit"`
	TextAnalysisLimit   *int `json:"text_analysis_limit"`
	RecommendationLimit *int `json:"recommendation_limit"`
	ScanLimit           *int `json:"scan_limit"`

	CourseDuration int `json:"course_duration"`

	MorningTime string `json:"morning_time"`
	LunchTime   string `json:"lunch_time"`
	DinnerTime  string `json:"dinner_time"`
	EveningTime string `json:"evening_time"`

	WeeklyEnabled        bool `json:"weekly_enabled"`
	WaterEnabled         bool `json:"water_enabled"`
	ProgressPhotoEnabled bool `json:"progress_photo_enabled"`
	PostExerciseEnabled  bool `json:"post_exercise_enabled"`

	InactiveDays int       `json:"inactive_days"`
	IsActive     bool      `json:"is_active"`
	IsDefault    bool      `json:"is_default"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SystemSettingRequest struct {
	TrialDays           int        `json:"trial_days" validate:"gte=1,lte=365"`
	TrialMemberTypeId   *uuid.UUID `json:"trial_member_type_id"`
	GeneralMemberTypeId *uuid.UUID `json:"general_member_type_id"`
	AiCoachEnabled      bool       `json:"ai_coach_enabled"`
}

type SystemSettingResponse struct {
	TrialDays           int        `json:"trial_days"`
	TrialMemberTypeId   *uuid.UUID `json:"trial_member_type_id"`
	GeneralMemberTypeId *uuid.UUID `json:"general_member_type_id"`
	AiCoachEnabled      bool       `json:"ai_coach_enabled"`
	UpdatedAt           time.Time  `json:"updated_at"`
}
