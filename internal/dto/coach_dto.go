// FILE: internal/dto/coach_dto.go
// DTOs for coaching endpoints
package dto

import (
	"time"

	"github.com/google/uuid"
)

type EnsureMemberRequest struct {
	ExternalId  string `json:"external_id" validate:"required,max=255"`
	DisplayName string `json:"display_name" validate:"max=255"`
}

type MemberResponse struct {
	Id                       uuid.UUID  `json:"id"`
	ExternalId               string     `json:"external_id"`
	DisplayName              string     `json:"display_name"`
	ActivityStatus           string     `json:"activity_status"`
	MemberTypeId             *uuid.UUID `json:"member_type_id,omitempty"`
	AiCoachExpireDate        *time.Time `json:"ai_coach_expire_date,omitempty"`
	Entitlement              string     `json:"entitlement"`
	DaysLeft                 int        `json:"days_left"`
	NotificationsPausedUntil *time.Time `json:"notifications_paused_until,omitempty"`
	LastActiveAt             *time.Time `json:"last_active_at,omitempty"`
	CreatedAt                time.Time  `json:"created_at"`
}

type AssignMemberTypeRequest struct {
	MemberTypeId uuid.UUID `json:"member_type_id" validate:"required"`
}

// PauseNotificationsRequest pauses every coaching category until Until.
// A nil Until resumes immediately.
type PauseNotificationsRequest struct {
	Until *time.Time `json:"until"`
}

type UpdatePreferencesRequest struct {
	Morning       *bool `json:"morning"`
	Lunch         *bool `json:"lunch"`
	Dinner        *bool `json:"dinner"`
	Evening       *bool `json:"evening"`
	Weekly        *bool `json:"weekly"`
	Water         *bool `json:"water"`
	ProgressPhoto *bool `json:"progress_photo"`
	PostExercise  *bool `json:"post_exercise"`
}

type LogMealRequest struct {
	MealType string     `json:"meal_type" validate:"omitempty,oneof=breakfast lunch dinner snack"`
	Name     string     `json:"name" validate:"required,max=255"`
	Source   string     `json:"source" validate:"required,oneof=manual photo text"`
	Calories float64    `json:"calories" validate:"gte=0"`
	Protein  float64    `json:"protein" validate:"gte=0"`
	Carbs    float64    `json:"carbs" validate:"gte=0"`
	Fat      float64    `json:"fat" validate:"gte=0"`
	LoggedAt *time.Time `json:"logged_at"`
}

type LogExerciseRequest struct {
	Activity       string     `json:"activity" validate:"required,max=100"`
	DurationMin    int        `json:"duration_min" validate:"gte=0"`
	CaloriesBurned float64    `json:"calories_burned" validate:"gte=0"`
	LoggedAt       *time.Time `json:"logged_at"`
}

type MealResponse struct {
	Id       uuid.UUID `json:"id"`
	MealType string    `json:"meal_type"`
	Name     string    `json:"name"`
	Source   string    `json:"source"`
	Calories float64   `json:"calories"`
	LoggedAt time.Time `json:"logged_at"`
}

type CoachNotificationResponse struct {
	Id        uuid.UUID `json:"id"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Delivered bool      `json:"delivered"`
	CreatedAt time.Time `json:"created_at"`
}

// PassResponse is returned by the internal batch trigger. Exactly one of
// Batch and Sweep is set.
type PassResponse struct {
	Pass  string      `json:"pass"`
	Batch interface{} `json:"batch,omitempty"`
	Sweep interface{} `json:"sweep,omitempty"`
}

// InvalidateRecommendationMessage is the in-process task raised after member activity.
type InvalidateRecommendationMessage struct {
	MemberId uuid.UUID `json:"member_id"`
	Reason   string    `json:"reason"`
}
