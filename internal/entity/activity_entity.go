// FILE: internal/entity/activity_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type MealSource string

const (
	MealSourceManual MealSource = "manual"
	MealSourcePhoto  MealSource = "photo"
	MealSourceText   MealSource = "text"
)

type MealLog struct {
	Id       uuid.UUID
	MemberId uuid.UUID
	MealType string // breakfast, lunch, dinner, snack
	Name     string
	Source   MealSource
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
	LoggedAt time.Time
}

type ExerciseLog struct {
	Id             uuid.UUID
	MemberId       uuid.UUID
	Activity       string
	DurationMin    int
	CaloriesBurned float64
	LoggedAt       time.Time
}

type ScanHistory struct {
	Id        uuid.UUID
	MemberId  uuid.UUID
	Barcode   string
	ScannedAt time.Time
}

// OrderItem is a food item the member ordered from the shop.
type OrderItem struct {
	Id        uuid.UUID
	MemberId  uuid.UUID
	Name      string
	Calories  float64
	Protein   float64
	OrderedAt time.Time
}

// RecordKind selects which domain records a usage count is taken over.
type RecordKind string

const (
	RecordPhotoMeal RecordKind = "photo_meal"
	RecordTextMeal  RecordKind = "text_meal"
	RecordAnyMeal   RecordKind = "meal"
	RecordExercise  RecordKind = "exercise"
	RecordScan      RecordKind = "scan"
)
