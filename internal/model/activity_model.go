package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MealLog struct {
	Id       uuid.UUID `gorm:"type:uuid;primaryKey"`
	MemberId uuid.UUID `gorm:"type:uuid;not null;index:idx_meal_logs_member_logged,priority:1"`
	MealType string    `gorm:"type:varchar(20)"`
	Name     string    `gorm:"type:varchar(255)"`
	Source   string    `gorm:"type:varchar(20);not null"`
	Calories float64   `gorm:"type:decimal(10,2)"`
	Protein  float64   `gorm:"type:decimal(10,2)"`
	Carbs    float64   `gorm:"type:decimal(10,2)"`
	Fat      float64   `gorm:"type:decimal(10,2)"`
	LoggedAt time.Time `gorm:"not null;index:idx_meal_logs_member_logged,priority:2"`
}

func (MealLog) TableName() string {
	return "meal_logs"
}

func (m *MealLog) BeforeCreate(tx *gorm.DB) error {
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	return nil
}

type ExerciseLog struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	MemberId       uuid.UUID `gorm:"type:uuid;not null;index:idx_exercise_logs_member_logged,priority:1"`
	Activity       string    `gorm:"type:varchar(100)"`
	DurationMin    int
	CaloriesBurned float64   `gorm:"type:decimal(10,2)"`
	LoggedAt       time.Time `gorm:"not null;index:idx_exercise_logs_member_logged,priority:2"`
}

func (ExerciseLog) TableName() string {
	return "exercise_logs"
}

func (e *ExerciseLog) BeforeCreate(tx *gorm.DB) error {
	if e.Id == uuid.Nil {
		e.Id = uuid.New()
	}
	return nil
}

type ScanHistory struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	MemberId  uuid.UUID `gorm:"type:uuid;not null;index:idx_scan_histories_member_scanned,priority:1"`
	Barcode   string    `gorm:"type:varchar(64)"`
	ScannedAt time.Time `gorm:"not null;index:idx_scan_histories_member_scanned,priority:2"`
}

func (ScanHistory) TableName() string {
	return "scan_histories"
}

func (s *ScanHistory) BeforeCreate(tx *gorm.DB) error {
	if s.Id == uuid.Nil {
		s.Id = uuid.New()
	}
	return nil
}

type OrderItem struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	MemberId  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Calories  float64   `gorm:"type:decimal(10,2)"`
	Protein   float64   `gorm:"type:decimal(10,2)"`
	OrderedAt time.Time `gorm:"not null;index"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (o *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if o.Id == uuid.Nil {
		o.Id = uuid.New()
	}
	return nil
}
