package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Member struct {
	Id             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ExternalId     string     `gorm:"type:varchar(100);uniqueIndex;not null"`
	DisplayName    string     `gorm:"type:varchar(255)"`
	ActivityStatus string     `gorm:"type:varchar(20);not null;index"`
	LastActiveAt   *time.Time `gorm:"index"`

	MemberTypeId      *uuid.UUID `gorm:"type:uuid;index"`
	AiCoachExpireDate *time.Time

	NotifyMorning       bool
	NotifyLunch         bool
	NotifyDinner        bool
	NotifyEvening       bool
	NotifyWeekly        bool
	NotifyWater         bool
	NotifyProgressPhoto bool
	NotifyPostExercise  bool

	NotificationsPausedUntil *time.Time

	TargetCalories float64 `gorm:"type:decimal(10,2)"`
	TargetProtein  float64 `gorm:"type:decimal(10,2)"`
	TargetCarbs    float64 `gorm:"type:decimal(10,2)"`
	TargetFat      float64 `gorm:"type:decimal(10,2)"`
	TargetWaterMl  float64 `gorm:"type:decimal(10,2)"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Member) TableName() string {
	return "members"
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	return nil
}
