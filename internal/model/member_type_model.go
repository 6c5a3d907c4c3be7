package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberType struct {
	Id   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:varchar(100);not null"`

	// Daily quotas: NULL = default ceiling, 0 = unlimited
	PhotoAnalysisLimit  *int
	TextAnalysisLimit   *int
	RecommendationLimit *int
	ScanLimit           *int

	CourseDuration int `gorm:"not null"`

	MorningTime string `gorm:"type:varchar(8)"`
	LunchTime   string `gorm:"type:varchar(8)"`
	DinnerTime  string `gorm:"type:varchar(8)"`
	EveningTime string `gorm:"type:varchar(8)"`

	WeeklyEnabled        bool
	WaterEnabled         bool
	ProgressPhotoEnabled bool
	PostExerciseEnabled  bool

	InactiveDays int

	IsActive  bool `gorm:"index"`
	IsDefault bool `gorm:"index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (MemberType) TableName() string {
	return "member_types"
}

func (t *MemberType) BeforeCreate(tx *gorm.DB) error {
	if t.Id == uuid.Nil {
		t.Id = uuid.New()
	}
	return nil
}
