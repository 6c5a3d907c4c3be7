package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AiRecommendation struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	MemberId     uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null"`
	Date         string         `gorm:"type:varchar(10);not null"`
	Message      string         `gorm:"type:text;not null"`
	Context      datatypes.JSON
	RequestCount int            `gorm:"not null"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
}

func (AiRecommendation) TableName() string {
	return "ai_recommendations"
}

func (r *AiRecommendation) BeforeCreate(tx *gorm.DB) error {
	if r.Id == uuid.Nil {
		r.Id = uuid.New()
	}
	return nil
}
