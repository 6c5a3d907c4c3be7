package model

import (
	"time"

	"github.com/google/uuid"
)

// SystemSetting is a singleton row (id = 1).
type SystemSetting struct {
	Id                  uint       `gorm:"primaryKey"`
	TrialDays           int        `gorm:"not null"`
	TrialMemberTypeId   *uuid.UUID `gorm:"type:uuid"`
	GeneralMemberTypeId *uuid.UUID `gorm:"type:uuid"`
	AiCoachEnabled      bool
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
}

func (SystemSetting) TableName() string {
	return "system_settings"
}
