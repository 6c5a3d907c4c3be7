// FILE: internal/entity/system_setting_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

const DefaultTrialDays = 7

// SystemSetting is the process-wide coaching configuration. It is always
// passed explicitly to the resolvers that need it.
type SystemSetting struct {
	Id                  uint
	TrialDays           int
	TrialMemberTypeId   *uuid.UUID
	GeneralMemberTypeId *uuid.UUID
	AiCoachEnabled      bool
	UpdatedAt           time.Time
}

func DefaultSystemSetting() *SystemSetting {
	return &SystemSetting{
		TrialDays:      DefaultTrialDays,
		AiCoachEnabled: true,
	}
}
