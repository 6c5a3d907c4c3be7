package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CoachNotification stores every coaching message handed to the messaging channel.
type CoachNotification struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	MemberID uuid.UUID      `gorm:"type:uuid;not null;index:idx_coach_notifications_member_created,priority:1" json:"member_id"`
	Category string         `gorm:"type:varchar(30);not null;index" json:"category"`
	Title    string         `gorm:"type:varchar(200);not null" json:"title"`
	Message  string         `gorm:"type:text;not null" json:"message"`
	Metadata datatypes.JSON `json:"metadata,omitempty"`
	// Delivered is false when the channel rejected the message.
	Delivered bool      `json:"delivered"`
	CreatedAt time.Time `gorm:"index:idx_coach_notifications_member_created,priority:2" json:"created_at"`
}

func (CoachNotification) TableName() string {
	return "coach_notifications"
}

func (n *CoachNotification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
