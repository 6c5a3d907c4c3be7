package specification

import (
	"time"

	"nutricoach-be/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByExternalID struct {
	ExternalID string
}

func (s ByExternalID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("external_id = ?", s.ExternalID)
}

type WithActivityStatus struct {
	Status entity.ActivityStatus
}

func (s WithActivityStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("activity_status = ?", string(s.Status))
}

// HasMemberType keeps members with a plan assigned.
type HasMemberType struct{}

func (s HasMemberType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("member_type_id IS NOT NULL")
}

type MemberTypeIs struct {
	ID uuid.UUID
}

func (s MemberTypeIs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("member_type_id = ?", s.ID)
}

type MemberTypeNot struct {
	ID uuid.UUID
}

func (s MemberTypeNot) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("member_type_id <> ?", s.ID)
}

// LastActiveBefore matches members whose last qualifying action (or sign-up,
// if they never acted) is older than Cutoff.
type LastActiveBefore struct {
	Cutoff time.Time
}

func (s LastActiveBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("COALESCE(last_active_at, created_at) < ?", s.Cutoff.UTC())
}

type IsDefaultType struct{}

func (s IsDefaultType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_default = ?", true)
}

type IsActiveType struct{}

func (s IsActiveType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}
