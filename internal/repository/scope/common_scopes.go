package scope

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// ForMember restricts a query on any member-owned table.
func ForMember(memberID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("member_id = ?", memberID)
	}
}

// Since keeps rows whose column is at or after since. Times are compared in UTC.
func Since(column string, since time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" >= ?", since.UTC())
	}
}
