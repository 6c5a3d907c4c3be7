// FILE: internal/entity/recommendation_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// AiRecommendation is the single cached daily recommendation of a member.
// Date is the local calendar date ("2006-01-02") it was generated for.
type AiRecommendation struct {
	Id           uuid.UUID
	MemberId     uuid.UUID
	Date         string
	Message      string
	Context      []byte
	RequestCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
