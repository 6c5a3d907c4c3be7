package contract

import (
	"context"

	"nutricoach-be/internal/entity"

	"github.com/google/uuid"
)

type RecommendationRepository interface {
	FindByMember(ctx context.Context, memberId uuid.UUID) (*entity.AiRecommendation, error)
	// Upsert writes the member's single row; concurrent writers resolve last-writer-wins.
	Upsert(ctx context.Context, rec *entity.AiRecommendation) error
	DeleteByMember(ctx context.Context, memberId uuid.UUID) error
}
