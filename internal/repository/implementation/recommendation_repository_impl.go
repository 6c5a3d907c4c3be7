package implementation

import (
	"context"
	"errors"

	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/mapper"
	"nutricoach-be/internal/model"
	"nutricoach-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecommendationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CoachMapper
}

func NewRecommendationRepository(db *gorm.DB) contract.RecommendationRepository {
	return &RecommendationRepositoryImpl{
		db:     db,
		mapper: mapper.NewCoachMapper(),
	}
}

func (r *RecommendationRepositoryImpl) FindByMember(ctx context.Context, memberId uuid.UUID) (*entity.AiRecommendation, error) {
	var m model.AiRecommendation
	if err := r.db.WithContext(ctx).Where("member_id = ?", memberId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.RecommendationToEntity(&m), nil
}

func (r *RecommendationRepositoryImpl) Upsert(ctx context.Context, rec *entity.AiRecommendation) error {
	m := r.mapper.RecommendationToModel(rec)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"date", "message", "context", "request_count", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*rec = *r.mapper.RecommendationToEntity(m)
	return nil
}

func (r *RecommendationRepositoryImpl) DeleteByMember(ctx context.Context, memberId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("member_id = ?", memberId).Delete(&model.AiRecommendation{}).Error
}
