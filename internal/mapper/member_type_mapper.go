package mapper

import (
	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/model"
)

type MemberTypeMapper struct{}

func NewMemberTypeMapper() *MemberTypeMapper {
	return &MemberTypeMapper{}
}

func (m *MemberTypeMapper) ToEntity(t *model.MemberType) *entity.MemberType {
	if t == nil {
		return nil
	}
	return &entity.MemberType{
		Id:                   t.Id,
		Name:                 t.Name,
		PhotoAnalysisLimit:   t.PhotoAnalysisLimit,
		TextAnalysisLimit:    t.TextAnalysisLimit,
		RecommendationLimit:  t.RecommendationLimit,
		ScanLimit:            t.ScanLimit,
		CourseDuration:       t.CourseDuration,
		MorningTime:          t.MorningTime,
		LunchTime:            t.LunchTime,
		DinnerTime:           t.DinnerTime,
		EveningTime:          t.EveningTime,
		WeeklyEnabled:        t.WeeklyEnabled,
		WaterEnabled:         t.WaterEnabled,
		ProgressPhotoEnabled: t.ProgressPhotoEnabled,
		PostExerciseEnabled:  t.PostExerciseEnabled,
		InactiveDays:         t.InactiveDays,
		IsActive:             t.IsActive,
		IsDefault:            t.IsDefault,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}

func (m *MemberTypeMapper) ToModel(t *entity.MemberType) *model.MemberType {
	if t == nil {
		return nil
	}
	return &model.MemberType{
		Id:                   t.Id,
		Name:                 t.Name,
		PhotoAnalysisLimit:   t.PhotoAnalysisLimit,
		TextAnalysisLimit:    t.TextAnalysisLimit,
		RecommendationLimit:  t.RecommendationLimit,
		ScanLimit:            t.ScanLimit,
		CourseDuration:       t.CourseDuration,
		MorningTime:          t.MorningTime,
		LunchTime:            t.LunchTime,
		DinnerTime:           t.DinnerTime,
		EveningTime:          t.EveningTime,
		WeeklyEnabled:        t.WeeklyEnabled,
		WaterEnabled:         t.WaterEnabled,
		ProgressPhotoEnabled: t.ProgressPhotoEnabled,
		PostExerciseEnabled:  t.PostExerciseEnabled,
		InactiveDays:         t.InactiveDays,
		IsActive:             t.IsActive,
		IsDefault:            t.IsDefault,
		CreatedAt:            t.CreatedAt.UTC(),
		UpdatedAt:            t.UpdatedAt.UTC(),
	}
}

func (m *MemberTypeMapper) ToEntities(types []*model.MemberType) []*entity.MemberType {
	out := make([]*entity.MemberType, 0, len(types))
	for _, t := range types {
		out = append(out, m.ToEntity(t))
	}
	return out
}
