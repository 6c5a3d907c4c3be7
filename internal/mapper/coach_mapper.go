package mapper

import (
	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/model"

	"gorm.io/datatypes"
)

// CoachMapper converts the smaller coaching records.
type CoachMapper struct{}

func NewCoachMapper() *CoachMapper {
	return &CoachMapper{}
}

func (m *CoachMapper) SettingToEntity(s *model.SystemSetting) *entity.SystemSetting {
	if s == nil {
		return nil
	}
	return &entity.SystemSetting{
		Id:                  s.Id,
		TrialDays:           s.TrialDays,
		TrialMemberTypeId:   s.TrialMemberTypeId,
		GeneralMemberTypeId: s.GeneralMemberTypeId,
		AiCoachEnabled:      s.AiCoachEnabled,
		UpdatedAt:           s.UpdatedAt,
	}
}

func (m *CoachMapper) SettingToModel(s *entity.SystemSetting) *model.SystemSetting {
	if s == nil {
		return nil
	}
	return &model.SystemSetting{
		Id:                  s.Id,
		TrialDays:           s.TrialDays,
		TrialMemberTypeId:   s.TrialMemberTypeId,
		GeneralMemberTypeId: s.GeneralMemberTypeId,
		AiCoachEnabled:      s.AiCoachEnabled,
		UpdatedAt:           s.UpdatedAt.UTC(),
	}
}

func (m *CoachMapper) RecommendationToEntity(r *model.AiRecommendation) *entity.AiRecommendation {
	if r == nil {
		return nil
	}
	return &entity.AiRecommendation{
		Id:           r.Id,
		MemberId:     r.MemberId,
		Date:         r.Date,
		Message:      r.Message,
		Context:      []byte(r.Context),
		RequestCount: r.RequestCount,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (m *CoachMapper) RecommendationToModel(r *entity.AiRecommendation) *model.AiRecommendation {
	if r == nil {
		return nil
	}
	return &model.AiRecommendation{
		Id:           r.Id,
		MemberId:     r.MemberId,
		Date:         r.Date,
		Message:      r.Message,
		Context:      datatypes.JSON(r.Context),
		RequestCount: r.RequestCount,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

func (m *CoachMapper) MealToEntity(l *model.MealLog) *entity.MealLog {
	return &entity.MealLog{
		Id:       l.Id,
		MemberId: l.MemberId,
		MealType: l.MealType,
		Name:     l.Name,
		Source:   entity.MealSource(l.Source),
		Calories: l.Calories,
		Protein:  l.Protein,
		Carbs:    l.Carbs,
		Fat:      l.Fat,
		LoggedAt: l.LoggedAt,
	}
}

func (m *CoachMapper) MealToModel(l *entity.MealLog) *model.MealLog {
	return &model.MealLog{
		Id:       l.Id,
		MemberId: l.MemberId,
		MealType: l.MealType,
		Name:     l.Name,
		Source:   string(l.Source),
		Calories: l.Calories,
		Protein:  l.Protein,
		Carbs:    l.Carbs,
		Fat:      l.Fat,
		LoggedAt: l.LoggedAt.UTC(),
	}
}

func (m *CoachMapper) ExerciseToEntity(l *model.ExerciseLog) *entity.ExerciseLog {
	return &entity.ExerciseLog{
		Id:             l.Id,
		MemberId:       l.MemberId,
		Activity:       l.Activity,
		DurationMin:    l.DurationMin,
		CaloriesBurned: l.CaloriesBurned,
		LoggedAt:       l.LoggedAt,
	}
}

func (m *CoachMapper) ExerciseToModel(l *entity.ExerciseLog) *model.ExerciseLog {
	return &model.ExerciseLog{
		Id:             l.Id,
		MemberId:       l.MemberId,
		Activity:       l.Activity,
		DurationMin:    l.DurationMin,
		CaloriesBurned: l.CaloriesBurned,
		LoggedAt:       l.LoggedAt.UTC(),
	}
}

func (m *CoachMapper) ScanToModel(s *entity.ScanHistory) *model.ScanHistory {
	return &model.ScanHistory{
		Id:        s.Id,
		MemberId:  s.MemberId,
		Barcode:   s.Barcode,
		ScannedAt: s.ScannedAt.UTC(),
	}
}

func (m *CoachMapper) OrderItemToEntity(o *model.OrderItem) *entity.OrderItem {
	return &entity.OrderItem{
		Id:        o.Id,
		MemberId:  o.MemberId,
		Name:      o.Name,
		Calories:  o.Calories,
		Protein:   o.Protein,
		OrderedAt: o.OrderedAt,
	}
}

func (m *CoachMapper) OrderItemToModel(o *entity.OrderItem) *model.OrderItem {
	return &model.OrderItem{
		Id:        o.Id,
		MemberId:  o.MemberId,
		Name:      o.Name,
		Calories:  o.Calories,
		Protein:   o.Protein,
		OrderedAt: o.OrderedAt.UTC(),
	}
}
