package mapper

import (
	"time"

	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/model"
)

type MemberMapper struct{}

func NewMemberMapper() *MemberMapper {
	return &MemberMapper{}
}

func (m *MemberMapper) ToEntity(u *model.Member) *entity.Member {
	if u == nil {
		return nil
	}
	return &entity.Member{
		Id:                u.Id,
		ExternalId:        u.ExternalId,
		DisplayName:       u.DisplayName,
		ActivityStatus:    entity.ActivityStatus(u.ActivityStatus),
		LastActiveAt:      u.LastActiveAt,
		MemberTypeId:      u.MemberTypeId,
		AiCoachExpireDate: u.AiCoachExpireDate,
		Preferences: entity.NotificationPreferences{
			Morning:       u.NotifyMorning,
			Lunch:         u.NotifyLunch,
			Dinner:        u.NotifyDinner,
			Evening:       u.NotifyEvening,
			Weekly:        u.NotifyWeekly,
			Water:         u.NotifyWater,
			ProgressPhoto: u.NotifyProgressPhoto,
			PostExercise:  u.NotifyPostExercise,
		},
		NotificationsPausedUntil: u.NotificationsPausedUntil,
		Targets: entity.NutritionTargets{
			Calories: u.TargetCalories,
			Protein:  u.TargetProtein,
			Carbs:    u.TargetCarbs,
			Fat:      u.TargetFat,
			WaterMl:  u.TargetWaterMl,
		},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (m *MemberMapper) ToModel(u *entity.Member) *model.Member {
	if u == nil {
		return nil
	}
	return &model.Member{
		Id:                       u.Id,
		ExternalId:               u.ExternalId,
		DisplayName:              u.DisplayName,
		ActivityStatus:           string(u.ActivityStatus),
		LastActiveAt:             utcPtr(u.LastActiveAt),
		MemberTypeId:             u.MemberTypeId,
		AiCoachExpireDate:        utcPtr(u.AiCoachExpireDate),
		NotifyMorning:            u.Preferences.Morning,
		NotifyLunch:              u.Preferences.Lunch,
		NotifyDinner:             u.Preferences.Dinner,
		NotifyEvening:            u.Preferences.Evening,
		NotifyWeekly:             u.Preferences.Weekly,
		NotifyWater:              u.Preferences.Water,
		NotifyProgressPhoto:      u.Preferences.ProgressPhoto,
		NotifyPostExercise:       u.Preferences.PostExercise,
		NotificationsPausedUntil: utcPtr(u.NotificationsPausedUntil),
		TargetCalories:           u.Targets.Calories,
		TargetProtein:            u.Targets.Protein,
		TargetCarbs:              u.Targets.Carbs,
		TargetFat:                u.Targets.Fat,
		TargetWaterMl:            u.Targets.WaterMl,
		CreatedAt:                u.CreatedAt.UTC(),
		UpdatedAt:                u.UpdatedAt.UTC(),
	}
}

func (m *MemberMapper) ToEntities(members []*model.Member) []*entity.Member {
	out := make([]*entity.Member, 0, len(members))
	for _, u := range members {
		out = append(out, m.ToEntity(u))
	}
	return out
}

// utcPtr normalises stored instants so lexical comparisons in SQLite stay correct.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
