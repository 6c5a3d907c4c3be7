// FILE: internal/service/member_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"nutricoach-be/internal/coach"
	"nutricoach-be/internal/dto"
	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/pkg/logger"
	"nutricoach-be/internal/repository/specification"
	"nutricoach-be/internal/repository/unitofwork"
	"nutricoach-be/pkg/clock"

	"github.com/google/uuid"
)

type IMemberService interface {
	EnsureMember(ctx context.Context, req *dto.EnsureMemberRequest) (*dto.MemberResponse, error)
	GetMember(ctx context.Context, memberID uuid.UUID) (*dto.MemberResponse, error)
	AssignMemberType(ctx context.Context, memberID uuid.UUID, req *dto.AssignMemberTypeRequest) (*dto.MemberResponse, error)
	PauseNotifications(ctx context.Context, memberID uuid.UUID, until *time.Time) error
	UpdatePreferences(ctx context.Context, memberID uuid.UUID, req *dto.UpdatePreferencesRequest) error
}

type memberService struct {
	uowFactory  unitofwork.RepositoryFactory
	settings    coach.SettingsProvider
	entitlement *coach.EntitlementResolver
	clock       clock.Clock
	logger      logger.ILogger
}

func NewMemberService(
	uowFactory unitofwork.RepositoryFactory,
	settings coach.SettingsProvider,
	entitlement *coach.EntitlementResolver,
	clk clock.Clock,
	l logger.ILogger,
) IMemberService {
	if clk == nil {
		clk = clock.System()
	}
	return &memberService{
		uowFactory:  uowFactory,
		settings:    settings,
		entitlement: entitlement,
		clock:       clk,
		logger:      l,
	}
}

// EnsureMember returns the member for an external identity, creating it on
// first contact. New members get the trial type when one is configured,
// otherwise the default type, otherwise nothing.
func (s *memberService) EnsureMember(ctx context.Context, req *dto.EnsureMemberRequest) (*dto.MemberResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.MemberRepository().FindOne(ctx, specification.ByExternalID{ExternalID: req.ExternalId})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.toResponse(ctx, existing), nil
	}

	now := s.clock.Now()
	member := &entity.Member{
		Id:             uuid.New(),
		ExternalId:     req.ExternalId,
		DisplayName:    req.DisplayName,
		ActivityStatus: entity.ActivityStatusActive,
		Preferences:    entity.DefaultPreferences(),
		Targets: entity.NutritionTargets{
			Calories: 2000,
			Protein:  100,
			Carbs:    250,
			Fat:      65,
			WaterMl:  2000,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.grantInitialType(ctx, uow, member, now); err != nil {
		return nil, err
	}

	if err := uow.MemberRepository().Create(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	s.logger.Info("MEMBER", "Member created", map[string]interface{}{
		"member_id":      member.Id.String(),
		"member_type_id": uuidString(member.MemberTypeId),
	})

	return s.toResponse(ctx, member), nil
}

func (s *memberService) grantInitialType(ctx context.Context, uow unitofwork.UnitOfWork, member *entity.Member, now time.Time) error {
	setting, err := s.settings.Settings(ctx)
	if err != nil {
		return err
	}

	if setting.TrialMemberTypeId != nil {
		trial, err := s.settings.MemberType(ctx, *setting.TrialMemberTypeId)
		if err != nil {
			return err
		}
		if trial != nil && trial.IsActive {
			expire := coach.TrialExpiry(setting.TrialDays, now)
			member.MemberTypeId = &trial.Id
			member.AiCoachExpireDate = &expire
			return nil
		}
	}

	def, err := uow.MemberTypeRepository().FindOne(ctx, specification.IsDefaultType{}, specification.IsActiveType{})
	if err != nil {
		return err
	}
	if def != nil {
		member.MemberTypeId = &def.Id
		member.AiCoachExpireDate = coach.ExpiryFor(def, now)
	}
	return nil
}

func (s *memberService) GetMember(ctx context.Context, memberID uuid.UUID) (*dto.MemberResponse, error) {
	member, err := s.findMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, member), nil
}

// AssignMemberType switches plan. The expiry restarts from now using the
// new type's course duration.
func (s *memberService) AssignMemberType(ctx context.Context, memberID uuid.UUID, req *dto.AssignMemberTypeRequest) (*dto.MemberResponse, error) {
	member, err := s.findMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	memberType, err := s.settings.MemberType(ctx, req.MemberTypeId)
	if err != nil {
		return nil, err
	}
	if memberType == nil {
		return nil, coach.ErrMemberTypeNotFound
	}

	expire := coach.ExpiryFor(memberType, s.clock.Now())
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MemberRepository().UpdateFields(ctx, memberID, map[string]interface{}{
		"member_type_id":       memberType.Id,
		"ai_coach_expire_date": expire,
	}); err != nil {
		return nil, fmt.Errorf("failed to assign member type: %w", err)
	}

	member.MemberTypeId = &memberType.Id
	member.AiCoachExpireDate = expire
	return s.toResponse(ctx, member), nil
}

func (s *memberService) PauseNotifications(ctx context.Context, memberID uuid.UUID, until *time.Time) error {
	if _, err := s.findMember(ctx, memberID); err != nil {
		return err
	}

	var value interface{}
	if until != nil {
		value = until.UTC()
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.MemberRepository().UpdateFields(ctx, memberID, map[string]interface{}{
		"notifications_paused_until": value,
	})
}

func (s *memberService) UpdatePreferences(ctx context.Context, memberID uuid.UUID, req *dto.UpdatePreferencesRequest) error {
	if _, err := s.findMember(ctx, memberID); err != nil {
		return err
	}

	fields := make(map[string]interface{})
	set := func(column string, v *bool) {
		if v != nil {
			fields[column] = *v
		}
	}
	set("notify_morning", req.Morning)
	set("notify_lunch", req.Lunch)
	set("notify_dinner", req.Dinner)
	set("notify_evening", req.Evening)
	set("notify_weekly", req.Weekly)
	set("notify_water", req.Water)
	set("notify_progress_photo", req.ProgressPhoto)
	set("notify_post_exercise", req.PostExercise)
	if len(fields) == 0 {
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.MemberRepository().UpdateFields(ctx, memberID, fields)
}

func (s *memberService) findMember(ctx context.Context, memberID uuid.UUID) (*entity.Member, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	member, err := uow.MemberRepository().FindOne(ctx, specification.ByID{ID: memberID})
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, coach.ErrMemberNotFound
	}
	return member, nil
}

func (s *memberService) toResponse(ctx context.Context, m *entity.Member) *dto.MemberResponse {
	var memberType *entity.MemberType
	if m.MemberTypeId != nil {
		mt, err := s.settings.MemberType(ctx, *m.MemberTypeId)
		if err == nil {
			memberType = mt
		}
	}
	ent := s.entitlement.Resolve(memberType, m.AiCoachExpireDate, s.clock.Now())

	return &dto.MemberResponse{
		Id:                       m.Id,
		ExternalId:               m.ExternalId,
		DisplayName:              m.DisplayName,
		ActivityStatus:           string(m.ActivityStatus),
		MemberTypeId:             m.MemberTypeId,
		AiCoachExpireDate:        m.AiCoachExpireDate,
		Entitlement:              string(ent.Status),
		DaysLeft:                 ent.DaysLeft,
		NotificationsPausedUntil: m.NotificationsPausedUntil,
		LastActiveAt:             m.LastActiveAt,
		CreatedAt:                m.CreatedAt,
	}
}

func uuidString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
