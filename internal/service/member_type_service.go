// FILE: internal/service/member_type_service.go
// Admin management of member types and the system setting
package service

import (
	"context"
	"fmt"

	"nutricoach-be/internal/coach"
	"nutricoach-be/internal/dto"
	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/pkg/logger"
	"nutricoach-be/internal/repository/specification"
	"nutricoach-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// CacheInvalidator drops cached settings and member types after admin writes.
type CacheInvalidator interface {
	Invalidate()
}

type IMemberTypeService interface {
	List(ctx context.Context) ([]*dto.MemberTypeResponse, error)
	Create(ctx context.Context, req *dto.MemberTypeRequest) (*dto.MemberTypeResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.MemberTypeRequest) (*dto.MemberTypeResponse, error)
	GetSettings(ctx context.Context) (*dto.SystemSettingResponse, error)
	UpdateSettings(ctx context.Context, req *dto.SystemSettingRequest) (*dto.SystemSettingResponse, error)
}

type memberTypeService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      CacheInvalidator
	logger     logger.ILogger
}

func NewMemberTypeService(uowFactory unitofwork.RepositoryFactory, cache CacheInvalidator, l logger.ILogger) IMemberTypeService {
	return &memberTypeService{
		uowFactory: uowFactory,
		cache:      cache,
		logger:     l,
	}
}

func (s *memberTypeService) List(ctx context.Context) ([]*dto.MemberTypeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	types, err := uow.MemberTypeRepository().FindAll(ctx, specification.OrderBy{Field: "name"})
	if err != nil {
		return nil, err
	}

	out := make([]*dto.MemberTypeResponse, 0, len(types))
	for _, t := range types {
		out = append(out, toMemberTypeResponse(t))
	}
	return out, nil
}

func (s *memberTypeService) Create(ctx context.Context, req *dto.MemberTypeRequest) (*dto.MemberTypeResponse, error) {
	memberType := &entity.MemberType{Id: uuid.New()}
	applyMemberTypeRequest(memberType, req)

	if err := s.save(ctx, memberType, true); err != nil {
		return nil, err
	}
	return toMemberTypeResponse(memberType), nil
}

func (s *memberTypeService) Update(ctx context.Context, id uuid.UUID, req *dto.MemberTypeRequest) (*dto.MemberTypeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	memberType, err := uow.MemberTypeRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if memberType == nil {
		return nil, fmt.Errorf("%w: %s", coach.ErrMemberTypeNotFound, id)
	}

	applyMemberTypeRequest(memberType, req)
	if err := s.save(ctx, memberType, false); err != nil {
		return nil, err
	}
	return toMemberTypeResponse(memberType), nil
}

// save writes the type and, when it is the default, unsets every other
// default inside the same transaction.
func (s *memberTypeService) save(ctx context.Context, memberType *entity.MemberType, create bool) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	repo := uow.MemberTypeRepository()
	if memberType.IsDefault {
		if err := repo.ClearDefault(ctx, memberType); err != nil {
			return fmt.Errorf("failed to clear default member type: %w", err)
		}
	}

	var err error
	if create {
		err = repo.Create(ctx, memberType)
	} else {
		err = repo.Update(ctx, memberType)
	}
	if err != nil {
		return fmt.Errorf("failed to save member type: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.cache.Invalidate()
	s.logger.Info("MEMBER_TYPE", "Member type saved", map[string]interface{}{
		"member_type_id": memberType.Id.String(),
		"is_default":     memberType.IsDefault,
	})
	return nil
}

func (s *memberTypeService) GetSettings(ctx context.Context) (*dto.SystemSettingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	setting, err := uow.SystemSettingRepository().Get(ctx)
	if err != nil {
		return nil, err
	}
	return toSystemSettingResponse(setting), nil
}

func (s *memberTypeService) UpdateSettings(ctx context.Context, req *dto.SystemSettingRequest) (*dto.SystemSettingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	for _, id := range []*uuid.UUID{req.TrialMemberTypeId, req.GeneralMemberTypeId} {
		if id == nil {
			continue
		}
		t, err := uow.MemberTypeRepository().FindOne(ctx, specification.ByID{ID: *id})
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, fmt.Errorf("%w: %s", coach.ErrMemberTypeNotFound, id)
		}
	}

	setting, err := uow.SystemSettingRepository().Get(ctx)
	if err != nil {
		return nil, err
	}
	setting.TrialDays = req.TrialDays
	setting.TrialMemberTypeId = req.TrialMemberTypeId
	setting.GeneralMemberTypeId = req.GeneralMemberTypeId
	setting.AiCoachEnabled = req.AiCoachEnabled

	if err := uow.SystemSettingRepository().Save(ctx, setting); err != nil {
		return nil, fmt.Errorf("failed to save system setting: %w", err)
	}

	s.cache.Invalidate()
	return toSystemSettingResponse(setting), nil
}

func applyMemberTypeRequest(t *entity.MemberType, req *dto.MemberTypeRequest) {
	t.Name = req.Name
	t.PhotoAnalysisLimit = req.PhotoAnalysisLimit
	t.TextAnalysisLimit = req.TextAnalysisLimit
	t.RecommendationLimit = req.RecommendationLimit
	t.ScanLimit = req.ScanLimit
	t.CourseDuration = req.CourseDuration
	t.MorningTime = req.MorningTime
	t.LunchTime = req.LunchTime
	t.DinnerTime = req.DinnerTime
	t.EveningTime = req.EveningTime
	t.WeeklyEnabled = req.WeeklyEnabled
	t.WaterEnabled = req.WaterEnabled
	t.ProgressPhotoEnabled = req.ProgressPhotoEnabled
	t.PostExerciseEnabled = req.PostExerciseEnabled
	t.InactiveDays = req.InactiveDays
	t.IsActive = req.IsActive
	t.IsDefault = req.IsDefault
}

func toMemberTypeResponse(t *entity.MemberType) *dto.MemberTypeResponse {
	return &dto.MemberTypeResponse{
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
		UpdatedAt:            t.UpdatedAt,
	}
}

func toSystemSettingResponse(s *entity.SystemSetting) *dto.SystemSettingResponse {
	return &dto.SystemSettingResponse{
		TrialDays:           s.TrialDays,
		TrialMemberTypeId:   s.TrialMemberTypeId,
		GeneralMemberTypeId: s.GeneralMemberTypeId,
		AiCoachEnabled:      s.AiCoachEnabled,
		UpdatedAt:           s.UpdatedAt,
	}
}
