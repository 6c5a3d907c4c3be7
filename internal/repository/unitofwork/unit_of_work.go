package unitofwork

import (
	"context"

	"nutricoach-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	MemberRepository() contract.MemberRepository
	MemberTypeRepository() contract.MemberTypeRepository
	SystemSettingRepository() contract.SystemSettingRepository
	RecommendationRepository() contract.RecommendationRepository
	ActivityRepository() contract.ActivityRepository
	NotificationRepository() contract.NotificationRepository
}
