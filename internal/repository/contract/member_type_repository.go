package contract

import (
	"context"

	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/repository/specification"
)

type MemberTypeRepository interface {
	Create(ctx context.Context, memberType *entity.MemberType) error
	Update(ctx context.Context, memberType *entity.MemberType) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MemberType, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MemberType, error)
	// ClearDefault unsets is_default on every type except keep.
	ClearDefault(ctx context.Context, keep *entity.MemberType) error
}
