package contract

import (
	"context"
	"time"

	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MemberRepository interface {
	Create(ctx context.Context, member *entity.Member) error
	Update(ctx context.Context, member *entity.Member) error
	// UpdateFields applies a partial patch keyed by column name.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	// ReassignType moves a member onto toType unless already there. It reports
	// whether a row changed, so re-running a sweep is a no-op.
	ReassignType(ctx context.Context, id uuid.UUID, toType uuid.UUID, expire *time.Time) (bool, error)
	// TransitionStatus flips activity_status only when it currently equals from.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.ActivityStatus) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Member, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Member, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
