package coach

import (
	"context"

	"nutricoach-be/internal/entity"

	"github.com/google/uuid"
)

// SettingsProvider supplies the system setting and member types. The
// implementation may cache; callers receive copies.
type SettingsProvider interface {
	Settings(ctx context.Context) (*entity.SystemSetting, error)
	// MemberType returns nil, nil when the id is unknown.
	MemberType(ctx context.Context, id uuid.UUID) (*entity.MemberType, error)
}

// SendGuard claims a per-day send slot for a member and category.
type SendGuard interface {
	Acquire(ctx context.Context, memberID uuid.UUID, category, day string) (bool, error)
	Release(ctx context.Context, memberID uuid.UUID, category, day string) error
}
