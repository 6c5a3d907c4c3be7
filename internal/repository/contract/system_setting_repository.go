package contract

import (
	"context"

	"nutricoach-be/internal/entity"
)

type SystemSettingRepository interface {
	// Get returns the singleton row, creating it with defaults when absent.
	Get(ctx context.Context) (*entity.SystemSetting, error)
	Save(ctx context.Context, setting *entity.SystemSetting) error
}
