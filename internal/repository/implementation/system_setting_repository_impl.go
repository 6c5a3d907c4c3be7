package implementation

import (
	"context"
	"errors"

	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/mapper"
	"nutricoach-be/internal/model"
	"nutricoach-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const systemSettingID = 1

type SystemSettingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CoachMapper
}

func NewSystemSettingRepository(db *gorm.DB) contract.SystemSettingRepository {
	return &SystemSettingRepositoryImpl{
		db:     db,
		mapper: mapper.NewCoachMapper(),
	}
}

func (r *SystemSettingRepositoryImpl) Get(ctx context.Context) (*entity.SystemSetting, error) {
	var m model.SystemSetting
	err := r.db.WithContext(ctx).Where("id = ?", systemSettingID).First(&m).Error
	if err == nil {
		return r.mapper.SettingToEntity(&m), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	defaults := entity.DefaultSystemSetting()
	defaults.Id = systemSettingID
	m = *r.mapper.SettingToModel(defaults)
	// Two first readers may race; the loser keeps the winner's row.
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&m).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Where("id = ?", systemSettingID).First(&m).Error; err != nil {
		return nil, err
	}
	return r.mapper.SettingToEntity(&m), nil
}

func (r *SystemSettingRepositoryImpl) Save(ctx context.Context, setting *entity.SystemSetting) error {
	setting.Id = systemSettingID
	m := r.mapper.SettingToModel(setting)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*setting = *r.mapper.SettingToEntity(m)
	return nil
}
