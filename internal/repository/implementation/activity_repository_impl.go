package implementation

import (
	"context"
	"time"

	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/mapper"
	"nutricoach-be/internal/model"
	"nutricoach-be/internal/repository/contract"
	"nutricoach-be/internal/repository/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CoachMapper
}

func NewActivityRepository(db *gorm.DB) contract.ActivityRepository {
	return &ActivityRepositoryImpl{
		db:     db,
		mapper: mapper.NewCoachMapper(),
	}
}

func (r *ActivityRepositoryImpl) CreateMeal(ctx context.Context, meal *entity.MealLog) error {
	m := r.mapper.MealToModel(meal)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	meal.Id = m.Id
	return nil
}

func (r *ActivityRepositoryImpl) CreateExercise(ctx context.Context, exercise *entity.ExerciseLog) error {
	m := r.mapper.ExerciseToModel(exercise)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	exercise.Id = m.Id
	return nil
}

func (r *ActivityRepositoryImpl) CreateScan(ctx context.Context, scan *entity.ScanHistory) error {
	m := r.mapper.ScanToModel(scan)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	scan.Id = m.Id
	return nil
}

func (r *ActivityRepositoryImpl) CreateOrderItem(ctx context.Context, item *entity.OrderItem) error {
	m := r.mapper.OrderItemToModel(item)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	item.Id = m.Id
	return nil
}

func (r *ActivityRepositoryImpl) CountRecordsSince(ctx context.Context, memberId uuid.UUID, kind entity.RecordKind, since time.Time) (int64, error) {
	db := r.db.WithContext(ctx).Scopes(scope.ForMember(memberId))

	var query *gorm.DB
	switch kind {
	case entity.RecordPhotoMeal:
		query = db.Model(&model.MealLog{}).Scopes(scope.Since("logged_at", since)).Where("source = ?", string(entity.MealSourcePhoto))
	case entity.RecordTextMeal:
		query = db.Model(&model.MealLog{}).Scopes(scope.Since("logged_at", since)).Where("source = ?", string(entity.MealSourceText))
	case entity.RecordAnyMeal:
		query = db.Model(&model.MealLog{}).Scopes(scope.Since("logged_at", since))
	case entity.RecordExercise:
		query = db.Model(&model.ExerciseLog{}).Scopes(scope.Since("logged_at", since))
	case entity.RecordScan:
		query = db.Model(&model.ScanHistory{}).Scopes(scope.Since("scanned_at", since))
	default:
		// No counting rule: treat as zero usage.
		return 0, nil
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ActivityRepositoryImpl) FindMealsSince(ctx context.Context, memberId uuid.UUID, since time.Time) ([]*entity.MealLog, error) {
	var rows []*model.MealLog
	err := r.db.WithContext(ctx).
		Scopes(scope.ForMember(memberId), scope.Since("logged_at", since)).
		Order("logged_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*entity.MealLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.mapper.MealToEntity(row))
	}
	return out, nil
}

func (r *ActivityRepositoryImpl) FindExercisesSince(ctx context.Context, memberId uuid.UUID, since time.Time) ([]*entity.ExerciseLog, error) {
	var rows []*model.ExerciseLog
	err := r.db.WithContext(ctx).
		Scopes(scope.ForMember(memberId), scope.Since("logged_at", since)).
		Order("logged_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*entity.ExerciseLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.mapper.ExerciseToEntity(row))
	}
	return out, nil
}

func (r *ActivityRepositoryImpl) FindRecentOrderItems(ctx context.Context, memberId uuid.UUID, since time.Time, limit int) ([]*entity.OrderItem, error) {
	var rows []*model.OrderItem
	err := r.db.WithContext(ctx).
		Scopes(scope.ForMember(memberId), scope.Since("ordered_at", since)).
		Order("ordered_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*entity.OrderItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.mapper.OrderItemToEntity(row))
	}
	return out, nil
}
