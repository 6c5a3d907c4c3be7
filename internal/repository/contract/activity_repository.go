package contract

import (
	"context"
	"time"

	"nutricoach-be/internal/entity"

	"github.com/google/uuid"
)

type ActivityRepository interface {
	CreateMeal(ctx context.Context, meal *entity.MealLog) error
	CreateExercise(ctx context.Context, exercise *entity.ExerciseLog) error
	CreateScan(ctx context.Context, scan *entity.ScanHistory) error
	CreateOrderItem(ctx context.Context, item *entity.OrderItem) error

	// CountRecordsSince counts a member's records of kind at or after since.
	CountRecordsSince(ctx context.Context, memberId uuid.UUID, kind entity.RecordKind, since time.Time) (int64, error)

	FindMealsSince(ctx context.Context, memberId uuid.UUID, since time.Time) ([]*entity.MealLog, error)
	FindExercisesSince(ctx context.Context, memberId uuid.UUID, since time.Time) ([]*entity.ExerciseLog, error)
	FindRecentOrderItems(ctx context.Context, memberId uuid.UUID, since time.Time, limit int) ([]*entity.OrderItem, error)
}
