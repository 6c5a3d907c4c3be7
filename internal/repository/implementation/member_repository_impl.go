package implementation

import (
	"context"
	"errors"
	"time"

	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/mapper"
	"nutricoach-be/internal/model"
	"nutricoach-be/internal/repository/contract"
	"nutricoach-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MemberMapper
}

func NewMemberRepository(db *gorm.DB) contract.MemberRepository {
	return &MemberRepositoryImpl{
		db:     db,
		mapper: mapper.NewMemberMapper(),
	}
}

func (r *MemberRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MemberRepositoryImpl) Create(ctx context.Context, member *entity.Member) error {
	m := r.mapper.ToModel(member)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*member = *r.mapper.ToEntity(m)
	return nil
}

func (r *MemberRepositoryImpl) Update(ctx context.Context, member *entity.Member) error {
	m := r.mapper.ToModel(member)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*member = *r.mapper.ToEntity(m)
	return nil
}

func (r *MemberRepositoryImpl) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.Member{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("member not found")
	}
	return nil
}

func (r *MemberRepositoryImpl) ReassignType(ctx context.Context, id uuid.UUID, toType uuid.UUID, expire *time.Time) (bool, error) {
	if expire != nil {
		u := expire.UTC()
		expire = &u
	}
	result := r.db.WithContext(ctx).
		Model(&model.Member{}).
		Where("id = ? AND (member_type_id IS NULL OR member_type_id <> ?)", id, toType).
		Updates(map[string]interface{}{
			"member_type_id":       toType,
			"ai_coach_expire_date": expire,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *MemberRepositoryImpl) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.ActivityStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Member{}).
		Where("id = ? AND activity_status = ?", id, string(from)).
		Update("activity_status", string(to))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *MemberRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Member, error) {
	var m model.Member
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *MemberRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Member, error) {
	var members []*model.Member
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&members).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(members), nil
}

func (r *MemberRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Member{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
