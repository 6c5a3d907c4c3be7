package implementation

import (
	"context"
	"errors"

	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/mapper"
	"nutricoach-be/internal/model"
	"nutricoach-be/internal/repository/contract"
	"nutricoach-be/internal/repository/specification"

	"gorm.io/gorm"
)

type MemberTypeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MemberTypeMapper
}

func NewMemberTypeRepository(db *gorm.DB) contract.MemberTypeRepository {
	return &MemberTypeRepositoryImpl{
		db:     db,
		mapper: mapper.NewMemberTypeMapper(),
	}
}

func (r *MemberTypeRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MemberTypeRepositoryImpl) Create(ctx context.Context, memberType *entity.MemberType) error {
	m := r.mapper.ToModel(memberType)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*memberType = *r.mapper.ToEntity(m)
	return nil
}

func (r *MemberTypeRepositoryImpl) Update(ctx context.Context, memberType *entity.MemberType) error {
	m := r.mapper.ToModel(memberType)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*memberType = *r.mapper.ToEntity(m)
	return nil
}

func (r *MemberTypeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MemberType, error) {
	var m model.MemberType
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *MemberTypeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MemberType, error) {
	var types []*model.MemberType
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&types).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(types), nil
}

func (r *MemberTypeRepositoryImpl) ClearDefault(ctx context.Context, keep *entity.MemberType) error {
	query := r.db.WithContext(ctx).Model(&model.MemberType{}).Where("is_default = ?", true)
	if keep != nil {
		query = query.Where("id <> ?", keep.Id)
	}
	return query.Update("is_default", false).Error
}
