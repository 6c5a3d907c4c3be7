package memory

import (
	"context"
	"time"

	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/repository/specification"
	"nutricoach-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const settingsKey = "system_setting"

// SettingsCache is a read-through cache over the system setting row and
// member types. Entries are copied on the way out so callers may mutate them.
type SettingsCache struct {
	cache      *cache.Cache
	uowFactory unitofwork.RepositoryFactory
}

func NewSettingsCache(uowFactory unitofwork.RepositoryFactory, ttl time.Duration) *SettingsCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &SettingsCache{
		cache:      cache.New(ttl, 2*ttl),
		uowFactory: uowFactory,
	}
}

func (c *SettingsCache) Settings(ctx context.Context) (*entity.SystemSetting, error) {
	if x, found := c.cache.Get(settingsKey); found {
		s := *x.(*entity.SystemSetting)
		return &s, nil
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	setting, err := uow.SystemSettingRepository().Get(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Set(settingsKey, setting, cache.DefaultExpiration)

	s := *setting
	return &s, nil
}

// MemberType returns nil, nil for an unknown id.
func (c *SettingsCache) MemberType(ctx context.Context, id uuid.UUID) (*entity.MemberType, error) {
	key := memberTypeKey(id)
	if x, found := c.cache.Get(key); found {
		t := *x.(*entity.MemberType)
		return &t, nil
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	memberType, err := uow.MemberTypeRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if memberType == nil {
		return nil, nil
	}
	c.cache.Set(key, memberType, cache.DefaultExpiration)

	t := *memberType
	return &t, nil
}

// Invalidate drops every cached entry. Admin writes call it.
func (c *SettingsCache) Invalidate() {
	c.cache.Flush()
}

func memberTypeKey(id uuid.UUID) string {
	return "member_type:" + id.String()
}
