package coach

import (
	"context"
	"testing"
	"time"

	"nutricoach-be/internal/model"
	"nutricoach-be/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (h *harness) sweeper() *Sweeper {
	return NewSweeper(h.factory, h.settings, h.entitlement, h.engine, h.clock, h.logger, testZone, 2)
}

func TestExpireTrials_ReassignsExpiredMembers(t *testing.T) {
	h := newHarness(t)
	trial := testutil.TestMemberType(t, h.db, testutil.WithTypeName("trial"), testutil.WithCourseDuration(7))
	general := testutil.TestMemberType(t, h.db, testutil.WithTypeName("general"), testutil.WithCourseDuration(0))
	testutil.TestSystemSetting(t, h.db, func(s *model.SystemSetting) {
		s.TrialMemberTypeId = &trial.Id
		s.GeneralMemberTypeId = &general.Id
	})

	expired := testutil.TestMember(t, h.db, &trial.Id, testutil.WithExpireDate(testNow.AddDate(0, 0, -1)))
	// Expires later today (local), still entitled.
	today := testutil.TestMember(t, h.db, &trial.Id, testutil.WithExpireDate(time.Date(2026, 3, 9, 18, 0, 0, 0, time.UTC)))
	active := testutil.TestMember(t, h.db, &trial.Id, testutil.WithExpireDate(testNow.AddDate(0, 0, 3)))
	missing := testutil.TestMember(t, h.db, &trial.Id)
	onGeneral := testutil.TestMember(t, h.db, &general.Id)

	result, err := h.sweeper().ExpireTrials(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 2, result.Unchanged)
	assert.Equal(t, 0, result.Failed)

	for _, m := range []*model.Member{expired, missing} {
		got := h.reload(m)
		require.NotNil(t, got.MemberTypeId)
		assert.Equal(t, general.Id, *got.MemberTypeId)
		assert.Nil(t, got.AiCoachExpireDate)
	}
	for _, m := range []*model.Member{today, active} {
		got := h.reload(m)
		assert.Equal(t, trial.Id, *got.MemberTypeId)
		assert.NotNil(t, got.AiCoachExpireDate)
	}
	assert.Equal(t, general.Id, *h.reload(onGeneral).MemberTypeId)

	again, err := h.sweeper().ExpireTrials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, again.Updated)
	assert.Equal(t, 2, again.Total)
}

func TestExpireTrials_ClearsExpiryForTimedGeneralType(t *testing.T) {
	h := newHarness(t)
	trial := testutil.TestMemberType(t, h.db, testutil.WithTypeName("trial"), testutil.WithCourseDuration(7))
	general := testutil.TestMemberType(t, h.db, testutil.WithTypeName("general"), testutil.WithCourseDuration(30))
	testutil.TestSystemSetting(t, h.db, func(s *model.SystemSetting) {
		s.TrialMemberTypeId = &trial.Id
		s.GeneralMemberTypeId = &general.Id
	})
	m := testutil.TestMember(t, h.db, &trial.Id, testutil.WithExpireDate(testNow.AddDate(0, 0, -2)))

	result, err := h.sweeper().ExpireTrials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	got := h.reload(m)
	assert.Equal(t, general.Id, *got.MemberTypeId)
	assert.Nil(t, got.AiCoachExpireDate)
}

func TestExpireTrials_NoGeneralTypeConfigured(t *testing.T) {
	h := newHarness(t)
	testutil.TestSystemSetting(t, h.db)
	trial := testutil.TestMemberType(t, h.db, testutil.WithCourseDuration(7))
	m := testutil.TestMember(t, h.db, &trial.Id, testutil.WithExpireDate(testNow.AddDate(0, 0, -3)))

	result, err := h.sweeper().ExpireTrials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Equal(t, trial.Id, *h.reload(m).MemberTypeId)
}

func TestMarkInactiveMembers(t *testing.T) {
	h := newHarness(t)
	testutil.TestSystemSetting(t, h.db)
	mt := testutil.TestMemberType(t, h.db)
	patient := testutil.TestMemberType(t, h.db, func(mt *model.MemberType) { mt.InactiveDays = 7 })

	stale := testutil.TestMember(t, h.db, &mt.Id, testutil.WithLastActiveAt(testNow.AddDate(0, 0, -3)))
	yesterday := testutil.TestMember(t, h.db, &mt.Id, testutil.WithLastActiveAt(testNow.AddDate(0, 0, -1)))
	today := testutil.TestMember(t, h.db, &mt.Id, testutil.WithLastActiveAt(testNow.Add(-time.Hour)))
	neverActed := testutil.TestMember(t, h.db, nil, testutil.WithCreatedAt(testNow.AddDate(0, 0, -5)))
	tolerated := testutil.TestMember(t, h.db, &patient.Id, testutil.WithLastActiveAt(testNow.AddDate(0, 0, -4)))

	result, err := h.sweeper().MarkInactiveMembers(context.Background())
	require.NoError(t, err)

	// "today" is excluded by the query, the rest are visited.
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 2, result.Updated)

	assert.Equal(t, "inactive", h.reload(stale).ActivityStatus)
	assert.Equal(t, "inactive", h.reload(neverActed).ActivityStatus)
	assert.Equal(t, "active", h.reload(yesterday).ActivityStatus)
	assert.Equal(t, "active", h.reload(today).ActivityStatus)
	assert.Equal(t, "active", h.reload(tolerated).ActivityStatus)

	again, err := h.sweeper().MarkInactiveMembers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, again.Updated)
}
