package coach

import (
	"context"
	"fmt"
	"testing"
	"time"

	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/model"
	"nutricoach-be/internal/repository/redisstore"
	"nutricoach-be/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMembers(t *testing.T, h *harness, n int, typeID *model.MemberType) []*model.Member {
	t.Helper()
	members := make([]*model.Member, 0, n)
	for i := 1; i <= n; i++ {
		members = append(members, testutil.TestMember(t, h.db, &typeID.Id,
			testutil.WithExternalID(fmt.Sprintf("U%02d", i)),
			testutil.WithCreatedAt(testNow.AddDate(0, 0, -3)),
		))
	}
	return members
}

func TestRunBatch_MemberFailureIsIsolated(t *testing.T) {
	h := newHarness(t)
	testutil.TestSystemSetting(t, h.db)
	mt := testutil.TestMemberType(t, h.db, testutil.WithCourseDuration(0))
	seedMembers(t, h, 10, mt)

	h.sender.failFor["U05"] = true

	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			h.sender.sent = nil
			stats, err := h.runner(BatchConfig{Workers: workers, PageSize: 3}, nil).RunBatch(context.Background(), entity.CategoryWater)
			require.NoError(t, err)

			assert.Equal(t, 9, stats.Sent)
			assert.Equal(t, 1, stats.Failed)
			assert.Equal(t, 0, stats.Skipped)
			assert.Equal(t, 10, stats.Total)
			assert.NotContains(t, h.sender.Sent(), "U05")
		})
	}
}

func TestRunBatch_PanicIsIsolated(t *testing.T) {
	h := newHarness(t)
	testutil.TestSystemSetting(t, h.db)
	mt := testutil.TestMemberType(t, h.db, testutil.WithCourseDuration(0))
	seedMembers(t, h, 5, mt)

	h.sender.panicFor["U02"] = true

	stats, err := h.runner(BatchConfig{}, nil).RunBatch(context.Background(), entity.CategoryWater)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Sent)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 5, stats.Total)
}

func TestRunBatch_SkipReasonsAndCoarseFilter(t *testing.T) {
	h := newHarness(t)
	testutil.TestSystemSetting(t, h.db)
	mt := testutil.TestMemberType(t, h.db,
		testutil.WithCourseDuration(30),
		testutil.WithSchedule("10:10", "", "", ""),
	)

	testutil.TestMember(t, h.db, &mt.Id, testutil.WithExternalID("active"), testutil.WithExpireDate(testNow.AddDate(0, 0, 5)))
	testutil.TestMember(t, h.db, &mt.Id, testutil.WithExternalID("expired"), testutil.WithExpireDate(testNow.AddDate(0, 0, -5)))
	testutil.TestMember(t, h.db, &mt.Id, testutil.WithExternalID("paused"),
		testutil.WithExpireDate(testNow.AddDate(0, 0, 5)),
		testutil.WithPausedUntil(testNow.Add(24*time.Hour)))
	testutil.TestMember(t, h.db, &mt.Id, testutil.WithExternalID("optout"),
		testutil.WithExpireDate(testNow.AddDate(0, 0, 5)),
		testutil.WithMorningOptOut())
	// Not visited at all.
	testutil.TestMember(t, h.db, nil, testutil.WithExternalID("typeless"))
	testutil.TestMember(t, h.db, &mt.Id, testutil.WithExternalID("inactive"), testutil.WithStatus("inactive"))

	stats, err := h.runner(BatchConfig{}, nil).RunBatch(context.Background(), entity.CategoryMorning)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Sent)
	assert.Equal(t, 3, stats.Skipped)
	assert.Equal(t, map[Reason]int{
		ReasonExpired:       1,
		ReasonPaused:        1,
		ReasonPreferenceOff: 1,
	}, stats.SkipReasons)
	assert.Equal(t, []string{"active"}, h.sender.Sent())
}

func TestRunBatch_RecordsHistory(t *testing.T) {
	h := newHarness(t)
	testutil.TestSystemSetting(t, h.db)
	mt := testutil.TestMemberType(t, h.db, testutil.WithCourseDuration(0))
	members := seedMembers(t, h, 2, mt)
	h.sender.failFor["U02"] = true

	_, err := h.runner(BatchConfig{}, nil).RunBatch(context.Background(), entity.CategoryWater)
	require.NoError(t, err)

	var rows []model.CoachNotification
	require.NoError(t, h.db.Order("member_id").Find(&rows).Error)
	require.Len(t, rows, 2)

	byMember := map[string]model.CoachNotification{}
	for _, r := range rows {
		byMember[r.MemberID.String()] = r
	}
	assert.True(t, byMember[members[0].Id.String()].Delivered)
	assert.False(t, byMember[members[1].Id.String()].Delivered)
	assert.Equal(t, "water", byMember[members[0].Id.String()].Category)
	assert.Equal(t, "Eat a salad with grilled chicken.", byMember[members[0].Id.String()].Message)
}

func TestRunBatch_FallbackWhenGeneratorFails(t *testing.T) {
	h := newHarness(t)
	testutil.TestSystemSetting(t, h.db)
	mt := testutil.TestMemberType(t, h.db, testutil.WithCourseDuration(0))
	seedMembers(t, h, 1, mt)
	h.provider.err = fmt.Errorf("model overloaded")

	stats, err := h.runner(BatchConfig{}, nil).RunBatch(context.Background(), entity.CategoryWater)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Sent)
	require.Len(t, h.sender.messages, 1)
	assert.Contains(t, h.sender.messages[0].Body, "glass of water")
}

func TestRunBatch_CoachDisabled(t *testing.T) {
	h := newHarness(t)
	testutil.TestSystemSetting(t, h.db, func(s *model.SystemSetting) { s.AiCoachEnabled = false })
	mt := testutil.TestMemberType(t, h.db, testutil.WithCourseDuration(0))
	seedMembers(t, h, 3, mt)

	stats, err := h.runner(BatchConfig{}, nil).RunBatch(context.Background(), entity.CategoryWater)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Skipped)
	assert.Equal(t, 3, stats.SkipReasons[ReasonCoachDisabled])
	assert.Empty(t, h.sender.Sent())
}

func TestRunBatch_SendGuardPreventsDuplicates(t *testing.T) {
	h := newHarness(t)
	testutil.TestSystemSetting(t, h.db)
	mt := testutil.TestMemberType(t, h.db, testutil.WithCourseDuration(0))
	seedMembers(t, h, 3, mt)
	h.sender.failFor["U03"] = true

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	runner := h.runner(BatchConfig{}, redisstore.NewSendGuard(rdb))

	first, err := runner.RunBatch(context.Background(), entity.CategoryWater)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Sent)
	assert.Equal(t, 1, first.Failed)

	// The failed member's slot was released, so it is retried.
	h.sender.failFor["U03"] = false
	second, err := runner.RunBatch(context.Background(), entity.CategoryWater)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Sent)
	assert.Equal(t, 2, second.SkipReasons[ReasonAlreadySent])

	// Next local day the slots are fresh.
	h.clock.Advance(24 * time.Hour)
	third, err := runner.RunBatch(context.Background(), entity.CategoryWater)
	require.NoError(t, err)
	assert.Equal(t, 3, third.Sent)
}

func TestRunBatch_CancelledBeforeStart(t *testing.T) {
	h := newHarness(t)
	testutil.TestSystemSetting(t, h.db)
	mt := testutil.TestMemberType(t, h.db, testutil.WithCourseDuration(0))
	seedMembers(t, h, 3, mt)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := h.runner(BatchConfig{}, nil).RunBatch(ctx, entity.CategoryWater)
	// Settings may be served from a cold cache; either outcome must not send.
	if err == nil {
		assert.True(t, stats.Cancelled)
		assert.Equal(t, 0, stats.Total)
	}
	assert.Empty(t, h.sender.Sent())
}

func TestRunBatch_UnknownCategory(t *testing.T) {
	h := newHarness(t)
	_, err := h.runner(BatchConfig{}, nil).RunBatch(context.Background(), entity.Category("brunch"))
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestRunBatch_SendDelayPacesSends(t *testing.T) {
	h := newHarness(t)
	testutil.TestSystemSetting(t, h.db)
	mt := testutil.TestMemberType(t, h.db, testutil.WithCourseDuration(0))
	seedMembers(t, h, 4, mt)

	started := time.Now()
	stats, err := h.runner(BatchConfig{Workers: 4, SendDelay: 20 * time.Millisecond}, nil).RunBatch(context.Background(), entity.CategoryWater)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Sent)
	// First token is immediate, the remaining three wait one interval each.
	assert.GreaterOrEqual(t, time.Since(started), 55*time.Millisecond)
}

func TestRunBatch_PostExerciseUsesRecentExercise(t *testing.T) {
	h := newHarness(t)
	testutil.TestSystemSetting(t, h.db)
	mt := testutil.TestMemberType(t, h.db, testutil.WithCourseDuration(0))
	members := seedMembers(t, h, 2, mt)
	testutil.TestExercise(t, h.db, members[0].Id, testNow.Add(-45*time.Minute))
	testutil.TestExercise(t, h.db, members[1].Id, testNow.Add(-5*time.Hour))

	stats, err := h.runner(BatchConfig{}, nil).RunBatch(context.Background(), entity.CategoryPostExercise)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Sent)
	assert.Equal(t, 1, stats.SkipReasons[ReasonNoRecentExercise])
	assert.Equal(t, []string{"U01"}, h.sender.Sent())
}

func TestRunBatch_HourlyTicksOverOneDay(t *testing.T) {
	h := newHarness(t)
	testutil.TestSystemSetting(t, h.db)
	mt := testutil.TestMemberType(t, h.db,
		testutil.WithCourseDuration(0),
		testutil.WithSchedule("07:00", "", "", ""),
	)
	seedMembers(t, h, 1, mt)
	runner := h.runner(BatchConfig{}, nil)

	// Local midnight of testNow's day.
	h.clock.At = testNow.Add(-10 * time.Hour)
	sent := map[entity.Category]int{}
	unscheduled := 0
	for tick := 0; tick < 24; tick++ {
		for _, category := range []entity.Category{entity.CategoryMorning, entity.CategoryLunch} {
			stats, err := runner.RunBatch(context.Background(), category)
			require.NoError(t, err)
			sent[category] += stats.Sent
			unscheduled += stats.SkipReasons[ReasonNoSchedule]
		}
		h.clock.Advance(time.Hour)
	}

	assert.Equal(t, 1, sent[entity.CategoryMorning])
	assert.Equal(t, 0, sent[entity.CategoryLunch])
	assert.Equal(t, 24, unscheduled)
	assert.Equal(t, []string{"U01"}, h.sender.Sent())
}

func TestEvaluate_UnscheduledCategoryStillEligibleOnDirectCall(t *testing.T) {
	h := newHarness(t)
	mt := testutil.TestMemberType(t, h.db, testutil.WithCourseDuration(0))
	member := testutil.TestMember(t, h.db, &mt.Id)
	memberType := &entity.MemberType{Id: mt.Id, CourseDuration: 0, IsActive: true}

	d := h.engine.Evaluate(h.member(member), memberType, nil, entity.CategoryLunch, testNow, Facts{})
	assert.True(t, d.Send)
	assert.Equal(t, ReasonEligible, d.Reason)
}
