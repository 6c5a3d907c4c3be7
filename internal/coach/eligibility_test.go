package coach

import (
	"testing"
	"time"

	"nutricoach-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func eligibleType() *entity.MemberType {
	return &entity.MemberType{
		CourseDuration:       0,
		WeeklyEnabled:        true,
		WaterEnabled:         true,
		ProgressPhotoEnabled: true,
		PostExerciseEnabled:  true,
		IsActive:             true,
	}
}

func eligibleMember() *entity.Member {
	return &entity.Member{
		ExternalId:     "U1",
		ActivityStatus: entity.ActivityStatusActive,
		Preferences:    entity.DefaultPreferences(),
		CreatedAt:      testNow.AddDate(0, 0, -3),
		LastActiveAt:   ptrTime(testNow.Add(-2 * time.Hour)),
	}
}

func enabledSetting() *entity.SystemSetting {
	return entity.DefaultSystemSetting()
}

func TestEligibility_PauseSkipsEveryCategory(t *testing.T) {
	engine := NewEligibilityEngine(NewEntitlementResolver(testZone), testZone, 30)
	memberType := eligibleType()
	memberType.MorningTime = "10:00" // matches testNow

	member := eligibleMember()
	member.NotificationsPausedUntil = ptrTime(testNow.Add(time.Hour))

	for _, category := range entity.NotificationCategories() {
		t.Run(string(category), func(t *testing.T) {
			d := engine.Evaluate(member, memberType, enabledSetting(), category, testNow, Facts{LastExerciseAt: ptrTime(testNow)})
			assert.False(t, d.Send)
			assert.Equal(t, ReasonPaused, d.Reason)
		})
	}
}

func TestEligibility_PauseInThePastIsIgnored(t *testing.T) {
	engine := NewEligibilityEngine(NewEntitlementResolver(testZone), testZone, 30)
	member := eligibleMember()
	member.NotificationsPausedUntil = ptrTime(testNow.Add(-time.Minute))

	d := engine.Evaluate(member, eligibleType(), enabledSetting(), entity.CategoryWater, testNow, Facts{})
	assert.True(t, d.Send)
}

func TestEligibility_DecisionOrder(t *testing.T) {
	engine := NewEligibilityEngine(NewEntitlementResolver(testZone), testZone, 30)

	tests := []struct {
		name     string
		category entity.Category
		mutate   func(m *entity.Member, mt *entity.MemberType, s *entity.SystemSetting)
		facts    Facts
		want     Reason
		noType   bool
	}{
		{
			name:     "master switch off",
			category: entity.CategoryWater,
			mutate:   func(m *entity.Member, mt *entity.MemberType, s *entity.SystemSetting) { s.AiCoachEnabled = false },
			want:     ReasonCoachDisabled,
		},
		{
			name:     "no member type",
			category: entity.CategoryWater,
			noType:   true,
			want:     ReasonNoMemberType,
		},
		{
			name:     "expired beats pause",
			category: entity.CategoryWater,
			mutate: func(m *entity.Member, mt *entity.MemberType, s *entity.SystemSetting) {
				mt.CourseDuration = 30
				m.AiCoachExpireDate = ptrTime(testNow.AddDate(0, 0, -2))
				m.NotificationsPausedUntil = ptrTime(testNow.Add(time.Hour))
			},
			want: ReasonExpired,
		},
		{
			name:     "type switch off",
			category: entity.CategoryWater,
			mutate:   func(m *entity.Member, mt *entity.MemberType, s *entity.SystemSetting) { mt.WaterEnabled = false },
			want:     ReasonCategoryDisabled,
		},
		{
			name:     "inactive type with switch",
			category: entity.CategoryWeekly,
			mutate:   func(m *entity.Member, mt *entity.MemberType, s *entity.SystemSetting) { mt.IsActive = false },
			want:     ReasonTypeInactive,
		},
		{
			name:     "outside window",
			category: entity.CategoryMorning,
			mutate:   func(m *entity.Member, mt *entity.MemberType, s *entity.SystemSetting) { mt.MorningTime = "07:00" },
			want:     ReasonOutsideWindow,
		},
		{
			name:     "inside window",
			category: entity.CategoryMorning,
			mutate:   func(m *entity.Member, mt *entity.MemberType, s *entity.SystemSetting) { mt.MorningTime = "09:40" },
			want:     ReasonEligible,
		},
		{
			name:     "no schedule configured falls through",
			category: entity.CategoryDinner,
			want:     ReasonEligible,
		},
		{
			name:     "malformed schedule fails closed",
			category: entity.CategoryLunch,
			mutate:   func(m *entity.Member, mt *entity.MemberType, s *entity.SystemSetting) { mt.LunchTime = "noon" },
			want:     ReasonOutsideWindow,
		},
		{
			name:     "window beats preference",
			category: entity.CategoryMorning,
			mutate: func(m *entity.Member, mt *entity.MemberType, s *entity.SystemSetting) {
				mt.MorningTime = "06:00"
				m.Preferences.Morning = false
			},
			want: ReasonOutsideWindow,
		},
		{
			name:     "preference off",
			category: entity.CategoryEvening,
			mutate:   func(m *entity.Member, mt *entity.MemberType, s *entity.SystemSetting) { m.Preferences.Evening = false },
			want:     ReasonPreferenceOff,
		},
		{
			name:     "post exercise without exercise",
			category: entity.CategoryPostExercise,
			want:     ReasonNoRecentExercise,
		},
		{
			name:     "post exercise with stale exercise",
			category: entity.CategoryPostExercise,
			facts:    Facts{LastExerciseAt: ptrTime(testNow.Add(-3 * time.Hour))},
			want:     ReasonNoRecentExercise,
		},
		{
			name:     "post exercise with recent exercise",
			category: entity.CategoryPostExercise,
			facts:    Facts{LastExerciseAt: ptrTime(testNow.Add(-30 * time.Minute))},
			want:     ReasonEligible,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			member := eligibleMember()
			memberType := eligibleType()
			setting := enabledSetting()
			if tc.mutate != nil {
				tc.mutate(member, memberType, setting)
			}
			if tc.noType {
				memberType = nil
			}

			d := engine.Evaluate(member, memberType, setting, tc.category, testNow, tc.facts)
			assert.Equal(t, tc.want, d.Reason)
			assert.Equal(t, tc.want == ReasonEligible, d.Send)
		})
	}
}

func TestEligibility_Milestone(t *testing.T) {
	engine := NewEligibilityEngine(NewEntitlementResolver(testZone), testZone, 30)

	tests := []struct {
		daysAgo int
		want    bool
	}{
		{1, false},
		{7, true},
		{8, false},
		{14, true},
		{30, true},
		{60, true},
		{89, false},
		{365, true},
	}

	for _, tc := range tests {
		member := eligibleMember()
		// Late evening local time on the sign-up day still counts as that day.
		member.CreatedAt = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC).AddDate(0, 0, -tc.daysAgo)

		d := engine.Evaluate(member, eligibleType(), enabledSetting(), entity.CategoryMilestone, testNow, Facts{})
		assert.Equal(t, tc.want, d.Send, "created %d days ago", tc.daysAgo)
		if !tc.want {
			assert.Equal(t, ReasonNotMilestoneDay, d.Reason)
		}
	}
}

func TestEligibility_MilestoneIgnoresPreferences(t *testing.T) {
	engine := NewEligibilityEngine(NewEntitlementResolver(testZone), testZone, 30)
	member := eligibleMember()
	member.Preferences = entity.NotificationPreferences{}
	member.CreatedAt = testNow.AddDate(0, 0, -14)

	d := engine.Evaluate(member, eligibleType(), enabledSetting(), entity.CategoryMilestone, testNow, Facts{})
	assert.True(t, d.Send)
}

func TestEligibility_Inactive(t *testing.T) {
	engine := NewEligibilityEngine(NewEntitlementResolver(testZone), testZone, 30)

	t.Run("default threshold reached", func(t *testing.T) {
		member := eligibleMember()
		member.LastActiveAt = ptrTime(testNow.AddDate(0, 0, -2))
		d := engine.Evaluate(member, eligibleType(), enabledSetting(), entity.CategoryInactive, testNow, Facts{})
		assert.True(t, d.Send)
	})

	t.Run("recently active", func(t *testing.T) {
		member := eligibleMember()
		member.LastActiveAt = ptrTime(testNow.AddDate(0, 0, -1))
		d := engine.Evaluate(member, eligibleType(), enabledSetting(), entity.CategoryInactive, testNow, Facts{})
		assert.Equal(t, ReasonRecentlyActive, d.Reason)
	})

	t.Run("type threshold", func(t *testing.T) {
		member := eligibleMember()
		member.LastActiveAt = ptrTime(testNow.AddDate(0, 0, -4))
		mt := eligibleType()
		mt.InactiveDays = 5
		d := engine.Evaluate(member, mt, enabledSetting(), entity.CategoryInactive, testNow, Facts{})
		assert.Equal(t, ReasonRecentlyActive, d.Reason)
	})

	t.Run("never active falls back to sign-up", func(t *testing.T) {
		member := eligibleMember()
		member.LastActiveAt = nil
		member.CreatedAt = testNow.AddDate(0, 0, -10)
		d := engine.Evaluate(member, eligibleType(), enabledSetting(), entity.CategoryInactive, testNow, Facts{})
		assert.True(t, d.Send)
	})

	t.Run("already marked inactive", func(t *testing.T) {
		member := eligibleMember()
		member.ActivityStatus = entity.ActivityStatusInactive
		member.LastActiveAt = ptrTime(testNow.AddDate(0, 0, -10))
		d := engine.Evaluate(member, eligibleType(), enabledSetting(), entity.CategoryInactive, testNow, Facts{})
		assert.Equal(t, ReasonAlreadyInactive, d.Reason)
	})
}

func TestEligibility_WindowWrapsMidnight(t *testing.T) {
	engine := NewEligibilityEngine(NewEntitlementResolver(testZone), testZone, 30)
	mt := eligibleType()
	mt.EveningTime = "23:50"

	// 00:10 local on 2026-03-11
	now := time.Date(2026, 3, 10, 17, 10, 0, 0, time.UTC)
	member := eligibleMember()
	d := engine.Evaluate(member, mt, enabledSetting(), entity.CategoryEvening, now, Facts{})
	assert.True(t, d.Send)
}

func TestIsMilestoneDay(t *testing.T) {
	for _, d := range []int{7, 14, 30, 60, 90, 180, 365} {
		assert.True(t, IsMilestoneDay(d), d)
	}
	for _, d := range []int{0, 6, 8, 31, 364, 366} {
		assert.False(t, IsMilestoneDay(d), d)
	}
}
