package coach

import (
	"time"

	"nutricoach-be/internal/entity"
	"nutricoach-be/pkg/clock"
)

// Reason is the machine-readable outcome of an eligibility check.
type Reason string

const (
	ReasonEligible           Reason = "eligible"
	ReasonCoachDisabled      Reason = "ai_coach_disabled"
	ReasonNoMemberType       Reason = "no_member_type"
	ReasonExpired            Reason = "entitlement_expired"
	ReasonTypeInactive       Reason = "member_type_inactive"
	ReasonCategoryDisabled   Reason = "category_disabled"
	ReasonPaused             Reason = "paused"
	ReasonOutsideWindow      Reason = "outside_window"
	ReasonPreferenceOff      Reason = "preference_off"
	ReasonNotMilestoneDay    Reason = "not_milestone_day"
	ReasonRecentlyActive     Reason = "recently_active"
	ReasonAlreadyInactive    Reason = "already_inactive"
	ReasonNoRecentExercise   Reason = "no_recent_exercise"
	ReasonAlreadySent        Reason = "already_sent"
	ReasonMemberTypeNotFound Reason = "member_type_not_found"
	ReasonNoSchedule         Reason = "no_schedule"
)

// PostExerciseWindow is how recent an exercise must be for a post-exercise message.
const PostExerciseWindow = 2 * time.Hour

var milestoneDays = map[int]bool{7: true, 14: true, 30: true, 60: true, 90: true, 180: true, 365: true}

// IsMilestoneDay reports whether days since sign-up is a membership anniversary.
func IsMilestoneDay(days int) bool {
	return milestoneDays[days]
}

// Facts are current-state inputs some categories need beyond the member row.
type Facts struct {
	LastExerciseAt *time.Time
}

type Decision struct {
	Send   bool
	Reason Reason
}

func skip(r Reason) Decision {
	return Decision{Send: false, Reason: r}
}

type EligibilityEngine struct {
	entitlement   *EntitlementResolver
	zoneOffset    int
	windowMinutes int
}

func NewEligibilityEngine(entitlement *EntitlementResolver, zoneOffsetMinutes, windowMinutes int) *EligibilityEngine {
	if windowMinutes <= 0 {
		windowMinutes = clock.DefaultWindowMinutes
	}
	return &EligibilityEngine{
		entitlement:   entitlement,
		zoneOffset:    zoneOffsetMinutes,
		windowMinutes: windowMinutes,
	}
}

// Evaluate decides whether member should receive category at now. Checks run
// in a fixed order and the first failing one is reported. Missing optional
// configuration makes a check inapplicable rather than failing it.
func (e *EligibilityEngine) Evaluate(
	member *entity.Member,
	memberType *entity.MemberType,
	setting *entity.SystemSetting,
	category entity.Category,
	now time.Time,
	facts Facts,
) Decision {
	if setting != nil && !setting.AiCoachEnabled {
		return skip(ReasonCoachDisabled)
	}

	// 1. entitlement and type-level switches
	ent := e.entitlement.Resolve(memberType, member.AiCoachExpireDate, now)
	switch ent.Status {
	case EntitlementNotAssigned:
		return skip(ReasonNoMemberType)
	case EntitlementExpired:
		return skip(ReasonExpired)
	}
	if enabled, configured := memberType.CategoryEnabled(category); configured {
		if !memberType.IsActive {
			return skip(ReasonTypeInactive)
		}
		if !enabled {
			return skip(ReasonCategoryDisabled)
		}
	}

	// 2. pause
	if member.NotificationsPausedUntil != nil && now.Before(*member.NotificationsPausedUntil) {
		return skip(ReasonPaused)
	}

	// 3. schedule window
	if category.IsTimeScheduled() {
		scheduled := memberType.ScheduleFor(category)
		if scheduled != "" && !clock.MatchesWindow(scheduled, clock.LocalHHMM(now, e.zoneOffset), e.windowMinutes) {
			return skip(ReasonOutsideWindow)
		}
	}

	// 4. member preference
	if category.HasPreferenceFlag() && !member.PreferenceFor(category) {
		return skip(ReasonPreferenceOff)
	}

	switch category {
	case entity.CategoryMilestone:
		if !IsMilestoneDay(clock.CalendarDaysBetween(member.CreatedAt, now, e.zoneOffset)) {
			return skip(ReasonNotMilestoneDay)
		}
	case entity.CategoryInactive:
		if member.ActivityStatus == entity.ActivityStatusInactive {
			return skip(ReasonAlreadyInactive)
		}
		if e.DaysSinceActive(member, now) < memberType.EffectiveInactiveDays() {
			return skip(ReasonRecentlyActive)
		}
	case entity.CategoryPostExercise:
		if facts.LastExerciseAt == nil || now.Sub(*facts.LastExerciseAt) > PostExerciseWindow {
			return skip(ReasonNoRecentExercise)
		}
	}

	return Decision{Send: true, Reason: ReasonEligible}
}

// DaysSinceActive counts local calendar days since the member's last qualifying action.
func (e *EligibilityEngine) DaysSinceActive(member *entity.Member, now time.Time) int {
	return clock.CalendarDaysBetween(member.LastQualifyingAction(), now, e.zoneOffset)
}
