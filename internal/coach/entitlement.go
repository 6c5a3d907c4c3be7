package coach

import (
	"math"
	"time"

	"nutricoach-be/internal/entity"
	"nutricoach-be/pkg/clock"
)

type EntitlementStatus string

const (
	EntitlementNotAssigned EntitlementStatus = "not_assigned"
	EntitlementUnlimited   EntitlementStatus = "unlimited"
	EntitlementActive      EntitlementStatus = "active"
	EntitlementExpired     EntitlementStatus = "expired"
)

// Entitlement is a member's AI-coach state. DaysLeft is set only when active.
type Entitlement struct {
	Status   EntitlementStatus `json:"status"`
	DaysLeft int               `json:"days_left,omitempty"`
}

func (e Entitlement) Entitled() bool {
	return e.Status == EntitlementUnlimited || e.Status == EntitlementActive
}

type EntitlementResolver struct {
	zoneOffset int
}

func NewEntitlementResolver(zoneOffsetMinutes int) *EntitlementResolver {
	return &EntitlementResolver{zoneOffset: zoneOffsetMinutes}
}

// Resolve classifies a member's plan at now. A member stays entitled for the
// whole local calendar day their expiry falls on.
func (r *EntitlementResolver) Resolve(memberType *entity.MemberType, expireDate *time.Time, now time.Time) Entitlement {
	if memberType == nil {
		return Entitlement{Status: EntitlementNotAssigned}
	}
	if memberType.IsUnlimited() {
		return Entitlement{Status: EntitlementUnlimited}
	}

	threshold := clock.DayThreshold(now, r.zoneOffset, clock.StartOfToday)
	if expireDate == nil || expireDate.Before(threshold) {
		return Entitlement{Status: EntitlementExpired}
	}

	days := int(math.Ceil(expireDate.Sub(now).Hours() / 24))
	if days < 0 {
		days = 0
	}
	return Entitlement{Status: EntitlementActive, DaysLeft: days}
}

// ExpiryFor computes the expiry of a plan granted at now. Plans without a
// course duration never expire and get nil.
func ExpiryFor(memberType *entity.MemberType, now time.Time) *time.Time {
	if memberType == nil || memberType.IsUnlimited() {
		return nil
	}
	at := now.AddDate(0, 0, memberType.CourseDuration).UTC()
	return &at
}

// TrialExpiry computes the expiry of a trial of trialDays granted at now.
func TrialExpiry(trialDays int, now time.Time) time.Time {
	if trialDays <= 0 {
		trialDays = entity.DefaultTrialDays
	}
	return now.AddDate(0, 0, trialDays).UTC()
}
