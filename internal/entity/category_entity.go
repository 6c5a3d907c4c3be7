// FILE: internal/entity/category_entity.go
package entity

// Category names a coaching message kind.
type Category string

const (
	CategoryMorning       Category = "morning"
	CategoryLunch         Category = "lunch"
	CategoryDinner        Category = "dinner"
	CategoryEvening       Category = "evening"
	CategoryWeekly        Category = "weekly"
	CategoryWater         Category = "water"
	CategoryProgressPhoto Category = "progress_photo"
	CategoryPostExercise  Category = "post_exercise"
	CategoryMilestone     Category = "milestone"
	CategoryInactive      Category = "inactive"
)

var notificationCategories = []Category{
	CategoryMorning,
	CategoryLunch,
	CategoryDinner,
	CategoryEvening,
	CategoryWeekly,
	CategoryWater,
	CategoryProgressPhoto,
	CategoryPostExercise,
	CategoryMilestone,
	CategoryInactive,
}

// NotificationCategories lists every category the batch runner accepts.
func NotificationCategories() []Category {
	out := make([]Category, len(notificationCategories))
	copy(out, notificationCategories)
	return out
}

func ParseCategory(s string) (Category, bool) {
	for _, c := range notificationCategories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// IsTimeScheduled reports whether the member type carries a time-of-day for the category.
func (c Category) IsTimeScheduled() bool {
	switch c {
	case CategoryMorning, CategoryLunch, CategoryDinner, CategoryEvening:
		return true
	}
	return false
}

// HasPreferenceFlag is false for categories that bypass per-member opt-in.
func (c Category) HasPreferenceFlag() bool {
	return c != CategoryMilestone && c != CategoryInactive
}

// LimitKind names an AI-driven action with a daily quota.
type LimitKind string

const (
	LimitPhotoAnalysis  LimitKind = "photo_analysis"
	LimitTextAnalysis   LimitKind = "text_analysis"
	LimitRecommendation LimitKind = "recommendation"
	LimitScan           LimitKind = "scan"
)

func ParseLimitKind(s string) (LimitKind, bool) {
	switch LimitKind(s) {
	case LimitPhotoAnalysis, LimitTextAnalysis, LimitRecommendation, LimitScan:
		return LimitKind(s), true
	}
	return "", false
}
