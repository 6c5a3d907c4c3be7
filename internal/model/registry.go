package model

// CoachModels lists every table the service owns, in migration order.
func CoachModels() []interface{} {
	return []interface{}{
		&MemberType{},
		&Member{},
		&SystemSetting{},
		&AiRecommendation{},
		&MealLog{},
		&ExerciseLog{},
		&ScanHistory{},
		&OrderItem{},
		&CoachNotification{},
	}
}
