package main

import (
	"log"

	"nutricoach-be/internal/model"

	"gorm.io/gorm"
)

const (
	trialTypeName   = "Trial"
	generalTypeName = "General"
)

func intPtr(v int) *int { return &v }

// Seed creates the trial and general member types and points the system
// setting at them. Existing rows are left untouched.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		trial := model.MemberType{
			Name:                 trialTypeName,
			PhotoAnalysisLimit:   intPtr(3),
			TextAnalysisLimit:    intPtr(3),
			RecommendationLimit:  intPtr(3),
			ScanLimit:            intPtr(3),
			MorningTime:          "07:00",
			LunchTime:            "12:00",
			DinnerTime:           "18:00",
			EveningTime:          "21:00",
			WeeklyEnabled:        true,
			WaterEnabled:         true,
			ProgressPhotoEnabled: true,
			PostExerciseEnabled:  true,
			InactiveDays:         2,
			IsActive:             true,
		}
		if err := tx.Where("name = ?", trialTypeName).FirstOrCreate(&trial).Error; err != nil {
			return err
		}

		general := model.MemberType{
			Name:                generalTypeName,
			PhotoAnalysisLimit:  intPtr(1),
			TextAnalysisLimit:   intPtr(1),
			RecommendationLimit: intPtr(1),
			ScanLimit:           intPtr(1),
			MorningTime:         "07:00",
			InactiveDays:        3,
			IsActive:            true,
			IsDefault:           true,
		}
		if err := tx.Where("name = ?", generalTypeName).FirstOrCreate(&general).Error; err != nil {
			return err
		}

		setting := model.SystemSetting{
			Id:                  1,
			TrialDays:           7,
			TrialMemberTypeId:   &trial.Id,
			GeneralMemberTypeId: &general.Id,
			AiCoachEnabled:      true,
		}
		if err := tx.Where("id = ?", 1).FirstOrCreate(&setting).Error; err != nil {
			return err
		}

		log.Printf("Seeded member types: %s=%s, %s=%s", trialTypeName, trial.Id, generalTypeName, general.Id)
		return nil
	})
}
