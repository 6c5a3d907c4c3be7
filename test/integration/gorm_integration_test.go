package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/model"
	"nutricoach-be/internal/repository/specification"
	"nutricoach-be/internal/repository/unitofwork"
	"nutricoach-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn, false)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	require.NoError(t, gormDB.AutoMigrate(model.CoachModels()...))

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	assert.NoError(t, sqlDB.Ping())

	t.Run("Check Member Repository", func(t *testing.T) {
		count, err := uow.MemberRepository().Count(ctx)
		assert.NoError(t, err)
		t.Logf("Member count: %d", count)
	})

	t.Run("Check System Setting is created lazily", func(t *testing.T) {
		setting, err := uow.SystemSettingRepository().Get(ctx)
		require.NoError(t, err)
		assert.Positive(t, setting.TrialDays)
	})

	t.Run("Trial reassignment in a transaction", func(t *testing.T) {
		trial := &entity.MemberType{Id: uuid.New(), Name: "it-trial-" + uuid.NewString()[:8], IsActive: true}
		general := &entity.MemberType{Id: uuid.New(), Name: "it-general-" + uuid.NewString()[:8], IsActive: true}
		expired := time.Now().UTC().Add(-time.Hour)
		member := &entity.Member{
			Id:                uuid.New(),
			ExternalId:        "it-" + uuid.NewString(),
			ActivityStatus:    entity.ActivityStatusActive,
			MemberTypeId:      &trial.Id,
			AiCoachExpireDate: &expired,
			Preferences:       entity.DefaultPreferences(),
		}

		tx := uowFactory.NewUnitOfWork(ctx)
		require.NoError(t, tx.Begin(ctx))
		defer tx.Rollback()

		require.NoError(t, tx.MemberTypeRepository().Create(ctx, trial))
		require.NoError(t, tx.MemberTypeRepository().Create(ctx, general))
		require.NoError(t, tx.MemberRepository().Create(ctx, member))

		changed, err := tx.MemberRepository().ReassignType(ctx, member.Id, general.Id, nil)
		require.NoError(t, err)
		assert.True(t, changed)

		changed, err = tx.MemberRepository().ReassignType(ctx, member.Id, general.Id, nil)
		require.NoError(t, err)
		assert.False(t, changed)

		got, err := tx.MemberRepository().FindOne(ctx, specification.ByID{ID: member.Id})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, general.Id, *got.MemberTypeId)
		assert.Nil(t, got.AiCoachExpireDate)
	})
}
