package main

import (
	"testing"

	"nutricoach-be/internal/model"
	"nutricoach-be/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)

	require.NoError(t, Seed(db))
	require.NoError(t, Seed(db))

	var types []model.MemberType
	require.NoError(t, db.Order("name").Find(&types).Error)
	require.Len(t, types, 2)
	assert.Equal(t, generalTypeName, types[0].Name)
	assert.True(t, types[0].IsDefault)
	assert.Equal(t, trialTypeName, types[1].Name)

	var setting model.SystemSetting
	require.NoError(t, db.First(&setting, 1).Error)
	assert.Equal(t, 7, setting.TrialDays)
	require.NotNil(t, setting.TrialMemberTypeId)
	assert.Equal(t, types[1].Id, *setting.TrialMemberTypeId)
	assert.Equal(t, types[0].Id, *setting.GeneralMemberTypeId)
}
