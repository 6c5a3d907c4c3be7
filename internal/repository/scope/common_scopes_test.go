package scope_test

import (
	"testing"
	"time"

	"nutricoach-be/internal/model"
	"nutricoach-be/internal/repository/scope"
	"nutricoach-be/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberScopes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	memberType := testutil.TestMemberType(t, db)
	alice := testutil.TestMember(t, db, &memberType.Id, testutil.WithExternalID("alice"))
	bob := testutil.TestMember(t, db, &memberType.Id, testutil.WithExternalID("bob"))

	now := time.Now().UTC()
	testutil.TestMeal(t, db, alice.Id, "manual", now.Add(-48*time.Hour), 300)
	testutil.TestMeal(t, db, alice.Id, "manual", now.Add(-time.Hour), 400)
	testutil.TestMeal(t, db, bob.Id, "manual", now.Add(-time.Hour), 500)

	var count int64
	require.NoError(t, db.Model(&model.MealLog{}).
		Scopes(scope.ForMember(alice.Id), scope.Since("logged_at", now.Add(-24*time.Hour))).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, db.Model(&model.MealLog{}).Scopes(scope.ForMember(alice.Id)).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestOrderByCreatedDesc(t *testing.T) {
	db := testutil.SetupTestDB(t)
	memberType := testutil.TestMemberType(t, db)
	member := testutil.TestMember(t, db, &memberType.Id)

	base := time.Now().UTC().Add(-time.Hour)
	for i, title := range []string{"first", "second", "third"} {
		require.NoError(t, db.Create(&model.CoachNotification{
			MemberID:  member.Id,
			Category:  "morning",
			Title:     title,
			Message:   title,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	var rows []model.CoachNotification
	require.NoError(t, db.Scopes(scope.ForMember(member.Id), scope.OrderByCreatedDesc).Find(&rows).Error)
	require.Len(t, rows, 3)
	assert.Equal(t, "third", rows[0].Message)
	assert.Equal(t, "first", rows[2].Message)
}
