package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"nutricoach-be/internal/bootstrap"
	"nutricoach-be/internal/config"
	"nutricoach-be/internal/dto"
	"nutricoach-be/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testJwtSecret  = "test-jwt-secret"
	testCronSecret = "test-cron-secret"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Port:               "0",
			Environment:        "test",
			LogFilePath:        filepath.Join(t.TempDir(), "app.log"),
			CorsAllowedOrigins: "*",
			JwtSecret:          testJwtSecret,
			CronSecret:         testCronSecret,
		},
		Ai: config.AIConfig{LLMProvider: "none"},
		Coach: config.CoachConfig{
			ZoneOffsetMinutes: 420,
			WindowMinutes:     30,
			Workers:           1,
			PageSize:          50,
			SettingsCacheTTL:  time.Minute,
		},
		Messaging: config.MessagingConfig{Provider: "log"},
	}
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db := testutil.SetupTestDB(t)
	testutil.TestMemberType(t, db,
		testutil.WithTypeName("General"),
		testutil.WithDefaultType(),
		testutil.WithLimits(testutil.IntPtr(1), nil, nil, nil),
	)

	cfg := testConfig(t)
	container := bootstrap.NewContainer(db, cfg)
	t.Cleanup(container.Close)

	return New(cfg, container).GetApp()
}

func token(t *testing.T, memberID, role string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"member_id": memberID,
		"role":      role,
		"exp":       time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testJwtSecret))
	require.NoError(t, err)
	return signed
}

func do(t *testing.T, app *fiber.App, method, path string, body interface{}, headers map[string]string) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func bearer(tok string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + tok}
}

func ensureMember(t *testing.T, app *fiber.App) dto.MemberResponse {
	t.Helper()
	status, env := do(t, app, http.MethodPost, "/api/internal/members",
		dto.EnsureMemberRequest{ExternalId: "628123456789", DisplayName: "Sari"},
		map[string]string{"X-Cron-Secret": testCronSecret})
	require.Equal(t, http.StatusOK, status, env.Message)

	var member dto.MemberResponse
	require.NoError(t, json.Unmarshal(env.Data, &member))
	return member
}

func TestMemberFlow(t *testing.T) {
	app := newTestApp(t)
	member := ensureMember(t, app)
	auth := bearer(token(t, member.Id.String(), "user"))

	t.Run("ensure is idempotent", func(t *testing.T) {
		again := ensureMember(t, app)
		assert.Equal(t, member.Id, again.Id)
		assert.NotNil(t, again.MemberTypeId)
	})

	t.Run("me", func(t *testing.T) {
		status, env := do(t, app, http.MethodGet, "/api/coach/me", nil, auth)
		assert.Equal(t, http.StatusOK, status)
		assert.True(t, env.Success)
	})

	t.Run("photo meal is metered", func(t *testing.T) {
		meal := dto.LogMealRequest{Name: "Nasi goreng", Source: "photo", Calories: 550}

		status, _ := do(t, app, http.MethodPost, "/api/meals", meal, auth)
		assert.Equal(t, http.StatusCreated, status)

		status, env := do(t, app, http.MethodPost, "/api/meals", meal, auth)
		assert.Equal(t, http.StatusTooManyRequests, status)
		assert.False(t, env.Success)

		status, env = do(t, app, http.MethodGet, "/api/coach/usage/photo_analysis", nil, auth)
		require.Equal(t, http.StatusOK, status)
		var usage struct {
			Allowed bool `json:"allowed"`
			Used    int  `json:"used"`
			Limit   int  `json:"limit"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &usage))
		assert.False(t, usage.Allowed)
		assert.Equal(t, 1, usage.Used)
		assert.Equal(t, 1, usage.Limit)
	})

	t.Run("manual meal is not metered", func(t *testing.T) {
		status, _ := do(t, app, http.MethodPost, "/api/meals",
			dto.LogMealRequest{Name: "Apple", Source: "manual", Calories: 80}, auth)
		assert.Equal(t, http.StatusCreated, status)
	})

	t.Run("invalid meal source", func(t *testing.T) {
		status, _ := do(t, app, http.MethodPost, "/api/meals",
			dto.LogMealRequest{Name: "Apple", Source: "fax"}, auth)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("unknown usage kind", func(t *testing.T) {
		status, _ := do(t, app, http.MethodGet, "/api/coach/usage/teleport", nil, auth)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("recommendation falls back without a provider", func(t *testing.T) {
		status, env := do(t, app, http.MethodGet, "/api/coach/recommendation", nil, auth)
		require.Equal(t, http.StatusOK, status)
		var rec struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &rec))
		assert.NotEmpty(t, rec.Message)

		status, _ = do(t, app, http.MethodDelete, "/api/coach/recommendation", nil, auth)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("pause", func(t *testing.T) {
		until := time.Now().Add(24 * time.Hour)
		status, _ := do(t, app, http.MethodPut, "/api/coach/pause", dto.PauseNotificationsRequest{Until: &until}, auth)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("missing token", func(t *testing.T) {
		status, _ := do(t, app, http.MethodGet, "/api/coach/me", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestInternalBatchTrigger(t *testing.T) {
	app := newTestApp(t)
	ensureMember(t, app)
	cron := map[string]string{"X-Cron-Secret": testCronSecret}

	t.Run("runs a category", func(t *testing.T) {
		status, env := do(t, app, http.MethodPost, "/api/internal/coach/batch/morning", nil, cron)
		require.Equal(t, http.StatusOK, status, env.Message)
		var res struct {
			Pass  string `json:"pass"`
			Batch struct {
				Total int `json:"total"`
			} `json:"batch"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &res))
		assert.Equal(t, "morning", res.Pass)
		assert.Equal(t, 1, res.Batch.Total)
	})

	t.Run("runs a sweep", func(t *testing.T) {
		status, _ := do(t, app, http.MethodPost, "/api/internal/coach/batch/trial_expiry", nil, cron)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("unknown pass", func(t *testing.T) {
		status, _ := do(t, app, http.MethodPost, "/api/internal/coach/batch/brunch", nil, cron)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("wrong secret", func(t *testing.T) {
		status, _ := do(t, app, http.MethodPost, "/api/internal/coach/batch/morning", nil,
			map[string]string{"X-Cron-Secret": "nope"})
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestAdminRoutes(t *testing.T) {
	app := newTestApp(t)
	member := ensureMember(t, app)

	t.Run("members are forbidden", func(t *testing.T) {
		status, _ := do(t, app, http.MethodGet, "/api/admin/member-types", nil, bearer(token(t, member.Id.String(), "user")))
		assert.Equal(t, http.StatusForbidden, status)
	})

	admin := bearer(token(t, member.Id.String(), "admin"))

	t.Run("create and list member types", func(t *testing.T) {
		status, env := do(t, app, http.MethodPost, "/api/admin/member-types", dto.MemberTypeRequest{
			Name:           "Premium",
			CourseDuration: 90,
			MorningTime:    "06:30",
			IsActive:       true,
		}, admin)
		require.Equal(t, http.StatusCreated, status, env.Message)

		status, env = do(t, app, http.MethodGet, "/api/admin/member-types", nil, admin)
		require.Equal(t, http.StatusOK, status)
		var types []dto.MemberTypeResponse
		require.NoError(t, json.Unmarshal(env.Data, &types))
		assert.Len(t, types, 2)
	})

	t.Run("rejects a bad schedule time", func(t *testing.T) {
		status, _ := do(t, app, http.MethodPost, "/api/admin/member-types", dto.MemberTypeRequest{
			Name:        "Broken",
			MorningTime: "7am",
			IsActive:    true,
		}, admin)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("settings", func(t *testing.T) {
		status, env := do(t, app, http.MethodGet, "/api/admin/settings", nil, admin)
		require.Equal(t, http.StatusOK, status)
		var settings dto.SystemSettingResponse
		require.NoError(t, json.Unmarshal(env.Data, &settings))
		assert.Equal(t, 7, settings.TrialDays)
	})
}
