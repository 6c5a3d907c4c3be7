// FILE: test/integration/ollama_integration_test.go
// PURPOSE: Coaching copy against a local Ollama server.
// Run with OLLAMA_INTEGRATION=1 (and optionally OLLAMA_BASE_URL / LLM_MODEL).

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"nutricoach-be/internal/coach"
	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/pkg/logger"
	"nutricoach-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	OllamaBaseURL = "http://localhost:11434"
	OllamaModel   = "gemma:2b"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func sampleSnapshot() *coach.Snapshot {
	return &coach.Snapshot{
		MemberName: "Sari",
		LocalDate:  "2026-03-10",
		LocalHour:  12,
		MealsToday: 1,
		MealNames:  []string{"Oatmeal with banana"},
		Consumed:   coach.Macros{Calories: 420, Protein: 12, Carbs: 70, Fat: 8},
		Targets:    coach.Macros{Calories: 1800, Protein: 90, Carbs: 220, Fat: 60},
		Remaining:  coach.Macros{Calories: 1380, Protein: 78, Carbs: 150, Fat: 52},
		StreakDays: 4,
	}
}

func TestOllamaCoachMessages(t *testing.T) {
	if os.Getenv("OLLAMA_INTEGRATION") == "" {
		t.Skip("Skipping Ollama integration test: OLLAMA_INTEGRATION not set")
	}

	provider := ollama.NewOllamaProvider(envOr("OLLAMA_BASE_URL", OllamaBaseURL), envOr("LLM_MODEL", OllamaModel), 60*time.Second)
	generator := coach.NewMessageGenerator(provider, logger.NewNopLogger(), 60*time.Second)
	ctx := context.Background()

	for _, category := range []entity.Category{entity.CategoryLunch, entity.CategoryWeekly} {
		t.Run(string(category), func(t *testing.T) {
			start := time.Now()
			out := generator.Generate(ctx, category, sampleSnapshot())
			t.Logf("%s (%v, ai=%v): %s", category, time.Since(start), out.FromAI, out.Message.Body)

			assert.True(t, out.FromAI)
			assert.NotEmpty(t, out.Message.Body)
		})
	}

	t.Run("recommendation", func(t *testing.T) {
		text, err := generator.Recommend(ctx, sampleSnapshot())
		require.NoError(t, err)
		assert.NotEmpty(t, text)
		t.Logf("recommendation: %s", text)
	})
}
