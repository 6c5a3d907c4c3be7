package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/pkg/logger"
	"nutricoach-be/pkg/llm"
	"nutricoach-be/pkg/messaging"
)

// ErrGeneratorUnavailable is returned when no AI provider is configured.
var ErrGeneratorUnavailable = errors.New("ai generator unavailable")

const systemPrompt = "You are a warm, concise nutrition coach writing a chat message to a member. " +
	"Reply with the message text only, at most three short sentences, no markdown, no greeting by title."

type categoryCopy struct {
	title       string
	instruction string
	fallbacks   []string
}

// Fallback placeholders: {name} {meals} {kcal_left} {protein_left} {streak} {days} {exercise}.
var categoryCopies = map[entity.Category]categoryCopy{
	entity.CategoryMorning: {
		title:       "Good morning",
		instruction: "Encourage a balanced breakfast and remind them to log it.",
		fallbacks: []string{
			"Good morning {name}! Start the day with a protein-rich breakfast and log it when you're done.",
			"Morning {name}! A good breakfast sets the tone. Don't forget to log what you eat.",
		},
	},
	entity.CategoryLunch: {
		title:       "Lunch time",
		instruction: "Suggest a lunch that fits the remaining calorie and protein budget.",
		fallbacks: []string{
			"Lunch time, {name}! You have about {kcal_left} kcal left today. Aim for lean protein and veggies.",
			"Hi {name}, time for lunch. {protein_left} g of protein to go today, so pick something filling.",
		},
	},
	entity.CategoryDinner: {
		title:       "Dinner time",
		instruction: "Suggest a light dinner that closes the day's remaining macros.",
		fallbacks: []string{
			"Dinner time, {name}. Around {kcal_left} kcal remain for today, so keep it light and balanced.",
			"Evening meal coming up, {name}! Fill half the plate with vegetables and log it afterwards.",
		},
	},
	entity.CategoryEvening: {
		title:       "Daily recap",
		instruction: "Summarise today's intake kindly and give one tip for tomorrow.",
		fallbacks: []string{
			"Nice work today, {name}! You logged {meals} meal(s). Rest well and keep it going tomorrow.",
			"Day's almost done, {name}. {meals} meal(s) logged today. Small steps add up!",
		},
	},
	entity.CategoryWeekly: {
		title:       "Weekly check-in",
		instruction: "Reflect on the week's consistency and set one small goal for next week.",
		fallbacks: []string{
			"Weekly check-in, {name}: your logging streak is {streak} day(s). Pick one small goal for next week!",
			"Another week done, {name}! Keep your streak of {streak} day(s) alive.",
		},
	},
	entity.CategoryWater: {
		title:       "Hydration reminder",
		instruction: "Remind them to drink water with a friendly nudge.",
		fallbacks: []string{
			"Quick reminder, {name}: grab a glass of water now.",
			"Hydration check, {name}! A glass of water keeps the energy up.",
		},
	},
	entity.CategoryProgressPhoto: {
		title:       "Progress photo",
		instruction: "Invite them to take a progress photo and explain it helps track change.",
		fallbacks: []string{
			"Hi {name}, time for a progress photo! It's the easiest way to see how far you've come.",
		},
	},
	entity.CategoryPostExercise: {
		title:       "Great workout",
		instruction: "Congratulate them on the workout and suggest a recovery snack.",
		fallbacks: []string{
			"Great job on the {exercise}, {name}! Refuel with some protein in the next hour.",
			"Workout done, {name}! A recovery snack with protein and carbs will help your muscles.",
		},
	},
	entity.CategoryMilestone: {
		title:       "Milestone",
		instruction: "Celebrate their membership milestone warmly.",
		fallbacks: []string{
			"Congratulations {name}! {days} days with us. Your consistency is paying off!",
			"{days} days, {name}! Thank you for sticking with it. Let's keep going.",
		},
	},
	entity.CategoryInactive: {
		title:       "We miss you",
		instruction: "Gently invite them back to logging meals without guilt.",
		fallbacks: []string{
			"Hi {name}, we haven't seen a meal log in a while. Just log your next meal and we're back on track!",
			"Hey {name}, no pressure. Logging one meal today is a great restart.",
		},
	},
}

var recommendationFallbacks = []string{
	"Keep your next meal balanced: half vegetables, a quarter lean protein and a quarter whole grains.",
	"Try adding a source of protein to your next meal to stay full longer.",
	"Drink a glass of water before your next meal and log what you eat to keep your day on track.",
	"Choose whole foods over processed snacks today. Fruit, nuts or yogurt are great options.",
}

// Generated is a message ready for the send channel.
type Generated struct {
	Message messaging.Message
	FromAI  bool
}

type MessageGenerator struct {
	provider llm.LLMProvider
	logger   logger.ILogger
	timeout  time.Duration
	pick     func(n int) int
}

// NewMessageGenerator accepts a nil provider; every message then comes from the fallback library.
func NewMessageGenerator(provider llm.LLMProvider, l logger.ILogger, timeout time.Duration) *MessageGenerator {
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	return &MessageGenerator{
		provider: provider,
		logger:   l,
		timeout:  timeout,
		pick:     rand.Intn,
	}
}

// WithPicker replaces the fallback chooser. Tests pass a fixed index.
func (g *MessageGenerator) WithPicker(pick func(n int) int) *MessageGenerator {
	g.pick = pick
	return g
}

// Generate never fails: an unavailable or failing provider yields a fallback message.
func (g *MessageGenerator) Generate(ctx context.Context, category entity.Category, snap *Snapshot) Generated {
	cp, ok := categoryCopies[category]
	if !ok {
		cp = categoryCopy{title: "NutriCoach", fallbacks: []string{"Hi {name}, keep up the good work today!"}}
	}

	msg := messaging.Message{Category: string(category), Title: cp.title}

	if cp.instruction != "" {
		text, err := g.complete(ctx, buildPrompt(cp.instruction, snap))
		if err == nil {
			msg.Body = text
			return Generated{Message: msg, FromAI: true}
		}
		if !errors.Is(err, ErrGeneratorUnavailable) {
			g.logger.Warn("COACH", "AI generation failed, using fallback", map[string]interface{}{
				"category": string(category),
				"error":    err.Error(),
			})
		}
	}

	msg.Body = fillTemplate(cp.fallbacks[g.pick(len(cp.fallbacks))], snap)
	return Generated{Message: msg, FromAI: false}
}

// Recommend asks the provider for a next-meal recommendation. Unlike Generate
// it reports failure so the cache can decide whether to persist.
func (g *MessageGenerator) Recommend(ctx context.Context, snap *Snapshot) (string, error) {
	instruction := "Recommend what to eat next given the remaining budget and the current hour. " +
		"If recent shop orders fit, suggest one of them."
	return g.complete(ctx, buildPrompt(instruction, snap))
}

// FallbackRecommendation returns one of the fixed recommendation messages.
func (g *MessageGenerator) FallbackRecommendation() string {
	return recommendationFallbacks[g.pick(len(recommendationFallbacks))]
}

func (g *MessageGenerator) complete(ctx context.Context, prompt string) (string, error) {
	if g.provider == nil {
		return "", ErrGeneratorUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.provider.Generate(ctx, prompt,
		llm.WithSystemPrompt(systemPrompt),
		llm.WithTemperature(0.7),
		llm.WithMaxTokens(200),
	)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", llm.ErrEmptyCompletion
	}
	return text, nil
}

func buildPrompt(instruction string, snap *Snapshot) string {
	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n\nMember context (JSON):\n")
	if snap != nil {
		data, err := json.Marshal(snap)
		if err == nil {
			b.Write(data)
		}
	}
	return b.String()
}

func fillTemplate(tpl string, snap *Snapshot) string {
	if snap == nil {
		snap = &Snapshot{}
	}
	name := snap.MemberName
	if name == "" {
		name = "there"
	}
	exercise := snap.LastExercise
	if exercise == "" {
		exercise = "workout"
	}
	return strings.NewReplacer(
		"{name}", name,
		"{meals}", strconv.Itoa(snap.MealsToday),
		"{kcal_left}", formatAmount(snap.Remaining.Calories),
		"{protein_left}", formatAmount(snap.Remaining.Protein),
		"{streak}", strconv.Itoa(snap.StreakDays),
		"{days}", strconv.Itoa(snap.MembershipDays),
		"{exercise}", exercise,
	).Replace(tpl)
}

func formatAmount(v float64) string {
	if v < 0 {
		v = 0
	}
	return fmt.Sprintf("%d", int(math.Round(v)))
}
