package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Ai        AIConfig
	Coach     CoachConfig
	Messaging MessagingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
	// CronSecret is the plain secret or its bcrypt hash (coachctl hash-secret).
	CronSecret         string
	OtelEndpoint       string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider        string // "ollama", "huggingface" or "none"
	LLMModel           string
	OllamaBaseURL      string
	HuggingFaceAPIKey  string
	HuggingFaceBaseURL string
	Timeout            time.Duration
}

type CoachConfig struct {
	ZoneOffsetMinutes int
	WindowMinutes     int
	SendDelay         time.Duration
	MemberTimeout     time.Duration
	SendTimeout       time.Duration
	GenerateTimeout   time.Duration
	Workers           int
	PageSize          int
	SettingsCacheTTL  time.Duration

	SchedulerEnabled bool
	// SchedulerTick drives the time-scheduled categories. At twice
	// WindowMinutes every schedule time lands in exactly one tick.
	SchedulerTick    time.Duration
	// Local "HH:MM" times for the once-a-day passes.
	WeeklyAt     string
	WeeklyDay    time.Weekday
	WaterAt      string
	PhotoAt      string
	MilestoneAt  string
	InactiveAt   string
	SweepAt      string
	ExerciseTick time.Duration
}

type MessagingConfig struct {
	Provider     string // "nats", "webhook" or "log"
	WebhookURL   string
	WebhookToken string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			JwtSecret:          getEnv("JWT_SECRET", ""),
			CronSecret:         getEnv("CRON_SECRET", ""),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:        getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:           getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			HuggingFaceAPIKey:  getEnv("HUGGINGFACE_API_KEY", ""),
			HuggingFaceBaseURL: getEnv("HUGGINGFACE_BASE_URL", "https://router.huggingface.co/v1"),
			Timeout:            getEnvAsDuration("LLM_TIMEOUT", 20*time.Second),
		},
		Coach: CoachConfig{
			ZoneOffsetMinutes: getEnvAsInt("COACH_ZONE_OFFSET_MINUTES", 420),
			WindowMinutes:     getEnvAsInt("COACH_WINDOW_MINUTES", 30),
			SendDelay:         getEnvAsDuration("COACH_SEND_DELAY", 100*time.Millisecond),
			MemberTimeout:     getEnvAsDuration("COACH_MEMBER_TIMEOUT", 45*time.Second),
			SendTimeout:       getEnvAsDuration("COACH_SEND_TIMEOUT", 10*time.Second),
			GenerateTimeout:   getEnvAsDuration("COACH_GENERATE_TIMEOUT", 25*time.Second),
			Workers:           getEnvAsInt("COACH_WORKERS", 1),
			PageSize:          getEnvAsInt("COACH_PAGE_SIZE", 200),
			SettingsCacheTTL:  getEnvAsDuration("COACH_SETTINGS_CACHE_TTL", time.Minute),
			SchedulerEnabled:  getEnvAsBool("COACH_SCHEDULER_ENABLED", false),
			SchedulerTick:     getEnvAsDuration("COACH_SCHEDULER_TICK", time.Hour),
			WeeklyAt:          getEnv("COACH_WEEKLY_AT", "19:00"),
			WeeklyDay:         time.Weekday(getEnvAsInt("COACH_WEEKLY_DAY", int(time.Sunday))),
			WaterAt:           getEnv("COACH_WATER_AT", "14:00"),
			PhotoAt:           getEnv("COACH_PHOTO_AT", "09:00"),
			MilestoneAt:       getEnv("COACH_MILESTONE_AT", "10:00"),
			InactiveAt:        getEnv("COACH_INACTIVE_AT", "16:00"),
			SweepAt:           getEnv("COACH_SWEEP_AT", "00:15"),
			ExerciseTick:      getEnvAsDuration("COACH_EXERCISE_TICK", 2*time.Hour),
		},
		Messaging: MessagingConfig{
			Provider:     getEnv("MESSAGING_PROVIDER", "log"),
			WebhookURL:   getEnv("MESSAGING_WEBHOOK_URL", ""),
			WebhookToken: getEnv("MESSAGING_WEBHOOK_TOKEN", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := strings.TrimSpace(getEnv(key, ""))
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("250ms") or bare milliseconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := strings.TrimSpace(getEnv(key, ""))
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if ms, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
