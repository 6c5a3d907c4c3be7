package bootstrap

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"nutricoach-be/internal/coach"
	"nutricoach-be/internal/config"
	"nutricoach-be/internal/controller"
	"nutricoach-be/internal/pkg/logger"
	"nutricoach-be/internal/repository/memory"
	"nutricoach-be/internal/repository/redisstore"
	"nutricoach-be/internal/repository/unitofwork"
	"nutricoach-be/internal/service"
	"nutricoach-be/pkg/clock"
	"nutricoach-be/pkg/llm/factory"
	"nutricoach-be/pkg/messaging"

	pktNats "nutricoach-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const invalidationTopic = "coach.recommendation.invalidate"

type Container struct {
	// Controllers
	CoachController    controller.ICoachController
	MealController     controller.IMealController
	AdminController    controller.IAdminController
	InternalController controller.IInternalController

	// Background Services (Exposed for main.go to run)
	ConsumerService     service.IConsumerService
	NotificationService *service.NotificationService
	CoachService        service.ICoachService

	Logger  logger.ILogger
	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	trailLogger := logger.NewIsolatedLogger(filepath.Join(filepath.Dir(cfg.App.LogFilePath), "coach_delivery.log"))
	clk := clock.System()
	settingsCache := memory.NewSettingsCache(uowFactory, cfg.Coach.SettingsCacheTTL)

	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	// NATS
	var natsPub *pktNats.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			c.closers = append(c.closers, natsPub.Close)
		}
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		} else {
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	// Redis (optional duplicate-send guard)
	var guard coach.SendGuard
	if rdb := connectRedis(cfg.App.RedisURL); rdb != nil {
		guard = redisstore.NewSendGuard(rdb)
		c.closers = append(c.closers, func() { _ = rdb.Close() })
		log.Printf("[INFO] Duplicate-send guard enabled (redis)")
	}

	// 4. Outbound channel
	sender := newSender(cfg, natsPub, sysLogger)

	// LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  llmBaseURL(cfg),
		APIKey:   cfg.Ai.HuggingFaceAPIKey,
		Timeout:  cfg.Ai.Timeout,
	})
	if err != nil {
		log.Printf("[WARN] Failed to initialize LLM Provider, using fallback messages: %v", err)
		llmProvider = nil
	}
	if llmProvider != nil {
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	}

	// 5. Coaching components
	zone := cfg.Coach.ZoneOffsetMinutes
	entitlement := coach.NewEntitlementResolver(zone)
	engine := coach.NewEligibilityEngine(entitlement, zone, cfg.Coach.WindowMinutes)
	gatherer := coach.NewContextGatherer(uowFactory, zone)
	generator := coach.NewMessageGenerator(llmProvider, sysLogger, cfg.Coach.GenerateTimeout)
	recommendations := coach.NewRecommendationCache(uowFactory, gatherer, generator, clk, sysLogger, zone)
	usage := coach.NewUsageChecker(uowFactory, settingsCache, recommendations, clk, sysLogger, zone)
	sweeper := coach.NewSweeper(uowFactory, settingsCache, entitlement, engine, clk, sysLogger, zone, cfg.Coach.PageSize)
	runner := coach.NewBatchRunner(coach.BatchRunnerDeps{
		UowFactory: uowFactory,
		Settings:   settingsCache,
		Engine:     engine,
		Gatherer:   gatherer,
		Generator:  generator,
		Sender:     sender,
		Guard:      guard,
		Clock:      clk,
		Logger:     sysLogger,
		Trail:      trailLogger,
	}, coach.BatchConfig{
		ZoneOffsetMinutes: zone,
		Workers:           cfg.Coach.Workers,
		PageSize:          cfg.Coach.PageSize,
		SendDelay:         cfg.Coach.SendDelay,
		MemberTimeout:     cfg.Coach.MemberTimeout,
		SendTimeout:       cfg.Coach.SendTimeout,
	})

	// 6. Services
	var eventPublisher service.EventPublisher
	if natsPub != nil {
		eventPublisher = natsPub
	}

	publisherService := service.NewPublisherService(invalidationTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, invalidationTopic, recommendations, sysLogger)

	coachService := service.NewCoachService(runner, sweeper, recommendations, usage, sysLogger)
	memberService := service.NewMemberService(uowFactory, settingsCache, entitlement, clk, sysLogger)
	memberTypeService := service.NewMemberTypeService(uowFactory, settingsCache, sysLogger)
	mealService := service.NewMealService(uowFactory, usage, recommendations, publisherService, eventPublisher, clk, sysLogger)
	notificationService := service.NewNotificationService(uowFactory, natsSub, mealService, sysLogger)

	// 7. Controllers
	c.CoachController = controller.NewCoachController(coachService, memberService, notificationService)
	c.MealController = controller.NewMealController(mealService)
	c.AdminController = controller.NewAdminController(memberTypeService, memberService)
	c.InternalController = controller.NewInternalController(coachService, memberService)

	c.ConsumerService = consumerService
	c.NotificationService = notificationService
	c.CoachService = coachService

	return c
}

// Close releases broker connections. Safe to call once at shutdown.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func newSender(cfg *config.Config, natsPub *pktNats.Publisher, l logger.ILogger) messaging.Sender {
	switch cfg.Messaging.Provider {
	case "nats":
		if natsPub != nil {
			log.Printf("[INFO] Using messaging provider: NATS")
			return messaging.NewNatsSender(natsPub)
		}
		log.Printf("[WARN] NATS messaging requested but not connected, logging messages instead")
	case "webhook":
		if cfg.Messaging.WebhookURL != "" {
			log.Printf("[INFO] Using messaging provider: WEBHOOK")
			return messaging.NewWebhookSender(cfg.Messaging.WebhookURL, cfg.Messaging.WebhookToken, cfg.Coach.SendTimeout)
		}
		log.Printf("[WARN] Webhook messaging requested without MESSAGING_WEBHOOK_URL, logging messages instead")
	}
	return messaging.NewLogSender(l)
}

func llmBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "huggingface" {
		return cfg.Ai.HuggingFaceBaseURL
	}
	return cfg.Ai.OllamaBaseURL
}

func connectRedis(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, send guard disabled: %v", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}
