package coach

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/mapper"
	"nutricoach-be/internal/model"
	"nutricoach-be/internal/pkg/logger"
	"nutricoach-be/internal/repository/memory"
	"nutricoach-be/internal/repository/unitofwork"
	"nutricoach-be/internal/testutil"
	"nutricoach-be/pkg/clock"
	"nutricoach-be/pkg/llm"
	"nutricoach-be/pkg/messaging"

	"gorm.io/gorm"
)

const testZone = 420 // UTC+07:00

// 2026-03-10 10:00 local.
var testNow = time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)

type fakeProvider struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (p *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

func (p *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func (p *fakeProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type fakeSender struct {
	mu       sync.Mutex
	failFor  map[string]bool
	panicFor map[string]bool
	sent     []string
	messages []messaging.Message
}

func newFakeSender() *fakeSender {
	return &fakeSender{failFor: map[string]bool{}, panicFor: map[string]bool{}}
}

func (s *fakeSender) Send(ctx context.Context, externalUserID string, msg messaging.Message) error {
	if s.panicFor[externalUserID] {
		panic("channel exploded")
	}
	if s.failFor[externalUserID] {
		return errors.New("channel refused")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, externalUserID)
	s.messages = append(s.messages, msg)
	return nil
}

func (s *fakeSender) Sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

type harness struct {
	t           *testing.T
	db          *gorm.DB
	factory     unitofwork.RepositoryFactory
	settings    *memory.SettingsCache
	clock       *clock.Fixed
	provider    *fakeProvider
	sender      *fakeSender
	entitlement *EntitlementResolver
	engine      *EligibilityEngine
	gatherer    *ContextGatherer
	generator   *MessageGenerator
	logger      logger.ILogger
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := testutil.SetupTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	nop := logger.NewNopLogger()
	provider := &fakeProvider{reply: "Eat a salad with grilled chicken."}
	entitlement := NewEntitlementResolver(testZone)

	return &harness{
		t:           t,
		db:          db,
		factory:     factory,
		settings:    memory.NewSettingsCache(factory, time.Minute),
		clock:       &clock.Fixed{At: testNow},
		provider:    provider,
		sender:      newFakeSender(),
		entitlement: entitlement,
		engine:      NewEligibilityEngine(entitlement, testZone, 30),
		gatherer:    NewContextGatherer(factory, testZone),
		generator:   NewMessageGenerator(provider, nop, time.Second).WithPicker(func(int) int { return 0 }),
		logger:      nop,
	}
}

func (h *harness) runner(cfg BatchConfig, guard SendGuard) *BatchRunner {
	cfg.ZoneOffsetMinutes = testZone
	return NewBatchRunner(BatchRunnerDeps{
		UowFactory: h.factory,
		Settings:   h.settings,
		Engine:     h.engine,
		Gatherer:   h.gatherer,
		Generator:  h.generator,
		Sender:     h.sender,
		Guard:      guard,
		Clock:      h.clock,
		Logger:     h.logger,
	}, cfg)
}

func (h *harness) recommendations() *RecommendationCache {
	return NewRecommendationCache(h.factory, h.gatherer, h.generator, h.clock, h.logger, testZone)
}

func (h *harness) member(m *model.Member) *entity.Member {
	return mapper.NewMemberMapper().ToEntity(m)
}

func (h *harness) reload(m *model.Member) *model.Member {
	h.t.Helper()
	var out model.Member
	if err := h.db.Where("id = ?", m.Id).First(&out).Error; err != nil {
		h.t.Fatalf("reload member: %v", err)
	}
	return &out
}
