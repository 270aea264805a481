package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ratecard-service/internal/advisory"
	"ratecard-service/internal/cache"
	"ratecard-service/internal/config"
	"ratecard-service/internal/event"
	"ratecard-service/internal/models"

	"github.com/google/uuid"
)

// ============================================================================
// TEST FIXTURES
// ============================================================================

// fakeStore is an in-memory CatalogStore and HistoryStore with the same
// compare-and-swap commit semantics as the SQL repository.
type fakeStore struct {
	mu             sync.Mutex
	cards          map[uuid.UUID]*models.RateCard
	history        map[uuid.UUID]*models.HistorySnapshot
	byCard         map[uuid.UUID][]models.HistorySnapshot
	failNextCommit error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cards:   make(map[uuid.UUID]*models.RateCard),
		history: make(map[uuid.UUID]*models.HistorySnapshot),
		byCard:  make(map[uuid.UUID][]models.HistorySnapshot),
	}
}

func (f *fakeStore) Create(_ context.Context, card *models.RateCard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cards[card.ID] = cloneCard(card)
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*models.RateCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.cards[id]
	if !ok {
		return nil, fmt.Errorf("rate card %s: %w", id, models.ErrNotFound)
	}
	return cloneCard(card), nil
}

func (f *fakeStore) GetByPublicID(_ context.Context, publicID string) (*models.RateCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, card := range f.cards {
		if card.PublicID != nil && *card.PublicID == publicID {
			return cloneCard(card), nil
		}
	}
	return nil, fmt.Errorf("public rate card %s: %w", publicID, models.ErrNotFound)
}

func (f *fakeStore) ListByOwner(_ context.Context, ownerID, status string) ([]models.RateCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var cards []models.RateCard
	for _, card := range f.cards {
		if card.OwnerID != ownerID {
			continue
		}
		if status != "" && string(card.Status) != status {
			continue
		}
		cards = append(cards, *cloneCard(card))
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].CreatedAt.After(cards[j].CreatedAt) })
	return cards, nil
}

func (f *fakeStore) CountActiveByOwner(_ context.Context, ownerID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, card := range f.cards {
		if card.OwnerID == ownerID && card.Status != models.StatusArchived {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) CommitMutation(_ context.Context, pre, mutated *models.RateCard, changeType models.ChangeType) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failNextCommit != nil {
		err := f.failNextCommit
		f.failNextCommit = nil
		return err
	}

	current, ok := f.cards[pre.ID]
	if !ok {
		return fmt.Errorf("rate card %s: %w", pre.ID, models.ErrNotFound)
	}
	if current.CurrentVersion != pre.CurrentVersion {
		return fmt.Errorf("version moved from %d: %w", pre.CurrentVersion, models.ErrConflict)
	}

	snapshot := models.HistorySnapshot{
		ID:         uuid.New(),
		RateCardID: pre.ID,
		Version:    pre.CurrentVersion,
		ChangeType: changeType,
		Snapshot: models.SnapshotDoc{
			Metrics:  models.CreatorMetrics(pre.Metrics),
			Rates:    []models.PlatformRates(pre.Rates),
			Packages: []models.Package(pre.Packages),
			Terms:    pre.Terms,
		},
		CreatedAt: time.Now(),
	}
	f.history[snapshot.ID] = &snapshot
	f.byCard[pre.ID] = append(f.byCard[pre.ID], snapshot)

	mutated.CurrentVersion = pre.CurrentVersion + 1
	f.cards[pre.ID] = cloneCard(mutated)
	return nil
}

func (f *fakeStore) IncrementViewCount(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if card, ok := f.cards[id]; ok {
		card.ViewCount++
	}
	return nil
}

func (f *fakeStore) viewCount(id uuid.UUID) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if card, ok := f.cards[id]; ok {
		return card.ViewCount
	}
	return 0
}

// fakeHistory adapts fakeStore's history maps to HistoryStore.
type fakeHistory struct {
	store *fakeStore
}

func (f *fakeHistory) GetByID(_ context.Context, id uuid.UUID) (*models.HistorySnapshot, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	snapshot, ok := f.store.history[id]
	if !ok {
		return nil, fmt.Errorf("history entry %s: %w", id, models.ErrNotFound)
	}
	copied := *snapshot
	return &copied, nil
}

func (f *fakeHistory) ListByRateCard(_ context.Context, rateCardID uuid.UUID, limit, offset int) ([]models.HistorySnapshot, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	entries := append([]models.HistorySnapshot(nil), f.store.byCard[rateCardID]...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Version > entries[j].Version })
	if offset >= len(entries) {
		return nil, nil
	}
	entries = entries[offset:]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (f *fakeHistory) CountByRateCard(_ context.Context, rateCardID uuid.UUID) (int, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return len(f.store.byCard[rateCardID]), nil
}

// fakeAdvisor serves a canned advisory result, or fails.
type fakeAdvisor struct {
	mu     sync.Mutex
	result *advisory.Result
	err    error
	calls  int
}

func (f *fakeAdvisor) Suggest(_ context.Context, _ models.CreatorMetrics, _ advisory.RangeTable) (*advisory.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeAdvisor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// eventRecorder captures published lifecycle events.
type eventRecorder struct {
	mu     sync.Mutex
	events []event.RateCardEvent
}

func (r *eventRecorder) PublishEvent(_ context.Context, ev event.RateCardEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *eventRecorder) recorded() []event.RateCardEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.RateCardEvent(nil), r.events...)
}

// ============================================================================
// FIXTURE ASSEMBLY
// ============================================================================

type fixture struct {
	service   *RateCardService
	publicSvc *PublicRateCardService
	store     *fakeStore
	cache     *cache.MemoryStore
	advisor   *fakeAdvisor
	events    *eventRecorder
}

func testQuotaConfig() config.QuotaConfig {
	return config.QuotaConfig{FreeLimit: 1, StarterLimit: 3, ProLimit: 10, EnterpriseLimit: -1}
}

func newFixture(advisor *fakeAdvisor) *fixture {
	store := newFakeStore()
	memCache := cache.NewMemoryStore()
	events := &eventRecorder{}

	var client advisory.Client
	if advisor != nil {
		client = advisor
	}
	engine := NewPricingEngine(client, memCache, 30*time.Minute)
	quota := NewQuotaGuard(testQuotaConfig())

	return &fixture{
		service:   NewRateCardService(store, &fakeHistory{store: store}, memCache, engine, quota, events),
		publicSvc: NewPublicRateCardService(store, memCache),
		store:     store,
		cache:     memCache,
		advisor:   advisor,
		events:    events,
	}
}

func testCreateRequest() models.CreateRateCardRequest {
	return models.CreateRateCardRequest{
		Title: "Creator Rate Card",
		Metrics: models.CreatorMetrics{
			Platforms: []models.PlatformMetric{
				{Platform: models.PlatformInstagram, Followers: 150_000, EngagementRate: 4.5},
			},
			Niche:      "tech",
			Location:   models.Location{City: "Bangalore", CityTier: models.CityTierMetro},
			Experience: models.Experience2To5Y,
		},
	}
}
