package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ratecard-service/internal/cache"
	"ratecard-service/internal/event"
	"ratecard-service/internal/models"
	"ratecard-service/internal/pricing"

	"github.com/google/uuid"
)

const (
	catalogCacheTTL = 10 * time.Minute
	historyPageSize = 20
)

// RateCardService owns the rate card lifecycle: creation under quota, every
// versioned mutation, publication and history restore. All writes funnel
// through commit(), which pairs the optimistic-concurrency write with cache
// invalidation and event emission.
type RateCardService struct {
	catalogs CatalogStore
	history  HistoryStore
	cache    cache.Store
	engine   *PricingEngine
	quota    *QuotaGuard
	events   EventPublisher
	now      func() time.Time
}

func NewRateCardService(catalogs CatalogStore, history HistoryStore, cacheStore cache.Store, engine *PricingEngine, quota *QuotaGuard, events EventPublisher) *RateCardService {
	return &RateCardService{
		catalogs: catalogs,
		history:  history,
		cache:    cacheStore,
		engine:   engine,
		quota:    quota,
		events:   events,
		now:      time.Now,
	}
}

// ============================================================================
// CREATE / READ
// ============================================================================

// CreateRateCard prices a fresh catalog for the creator and persists it as
// version 1 in draft. The quota check counts non-archived cards only.
func (s *RateCardService) CreateRateCard(ctx context.Context, ownerID string, tier models.SubscriptionTier, req models.CreateRateCardRequest) (*models.RateCard, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	activeCount, err := s.catalogs.CountActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count rate cards for owner %s: %w", ownerID, err)
	}
	if err := s.quota.Authorize(tier, activeCount); err != nil {
		return nil, err
	}

	priced := s.engine.PriceCatalog(ctx, req.Metrics)

	now := s.now().UTC()
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "My Rate Card"
	}

	card := &models.RateCard{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Title:          title,
		Metrics:        models.MetricsDoc(req.Metrics),
		Rates:          models.RatesDoc(priced.Rates),
		Packages:       models.PackagesDoc(priced.Packages),
		MarketInsights: priced.MarketInsights,
		Confidence:     priced.Confidence,
		CurrentVersion: 1,
		Status:         models.StatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.catalogs.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to create rate card: %w", err)
	}

	s.invalidate(ctx, card, nil)
	s.publish(ctx, event.EventRateCardCreated, card, models.ChangeCreated)

	slog.Info("Rate card created",
		"rate_card_id", card.ID, "owner_id", ownerID, "confidence", card.Confidence)
	return card, nil
}

// GetRateCard serves the owner view read-through the catalog cache.
func (s *RateCardService) GetRateCard(ctx context.Context, id uuid.UUID) (*models.RateCard, error) {
	key := cache.CatalogKey(id)
	var card models.RateCard
	if ok := cacheGet(ctx, s.cache, key, &card); ok {
		return &card, nil
	}

	fetched, err := s.catalogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cacheSet(ctx, s.cache, key, fetched, catalogCacheTTL)
	return fetched, nil
}

// ListRateCards returns an owner's cards, optionally filtered by stored
// status, read-through the owner list cache.
func (s *RateCardService) ListRateCards(ctx context.Context, ownerID, status string) ([]models.RateCard, error) {
	if !models.IsValidStatusFilter(status) {
		return nil, models.NewValidationError("status", status, "must be one of draft, active, archived")
	}

	key := cache.OwnerListKey(ownerID, status)
	var cards []models.RateCard
	if ok := cacheGet(ctx, s.cache, key, &cards); ok {
		return cards, nil
	}

	cards, err := s.catalogs.ListByOwner(ctx, ownerID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list rate cards for owner %s: %w", ownerID, err)
	}
	cacheSet(ctx, s.cache, key, cards, catalogCacheTTL)
	return cards, nil
}

// ============================================================================
// VERSIONED MUTATIONS
// ============================================================================

// UpdateMetrics replaces the creator metrics wholesale and re-prices the whole
// catalog. Packages keep their frozen totals; only rates are rebuilt.
func (s *RateCardService) UpdateMetrics(ctx context.Context, id uuid.UUID, req models.UpdateMetricsRequest) (*models.RateCard, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	pre, err := s.catalogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	priced := s.engine.PriceCatalog(ctx, req.Metrics)

	mutated := cloneCard(pre)
	mutated.Metrics = models.MetricsDoc(req.Metrics)
	mutated.Rates = models.RatesDoc(priced.Rates)
	mutated.MarketInsights = priced.MarketInsights
	mutated.Confidence = priced.Confidence

	return s.commit(ctx, pre, mutated, models.ChangeMetricsUpdate, event.EventRateCardUpdated)
}

// UpdateRates applies chosen-price overrides. Each updated rate is
// reclassified against the band the current metrics produce; updates for
// deliverables absent from the catalog are rejected.
func (s *RateCardService) UpdateRates(ctx context.Context, id uuid.UUID, req models.UpdateRatesRequest) (*models.RateCard, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	pre, err := s.catalogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	mutated := cloneCard(pre)
	ranges := ExpectedRanges(models.CreatorMetrics(mutated.Metrics))

	for i, update := range req.Rates {
		applied := false
		for pi := range mutated.Rates {
			pr := &mutated.Rates[pi]
			if pr.Platform != update.Platform {
				continue
			}
			for ri := range pr.Items {
				rate := &pr.Items[ri]
				if rate.Type != update.Type {
					continue
				}
				rate.ChosenPrice = update.ChosenPrice
				if band, ok := ranges[update.Platform][update.Type]; ok {
					rate.MarketPosition = pricing.ClassifyPosition(update.ChosenPrice, band)
				}
				if update.Turnaround != nil {
					rate.Turnaround = *update.Turnaround
				}
				if update.RevisionsIncluded != nil {
					rate.RevisionsIncluded = *update.RevisionsIncluded
				}
				applied = true
			}
		}
		if !applied {
			return nil, models.NewValidationError(
				fmt.Sprintf("rates[%d]", i),
				fmt.Sprintf("%s/%s", update.Platform, update.Type),
				"no such deliverable on this rate card")
		}
	}

	return s.commit(ctx, pre, mutated, models.ChangeRatesUpdate, event.EventRateCardUpdated)
}

// CreatePackage adds a bundle. The name must not collide case-sensitively
// with an existing package; the individual total is computed from the
// committed rates and frozen at this version.
func (s *RateCardService) CreatePackage(ctx context.Context, id uuid.UUID, req models.CreatePackageRequest) (*models.RateCard, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	pre, err := s.catalogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, exists := pre.PackageByName(req.Name); exists {
		return nil, fmt.Errorf("package %q already exists: %w", req.Name, models.ErrConflict)
	}

	mutated := cloneCard(pre)
	pkg := assemblePackage(req.Name, req.Items, req.PackagePrice, mutated.Rates)
	mutated.Packages = append(mutated.Packages, pkg)

	return s.commit(ctx, pre, mutated, models.ChangePackageAdd, event.EventRateCardUpdated)
}

// UpdatePackage edits a bundle's items or price. An explicit edit is the only
// operation that recomputes a package's individual total.
func (s *RateCardService) UpdatePackage(ctx context.Context, id uuid.UUID, name string, req models.UpdatePackageRequest) (*models.RateCard, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	pre, err := s.catalogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	idx, exists := pre.PackageByName(name)
	if !exists {
		return nil, fmt.Errorf("package %q: %w", name, models.ErrNotFound)
	}

	mutated := cloneCard(pre)
	pkg := mutated.Packages[idx]
	if req.Items != nil {
		pkg.Items = req.Items
	}
	if req.PackagePrice != nil {
		pkg.PackagePrice = *req.PackagePrice
	}
	pkg.IndividualTotal, pkg.Incomplete = individualTotal(pkg.Items, mutated.Rates)
	pkg.Savings = computeSavings(pkg.IndividualTotal, pkg.PackagePrice)
	mutated.Packages[idx] = pkg

	return s.commit(ctx, pre, mutated, models.ChangePackageUpdate, event.EventRateCardUpdated)
}

// DeletePackage removes a bundle by exact name.
func (s *RateCardService) DeletePackage(ctx context.Context, id uuid.UUID, name string) (*models.RateCard, error) {
	pre, err := s.catalogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	idx, exists := pre.PackageByName(name)
	if !exists {
		return nil, fmt.Errorf("package %q: %w", name, models.ErrNotFound)
	}

	mutated := cloneCard(pre)
	mutated.Packages = append(mutated.Packages[:idx:idx], mutated.Packages[idx+1:]...)

	return s.commit(ctx, pre, mutated, models.ChangePackageDelete, event.EventRateCardUpdated)
}

// UpdateTerms replaces the free-form terms text.
func (s *RateCardService) UpdateTerms(ctx context.Context, id uuid.UUID, req models.UpdateTermsRequest) (*models.RateCard, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	pre, err := s.catalogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	mutated := cloneCard(pre)
	mutated.Terms = req.Terms

	return s.commit(ctx, pre, mutated, models.ChangeTermsUpdate, event.EventRateCardUpdated)
}

// ============================================================================
// LIFECYCLE
// ============================================================================

// Publish activates the card and mints its public link. Re-publishing an
// already-active public card is a conflict, as is publishing an archived
// card: archive is the terminal state. Publishing without a single priced
// deliverable is rejected.
func (s *RateCardService) Publish(ctx context.Context, id uuid.UUID, req models.PublishRequest) (*models.RateCard, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	pre, err := s.catalogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pre.Status == models.StatusArchived {
		return nil, fmt.Errorf("rate card %s is archived: %w", id, models.ErrConflict)
	}
	if pre.RateCount() == 0 {
		return nil, models.NewValidationError("rates", nil, "cannot publish a rate card without any deliverable rates")
	}
	if pre.IsPublic && pre.Status == models.StatusActive {
		return nil, fmt.Errorf("rate card %s is already published: %w", id, models.ErrConflict)
	}

	now := s.now().UTC()
	mutated := cloneCard(pre)
	mutated.Status = models.StatusActive
	mutated.IsPublic = true
	mutated.PublishedAt = &now

	publicID := newPublicID()
	mutated.PublicID = &publicID

	mutated.PublicPassword = nil
	if req.Password != nil {
		hashed := hashPassword(*req.Password)
		mutated.PublicPassword = &hashed
	}

	mutated.ExpiresAt = nil
	if req.ExpiryDays != nil {
		expires := now.AddDate(0, 0, *req.ExpiryDays)
		mutated.ExpiresAt = &expires
	}

	return s.commit(ctx, pre, mutated, models.ChangePublish, event.EventRateCardPublished)
}

// Archive soft-deletes the card and withdraws its public link. An archived
// card no longer counts against the owner's quota.
func (s *RateCardService) Archive(ctx context.Context, id uuid.UUID) (*models.RateCard, error) {
	pre, err := s.catalogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pre.Status == models.StatusArchived {
		return nil, fmt.Errorf("rate card %s is already archived: %w", id, models.ErrConflict)
	}

	mutated := cloneCard(pre)
	mutated.Status = models.StatusArchived
	mutated.IsPublic = false

	return s.commit(ctx, pre, mutated, models.ChangeArchive, event.EventRateCardArchived)
}

// ============================================================================
// HISTORY
// ============================================================================

// GetHistory pages the snapshot log, newest version first.
func (s *RateCardService) GetHistory(ctx context.Context, id uuid.UUID, page int) (*models.HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if _, err := s.catalogs.GetByID(ctx, id); err != nil {
		return nil, err
	}

	total, err := s.history.CountByRateCard(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count history for rate card %s: %w", id, err)
	}
	items, err := s.history.ListByRateCard(ctx, id, historyPageSize, (page-1)*historyPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list history for rate card %s: %w", id, err)
	}

	return &models.HistoryPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: historyPageSize,
	}, nil
}

// Restore copies a historical snapshot's catalog content forward as a brand
// new version. The restore itself snapshots the current state first, so it is
// always reversible, and restoring the same snapshot twice yields two
// identical-content versions.
func (s *RateCardService) Restore(ctx context.Context, id, historyID uuid.UUID) (*models.RateCard, error) {
	pre, err := s.catalogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.history.GetByID(ctx, historyID)
	if err != nil {
		return nil, err
	}
	if snapshot.RateCardID != id {
		return nil, fmt.Errorf("history entry %s does not belong to rate card %s: %w", historyID, id, models.ErrNotFound)
	}

	content := models.CatalogSnapshot(snapshot.Snapshot)
	mutated := cloneCard(pre)
	mutated.Metrics = models.MetricsDoc(content.Metrics)
	mutated.Rates = models.RatesDoc(content.Rates)
	mutated.Packages = models.PackagesDoc(content.Packages)
	mutated.Terms = content.Terms

	return s.commit(ctx, pre, mutated, models.ChangeRestore, event.EventRateCardRestored)
}

// ============================================================================
// COMMIT PIPELINE
// ============================================================================

// commit runs the atomic snapshot+mutate+increment write, then invalidates
// derived cache entries and emits the lifecycle event. Invalidation and event
// failures are logged, never surfaced: the committed version is the truth.
func (s *RateCardService) commit(ctx context.Context, pre, mutated *models.RateCard, changeType models.ChangeType, eventType event.EventType) (*models.RateCard, error) {
	mutated.UpdatedAt = s.now().UTC()
	if err := s.catalogs.CommitMutation(ctx, pre, mutated, changeType); err != nil {
		return nil, err
	}

	s.invalidate(ctx, mutated, pre)
	s.publish(ctx, eventType, mutated, changeType)

	slog.Info("Rate card mutation committed",
		"rate_card_id", mutated.ID, "change_type", changeType, "version", mutated.CurrentVersion)
	return mutated, nil
}

// invalidate drops every derived cache entry for the card after a commit. The
// advisory fingerprint cache is deliberately untouched: it keys on input
// metrics, not catalog state, and expires by TTL alone.
func (s *RateCardService) invalidate(ctx context.Context, card, pre *models.RateCard) {
	if s.cache == nil {
		return
	}

	keys := []string{cache.CatalogKey(card.ID)}
	if card.PublicID != nil {
		keys = append(keys, cache.PublicKey(*card.PublicID))
	}
	if pre != nil && pre.PublicID != nil && (card.PublicID == nil || *pre.PublicID != *card.PublicID) {
		keys = append(keys, cache.PublicKey(*pre.PublicID))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		slog.Warn("Cache invalidation failed", "rate_card_id", card.ID, "error", err)
	}
	if err := s.cache.DeleteByPrefix(ctx, cache.OwnerListPrefix(card.OwnerID)); err != nil {
		slog.Warn("Owner list invalidation failed", "owner_id", card.OwnerID, "error", err)
	}
}

func (s *RateCardService) publish(ctx context.Context, eventType event.EventType, card *models.RateCard, changeType models.ChangeType) {
	if s.events == nil {
		return
	}
	ev := event.RateCardEvent{
		Type:       eventType,
		RateCardID: card.ID,
		OwnerID:    card.OwnerID,
		Version:    card.CurrentVersion,
		ChangeType: string(changeType),
		OccurredAt: s.now().UTC(),
	}
	if err := s.events.PublishEvent(ctx, ev); err != nil {
		slog.Warn("Event publish failed", "rate_card_id", card.ID, "type", eventType, "error", err)
	}
}

// ============================================================================
// HELPERS
// ============================================================================

// cloneCard deep-copies the mutable documents so a mutation never aliases the
// pre-image handed to CommitMutation.
func cloneCard(card *models.RateCard) *models.RateCard {
	copied := *card

	copied.Metrics.Platforms = append([]models.PlatformMetric(nil), card.Metrics.Platforms...)
	copied.Metrics.Languages = append([]string(nil), card.Metrics.Languages...)

	copied.Rates = make(models.RatesDoc, len(card.Rates))
	for i, pr := range card.Rates {
		copied.Rates[i] = models.PlatformRates{
			Platform: pr.Platform,
			Items:    append([]models.DeliverableRate(nil), pr.Items...),
		}
	}

	copied.Packages = make(models.PackagesDoc, len(card.Packages))
	for i, pkg := range card.Packages {
		pkg.Items = append([]models.PackageItem(nil), pkg.Items...)
		copied.Packages[i] = pkg
	}

	return &copied
}

func newPublicID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
