package services

import (
	"context"
	"testing"

	"ratecard-service/internal/cache"
	"ratecard-service/internal/event"
	"ratecard-service/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST SUITE 1: CREATION AND QUOTA
// ============================================================================

func TestCreateRateCard_FallbackPricing(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	card, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())

	require.NoError(t, err)
	assert.Equal(t, 1, card.CurrentVersion)
	assert.Equal(t, models.StatusDraft, card.Status)
	assert.Equal(t, ConfidenceFallback, card.Confidence, "no advisory means fallback confidence")
	assert.False(t, card.IsPublic)

	require.Len(t, card.Rates, 1)
	assert.Equal(t, models.PlatformInstagram, card.Rates[0].Platform)
	assert.Len(t, card.Rates[0].Items, 4, "every instagram deliverable gets a rate")
	for _, rate := range card.Rates[0].Items {
		assert.Positive(t, rate.ChosenPrice)
		assert.Nil(t, rate.AdvisorySuggested)
		assert.Equal(t, models.PositionAtMarket, rate.MarketPosition,
			"an untouched calculated price sits at market by construction")
	}

	require.Len(t, card.Packages, 3, "fallback generates the three default bundles")
	assert.Equal(t, "Starter", card.Packages[0].Name)
	assert.Equal(t, "Growth", card.Packages[1].Name)
	assert.Equal(t, "Premium", card.Packages[2].Name)
	for _, pkg := range card.Packages {
		assert.Positive(t, pkg.Savings.Amount, "default bundles are always discounted")
		assert.Less(t, pkg.PackagePrice, pkg.IndividualTotal)
	}

	total, err := (&fakeHistory{store: fx.store}).CountByRateCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Zero(t, total, "creation writes no history entry")
}

func TestCreateRateCard_QuotaEnforcedAndFreedByArchive(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	first, err := fx.service.CreateRateCard(ctx, "user-1", models.TierFree, testCreateRequest())
	require.NoError(t, err)

	_, err = fx.service.CreateRateCard(ctx, "user-1", models.TierFree, testCreateRequest())
	assert.ErrorIs(t, err, models.ErrQuotaExceeded, "free tier caps at one active card")

	_, err = fx.service.Archive(ctx, first.ID)
	require.NoError(t, err)

	_, err = fx.service.CreateRateCard(ctx, "user-1", models.TierFree, testCreateRequest())
	assert.NoError(t, err, "archiving frees the quota slot")
}

func TestCreateRateCard_UnlimitedTier(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	for range 5 {
		_, err := fx.service.CreateRateCard(ctx, "user-1", models.TierEnterprise, testCreateRequest())
		require.NoError(t, err)
	}
}

func TestCreateRateCard_InvalidMetricsRejected(t *testing.T) {
	fx := newFixture(nil)

	req := testCreateRequest()
	req.Metrics.Niche = ""

	_, err := fx.service.CreateRateCard(context.Background(), "user-1", models.TierPro, req)

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "metrics.niche", validationErr.Field)
}

// ============================================================================
// TEST SUITE 2: VERSIONING
// ============================================================================

func TestMutations_VersionGrowsWithHistory(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	card, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())
	require.NoError(t, err)

	mutations := []string{"First terms", "Second terms", "Third terms"}
	for _, terms := range mutations {
		card, err = fx.service.UpdateTerms(ctx, card.ID, models.UpdateTermsRequest{Terms: terms})
		require.NoError(t, err)
	}

	assert.Equal(t, 1+len(mutations), card.CurrentVersion,
		"a fresh card after N mutations is at version 1+N")

	page, err := fx.service.GetHistory(ctx, card.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, len(mutations), page.Total, "history holds exactly N snapshots")
	require.Len(t, page.Items, len(mutations))
	assert.Equal(t, 3, page.Items[0].Version, "history reads newest version first")
	assert.Equal(t, "Second terms", page.Items[0].Snapshot.Terms,
		"each snapshot captures the state the mutation replaced")
}

func TestCommit_SurfacesVersionConflict(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	card, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())
	require.NoError(t, err)

	stale := cloneCard(card)
	stale.CurrentVersion = 99

	err = fx.store.CommitMutation(ctx, stale, cloneCard(stale), models.ChangeTermsUpdate)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestCommit_ConcurrentWritersOneWinnerPerVersion(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	card, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())
	require.NoError(t, err)

	// Both writers read the same committed version; exactly one CAS wins.
	pre1 := cloneCard(card)
	pre2 := cloneCard(card)

	mut1 := cloneCard(pre1)
	mut1.Terms = "Writer one"
	mut2 := cloneCard(pre2)
	mut2.Terms = "Writer two"

	err1 := fx.store.CommitMutation(ctx, pre1, mut1, models.ChangeTermsUpdate)
	err2 := fx.store.CommitMutation(ctx, pre2, mut2, models.ChangeTermsUpdate)

	require.NoError(t, err1)
	assert.ErrorIs(t, err2, models.ErrConflict)

	current, err := fx.store.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, current.CurrentVersion)
	assert.Equal(t, "Writer one", current.Terms)
}

func TestGetHistory_Pagination(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	card, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())
	require.NoError(t, err)

	for i := 0; i < 25; i++ {
		card, err = fx.service.UpdateTerms(ctx, card.ID, models.UpdateTermsRequest{Terms: "terms"})
		require.NoError(t, err)
	}

	page1, err := fx.service.GetHistory(ctx, card.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 25, page1.Total)
	assert.Len(t, page1.Items, 20)
	assert.Equal(t, 25, page1.Items[0].Version)

	page2, err := fx.service.GetHistory(ctx, card.ID, 2)
	require.NoError(t, err)
	assert.Len(t, page2.Items, 5)
	assert.Equal(t, 1, page2.Items[4].Version)
}

// ============================================================================
// TEST SUITE 3: RATE UPDATES
// ============================================================================

func TestUpdateRates_ReclassifiesPosition(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	card, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())
	require.NoError(t, err)

	reel, ok := card.RateFor(models.PlatformInstagram, models.DeliverableReel)
	require.True(t, ok)

	lowball := reel.ChosenPrice / 2
	updated, err := fx.service.UpdateRates(ctx, card.ID, models.UpdateRatesRequest{
		Rates: []models.RateUpdate{
			{Platform: models.PlatformInstagram, Type: models.DeliverableReel, ChosenPrice: lowball},
		},
	})
	require.NoError(t, err)

	newReel, ok := updated.RateFor(models.PlatformInstagram, models.DeliverableReel)
	require.True(t, ok)
	assert.Equal(t, lowball, newReel.ChosenPrice)
	assert.Equal(t, models.PositionBelowMarket, newReel.MarketPosition,
		"half the calculated price sits below the band")
	assert.Equal(t, 2, updated.CurrentVersion)
}

func TestUpdateRates_UnknownDeliverableRejected(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	card, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())
	require.NoError(t, err)

	_, err = fx.service.UpdateRates(ctx, card.ID, models.UpdateRatesRequest{
		Rates: []models.RateUpdate{
			{Platform: models.PlatformYouTube, Type: models.DeliverableVideo, ChosenPrice: 1000},
		},
	})

	var validationErr *models.ValidationError
	assert.ErrorAs(t, err, &validationErr, "the creator is not on youtube")
}

// ============================================================================
// TEST SUITE 4: PACKAGES
// ============================================================================

func TestCreatePackage_DuplicateNameConflicts(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	card, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())
	require.NoError(t, err)

	// The fallback bundles already claimed "Starter".
	_, err = fx.service.CreatePackage(ctx, card.ID, models.CreatePackageRequest{
		Name:         "Starter",
		Items:        []models.PackageItem{{Platform: models.PlatformInstagram, DeliverableType: models.DeliverableReel, Quantity: 1}},
		PackagePrice: 1000,
	})
	assert.ErrorIs(t, err, models.ErrConflict)

	// Different case is a different name.
	updated, err := fx.service.CreatePackage(ctx, card.ID, models.CreatePackageRequest{
		Name:         "starter",
		Items:        []models.PackageItem{{Platform: models.PlatformInstagram, DeliverableType: models.DeliverableReel, Quantity: 1}},
		PackagePrice: 1000,
	})
	require.NoError(t, err)
	_, exists := updated.PackageByName("starter")
	assert.True(t, exists)
}

func TestPackage_TotalsFrozenUntilExplicitEdit(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	card, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())
	require.NoError(t, err)

	reel, _ := card.RateFor(models.PlatformInstagram, models.DeliverableReel)
	card, err = fx.service.CreatePackage(ctx, card.ID, models.CreatePackageRequest{
		Name:         "Reel Duo",
		Items:        []models.PackageItem{{Platform: models.PlatformInstagram, DeliverableType: models.DeliverableReel, Quantity: 2}},
		PackagePrice: reel.ChosenPrice,
	})
	require.NoError(t, err)

	idx, _ := card.PackageByName("Reel Duo")
	frozenTotal := card.Packages[idx].IndividualTotal
	assert.Equal(t, 2*reel.ChosenPrice, frozenTotal)

	// Doubling the reel rate must not touch the package economics.
	card, err = fx.service.UpdateRates(ctx, card.ID, models.UpdateRatesRequest{
		Rates: []models.RateUpdate{
			{Platform: models.PlatformInstagram, Type: models.DeliverableReel, ChosenPrice: reel.ChosenPrice * 2},
		},
	})
	require.NoError(t, err)

	idx, _ = card.PackageByName("Reel Duo")
	assert.Equal(t, frozenTotal, card.Packages[idx].IndividualTotal,
		"rate changes never rewrite a frozen package total")

	// An explicit package edit recomputes against current rates.
	card, err = fx.service.UpdatePackage(ctx, card.ID, "Reel Duo", models.UpdatePackageRequest{
		PackagePrice: &reel.ChosenPrice,
	})
	require.NoError(t, err)

	idx, _ = card.PackageByName("Reel Duo")
	assert.Equal(t, 4*reel.ChosenPrice, card.Packages[idx].IndividualTotal)
	assert.Positive(t, card.Packages[idx].Savings.Amount)
}

func TestPackage_IncompleteWhenRateMissing(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	card, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())
	require.NoError(t, err)

	// The creator has no youtube rates, so a youtube item prices at zero.
	card, err = fx.service.CreatePackage(ctx, card.ID, models.CreatePackageRequest{
		Name: "Cross Platform",
		Items: []models.PackageItem{
			{Platform: models.PlatformInstagram, DeliverableType: models.DeliverableReel, Quantity: 1},
			{Platform: models.PlatformYouTube, DeliverableType: models.DeliverableVideo, Quantity: 1},
		},
		PackagePrice: 1000,
	})
	require.NoError(t, err)

	idx, _ := card.PackageByName("Cross Platform")
	pkg := card.Packages[idx]
	assert.True(t, pkg.Incomplete)
	reel, _ := card.RateFor(models.PlatformInstagram, models.DeliverableReel)
	assert.Equal(t, reel.ChosenPrice, pkg.IndividualTotal, "missing items contribute zero")
}

func TestCreatePackage_MarkupCarriesNegativeSavings(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	card, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())
	require.NoError(t, err)

	reel, _ := card.RateFor(models.PlatformInstagram, models.DeliverableReel)
	markup := reel.ChosenPrice + 10_000

	card, err = fx.service.CreatePackage(ctx, card.ID, models.CreatePackageRequest{
		Name:         "Rush Reel",
		Items:        []models.PackageItem{{Platform: models.PlatformInstagram, DeliverableType: models.DeliverableReel, Quantity: 1}},
		PackagePrice: markup,
	})
	require.NoError(t, err)

	idx, _ := card.PackageByName("Rush Reel")
	pkg := card.Packages[idx]
	assert.Equal(t, int64(-10_000), pkg.Savings.Amount,
		"a bundle priced above its individual total reads as a markup")
	assert.Negative(t, pkg.Savings.Percentage)
}

func TestDeletePackage(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	card, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())
	require.NoError(t, err)

	card, err = fx.service.DeletePackage(ctx, card.ID, "Starter")
	require.NoError(t, err)
	_, exists := card.PackageByName("Starter")
	assert.False(t, exists)

	_, err = fx.service.DeletePackage(ctx, card.ID, "Starter")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// ============================================================================
// TEST SUITE 5: PUBLISH AND ARCHIVE
// ============================================================================

func TestPublish_MintsPublicLink(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	card, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())
	require.NoError(t, err)

	password := "secret99"
	days := 30
	published, err := fx.service.Publish(ctx, card.ID, models.PublishRequest{Password: &password, ExpiryDays: &days})
	require.NoError(t, err)

	assert.Equal(t, models.StatusActive, published.Status)
	assert.True(t, published.IsPublic)
	require.NotNil(t, published.PublicID)
	assert.Len(t, *published.PublicID, 12)
	require.NotNil(t, published.PublicPassword)
	assert.NotEqual(t, password, *published.PublicPassword, "the password is never stored in clear")
	require.NotNil(t, published.ExpiresAt)
	require.NotNil(t, published.PublishedAt)

	_, err = fx.service.Publish(ctx, card.ID, models.PublishRequest{})
	assert.ErrorIs(t, err, models.ErrConflict, "re-publishing an active card is a conflict")
}

func TestPublish_RequiresAtLeastOneRate(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	empty := &models.RateCard{
		ID:             uuid.New(),
		OwnerID:        "user-1",
		Title:          "Empty",
		Status:         models.StatusDraft,
		CurrentVersion: 1,
	}
	require.NoError(t, fx.store.Create(ctx, empty))

	_, err := fx.service.Publish(ctx, empty.ID, models.PublishRequest{})

	var validationErr *models.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestPublish_ArchivedCardRejected(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	card, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())
	require.NoError(t, err)
	_, err = fx.service.Publish(ctx, card.ID, models.PublishRequest{})
	require.NoError(t, err)
	_, err = fx.service.Archive(ctx, card.ID)
	require.NoError(t, err)

	_, err = fx.service.Publish(ctx, card.ID, models.PublishRequest{})
	assert.ErrorIs(t, err, models.ErrConflict, "archive is terminal, the card never goes active again")

	current, err := fx.store.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusArchived, current.Status)
	assert.False(t, current.IsPublic)
}

func TestArchive_WithdrawsPublicLink(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	card, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())
	require.NoError(t, err)
	published, err := fx.service.Publish(ctx, card.ID, models.PublishRequest{})
	require.NoError(t, err)

	archived, err := fx.service.Archive(ctx, published.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusArchived, archived.Status)
	assert.False(t, archived.IsPublic)

	_, err = fx.service.Archive(ctx, published.ID)
	assert.ErrorIs(t, err, models.ErrConflict)
}

// ============================================================================
// TEST SUITE 6: RESTORE
// ============================================================================

func TestRestore_BringsBackSnapshotAsNewVersion(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	card, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())
	require.NoError(t, err)

	card, err = fx.service.UpdateTerms(ctx, card.ID, models.UpdateTermsRequest{Terms: "Changed terms"})
	require.NoError(t, err)

	page, err := fx.service.GetHistory(ctx, card.ID, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	v1Snapshot := page.Items[0]

	restored, err := fx.service.Restore(ctx, card.ID, v1Snapshot.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, restored.CurrentVersion, "restore is itself a new version")
	assert.Equal(t, "", restored.Terms, "catalog content returns to the snapshot state")

	// Restoring the same snapshot again produces another version with
	// identical content.
	again, err := fx.service.Restore(ctx, card.ID, v1Snapshot.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, again.CurrentVersion)
	assert.Equal(t, restored.Terms, again.Terms)
	assert.Equal(t, restored.Rates, again.Rates)

	page, err = fx.service.GetHistory(ctx, card.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total, "each restore snapshots the state it replaced")
}

func TestRestore_RoundTripReturnsToPreRestoreState(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	card, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())
	require.NoError(t, err)

	card, err = fx.service.UpdateTerms(ctx, card.ID, models.UpdateTermsRequest{Terms: "Negotiated terms"})
	require.NoError(t, err)
	preRestore := cloneCard(card)

	// Restore the v1 snapshot, moving the catalog away from the current state.
	page, err := fx.service.GetHistory(ctx, card.ID, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	restored, err := fx.service.Restore(ctx, card.ID, page.Items[0].ID)
	require.NoError(t, err)
	require.NotEqual(t, preRestore.Terms, restored.Terms)

	// The restore snapshotted the state it replaced; restoring that snapshot
	// lands back exactly where we were before the first restore.
	page, err = fx.service.GetHistory(ctx, card.ID, 1)
	require.NoError(t, err)
	require.Equal(t, preRestore.CurrentVersion, page.Items[0].Version)
	back, err := fx.service.Restore(ctx, card.ID, page.Items[0].ID)
	require.NoError(t, err)

	assert.Equal(t, preRestore.Metrics, back.Metrics)
	assert.Equal(t, preRestore.Rates, back.Rates)
	assert.Equal(t, preRestore.Packages, back.Packages)
	assert.Equal(t, preRestore.Terms, back.Terms)
}

func TestRestore_ForeignSnapshotRejected(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	cardA, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())
	require.NoError(t, err)
	cardB, err := fx.service.CreateRateCard(ctx, "user-2", models.TierPro, testCreateRequest())
	require.NoError(t, err)

	_, err = fx.service.UpdateTerms(ctx, cardB.ID, models.UpdateTermsRequest{Terms: "B terms"})
	require.NoError(t, err)
	page, err := fx.service.GetHistory(ctx, cardB.ID, 1)
	require.NoError(t, err)

	_, err = fx.service.Restore(ctx, cardA.ID, page.Items[0].ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// ============================================================================
// TEST SUITE 7: CACHE INVALIDATION
// ============================================================================

func TestMutation_InvalidatesDerivedCachesOnly(t *testing.T) {
	advisor := &fakeAdvisor{err: assert.AnError}
	fx := newFixture(advisor)
	ctx := context.Background()

	card, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())
	require.NoError(t, err)

	// Warm the catalog and owner list caches.
	_, err = fx.service.GetRateCard(ctx, card.ID)
	require.NoError(t, err)
	_, err = fx.service.ListRateCards(ctx, "user-1", "")
	require.NoError(t, err)
	assert.Contains(t, fx.cache.Keys(), cache.CatalogKey(card.ID))
	assert.Contains(t, fx.cache.Keys(), cache.OwnerListKey("user-1", ""))

	_, err = fx.service.UpdateTerms(ctx, card.ID, models.UpdateTermsRequest{Terms: "New terms"})
	require.NoError(t, err)

	assert.NotContains(t, fx.cache.Keys(), cache.CatalogKey(card.ID),
		"the catalog entry is dropped after a commit")
	assert.NotContains(t, fx.cache.Keys(), cache.OwnerListKey("user-1", ""),
		"owner list partitions are dropped after a commit")
}

func TestMutation_LeavesAdvisoryFingerprintCacheAlone(t *testing.T) {
	advisor := &fakeAdvisor{result: suggestedResult()}
	fx := newFixture(advisor)
	ctx := context.Background()

	card, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())
	require.NoError(t, err)

	fingerprint := cache.MetricsFingerprint(models.CreatorMetrics(card.Metrics))
	advisoryKey := cache.AdvisoryKey(fingerprint)
	require.Contains(t, fx.cache.Keys(), advisoryKey, "a live advisory result is cached by fingerprint")

	_, err = fx.service.UpdateTerms(ctx, card.ID, models.UpdateTermsRequest{Terms: "New terms"})
	require.NoError(t, err)

	assert.Contains(t, fx.cache.Keys(), advisoryKey,
		"advisory entries expire by TTL, never by catalog mutation")
}

func TestGetRateCard_ServesStaleFreeReads(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	card, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())
	require.NoError(t, err)

	_, err = fx.service.UpdateTerms(ctx, card.ID, models.UpdateTermsRequest{Terms: "Committed terms"})
	require.NoError(t, err)

	fetched, err := fx.service.GetRateCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "Committed terms", fetched.Terms,
		"a read after invalidation reflects the committed version")
}

// ============================================================================
// TEST SUITE 8: LIFECYCLE EVENTS
// ============================================================================

func TestLifecycleEventsEmitted(t *testing.T) {
	fx := newFixture(nil)
	ctx := context.Background()

	card, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())
	require.NoError(t, err)
	_, err = fx.service.UpdateTerms(ctx, card.ID, models.UpdateTermsRequest{Terms: "terms"})
	require.NoError(t, err)
	_, err = fx.service.Publish(ctx, card.ID, models.PublishRequest{})
	require.NoError(t, err)

	events := fx.events.recorded()
	require.Len(t, events, 3)
	assert.Equal(t, event.EventRateCardCreated, events[0].Type)
	assert.Equal(t, event.EventRateCardUpdated, events[1].Type)
	assert.Equal(t, event.EventRateCardPublished, events[2].Type)
	assert.Equal(t, 3, events[2].Version, "events carry the committed version")
	assert.Equal(t, "user-1", events[2].OwnerID)
}
