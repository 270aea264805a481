package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"ratecard-service/internal/advisory"
	"ratecard-service/internal/cache"
	"ratecard-service/internal/models"
	"ratecard-service/internal/pricing"
)

// Confidence scores attached to a priced catalog depending on whether the
// advisory service contributed.
const (
	ConfidenceAdvisory = 90
	ConfidenceFallback = 70
)

const fallbackInsights = "Prices were derived from the local market model using follower counts, engagement, niche, location and experience. Advisory enrichment was unavailable for this pricing run."

// PricedCatalog is the outcome of a full pricing run: one rate per deliverable
// in the universe for each platform the creator is on, plus starter packages.
type PricedCatalog struct {
	Rates          []models.PlatformRates
	Packages       []models.Package
	MarketInsights string
	Confidence     int
}

// PricingEngine composes the deterministic market model with the optional
// advisory client. Advisory failure is absorbed: the engine always returns a
// fully priced catalog, it only degrades confidence.
type PricingEngine struct {
	advisor  advisory.Client
	cache    cache.Store
	cacheTTL time.Duration
}

func NewPricingEngine(advisor advisory.Client, cacheStore cache.Store, cacheTTL time.Duration) *PricingEngine {
	return &PricingEngine{
		advisor:  advisor,
		cache:    cacheStore,
		cacheTTL: cacheTTL,
	}
}

// ExpectedRanges computes the local band for every deliverable in the universe
// of each platform present in the metrics. The table anchors the advisory
// prompt and doubles as the parse allow-list.
func ExpectedRanges(metrics models.CreatorMetrics) advisory.RangeTable {
	ranges := make(advisory.RangeTable, len(metrics.Platforms))
	for _, pm := range metrics.Platforms {
		types := pricing.DeliverableUniverse[pm.Platform]
		if len(types) == 0 {
			continue
		}
		in := priceInput(metrics, pm)
		byType := make(map[models.DeliverableType]pricing.Band, len(types))
		for _, t := range types {
			byType[t] = pricing.BandFor(pricing.CalculatePrice(in, pm.Platform, t))
		}
		ranges[pm.Platform] = byType
	}
	return ranges
}

// PriceCatalog prices every deliverable for the given metrics. Rate order is
// stable: platforms in metrics order, deliverables in universe order, so the
// same inputs always produce the same catalog.
func (e *PricingEngine) PriceCatalog(ctx context.Context, metrics models.CreatorMetrics) *PricedCatalog {
	ranges := ExpectedRanges(metrics)

	result := e.advisoryResult(ctx, metrics, ranges)

	catalog := &PricedCatalog{
		Confidence:     ConfidenceFallback,
		MarketInsights: fallbackInsights,
	}
	if result != nil {
		catalog.Confidence = ConfidenceAdvisory
		if result.MarketInsights != "" {
			catalog.MarketInsights = result.MarketInsights
		}
	}

	for _, pm := range metrics.Platforms {
		types := pricing.DeliverableUniverse[pm.Platform]
		if len(types) == 0 {
			continue
		}
		in := priceInput(metrics, pm)
		pr := models.PlatformRates{Platform: pm.Platform}
		for _, t := range types {
			calculated := pricing.CalculatePrice(in, pm.Platform, t)
			band := pricing.BandFor(calculated)

			rate := models.DeliverableRate{
				Platform:          pm.Platform,
				Type:              t,
				ChosenPrice:       calculated,
				Turnaround:        defaultTurnaround(t),
				RevisionsIncluded: 1,
			}
			if result != nil {
				if suggestion, ok := result.Rates[pm.Platform][t]; ok {
					suggested := suggestion.Suggested
					rate.AdvisorySuggested = &suggested
					rate.ChosenPrice = suggested
				}
			}
			rate.MarketPosition = pricing.ClassifyPosition(rate.ChosenPrice, band)
			pr.Items = append(pr.Items, rate)
		}
		catalog.Rates = append(catalog.Rates, pr)
	}

	if result != nil && len(result.Packages) > 0 {
		catalog.Packages = advisoryPackages(result.Packages, catalog.Rates)
	}
	if len(catalog.Packages) == 0 {
		catalog.Packages = fallbackPackages(catalog.Rates)
	}

	return catalog
}

// advisoryResult returns a validated advisory result or nil. It consults the
// fingerprint cache first; a live result is cached for the configured TTL and
// never invalidated by catalog mutations.
func (e *PricingEngine) advisoryResult(ctx context.Context, metrics models.CreatorMetrics, ranges advisory.RangeTable) *advisory.Result {
	if e.advisor == nil {
		return nil
	}

	key := cache.AdvisoryKey(cache.MetricsFingerprint(metrics))
	if e.cache != nil {
		if raw, err := e.cache.Get(ctx, key); err == nil {
			var cached advisory.Result
			if err := json.Unmarshal(raw, &cached); err == nil && len(cached.Rates) > 0 {
				slog.Info("Advisory cache hit", "key", key)
				return &cached
			}
			slog.Warn("Discarding unreadable advisory cache entry", "key", key)
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			slog.Warn("Advisory cache read failed", "key", key, "error", err)
		}
	}

	result, err := e.advisor.Suggest(ctx, metrics, ranges)
	if err != nil {
		slog.Warn("Advisory unavailable, pricing from local model", "error", err)
		return nil
	}

	if e.cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			if err := e.cache.Set(ctx, key, raw, e.cacheTTL); err != nil {
				slog.Warn("Advisory cache write failed", "key", key, "error", err)
			}
		}
	}
	return result
}

func priceInput(metrics models.CreatorMetrics, pm models.PlatformMetric) pricing.PriceInput {
	return pricing.PriceInput{
		Followers:      pm.Followers,
		EngagementRate: pm.EngagementRate,
		Niche:          metrics.Niche,
		CityTier:       metrics.Location.CityTier,
		Experience:     metrics.Experience,
	}
}

func defaultTurnaround(t models.DeliverableType) models.Turnaround {
	switch t {
	case models.DeliverableStory:
		return models.Turnaround{Value: 2, Unit: "days"}
	case models.DeliverableVideo, models.DeliverableIntegration:
		return models.Turnaround{Value: 7, Unit: "days"}
	default:
		return models.Turnaround{Value: 5, Unit: "days"}
	}
}

// advisoryPackages converts validated package suggestions into catalog
// packages, pricing their individual totals against the freshly built rates.
func advisoryPackages(suggestions []advisory.SuggestedPackage, rates []models.PlatformRates) []models.Package {
	packages := make([]models.Package, 0, len(suggestions))
	for _, s := range suggestions {
		pkg := assemblePackage(s.Name, s.Items, s.Price, rates)
		packages = append(packages, pkg)
	}
	return packages
}

// fallbackPackages builds the deterministic starter bundles used when the
// advisory service contributed none: three tiers built from the priced
// deliverables at increasing discounts.
func fallbackPackages(rates []models.PlatformRates) []models.Package {
	var flat []models.DeliverableRate
	for _, pr := range rates {
		flat = append(flat, pr.Items...)
	}
	if len(flat) == 0 {
		return nil
	}

	packages := []models.Package{
		discountedPackage("Starter", []models.PackageItem{
			{Platform: flat[0].Platform, DeliverableType: flat[0].Type, Quantity: 2},
		}, 0.90, rates),
	}

	if len(flat) > 1 {
		packages = append(packages, discountedPackage("Growth", []models.PackageItem{
			{Platform: flat[0].Platform, DeliverableType: flat[0].Type, Quantity: 2},
			{Platform: flat[1].Platform, DeliverableType: flat[1].Type, Quantity: 2},
		}, 0.88, rates))
	}

	premiumItems := make([]models.PackageItem, 0, len(flat))
	for _, r := range flat {
		premiumItems = append(premiumItems, models.PackageItem{
			Platform:        r.Platform,
			DeliverableType: r.Type,
			Quantity:        1,
		})
	}
	packages = append(packages, discountedPackage("Premium", premiumItems, 0.85, rates))

	return packages
}

func discountedPackage(name string, items []models.PackageItem, priceFactor float64, rates []models.PlatformRates) models.Package {
	total, incomplete := individualTotal(items, rates)
	price := roundPrice(float64(total) * priceFactor)
	pkg := assemblePackage(name, items, price, rates)
	pkg.Incomplete = incomplete
	return pkg
}
