// Package pricing implements the deterministic market model used to price
// creator deliverables: tiered base rates, audience multipliers, floor
// overrides for large audiences, and market-band classification. Everything in
// this package is pure computation over its inputs.
package pricing

import (
	"math"
	"time"

	"ratecard-service/internal/models"
)

// DefaultBaseRate is returned for platform/type combinations missing from the
// base-rate table, in currency units per 1,000 followers.
const DefaultBaseRate int64 = 10000

// ============================================================================
// FOLLOWER BRACKETS
// ============================================================================

type FollowerBracket int

const (
	BracketNano  FollowerBracket = iota // < 10k
	BracketMicro                        // 10k - 50k
	BracketMid                          // 50k - 100k
	BracketMacro                        // 100k - 500k
	BracketMega                         // 500k - 1M
	BracketCeleb                        // >= 1M
)

func BracketFor(followers int64) FollowerBracket {
	switch {
	case followers < 10_000:
		return BracketNano
	case followers < 50_000:
		return BracketMicro
	case followers < 100_000:
		return BracketMid
	case followers < 500_000:
		return BracketMacro
	case followers < 1_000_000:
		return BracketMega
	default:
		return BracketCeleb
	}
}

// ============================================================================
// DELIVERABLE UNIVERSE
// ============================================================================

// DeliverableUniverse defines every platform/type combination the engine
// prices. Advisory responses mentioning combinations outside this table are
// dropped, never trusted as new catalog entries.
var DeliverableUniverse = map[models.Platform][]models.DeliverableType{
	models.PlatformInstagram: {
		models.DeliverableReel,
		models.DeliverablePost,
		models.DeliverableStory,
		models.DeliverableCarousel,
	},
	models.PlatformYouTube: {
		models.DeliverableVideo,
		models.DeliverableShort,
		models.DeliverableIntegration,
	},
	models.PlatformTikTok: {
		models.DeliverableVideo,
	},
	models.PlatformTwitter: {
		models.DeliverablePost,
		models.DeliverableThread,
	},
}

// InUniverse reports whether the platform/type pair is a known deliverable.
func InUniverse(p models.Platform, t models.DeliverableType) bool {
	for _, known := range DeliverableUniverse[p] {
		if known == t {
			return true
		}
	}
	return false
}

// ============================================================================
// BASE RATES (currency units per 1,000 followers, by bracket)
// ============================================================================

var baseRates = map[models.Platform]map[models.DeliverableType][6]int64{
	models.PlatformInstagram: {
		models.DeliverableReel:     {150, 180, 210, 250, 300, 350},
		models.DeliverablePost:     {120, 140, 170, 200, 240, 280},
		models.DeliverableStory:    {60, 70, 85, 100, 120, 140},
		models.DeliverableCarousel: {130, 155, 185, 220, 260, 300},
	},
	models.PlatformYouTube: {
		models.DeliverableVideo:       {400, 480, 560, 650, 750, 900},
		models.DeliverableShort:       {180, 210, 250, 300, 350, 420},
		models.DeliverableIntegration: {250, 300, 350, 420, 500, 600},
	},
	models.PlatformTikTok: {
		models.DeliverableVideo: {130, 160, 190, 230, 270, 320},
	},
	models.PlatformTwitter: {
		models.DeliverablePost:   {80, 95, 110, 130, 155, 185},
		models.DeliverableThread: {110, 130, 155, 185, 220, 260},
	},
}

// BaseRate looks up the tiered base rate; undefined combinations fall back to
// DefaultBaseRate.
func BaseRate(followers int64, platform models.Platform, deliverableType models.DeliverableType) int64 {
	types, ok := baseRates[platform]
	if !ok {
		return DefaultBaseRate
	}
	rates, ok := types[deliverableType]
	if !ok {
		return DefaultBaseRate
	}
	return rates[BracketFor(followers)]
}

// ============================================================================
// FLOOR TABLES
// ============================================================================

// Floor thresholds. Above each threshold the multiplicative model is known to
// under-price large audiences, so the floor replaces the calculated price via
// max(), never an average.
const (
	MacroFloorThreshold int64 = 100_000
	MegaFloorThreshold  int64 = 1_000_000
)

var macroFloors = map[models.Platform]map[models.DeliverableType]int64{
	models.PlatformInstagram: {
		models.DeliverableReel:     45_000,
		models.DeliverablePost:     35_000,
		models.DeliverableStory:    15_000,
		models.DeliverableCarousel: 40_000,
	},
	models.PlatformYouTube: {
		models.DeliverableVideo:       120_000,
		models.DeliverableShort:       50_000,
		models.DeliverableIntegration: 80_000,
	},
	models.PlatformTikTok: {
		models.DeliverableVideo: 40_000,
	},
	models.PlatformTwitter: {
		models.DeliverablePost:   20_000,
		models.DeliverableThread: 30_000,
	},
}

var megaFloors = map[models.Platform]map[models.DeliverableType]int64{
	models.PlatformInstagram: {
		models.DeliverableReel:     150_000,
		models.DeliverablePost:     120_000,
		models.DeliverableStory:    50_000,
		models.DeliverableCarousel: 140_000,
	},
	models.PlatformYouTube: {
		models.DeliverableVideo:       400_000,
		models.DeliverableShort:       180_000,
		models.DeliverableIntegration: 280_000,
	},
	models.PlatformTikTok: {
		models.DeliverableVideo: 140_000,
	},
	models.PlatformTwitter: {
		models.DeliverablePost:   70_000,
		models.DeliverableThread: 100_000,
	},
}

// MacroFloor returns the >100k floor for the combination, 0 when undefined.
func MacroFloor(platform models.Platform, deliverableType models.DeliverableType) int64 {
	return macroFloors[platform][deliverableType]
}

// MegaFloor returns the >1M floor for the combination, 0 when undefined.
func MegaFloor(platform models.Platform, deliverableType models.DeliverableType) int64 {
	return megaFloors[platform][deliverableType]
}

// ============================================================================
// MULTIPLIERS
// ============================================================================

var nicheMultipliers = map[string]float64{
	"finance":   1.4,
	"tech":      1.3,
	"beauty":    1.2,
	"gaming":    1.2,
	"fashion":   1.15,
	"travel":    1.15,
	"fitness":   1.1,
	"education": 1.1,
	"food":      1.05,
	"lifestyle": 1.0,
}

// NicheMultiplier is total: unknown niches price at 1.0.
func NicheMultiplier(niche string) float64 {
	if m, ok := nicheMultipliers[niche]; ok {
		return m
	}
	return 1.0
}

var cityTierMultipliers = map[models.CityTier]float64{
	models.CityTierMetro: 1.2,
	models.CityTier1:     1.0,
	models.CityTier2:     0.85,
	models.CityTier3:     0.7,
}

func CityTierMultiplier(tier models.CityTier) float64 {
	if m, ok := cityTierMultipliers[tier]; ok {
		return m
	}
	return 1.0
}

// EngagementMultiplier is a step function increasing with engagement rate,
// never below 0.85.
func EngagementMultiplier(rate float64) float64 {
	switch {
	case rate < 1:
		return 0.85
	case rate < 2:
		return 0.95
	case rate < 4:
		return 1.0
	case rate < 6:
		return 1.1
	case rate < 8:
		return 1.2
	default:
		return 1.3
	}
}

var experienceMultipliers = map[models.ExperienceLevel]float64{
	models.ExperienceBeginner: 0.9,
	models.Experience1To2Y:    1.0,
	models.Experience2To5Y:    1.1,
	models.Experience5PlusY:   1.2,
}

func ExperienceMultiplier(exp models.ExperienceLevel) float64 {
	if m, ok := experienceMultipliers[exp]; ok {
		return m
	}
	return 1.0
}

// seasonalMonths is the festive quarter where brand budgets peak.
var seasonalMonths = map[time.Month]bool{
	time.October:  true,
	time.November: true,
	time.December: true,
}

func SeasonalMultiplier(month time.Month) float64 {
	if seasonalMonths[month] {
		return 1.15
	}
	return 1.0
}

// ============================================================================
// PRICE CALCULATION
// ============================================================================

// PriceInput bundles the creator attributes the model prices against.
type PriceInput struct {
	Followers      int64
	EngagementRate float64
	Niche          string
	CityTier       models.CityTier
	Experience     models.ExperienceLevel
}

// CalculatePrice computes the deterministic local price for one deliverable:
// round(followers/1000 × base × multipliers) with the floor override applied
// above the macro and mega follower thresholds.
func CalculatePrice(in PriceInput, platform models.Platform, deliverableType models.DeliverableType) int64 {
	base := BaseRate(in.Followers, platform, deliverableType)

	multiplier := NicheMultiplier(in.Niche) *
		CityTierMultiplier(in.CityTier) *
		EngagementMultiplier(in.EngagementRate) *
		ExperienceMultiplier(in.Experience)

	calculated := int64(math.Round(float64(in.Followers) / 1000.0 * float64(base) * multiplier))

	if in.Followers > MegaFloorThreshold {
		if floor := MegaFloor(platform, deliverableType); floor > calculated {
			calculated = floor
		}
	} else if in.Followers > MacroFloorThreshold {
		if floor := MacroFloor(platform, deliverableType); floor > calculated {
			calculated = floor
		}
	}

	return calculated
}

// CalculateSeasonalPrice applies the fixed seasonal month set on top of the
// base calculation. Floors still dominate the result.
func CalculateSeasonalPrice(in PriceInput, platform models.Platform, deliverableType models.DeliverableType, month time.Month) int64 {
	price := int64(math.Round(float64(CalculatePrice(in, platform, deliverableType)) * SeasonalMultiplier(month)))
	if in.Followers > MegaFloorThreshold {
		if floor := MegaFloor(platform, deliverableType); floor > price {
			price = floor
		}
	} else if in.Followers > MacroFloorThreshold {
		if floor := MacroFloor(platform, deliverableType); floor > price {
			price = floor
		}
	}
	return price
}

// ============================================================================
// MARKET BAND
// ============================================================================

// Band is the range around a calculated price used to classify a chosen price.
type Band struct {
	Min        int64 `json:"min"`
	Max        int64 `json:"max"`
	Calculated int64 `json:"calculated"`
}

// BandFor centers the band on the calculated price: [0.8x, 1.2x].
func BandFor(calculated int64) Band {
	return Band{
		Min:        int64(math.Round(float64(calculated) * 0.8)),
		Max:        int64(math.Round(float64(calculated) * 1.2)),
		Calculated: calculated,
	}
}

// ClassifyPosition places a chosen price within the band. A degenerate band
// (min == max) always classifies at_market.
func ClassifyPosition(chosen int64, band Band) models.MarketPosition {
	if band.Min == band.Max {
		return models.PositionAtMarket
	}

	position := float64(chosen-band.Min) / float64(band.Max-band.Min)
	switch {
	case position < 0.3:
		return models.PositionBelowMarket
	case position < 0.7:
		return models.PositionAtMarket
	case position < 0.9:
		return models.PositionAboveMarket
	default:
		return models.PositionPremium
	}
}
