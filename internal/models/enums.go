package models

// ============================================================================
// PLATFORMS & DELIVERABLES
// ============================================================================

type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
	PlatformTwitter   Platform = "twitter"
)

type DeliverableType string

const (
	DeliverableReel        DeliverableType = "reel"
	DeliverablePost        DeliverableType = "post"
	DeliverableStory       DeliverableType = "story"
	DeliverableCarousel    DeliverableType = "carousel"
	DeliverableVideo       DeliverableType = "video"
	DeliverableShort       DeliverableType = "short"
	DeliverableIntegration DeliverableType = "integration"
	DeliverableThread      DeliverableType = "thread"
)

// ============================================================================
// CREATOR ATTRIBUTES
// ============================================================================

type CityTier string

const (
	CityTierMetro CityTier = "metro"
	CityTier1     CityTier = "tier1"
	CityTier2     CityTier = "tier2"
	CityTier3     CityTier = "tier3"
)

type ExperienceLevel string

const (
	ExperienceBeginner ExperienceLevel = "beginner"
	Experience1To2Y    ExperienceLevel = "1-2y"
	Experience2To5Y    ExperienceLevel = "2-5y"
	Experience5PlusY   ExperienceLevel = "5+y"
)

// ============================================================================
// MARKET POSITION
// ============================================================================

type MarketPosition string

const (
	PositionBelowMarket MarketPosition = "below_market"
	PositionAtMarket    MarketPosition = "at_market"
	PositionAboveMarket MarketPosition = "above_market"
	PositionPremium     MarketPosition = "premium"
)

// ============================================================================
// CATALOG LIFECYCLE
// ============================================================================

type RateCardStatus string

const (
	StatusDraft    RateCardStatus = "draft"
	StatusActive   RateCardStatus = "active"
	StatusArchived RateCardStatus = "archived"
	// StatusExpired is derived from expires_at at read time and never stored.
	StatusExpired RateCardStatus = "expired"
)

type ChangeType string

const (
	ChangeCreated       ChangeType = "created"
	ChangeMetricsUpdate ChangeType = "metrics_update"
	ChangeRatesUpdate   ChangeType = "rates_update"
	ChangePackageAdd    ChangeType = "package_add"
	ChangePackageUpdate ChangeType = "package_update"
	ChangePackageDelete ChangeType = "package_delete"
	ChangeTermsUpdate   ChangeType = "terms_update"
	ChangePublish       ChangeType = "publish"
	ChangeArchive       ChangeType = "archive"
	ChangeRestore       ChangeType = "restore"
)

// ============================================================================
// SUBSCRIPTION TIERS
// ============================================================================

type SubscriptionTier string

const (
	TierFree       SubscriptionTier = "free"
	TierStarter    SubscriptionTier = "starter"
	TierPro        SubscriptionTier = "pro"
	TierEnterprise SubscriptionTier = "enterprise"
)

func IsValidCityTier(tier CityTier) bool {
	switch tier {
	case CityTierMetro, CityTier1, CityTier2, CityTier3:
		return true
	default:
		return false
	}
}

func IsValidExperience(exp ExperienceLevel) bool {
	switch exp {
	case ExperienceBeginner, Experience1To2Y, Experience2To5Y, Experience5PlusY:
		return true
	default:
		return false
	}
}

func IsValidPlatform(p Platform) bool {
	switch p {
	case PlatformInstagram, PlatformYouTube, PlatformTikTok, PlatformTwitter:
		return true
	default:
		return false
	}
}

func IsValidStatusFilter(status string) bool {
	switch status {
	case "", string(StatusDraft), string(StatusActive), string(StatusArchived):
		return true
	default:
		return false
	}
}
